// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kana

import (
	"slices"
	"strings"
)

// Origin tags the script family a normalized form was derived from.
type Origin uint8

const (
	// OriginKana marks forms derived from kana input.
	OriginKana Origin = iota

	// OriginRomaji marks forms derived from romaji input.
	OriginRomaji
)

// String implements fmt.Stringer.
func (o Origin) String() string {
	if o == OriginRomaji {
		return "romaji"
	}
	return "kana"
}

// Form is a single normalized rendering of a reading or query.
type Form struct {
	// Text is the rendered text.
	Text string

	// Origin is the script family Text was derived from.
	Origin Origin
}

// maxForms bounds the renderings enumerated for one input. Each ambiguous
// syllable multiplies the candidate set so pathological input is cut off
// rather than expanded in full.
const maxForms = 64

// kanaForRomaji maps romaji syllables to their hiragana renderings, most
// conventional first. Syllables with several renderings are the ambiguous
// ones ToKana enumerates.
var kanaForRomaji = map[string][]string{
	"a": {"あ"}, "i": {"い"}, "u": {"う"}, "e": {"え"}, "o": {"お"},
	"ka": {"か"}, "ki": {"き"}, "ku": {"く"}, "ke": {"け"}, "ko": {"こ"},
	"ga": {"が"}, "gi": {"ぎ"}, "gu": {"ぐ"}, "ge": {"げ"}, "go": {"ご"},
	"sa": {"さ"}, "shi": {"し"}, "si": {"し"}, "su": {"す"}, "se": {"せ"}, "so": {"そ"},
	"za": {"ざ"}, "ji": {"じ", "ぢ"}, "zi": {"じ"}, "zu": {"ず", "づ"}, "ze": {"ぜ"}, "zo": {"ぞ"},
	"ta": {"た"}, "chi": {"ち"}, "ti": {"ち", "てぃ"}, "tsu": {"つ"}, "tu": {"つ"}, "te": {"て"}, "to": {"と"},
	"da": {"だ"}, "di": {"ぢ", "でぃ"}, "dzu": {"づ"}, "dji": {"ぢ"}, "du": {"づ"}, "de": {"で"}, "do": {"ど"},
	"na": {"な"}, "ni": {"に"}, "nu": {"ぬ"}, "ne": {"ね"}, "no": {"の"},
	"ha": {"は"}, "hi": {"ひ"}, "fu": {"ふ"}, "hu": {"ふ"}, "he": {"へ"}, "ho": {"ほ"},
	"ba": {"ば"}, "bi": {"び"}, "bu": {"ぶ"}, "be": {"べ"}, "bo": {"ぼ"},
	"pa": {"ぱ"}, "pi": {"ぴ"}, "pu": {"ぷ"}, "pe": {"ぺ"}, "po": {"ぽ"},
	"ma": {"ま"}, "mi": {"み"}, "mu": {"む"}, "me": {"め"}, "mo": {"も"},
	"ya": {"や"}, "yu": {"ゆ"}, "yo": {"よ"},
	"ra": {"ら"}, "ri": {"り"}, "ru": {"る"}, "re": {"れ"}, "ro": {"ろ"},
	"wa": {"わ"}, "wo": {"を"}, "wi": {"うぃ", "ゐ"}, "we": {"うぇ", "ゑ"},
	"vu": {"ゔ"}, "va": {"ゔぁ"}, "vi": {"ゔぃ"}, "ve": {"ゔぇ"}, "vo": {"ゔぉ"},

	"kya": {"きゃ"}, "kyu": {"きゅ"}, "kyo": {"きょ"},
	"gya": {"ぎゃ"}, "gyu": {"ぎゅ"}, "gyo": {"ぎょ"},
	"sha": {"しゃ"}, "shu": {"しゅ"}, "sho": {"しょ"},
	"sya": {"しゃ"}, "syu": {"しゅ"}, "syo": {"しょ"},
	"ja": {"じゃ", "ぢゃ"}, "ju": {"じゅ", "ぢゅ"}, "jo": {"じょ", "ぢょ"},
	"zya": {"じゃ"}, "zyu": {"じゅ"}, "zyo": {"じょ"},
	"cha": {"ちゃ"}, "chu": {"ちゅ"}, "cho": {"ちょ"},
	"tya": {"ちゃ"}, "tyu": {"ちゅ"}, "tyo": {"ちょ"},
	"nya": {"にゃ"}, "nyu": {"にゅ"}, "nyo": {"にょ"},
	"hya": {"ひゃ"}, "hyu": {"ひゅ"}, "hyo": {"ひょ"},
	"bya": {"びゃ"}, "byu": {"びゅ"}, "byo": {"びょ"},
	"pya": {"ぴゃ"}, "pyu": {"ぴゅ"}, "pyo": {"ぴょ"},
	"mya": {"みゃ"}, "myu": {"みゅ"}, "myo": {"みょ"},
	"rya": {"りゃ"}, "ryu": {"りゅ"}, "ryo": {"りょ"},

	"fa": {"ふぁ"}, "fi": {"ふぃ"}, "fe": {"ふぇ"}, "fo": {"ふぉ"},
	"she": {"しぇ"}, "je": {"じぇ"}, "che": {"ちぇ"},
	"tsa": {"つぁ"}, "tsi": {"つぃ"}, "tse": {"つぇ"}, "tso": {"つぉ"},
}

// macrons expands macron vowels to their doubled-vowel spellings, which the
// parser then treats as ambiguous long vowels.
var macrons = strings.NewReplacer(
	"ā", "aa", "ī", "ii", "ū", "uu", "ē", "ee", "ō", "oo",
)

// alt is one way of reading the romaji at a given position.
type alt struct {
	kana string
	n    int // bytes consumed
}

func isConsonant(b byte) bool {
	return b >= 'a' && b <= 'z' && !isRomajiVowel(b)
}

// nextKana returns every way of reading the romaji in s at position i. A nil
// result means s cannot be read as romaji at i.
func nextKana(s string, i int) []alt {
	c := s[i]

	switch {
	case c == '-':
		return []alt{{string(ProlongedSoundMark), 1}}

	case c == 'n':
		if i+1 >= len(s) {
			return []alt{{"ん", 1}}
		}
		switch next := s[i+1]; {
		case next == '\'':
			return []alt{{"ん", 2}}
		case next == 'n':
			// A doubled n is a syllabic ん; it only precedes a further
			// syllable when that syllable starts with a vowel or y.
			if i+2 < len(s) && (isRomajiVowel(s[i+2]) || s[i+2] == 'y') {
				return []alt{{"ん", 1}}
			}
			return []alt{{"ん", 2}}
		case isRomajiVowel(next) || next == 'y':
			// Ambiguous: na-row (or nya-row) syllable, or a syllabic ん
			// followed by an independent vowel.
			alts := syllable(s, i)
			return append(alts, alt{"ん", 1})
		default:
			return []alt{{"ん", 1}}
		}

	case isConsonant(c) && i+1 < len(s) && s[i+1] == c:
		// Doubled consonant marks gemination.
		return []alt{{"っ", 1}}

	case c == 't' && i+2 < len(s) && s[i+1] == 'c' && s[i+2] == 'h':
		// Hepburn writes っち as tchi.
		return []alt{{"っ", 1}}

	case isRomajiVowel(c) && i > 0 && s[i-1] == c:
		// Second half of a doubled vowel. Long o and e have two valid kana
		// spellings.
		switch c {
		case 'o':
			return []alt{{"お", 1}, {"う", 1}}
		case 'e':
			return []alt{{"え", 1}, {"い", 1}}
		}
		return syllable(s, i)
	}

	return syllable(s, i)
}

// syllable matches the longest romaji syllable at position i.
func syllable(s string, i int) []alt {
	for n := 3; n >= 1; n-- {
		if i+n > len(s) {
			continue
		}
		renderings, ok := kanaForRomaji[s[i:i+n]]
		if !ok {
			continue
		}
		alts := make([]alt, 0, len(renderings))
		for _, k := range renderings {
			alts = append(alts, alt{k, n})
		}
		return alts
	}
	return nil
}

// ToKana converts Hepburn-style romaji to hiragana, returning every
// plausible rendering in lexicographic order. Spellings with several valid
// renderings (zu, ji, doubled o or e, n before a vowel, macron vowels) are
// enumerated rather than resolved to one. At most a bounded number of
// renderings is returned. Input that cannot be read as romaji yields nil.
func ToKana(s string) []string {
	s = macrons.Replace(strings.ToLower(strings.TrimSpace(s)))
	if s == "" {
		return nil
	}

	type state struct {
		pos  int
		kana string
	}

	stack := []state{{0, ""}}
	visited := 0
	var out []string
	for len(stack) > 0 && len(out) < maxForms {
		visited++
		if visited > maxForms*maxForms {
			break
		}

		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if st.pos == len(s) {
			out = append(out, st.kana)
			continue
		}
		for _, a := range nextKana(s, st.pos) {
			stack = append(stack, state{st.pos + a.n, st.kana + a.kana})
		}
	}
	if len(out) == 0 {
		return nil
	}

	slices.Sort(out)
	return slices.Compact(out)
}

// Normalize returns the cross-script renderings of a reading or query in
// deterministic order: for kana input its hiragana fold and romaji
// transliteration, and for romaji input every plausible kana rendering. The
// input itself is not echoed back except as its hiragana fold.
func Normalize(s string) []Form {
	var forms []Form
	seen := make(map[string]bool)
	add := func(text string, o Origin) {
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		forms = append(forms, Form{Text: text, Origin: o})
	}

	if ContainsKana(s) {
		folded := KatakanaToHiragana(s)
		add(folded, OriginKana)
		add(ToRomaji(folded), OriginKana)
	}
	if ContainsLatin(s) {
		for _, k := range ToKana(s) {
			add(k, OriginRomaji)
		}
	}

	return forms
}
