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
	"strings"
)

// hepburn maps hiragana syllables to their Hepburn romaji. Two-rune
// digraphs are matched before single runes.
var hepburn = map[string]string{
	"あ": "a", "い": "i", "う": "u", "え": "e", "お": "o",
	"か": "ka", "き": "ki", "く": "ku", "け": "ke", "こ": "ko",
	"が": "ga", "ぎ": "gi", "ぐ": "gu", "げ": "ge", "ご": "go",
	"さ": "sa", "し": "shi", "す": "su", "せ": "se", "そ": "so",
	"ざ": "za", "じ": "ji", "ず": "zu", "ぜ": "ze", "ぞ": "zo",
	"た": "ta", "ち": "chi", "つ": "tsu", "て": "te", "と": "to",
	"だ": "da", "ぢ": "ji", "づ": "zu", "で": "de", "ど": "do",
	"な": "na", "に": "ni", "ぬ": "nu", "ね": "ne", "の": "no",
	"は": "ha", "ひ": "hi", "ふ": "fu", "へ": "he", "ほ": "ho",
	"ば": "ba", "び": "bi", "ぶ": "bu", "べ": "be", "ぼ": "bo",
	"ぱ": "pa", "ぴ": "pi", "ぷ": "pu", "ぺ": "pe", "ぽ": "po",
	"ま": "ma", "み": "mi", "む": "mu", "め": "me", "も": "mo",
	"や": "ya", "ゆ": "yu", "よ": "yo",
	"ら": "ra", "り": "ri", "る": "ru", "れ": "re", "ろ": "ro",
	"わ": "wa", "ゐ": "wi", "ゑ": "we", "を": "wo",
	"ん": "n",
	"ゔ": "vu",

	// Small kana occur standalone in loanword transcriptions.
	"ぁ": "a", "ぃ": "i", "ぅ": "u", "ぇ": "e", "ぉ": "o",
	"ゃ": "ya", "ゅ": "yu", "ょ": "yo", "ゎ": "wa",

	"きゃ": "kya", "きゅ": "kyu", "きょ": "kyo",
	"ぎゃ": "gya", "ぎゅ": "gyu", "ぎょ": "gyo",
	"しゃ": "sha", "しゅ": "shu", "しょ": "sho",
	"じゃ": "ja", "じゅ": "ju", "じょ": "jo",
	"ちゃ": "cha", "ちゅ": "chu", "ちょ": "cho",
	"ぢゃ": "ja", "ぢゅ": "ju", "ぢょ": "jo",
	"にゃ": "nya", "にゅ": "nyu", "にょ": "nyo",
	"ひゃ": "hya", "ひゅ": "hyu", "ひょ": "hyo",
	"びゃ": "bya", "びゅ": "byu", "びょ": "byo",
	"ぴゃ": "pya", "ぴゅ": "pyu", "ぴょ": "pyo",
	"みゃ": "mya", "みゅ": "myu", "みょ": "myo",
	"りゃ": "rya", "りゅ": "ryu", "りょ": "ryo",

	// Extended combinations used by loanword readings.
	"ふぁ": "fa", "ふぃ": "fi", "ふぇ": "fe", "ふぉ": "fo",
	"うぃ": "wi", "うぇ": "we", "うぉ": "wo",
	"ゔぁ": "va", "ゔぃ": "vi", "ゔぇ": "ve", "ゔぉ": "vo",
	"てぃ": "ti", "でぃ": "di", "とぅ": "tu", "どぅ": "du",
	"しぇ": "she", "じぇ": "je", "ちぇ": "che",
	"つぁ": "tsa", "つぃ": "tsi", "つぇ": "tse", "つぉ": "tso",
}

func isRomajiVowel(b byte) bool {
	return b == 'a' || b == 'i' || b == 'u' || b == 'e' || b == 'o'
}

// ToRomaji converts kana in s to Hepburn romaji. Katakana is folded to
// hiragana before conversion, the small tsu doubles the following consonant
// (っち becomes tchi), the prolonged sound mark repeats the previous vowel,
// and ん is written n' before a vowel or y. Runes with no romaji rendering
// pass through unchanged.
func ToRomaji(s string) string {
	rs := []rune(KatakanaToHiragana(s))

	var b strings.Builder
	b.Grow(len(s))

	var lastVowel byte
	geminate := false
	for i := 0; i < len(rs); {
		r := rs[i]

		if r == ProlongedSoundMark {
			if lastVowel != 0 {
				b.WriteByte(lastVowel)
			} else {
				b.WriteRune(r)
			}
			i++
			continue
		}
		if r == 'っ' {
			geminate = true
			i++
			continue
		}

		// Longest match first so digraphs win over their leading rune.
		var syl string
		n := 0
		if i+1 < len(rs) {
			if v, ok := hepburn[string(rs[i:i+2])]; ok {
				syl, n = v, 2
			}
		}
		if n == 0 {
			if v, ok := hepburn[string(rs[i:i+1])]; ok {
				syl, n = v, 1
			}
		}
		if n == 0 {
			// Not kana. A dangling small tsu has nothing to attach to.
			if geminate {
				b.WriteRune('っ')
				geminate = false
			}
			b.WriteRune(r)
			lastVowel = 0
			i++
			continue
		}

		if geminate {
			geminate = false
			if strings.HasPrefix(syl, "ch") {
				b.WriteByte('t')
			} else if !isRomajiVowel(syl[0]) {
				b.WriteByte(syl[0])
			}
		}

		b.WriteString(syl)
		if syl == "n" && i+n < len(rs) {
			if next, ok := hepburn[string(rs[i+n:i+n+1])]; ok {
				if isRomajiVowel(next[0]) || next[0] == 'y' {
					b.WriteByte('\'')
				}
			}
		}

		lastVowel = 0
		for j := len(syl) - 1; j >= 0; j-- {
			if isRomajiVowel(syl[j]) {
				lastVowel = syl[j]
				break
			}
		}
		i += n
	}
	if geminate {
		b.WriteRune('っ')
	}

	return b.String()
}
