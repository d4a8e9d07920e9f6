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

// Package kana converts Japanese readings between hiragana, katakana, and
// Hepburn-style romaji.
//
// Conversion out of romaji is lossy in reverse: a single romaji spelling can
// correspond to several valid kana renderings (zu may be ず or づ, a doubled
// vowel may be おお or おう, and an n before a vowel may stand alone or begin
// a na-row syllable). ToKana therefore enumerates every plausible rendering
// rather than guessing one.
//
// All functions are pure and safe for concurrent use. Unrecognized runes
// pass through ToRomaji unchanged; input that cannot be read as romaji
// yields no renderings from ToKana.
package kana

import (
	"strings"
	"unicode"
)

// Unicode ranges for the kana syllabaries. The katakana range stops short of
// the prolonged sound mark (U+30FC), which is shared by both syllabaries.
const (
	hiraganaLo = 'ぁ' // ぁ
	hiraganaHi = 'ゖ' // ゖ
	katakanaLo = 'ァ' // ァ
	katakanaHi = 'ヶ' // ヶ

	// ProlongedSoundMark extends the preceding vowel (e.g. コーヒー).
	ProlongedSoundMark = 'ー'
)

// kanaOffset is the distance between a katakana rune and its hiragana
// counterpart.
const kanaOffset = katakanaLo - hiraganaLo

// IsHiragana reports whether r is a hiragana rune.
func IsHiragana(r rune) bool {
	return r >= hiraganaLo && r <= hiraganaHi
}

// IsKatakana reports whether r is a katakana rune, excluding the prolonged
// sound mark.
func IsKatakana(r rune) bool {
	return r >= katakanaLo && r <= katakanaHi
}

// IsKanji reports whether r is a CJK ideograph.
func IsKanji(r rune) bool {
	return (r >= 0x4e00 && r <= 0x9fff) || (r >= 0x3400 && r <= 0x4dbf)
}

// ContainsKana reports whether s contains at least one kana rune.
func ContainsKana(s string) bool {
	for _, r := range s {
		if IsHiragana(r) || IsKatakana(r) || r == ProlongedSoundMark {
			return true
		}
	}
	return false
}

// ContainsLatin reports whether s contains at least one Latin-script rune.
func ContainsLatin(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Latin, r) {
			return true
		}
	}
	return false
}

// KatakanaToHiragana returns s with katakana runes replaced by their
// hiragana equivalents. The prolonged sound mark and all non-katakana runes
// are left untouched.
func KatakanaToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if IsKatakana(r) {
			return r - kanaOffset
		}
		return r
	}, s)
}

// HiraganaToKatakana returns s with hiragana runes replaced by their
// katakana equivalents.
func HiraganaToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if IsHiragana(r) {
			return r + kanaOffset
		}
		return r
	}, s)
}
