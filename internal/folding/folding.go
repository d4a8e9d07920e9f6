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

// Package folding provides the text folding applied to tokens and queries
// before they reach the postings tables.
//
// Transformers returned by this package are stateful and not safe for
// concurrent use. Callers that fold from several goroutines create one
// transformer per goroutine.
package folding

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// KanaFolder folds katakana runes to their hiragana equivalents so that
// readings written in either syllabary compare equal. The prolonged sound
// mark and all other runes are passed through unchanged.
type KanaFolder struct{}

// kanaFoldOffset is the distance between a katakana rune and its hiragana
// counterpart. The fold covers U+30A1 (ァ) through U+30F6 (ヶ).
const (
	kanaFoldOffset = 0x60
	katakanaFirst  = 'ァ'
	katakanaLast   = 'ヶ'
)

// Transform implements [transform.Transformer.Transform].
func (k *KanaFolder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	var nSrc, nDst int
	for nSrc < len(src) {
		c, size := utf8.DecodeRune(src[nSrc:])
		if c == utf8.RuneError && !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}

		if c >= katakanaFirst && c <= katakanaLast {
			c -= kanaFoldOffset
		}

		// NOTE: we cannot use size here because c could be utf8.RuneError in
		// which case size would be 1 but the length of utf8.RuneError is 3.
		if nDst+utf8.RuneLen(c) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], c)
		nSrc += size
	}

	return nDst, nSrc, nil
}

// Reset implements [transform.Transformer.Reset].
func (k *KanaFolder) Reset() {}

// Text returns a transformer that folds character width, case, and
// whitespace. It is applied to kanji spellings, glosses, and queries.
func Text() transform.Transformer {
	return transform.Chain(width.Fold, cases.Fold(), &WhitespaceFolder{})
}

// Reading returns a transformer that folds character width, case, katakana
// to hiragana, and whitespace. It is applied to readings and reading
// queries.
func Reading() transform.Transformer {
	return transform.Chain(width.Fold, cases.Fold(), &KanaFolder{}, &WhitespaceFolder{})
}

// String applies t to s. The input is returned unchanged if it cannot be
// transformed.
func String(t transform.Transformer, s string) string {
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
