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

package index

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ianlewis/go-jiten/jmdict"
)

// Test_addForm tests substring expansion of indexed forms.
func Test_addForm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		forms    []string
		expected map[string]Strength
	}{
		{
			name:     "empty form",
			forms:    []string{""},
			expected: map[string]Strength{},
		},
		{
			name:  "single rune",
			forms: []string{"猫"},
			expected: map[string]Strength{
				"猫": StrengthExact,
			},
		},
		{
			name:  "two runes",
			forms: []string{"ねこ"},
			expected: map[string]Strength{
				"ねこ": StrengthExact,
				"ね":  StrengthPrefix,
				"こ":  StrengthSubstring,
			},
		},
		{
			name:  "four runes",
			forms: []string{"neko"},
			expected: map[string]Strength{
				"neko": StrengthExact,
				"n":    StrengthPrefix,
				"ne":   StrengthPrefix,
				"nek":  StrengthPrefix,
				"e":    StrengthSubstring,
				"ek":   StrengthSubstring,
				"eko":  StrengthSubstring,
				"k":    StrengthSubstring,
				"ko":   StrengthSubstring,
				"o":    StrengthSubstring,
			},
		},
		{
			name:  "strongest strength kept",
			forms: []string{"ねこ", "こ"},
			expected: map[string]Strength{
				"ねこ": StrengthExact,
				"ね":  StrengthPrefix,
				"こ":  StrengthExact,
			},
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got := make(map[string]Strength)
			for _, form := range test.forms {
				addForm(got, form)
			}

			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Fatalf("addForm (-want, +got):\n%s", diff)
			}
		})
	}
}

// Test_splitWords tests gloss word splitting.
func Test_splitWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		gloss    string
		expected []string
	}{
		{
			name:     "empty",
			gloss:    "",
			expected: nil,
		},
		{
			name:     "single word",
			gloss:    "cat",
			expected: []string{"cat"},
		},
		{
			name:     "punctuation",
			gloss:    "fish & chips (fried)",
			expected: []string{"fish", "chips", "fried"},
		},
		{
			name:     "hyphenated",
			gloss:    "t-shirt",
			expected: []string{"t", "shirt"},
		},
		{
			name:     "apostrophe",
			gloss:    "cat's paw",
			expected: []string{"cat", "s", "paw"},
		},
		{
			name:     "numbers kept",
			gloss:    "the 47 ronin",
			expected: []string{"the", "47", "ronin"},
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got := splitWords(test.gloss)
			if diff := cmp.Diff(test.expected, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("splitWords (-want, +got):\n%s", diff)
			}
		})
	}
}

// Test_tokenizer tests full-entry tokenization across all fields.
func Test_tokenizer(t *testing.T) {
	t.Parallel()

	e := &jmdict.Entry{
		ID:       7,
		Seq:      1467640,
		Kanji:    []string{"猫"},
		Readings: []string{"ねこ"},
		Senses: []jmdict.Sense{
			{
				Glosses:       []string{"cat"},
				PartsOfSpeech: []string{"noun (common) (futsuumeishi)"},
			},
		},
	}

	et := newTokenizer().tokenize(e)

	if got, want := et.id, uint32(7); got != want {
		t.Errorf("id: got %d, want %d", got, want)
	}

	expectedKanji := map[string]Strength{
		"猫": StrengthExact,
	}
	if diff := cmp.Diff(expectedKanji, et.fields[fieldSlot(FieldKanji)]); diff != "" {
		t.Errorf("kanji tokens (-want, +got):\n%s", diff)
	}

	// The reading is indexed as written and under its romaji rendering, each
	// with all substrings.
	expectedReading := map[string]Strength{
		"ねこ":   StrengthExact,
		"ね":    StrengthPrefix,
		"こ":    StrengthSubstring,
		"neko": StrengthExact,
		"n":    StrengthPrefix,
		"ne":   StrengthPrefix,
		"nek":  StrengthPrefix,
		"e":    StrengthSubstring,
		"ek":   StrengthSubstring,
		"eko":  StrengthSubstring,
		"k":    StrengthSubstring,
		"ko":   StrengthSubstring,
		"o":    StrengthSubstring,
	}
	if diff := cmp.Diff(expectedReading, et.fields[fieldSlot(FieldReading)]); diff != "" {
		t.Errorf("reading tokens (-want, +got):\n%s", diff)
	}

	// Parts of speech are not searchable; glosses are indexed as whole
	// words only.
	expectedMeaning := map[string]Strength{
		"cat": StrengthExact,
	}
	if diff := cmp.Diff(expectedMeaning, et.fields[fieldSlot(FieldMeaning)]); diff != "" {
		t.Errorf("meaning tokens (-want, +got):\n%s", diff)
	}
}

// Test_tokenizer_katakana tests that katakana readings index as written and
// under their hiragana fold and romaji rendering.
func Test_tokenizer_katakana(t *testing.T) {
	t.Parallel()

	e := &jmdict.Entry{
		ID:       1,
		Seq:      1049180,
		Readings: []string{"コト"},
		Senses: []jmdict.Sense{
			{Glosses: []string{"koto"}},
		},
	}

	et := newTokenizer().tokenize(e)

	expected := map[string]Strength{
		"コト":   StrengthExact,
		"コ":    StrengthPrefix,
		"ト":    StrengthSubstring,
		"こと":   StrengthExact,
		"こ":    StrengthPrefix,
		"と":    StrengthSubstring,
		"koto": StrengthExact,
		"k":    StrengthPrefix,
		"ko":   StrengthPrefix,
		"kot":  StrengthPrefix,
		"o":    StrengthSubstring,
		"ot":   StrengthSubstring,
		"oto":  StrengthSubstring,
		"t":    StrengthSubstring,
		"to":   StrengthSubstring,
	}
	if diff := cmp.Diff(expected, et.fields[fieldSlot(FieldReading)]); diff != "" {
		t.Fatalf("reading tokens (-want, +got):\n%s", diff)
	}
}
