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

package index_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ianlewis/go-jiten/index"
	"github.com/ianlewis/go-jiten/internal/testutil"
	"github.com/ianlewis/go-jiten/jmdict"
)

// searchEntries returns the corpus the search tests run against. Entry IDs
// match the positions the parser will assign.
func searchEntries() []*jmdict.Entry {
	return []*jmdict.Entry{
		{
			ID:       1,
			Seq:      1467640,
			Kanji:    []string{"猫"},
			Readings: []string{"ねこ"},
			Senses: []jmdict.Sense{
				{
					Glosses:       []string{"cat"},
					PartsOfSpeech: []string{"noun (common) (futsuumeishi)"},
				},
			},
		},
		{
			ID:       2,
			Seq:      1307090,
			Kanji:    []string{"子猫", "仔猫"},
			Readings: []string{"こねこ"},
			Senses: []jmdict.Sense{
				{Glosses: []string{"kitten", "young cat"}},
			},
		},
		{
			ID:       3,
			Seq:      1166560,
			Kanji:    []string{"犬"},
			Readings: []string{"いぬ"},
			Senses: []jmdict.Sense{
				{Glosses: []string{"dog"}},
			},
		},
		{
			ID:       4,
			Seq:      1049180,
			Readings: []string{"コーヒー"},
			Senses: []jmdict.Sense{
				{Glosses: []string{"coffee"}},
			},
		},
		{
			ID:       5,
			Seq:      1807970,
			Kanji:    []string{"毛虫"},
			Readings: []string{"けむし"},
			Senses: []jmdict.Sense{
				{Glosses: []string{"caterpillar"}},
			},
		},
		{
			ID:       6,
			Seq:      1077330,
			Kanji:    []string{"Tシャツ"},
			Readings: []string{"ティーシャツ"},
			Senses: []jmdict.Sense{
				{Glosses: []string{"T-shirt"}},
			},
		},
	}
}

// TestIndex_Search tests Index.Search.
func TestIndex_Search(t *testing.T) {
	t.Parallel()

	ix := testutil.OpenIndex(t, searchEntries())

	tests := []struct {
		name  string
		query string
		field index.Field

		expected []*index.Match
	}{
		{
			name:  "empty query",
			query: "",
			field: index.FieldAny,
		},
		{
			name:  "whitespace query",
			query: "   ",
			field: index.FieldKanji,
		},
		{
			name:  "no match",
			query: "xyzzy",
			field: index.FieldAny,
		},
		{
			name:  "kanji exact and substring",
			query: "猫",
			field: index.FieldKanji,

			expected: []*index.Match{
				{ID: 1, Field: index.FieldKanji, Strength: index.StrengthExact},
				{ID: 2, Field: index.FieldKanji, Strength: index.StrengthSubstring},
			},
		},
		{
			name:  "kanji prefix",
			query: "子",
			field: index.FieldKanji,

			expected: []*index.Match{
				{ID: 2, Field: index.FieldKanji, Strength: index.StrengthPrefix},
			},
		},
		{
			name:  "kanji no match",
			query: "魚",
			field: index.FieldKanji,
		},
		{
			name:  "reading hiragana",
			query: "ねこ",
			field: index.FieldReading,

			expected: []*index.Match{
				{ID: 1, Field: index.FieldReading, Strength: index.StrengthExact},
				{ID: 2, Field: index.FieldReading, Strength: index.StrengthSubstring},
			},
		},
		{
			name:  "reading romaji",
			query: "neko",
			field: index.FieldReading,

			expected: []*index.Match{
				{ID: 1, Field: index.FieldReading, Strength: index.StrengthExact},
				{ID: 2, Field: index.FieldReading, Strength: index.StrengthSubstring},
			},
		},
		{
			name:  "reading katakana query",
			query: "ネコ",
			field: index.FieldReading,

			expected: []*index.Match{
				{ID: 1, Field: index.FieldReading, Strength: index.StrengthExact},
				{ID: 2, Field: index.FieldReading, Strength: index.StrengthSubstring},
			},
		},
		{
			name:  "reading case folded",
			query: "NEKO",
			field: index.FieldReading,

			expected: []*index.Match{
				{ID: 1, Field: index.FieldReading, Strength: index.StrengthExact},
				{ID: 2, Field: index.FieldReading, Strength: index.StrengthSubstring},
			},
		},
		{
			name:  "reading prefix",
			query: "こね",
			field: index.FieldReading,

			expected: []*index.Match{
				{ID: 2, Field: index.FieldReading, Strength: index.StrengthPrefix},
			},
		},
		{
			name:  "reading romaji for katakana entry",
			query: "koohii",
			field: index.FieldReading,

			expected: []*index.Match{
				{ID: 4, Field: index.FieldReading, Strength: index.StrengthExact},
			},
		},
		{
			name:  "reading prolonged sound mark",
			query: "コーヒー",
			field: index.FieldReading,

			expected: []*index.Match{
				{ID: 4, Field: index.FieldReading, Strength: index.StrengthExact},
			},
		},
		{
			name:  "meaning exact and prefix",
			query: "cat",
			field: index.FieldMeaning,

			expected: []*index.Match{
				{ID: 1, Field: index.FieldMeaning, Strength: index.StrengthExact},
				{ID: 2, Field: index.FieldMeaning, Strength: index.StrengthExact},
				{ID: 5, Field: index.FieldMeaning, Strength: index.StrengthPrefix},
			},
		},
		{
			name:  "meaning case folded",
			query: "CAT",
			field: index.FieldMeaning,

			expected: []*index.Match{
				{ID: 1, Field: index.FieldMeaning, Strength: index.StrengthExact},
				{ID: 2, Field: index.FieldMeaning, Strength: index.StrengthExact},
				{ID: 5, Field: index.FieldMeaning, Strength: index.StrengthPrefix},
			},
		},
		{
			name:  "meaning prefix only",
			query: "cater",
			field: index.FieldMeaning,

			expected: []*index.Match{
				{ID: 5, Field: index.FieldMeaning, Strength: index.StrengthPrefix},
			},
		},
		{
			name:  "meaning has no substring matches",
			query: "aterpillar",
			field: index.FieldMeaning,
		},
		{
			name:  "meaning word in multi-word gloss",
			query: "young",
			field: index.FieldMeaning,

			expected: []*index.Match{
				{ID: 2, Field: index.FieldMeaning, Strength: index.StrengthExact},
			},
		},
		{
			name:  "meaning ignores kanji and readings",
			query: "neko",
			field: index.FieldMeaning,
		},
		{
			name:  "kanji ignores readings and meanings",
			query: "cat",
			field: index.FieldKanji,
		},
		{
			name:  "reading ignores kanji and meanings",
			query: "猫",
			field: index.FieldReading,
		},
		{
			name:  "any searches kanji",
			query: "猫",
			field: index.FieldAny,

			expected: []*index.Match{
				{ID: 1, Field: index.FieldKanji, Strength: index.StrengthExact},
				{ID: 2, Field: index.FieldKanji, Strength: index.StrengthSubstring},
			},
		},
		{
			name:  "any searches readings",
			query: "neko",
			field: index.FieldAny,

			expected: []*index.Match{
				{ID: 1, Field: index.FieldReading, Strength: index.StrengthExact},
				{ID: 2, Field: index.FieldReading, Strength: index.StrengthSubstring},
			},
		},
		{
			name:  "any keeps strongest across fields",
			query: "t",
			field: index.FieldAny,

			// The kanji and reading fields match "t" as a prefix of Tシャツ
			// and its romaji rendering, but the gloss word "t" matches
			// exactly and wins.
			expected: []*index.Match{
				{ID: 6, Field: index.FieldMeaning, Strength: index.StrengthExact},
			},
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			matches, err := ix.Search(test.query, test.field)
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(test.expected, matches, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("Search (-want, +got):\n%s", diff)
			}
		})
	}
}

// TestIndex_Search_kanjiRoundTrip tests that every indexed entry is an exact
// match for a search on its own kanji spelling.
func TestIndex_Search_kanjiRoundTrip(t *testing.T) {
	t.Parallel()

	entries := searchEntries()
	ix := testutil.OpenIndex(t, entries)

	for _, entry := range entries {
		if len(entry.Kanji) == 0 {
			continue
		}

		matches, err := ix.Search(entry.Kanji[0], index.FieldKanji)
		if err != nil {
			t.Fatal(err)
		}

		found := false
		for _, match := range matches {
			if match.ID == entry.ID && match.Strength == index.StrengthExact {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Search(%q): no exact match for entry %d", entry.Kanji[0], entry.ID)
		}
	}
}

// TestIndex_Search_invalidField tests that unrecognized fields are rejected.
func TestIndex_Search_invalidField(t *testing.T) {
	t.Parallel()

	ix := testutil.OpenIndex(t, searchEntries())

	if _, err := ix.Search("neko", index.Field(99)); !errors.Is(err, index.ErrInvalidField) {
		t.Fatalf("Search: got %v, want %v", err, index.ErrInvalidField)
	}
}

// TestParseField tests ParseField.
func TestParseField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected index.Field
		err      error
	}{
		{name: "kanji", input: "kanji", expected: index.FieldKanji},
		{name: "reading", input: "reading", expected: index.FieldReading},
		{name: "meaning", input: "meaning", expected: index.FieldMeaning},
		{name: "any", input: "any", expected: index.FieldAny},
		{name: "empty", input: "", expected: index.FieldAny},
		{name: "case insensitive", input: "Kanji", expected: index.FieldKanji},
		{name: "surrounding space", input: " reading ", expected: index.FieldReading},
		{name: "unknown", input: "gloss", err: index.ErrInvalidField},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := index.ParseField(test.input)
			if !errors.Is(err, test.err) {
				t.Fatalf("ParseField: got error %v, want %v", err, test.err)
			}
			if test.err == nil && got != test.expected {
				t.Errorf("ParseField: got %v, want %v", got, test.expected)
			}
		})
	}
}

// TestField_String tests Field.String.
func TestField_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field    index.Field
		expected string
	}{
		{field: index.FieldAny, expected: "any"},
		{field: index.FieldKanji, expected: "kanji"},
		{field: index.FieldReading, expected: "reading"},
		{field: index.FieldMeaning, expected: "meaning"},
		{field: index.Field(99), expected: "field(99)"},
	}

	for _, test := range tests {
		if got, want := test.field.String(), test.expected; got != want {
			t.Errorf("String: got %q, want %q", got, want)
		}
	}
}

// TestStrength_String tests Strength.String.
func TestStrength_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		strength index.Strength
		expected string
	}{
		{strength: index.StrengthExact, expected: "exact"},
		{strength: index.StrengthPrefix, expected: "prefix"},
		{strength: index.StrengthSubstring, expected: "substring"},
		{strength: index.Strength(99), expected: "strength(99)"},
	}

	for _, test := range tests {
		if got, want := test.strength.String(), test.expected; got != want {
			t.Errorf("String: got %q, want %q", got, want)
		}
	}
}
