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
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/ianlewis/go-jiten/internal/folding"
	"github.com/ianlewis/go-jiten/kana"
)

// ErrInvalidField indicates an unrecognized field selector.
var ErrInvalidField = errors.New("invalid field")

// Field selects which part of an entry a query runs against.
type Field uint8

const (
	// FieldAny searches kanji, readings, and meanings.
	FieldAny Field = iota

	// FieldKanji searches kanji spellings.
	FieldKanji

	// FieldReading searches kana readings, in any script.
	FieldReading

	// FieldMeaning searches English glosses.
	FieldMeaning
)

// String implements fmt.Stringer.
func (f Field) String() string {
	switch f {
	case FieldKanji:
		return "kanji"
	case FieldReading:
		return "reading"
	case FieldMeaning:
		return "meaning"
	case FieldAny:
		return "any"
	}
	return fmt.Sprintf("field(%d)", uint8(f))
}

// ParseField converts a field selector name to a Field. It returns an error
// wrapping ErrInvalidField for unrecognized names.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kanji":
		return FieldKanji, nil
	case "reading":
		return FieldReading, nil
	case "meaning":
		return FieldMeaning, nil
	case "any", "":
		return FieldAny, nil
	}
	return FieldAny, fmt.Errorf("%w: %q", ErrInvalidField, name)
}

// Strength grades how a token matched the query. Lower values are stronger
// matches.
type Strength uint8

const (
	// StrengthExact matches the whole indexed form.
	StrengthExact Strength = iota

	// StrengthPrefix matches a leading part of the indexed form.
	StrengthPrefix

	// StrengthSubstring matches an interior part of the indexed form.
	StrengthSubstring
)

// String implements fmt.Stringer.
func (s Strength) String() string {
	switch s {
	case StrengthExact:
		return "exact"
	case StrengthPrefix:
		return "prefix"
	case StrengthSubstring:
		return "substring"
	}
	return fmt.Sprintf("strength(%d)", uint8(s))
}

// Match pairs an entry ID with the field that satisfied the query and the
// strength of the match.
type Match struct {
	// ID is the matched entry's ID.
	ID uint32

	// Field is the field the query matched on. When several fields match
	// with equal strength the strongest is reported in field order: kanji,
	// reading, meaning.
	Field Field

	// Strength is the strongest way the query matched the field.
	Strength Strength
}

// Search runs a query against one field of the index, or all of them when
// field is FieldAny. Matches are deduplicated by entry, keeping the
// strongest strength found, and ordered by descending strength then
// ascending entry ID, so results for a fixed query are reproducible across
// builds. An empty result is not an error.
//
// The query is case and width folded. Reading queries are additionally
// expanded across scripts: a romaji query matches kana readings and a kana
// query matches in either syllabary or romaji.
func (ix *Index) Search(query string, field Field) ([]*Match, error) {
	switch field {
	case FieldAny, FieldKanji, FieldReading, FieldMeaning:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	folded := folding.String(folding.Text(), query)

	found := make(map[uint32]*Match)
	if field == FieldAny || field == FieldKanji {
		searchDict(ix.kanji, FieldKanji, []string{folded}, found)
	}
	if field == FieldAny || field == FieldReading {
		searchDict(ix.reading, FieldReading, readingForms(query), found)
	}
	if field == FieldAny || field == FieldMeaning {
		ix.searchMeaning(folded, found)
	}

	matches := make([]*Match, 0, len(found))
	for _, m := range found {
		matches = append(matches, m)
	}
	slices.SortFunc(matches, func(a, b *Match) int {
		if a.Strength != b.Strength {
			return cmp.Compare(a.Strength, b.Strength)
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return matches, nil
}

// readingForms expands a query into every folded form that may match an
// indexed reading: the query as written, its hiragana fold, and its
// cross-script renderings.
func readingForms(query string) []string {
	seen := make(map[string]bool)
	var forms []string
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		forms = append(forms, s)
	}

	add(folding.String(folding.Text(), query))
	add(folding.String(folding.Reading(), query))
	for _, f := range kana.Normalize(query) {
		add(folding.String(folding.Text(), f.Text))
	}

	return forms
}

// searchDict looks up each query form and folds the per-strength entry sets
// into found, keeping the strongest match per entry.
func searchDict(d *tokenDict, field Field, forms []string, found map[uint32]*Match) {
	for _, form := range forms {
		p := d.find(form)
		if p == nil {
			continue
		}
		addMatches(found, p.exact, field, StrengthExact)
		addMatches(found, p.prefix, field, StrengthPrefix)
		addMatches(found, p.substr, field, StrengthSubstring)
	}
}

// searchMeaning looks up the query as a whole gloss word, then widens to
// words the query is a proper prefix of. Meanings are indexed as whole
// words so there is no substring strength.
func (ix *Index) searchMeaning(folded string, found map[uint32]*Match) {
	if p := ix.meaning.find(folded); p != nil {
		addMatches(found, p.exact, FieldMeaning, StrengthExact)
	}
	ix.meaning.scanPrefix(folded, func(p *postings) {
		addMatches(found, p.exact, FieldMeaning, StrengthPrefix)
	})
}

func addMatches(found map[uint32]*Match, bm *roaring.Bitmap, field Field, s Strength) {
	if bm == nil {
		return
	}
	it := bm.Iterator()
	for it.HasNext() {
		id := it.Next()
		if m, ok := found[id]; !ok || s < m.Strength {
			found[id] = &Match{ID: id, Field: field, Strength: s}
		}
	}
}
