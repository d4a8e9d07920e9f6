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
	"strings"
	"unicode"

	"golang.org/x/text/transform"

	"github.com/ianlewis/go-jiten/internal/folding"
	"github.com/ianlewis/go-jiten/jmdict"
	"github.com/ianlewis/go-jiten/kana"
)

// fieldCount is the number of searchable fields.
const fieldCount = 3

// fieldSlot maps a searchable Field to its postings section slot.
func fieldSlot(f Field) int {
	return int(f) - 1
}

// entryTokens is the token set extracted from a single entry, one map per
// field slot, each holding the strongest strength per token.
type entryTokens struct {
	id     uint32
	fields [fieldCount]map[string]Strength
}

// tokenizer extracts field tokens from entries. It owns its folding
// transformers and must not be shared between goroutines.
type tokenizer struct {
	text    transform.Transformer
	reading transform.Transformer
}

func newTokenizer() *tokenizer {
	return &tokenizer{
		text:    folding.Text(),
		reading: folding.Reading(),
	}
}

// tokenize extracts every token of e for each searchable field.
//
// Kanji spellings and readings are indexed with all of their substrings so
// queries can match anywhere without scanning; each substring carries its
// strength relative to the whole form. Readings are additionally indexed
// under every cross-script rendering. Glosses are indexed as whole folded
// words.
func (t *tokenizer) tokenize(e *jmdict.Entry) *entryTokens {
	et := &entryTokens{id: e.ID}
	for i := range et.fields {
		et.fields[i] = make(map[string]Strength)
	}

	for _, spelling := range e.Kanji {
		addForm(et.fields[fieldSlot(FieldKanji)], folding.String(t.text, spelling))
	}

	for _, reading := range e.Readings {
		tokens := et.fields[fieldSlot(FieldReading)]
		addForm(tokens, folding.String(t.text, reading))
		for _, f := range kana.Normalize(reading) {
			addForm(tokens, folding.String(t.text, f.Text))
		}
	}

	tokens := et.fields[fieldSlot(FieldMeaning)]
	for i := range e.Senses {
		for _, gloss := range e.Senses[i].Glosses {
			for _, word := range splitWords(folding.String(t.text, gloss)) {
				tokens[word] = StrengthExact
			}
		}
	}

	return et
}

// addForm records every substring of the folded form, keeping the
// strongest strength seen for each token.
func addForm(tokens map[string]Strength, form string) {
	if form == "" {
		return
	}
	rs := []rune(form)
	n := len(rs)
	for i := 0; i < n; i++ {
		for j := i + 1; j <= n; j++ {
			var s Strength
			switch {
			case i == 0 && j == n:
				s = StrengthExact
			case i == 0:
				s = StrengthPrefix
			default:
				s = StrengthSubstring
			}
			token := string(rs[i:j])
			if cur, ok := tokens[token]; !ok || s < cur {
				tokens[token] = s
			}
		}
	}
}

// splitWords splits a folded gloss into indexable words.
func splitWords(gloss string) []string {
	return strings.FieldsFunc(gloss, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
