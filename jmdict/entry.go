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

package jmdict

// Sense is one meaning of an entry together with its grammatical and
// domain annotations.
type Sense struct {
	// Glosses are the English renderings of this sense.
	Glosses []string `json:"glosses,omitempty"`

	// PartsOfSpeech are the part-of-speech tags for this sense (e.g.
	// "noun (common) (futsuumeishi)").
	PartsOfSpeech []string `json:"pos,omitempty"`

	// Fields are the domain tags for this sense (e.g. "computing").
	Fields []string `json:"fields,omitempty"`
}

// Entry is a single dictionary entry. Entries are immutable once produced
// by a Parser.
type Entry struct {
	// ID identifies the entry within one parse pass. IDs are assigned from
	// a counter over successfully parsed entries, in document order,
	// starting at 1. They are never reused within a pass.
	ID uint32 `json:"id"`

	// Seq is the JMdict sequence number (<ent_seq>) of the entry.
	Seq int64 `json:"seq"`

	// Kanji are the kanji spellings of the word in document order. Empty
	// for words written only in kana.
	Kanji []string `json:"kanji,omitempty"`

	// Readings are the kana readings of the word in document order. Never
	// empty.
	Readings []string `json:"readings"`

	// Senses are the word's meanings in document order.
	Senses []Sense `json:"senses,omitempty"`
}
