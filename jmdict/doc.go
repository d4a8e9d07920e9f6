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

// Package jmdict implements reading the JMdict XML dictionary export.
//
// The JMdict file is a single XML document whose root element holds one
// <entry> element per dictionary word. Within an entry:
//  1. <ent_seq> holds the entry's sequence number.
//  2. <k_ele> elements hold kanji spellings in <keb> (absent for words
//     written only in kana).
//  3. <r_ele> elements hold kana readings in <reb>. Every entry has at
//     least one reading.
//  4. <sense> elements hold English meanings in <gloss>, annotated with
//     <pos> part-of-speech and <field> domain tags.
//
// The document prolog declares XML entities (&n;, &uk;, ...) that the pos
// and field elements use as abbreviations. Parser collects them from the
// internal DTD subset before decoding so their expanded text is preserved.
//
// Entries are streamed one at a time; memory use is bounded by the largest
// single entry, not by the document.
package jmdict
