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

// Package testutil provides utilities for testing.
package testutil

import (
	"encoding/xml"
	"fmt"
	"strings"
	"testing"

	"github.com/ianlewis/go-jiten/jmdict"
)

// jmdictProlog mirrors the prolog of real JMdict files: an XML
// declaration, a comment, and a document type declaration whose internal
// subset declares a sample of the entities entry bodies may reference.
const jmdictProlog = `<?xml version="1.0" encoding="UTF-8"?>
<!-- JMdict created: 2025-08-25 -->
<!DOCTYPE JMdict [
<!ELEMENT JMdict (entry*)>
<!ELEMENT entry (ent_seq, k_ele*, r_ele+, sense+)>
<!ELEMENT ent_seq (#PCDATA)>
<!ENTITY n "noun (common) (futsuumeishi)">
<!ENTITY adj-i "adjective (keiyoushi)">
<!ENTITY v5r "Godan verb with 'ru' ending">
<!ENTITY uk "word usually written using kana alone">
<!ENTITY food "food term">
]>
`

// MakeJMdict returns a complete JMdict document whose body is the given
// XML fragments in order.
func MakeJMdict(t *testing.T, body ...string) []byte {
	t.Helper()

	var b strings.Builder
	b.WriteString(jmdictProlog)
	b.WriteString("<JMdict>\n")
	for _, frag := range body {
		b.WriteString(frag)
		if !strings.HasSuffix(frag, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("</JMdict>\n")
	return []byte(b.String())
}

// MakeJMdictEntries renders entries as a complete JMdict document.
func MakeJMdictEntries(t *testing.T, entries []*jmdict.Entry) []byte {
	t.Helper()

	frags := make([]string, 0, len(entries))
	for _, e := range entries {
		frags = append(frags, EntryXML(t, e))
	}
	return MakeJMdict(t, frags...)
}

// EntryXML renders e as a JMdict <entry> element.
func EntryXML(t *testing.T, e *jmdict.Entry) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("<entry>\n")
	fmt.Fprintf(&b, "<ent_seq>%d</ent_seq>\n", e.Seq)
	for _, k := range e.Kanji {
		fmt.Fprintf(&b, "<k_ele><keb>%s</keb></k_ele>\n", escapeXML(t, k))
	}
	for _, r := range e.Readings {
		fmt.Fprintf(&b, "<r_ele><reb>%s</reb></r_ele>\n", escapeXML(t, r))
	}
	for i := range e.Senses {
		s := &e.Senses[i]
		b.WriteString("<sense>\n")
		for _, p := range s.PartsOfSpeech {
			fmt.Fprintf(&b, "<pos>%s</pos>\n", escapeXML(t, p))
		}
		for _, f := range s.Fields {
			fmt.Fprintf(&b, "<field>%s</field>\n", escapeXML(t, f))
		}
		for _, g := range s.Glosses {
			fmt.Fprintf(&b, "<gloss>%s</gloss>\n", escapeXML(t, g))
		}
		b.WriteString("</sense>\n")
	}
	b.WriteString("</entry>")
	return b.String()
}

func escapeXML(t *testing.T, s string) string {
	t.Helper()

	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		t.Fatal(err)
	}
	return b.String()
}
