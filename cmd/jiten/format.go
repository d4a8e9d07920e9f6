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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ianlewis/go-jiten/jmdict"
)

var (
	kanjiColor   = color.New(color.FgBlue, color.Bold)
	readingColor = color.New(color.FgMagenta, color.Bold)
	tagColor     = color.New(color.FgYellow, color.Bold)
	glossColor   = color.New(color.Bold)
	numberColor  = color.New(color.FgGreen, color.Bold)
	sepColor     = color.New(color.FgYellow)
)

// printEntry writes e in myougiden's layout: a headline of kanji spellings
// with readings in parentheses, followed by numbered senses tagged with
// their parts of speech and usage fields.
func printEntry(w io.Writer, e *jmdict.Entry) {
	if len(e.Kanji) == 0 {
		fmt.Fprintln(w, readingColor.Sprint(strings.Join(e.Readings, "、")))
	} else {
		fmt.Fprintf(w, "%s (%s)\n",
			kanjiColor.Sprint(strings.Join(e.Kanji, "; ")),
			readingColor.Sprint(strings.Join(e.Readings, "、")),
		)
	}

	for i := range e.Senses {
		s := &e.Senses[i]
		fmt.Fprint(w, numberColor.Sprintf("%d.", i+1))
		if tags := senseTags(s); tags != "" {
			fmt.Fprintf(w, " [%s]", tagColor.Sprint(tags))
		}
		for j, gloss := range s.Glosses {
			if j == 0 {
				fmt.Fprintf(w, " %s", glossColor.Sprint(gloss))
				continue
			}
			fmt.Fprintf(w, "%s%s", sepColor.Sprint("; "), glossColor.Sprint(gloss))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// senseTags joins a sense's part of speech and usage field tags.
func senseTags(s *jmdict.Sense) string {
	tags := make([]string, 0, len(s.PartsOfSpeech)+len(s.Fields))
	tags = append(tags, s.PartsOfSpeech...)
	tags = append(tags, s.Fields...)
	return strings.Join(tags, ";")
}
