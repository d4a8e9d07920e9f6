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

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// ParseError is returned when the document is structurally broken and the
// parse cannot continue.
type ParseError struct {
	// Offset is the byte offset in the document where the parse failed.
	Offset int64

	// Line is the line number where the parse failed, if known.
	Line int

	// Err is the underlying decoder error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at offset %d (line %d): %v", e.Offset, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error at offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Skip records an entry that was dropped from the stream because its
// contents were invalid.
type Skip struct {
	// Offset is the byte offset of the entry in the document.
	Offset int64

	// Reason describes why the entry was dropped.
	Reason string
}

// Options are options for the Parser.
type Options struct {
	// Logger receives a warning for each skipped entry. slog.Default is
	// used if nil.
	Logger *slog.Logger
}

// DefaultOptions is the default set of parser options.
var DefaultOptions = &Options{}

// Parser reads dictionary entries from a JMdict document in a single
// streaming pass. A Parser cannot be rewound; reading the document again
// requires a new Parser over a fresh reader.
//
// Entries whose contents are invalid (no reading, missing or malformed
// sequence number) are skipped, recorded, and logged as warnings. Syntax
// errors in the document itself end the stream with a ParseError.
type Parser struct {
	dec    *xml.Decoder
	logger *slog.Logger

	entry *Entry
	err   error
	count uint32
	skips []Skip
}

// NewParser returns a Parser reading entries from r. The document prolog is
// consumed to collect entity declarations before the first entry is
// decoded; the returned error reflects a failure reading it.
func NewParser(r io.Reader, opts *Options) (*Parser, error) {
	if opts == nil {
		opts = DefaultOptions
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	br := bufio.NewReader(r)
	scanner := &prologScanner{br: br}
	entities, err := scanner.scan()
	if err != nil {
		return nil, fmt.Errorf("scanning document prolog: %w", err)
	}

	// The decoder re-reads the consumed prolog so token offsets are real
	// document offsets.
	dec := xml.NewDecoder(io.MultiReader(bytes.NewReader(scanner.consumed.Bytes()), br))
	dec.Entity = entities

	return &Parser{
		dec:    dec,
		logger: logger,
	}, nil
}

// Scan advances the Parser to the next valid entry. It returns false when
// the document is exhausted or the parse fails; Err distinguishes the two.
func (p *Parser) Scan() bool {
	if p.err != nil {
		return false
	}

	for {
		tok, err := p.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false
			}
			p.err = p.parseError(err)
			return false
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "entry" {
			continue
		}

		offset := p.dec.InputOffset()
		var xe xmlEntry
		if err := p.dec.DecodeElement(&xe, &start); err != nil {
			p.err = p.parseError(err)
			return false
		}

		entry, reason := xe.entry()
		if reason != "" {
			p.skips = append(p.skips, Skip{Offset: offset, Reason: reason})
			p.logger.Warn("skipping malformed entry", "offset", offset, "reason", reason)
			continue
		}

		p.count++
		entry.ID = p.count
		p.entry = entry
		return true
	}
}

// Entry returns the entry read by the last successful call to Scan.
func (p *Parser) Entry() *Entry {
	return p.entry
}

// Err returns the error that ended the stream, or nil if the document was
// read to completion.
func (p *Parser) Err() error {
	return p.err
}

// Count returns the number of valid entries read so far.
func (p *Parser) Count() int {
	return int(p.count)
}

// Skipped returns the entries dropped so far, in document order.
func (p *Parser) Skipped() []Skip {
	return p.skips
}

func (p *Parser) parseError(err error) *ParseError {
	perr := &ParseError{
		Offset: p.dec.InputOffset(),
		Err:    err,
	}
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		perr.Line = syntaxErr.Line
	}
	return perr
}

// xmlEntry mirrors the structure of the <entry> element.
type xmlEntry struct {
	Seq      string     `xml:"ent_seq"`
	Kanji    []string   `xml:"k_ele>keb"`
	Readings []string   `xml:"r_ele>reb"`
	Senses   []xmlSense `xml:"sense"`
}

type xmlSense struct {
	Glosses []string `xml:"gloss"`
	Pos     []string `xml:"pos"`
	Fields  []string `xml:"field"`
}

// entry converts the decoded element to an Entry. It returns a non-empty
// reason instead when the element does not form a valid entry.
func (x *xmlEntry) entry() (*Entry, string) {
	seqText := strings.TrimSpace(x.Seq)
	if seqText == "" {
		return nil, "missing ent_seq"
	}
	seq, err := strconv.ParseInt(seqText, 10, 64)
	if err != nil {
		return nil, fmt.Sprintf("invalid ent_seq %q", seqText)
	}

	readings := trimNonEmpty(x.Readings)
	if len(readings) == 0 {
		return nil, "no readings"
	}

	entry := &Entry{
		Seq:      seq,
		Kanji:    trimNonEmpty(x.Kanji),
		Readings: readings,
	}
	for i := range x.Senses {
		sense := Sense{
			Glosses:       trimNonEmpty(x.Senses[i].Glosses),
			PartsOfSpeech: trimNonEmpty(x.Senses[i].Pos),
			Fields:        trimNonEmpty(x.Senses[i].Fields),
		}
		if len(sense.Glosses) == 0 && len(sense.PartsOfSpeech) == 0 {
			continue
		}
		entry.Senses = append(entry.Senses, sense)
	}

	return entry, ""
}

func trimNonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
