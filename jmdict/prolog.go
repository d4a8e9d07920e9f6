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
	"errors"
	"io"
)

// maxProlog bounds how much of the document is pre-scanned for entity
// declarations. The JMdict prolog is a few hundred kilobytes.
const maxProlog = 4 << 20

// errPrologEnd stops the prolog scan without failing the parse. It is
// raised at end of input, at the prolog size bound, and when the root
// element is reached.
var errPrologEnd = errors.New("end of prolog")

// prologScanner reads the document prolog collecting entity declarations
// from the internal DTD subset. Everything it consumes is retained so the
// decoder can re-read the document from the first byte.
type prologScanner struct {
	br       *bufio.Reader
	consumed bytes.Buffer
}

// scan reads up to the end of the DOCTYPE declaration, or to the root
// element if the document has none, and returns the declared entities.
// Errors from the underlying reader other than io.EOF are returned;
// malformed prologs end the scan and are left to the decoder to diagnose.
func (p *prologScanner) scan() (map[string]string, error) {
	entities := map[string]string{}

	err := p.scanProlog(entities)
	if err != nil && !errors.Is(err, errPrologEnd) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return entities, nil
}

func (p *prologScanner) scanProlog(entities map[string]string) error {
	for {
		b, err := p.readByte()
		if err != nil {
			return err
		}
		if b != '<' {
			continue
		}

		b, err = p.readByte()
		if err != nil {
			return err
		}
		switch b {
		case '?':
			// XML declaration or processing instruction.
			if err := p.skipUntil("?>"); err != nil {
				return err
			}
		case '!':
			isComment, err := p.startsComment()
			if err != nil {
				return err
			}
			if isComment {
				if err := p.skipComment(); err != nil {
					return err
				}
				continue
			}
			// The DOCTYPE declaration. Position at the internal subset
			// if there is one.
			for {
				b, err := p.readByte()
				if err != nil {
					return err
				}
				if b == '>' {
					return errPrologEnd
				}
				if b == '[' {
					break
				}
			}
			return p.scanSubset(entities)
		default:
			// Root element; no DOCTYPE in this document.
			return errPrologEnd
		}
	}
}

// scanSubset reads the DOCTYPE internal subset, recording general entity
// declarations and skipping everything else.
func (p *prologScanner) scanSubset(entities map[string]string) error {
	for {
		b, err := p.readByte()
		if err != nil {
			return err
		}
		switch b {
		case ']':
			return p.skipUntil(">")
		case '<':
			b, err := p.readByte()
			if err != nil {
				return err
			}
			if b == '?' {
				if err := p.skipUntil("?>"); err != nil {
					return err
				}
				continue
			}
			if b != '!' {
				if err := p.skipUntil(">"); err != nil {
					return err
				}
				continue
			}

			isComment, err := p.startsComment()
			if err != nil {
				return err
			}
			if isComment {
				if err := p.skipComment(); err != nil {
					return err
				}
				continue
			}

			keyword, err := p.readName()
			if err != nil {
				return err
			}
			if keyword != "ENTITY" {
				if err := p.skipUntil(">"); err != nil {
					return err
				}
				continue
			}
			if err := p.scanEntity(entities); err != nil {
				return err
			}
		}
	}
}

// scanEntity reads one <!ENTITY name "value"> declaration. Parameter and
// external entities are skipped.
func (p *prologScanner) scanEntity(entities map[string]string) error {
	if err := p.skipSpace(); err != nil {
		return err
	}
	name, err := p.readName()
	if err != nil {
		return err
	}
	if err := p.skipSpace(); err != nil {
		return err
	}

	quote, err := p.readByte()
	if err != nil {
		return err
	}
	if quote != '"' && quote != '\'' {
		// Parameter entity or external identifier; not usable as a
		// character entity.
		return p.skipUntil(">")
	}

	var value bytes.Buffer
	for {
		b, err := p.readByte()
		if err != nil {
			return err
		}
		if b == quote {
			break
		}
		value.WriteByte(b)
	}
	if name != "" {
		entities[name] = value.String()
	}
	return p.skipUntil(">")
}

func (p *prologScanner) readByte() (byte, error) {
	if p.consumed.Len() >= maxProlog {
		return 0, errPrologEnd
	}
	b, err := p.br.ReadByte()
	if err != nil {
		return 0, err
	}
	p.consumed.WriteByte(b)
	return b, nil
}

// startsComment reports whether the input at the current position (just
// after "<!") begins a comment, consuming the comment opener if so.
func (p *prologScanner) startsComment() (bool, error) {
	b, err := p.br.Peek(1)
	if err != nil {
		return false, err
	}
	if b[0] != '-' {
		return false, nil
	}
	// Consume "--".
	if _, err := p.readByte(); err != nil {
		return false, err
	}
	if _, err := p.readByte(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *prologScanner) skipComment() error {
	var p1, p2 byte
	for {
		b, err := p.readByte()
		if err != nil {
			return err
		}
		if p1 == '-' && p2 == '-' && b == '>' {
			return nil
		}
		p1, p2 = p2, b
	}
}

func (p *prologScanner) skipUntil(delim string) error {
	var match int
	for {
		b, err := p.readByte()
		if err != nil {
			return err
		}
		switch {
		case b == delim[match]:
			match++
			if match == len(delim) {
				return nil
			}
		case b == delim[0]:
			match = 1
		default:
			match = 0
		}
	}
}

func (p *prologScanner) skipSpace() error {
	for {
		b, err := p.br.Peek(1)
		if err != nil {
			return err
		}
		if b[0] != ' ' && b[0] != '\t' && b[0] != '\n' && b[0] != '\r' {
			return nil
		}
		if _, err := p.readByte(); err != nil {
			return err
		}
	}
}

// readName reads an XML name: bytes up to the next whitespace or markup
// delimiter.
func (p *prologScanner) readName() (string, error) {
	var name bytes.Buffer
	for {
		b, err := p.br.Peek(1)
		if err != nil {
			return "", err
		}
		c := b[0]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '>' || c == '[' || c == '"' || c == '\'' {
			return name.String(), nil
		}
		if _, err := p.readByte(); err != nil {
			return "", err
		}
		name.WriteByte(c)
	}
}
