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
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// postings holds the entry-ID sets recorded for one token, partitioned by
// match strength. An entry appears only in the bitmap for its strongest
// strength. Bitmaps for strengths with no entries are nil.
type postings struct {
	token  string
	exact  *roaring.Bitmap
	prefix *roaring.Bitmap
	substr *roaring.Bitmap
}

// bitmap returns the bitmap for strength s, or nil.
func (p *postings) bitmap(s Strength) *roaring.Bitmap {
	switch s {
	case StrengthExact:
		return p.exact
	case StrengthPrefix:
		return p.prefix
	case StrengthSubstring:
		return p.substr
	}
	return nil
}

// add records id at strength s.
func (p *postings) add(id uint32, s Strength) {
	switch s {
	case StrengthExact:
		if p.exact == nil {
			p.exact = roaring.New()
		}
		p.exact.Add(id)
	case StrengthPrefix:
		if p.prefix == nil {
			p.prefix = roaring.New()
		}
		p.prefix.Add(id)
	case StrengthSubstring:
		if p.substr == nil {
			p.substr = roaring.New()
		}
		p.substr.Add(id)
	}
}

// tokenDict is an immutable sorted token dictionary for one field.
type tokenDict struct {
	// tokens is sorted by ascending token byte order.
	tokens []*postings
}

// find performs a binary search over the dictionary and returns the
// postings for token, or nil.
func (d *tokenDict) find(token string) *postings {
	i, found := sort.Find(len(d.tokens), func(i int) int {
		return strings.Compare(token, d.tokens[i].token)
	})
	if !found {
		return nil
	}
	return d.tokens[i]
}

// scanPrefix calls fn for each token that has prefix as a proper prefix, in
// ascending token order. The token equal to prefix itself is not visited.
func (d *tokenDict) scanPrefix(prefix string, fn func(*postings)) {
	i := sort.Search(len(d.tokens), func(i int) bool {
		return d.tokens[i].token >= prefix
	})
	for ; i < len(d.tokens) && strings.HasPrefix(d.tokens[i].token, prefix); i++ {
		if d.tokens[i].token == prefix {
			continue
		}
		fn(d.tokens[i])
	}
}

// size returns the number of tokens in the dictionary.
func (d *tokenDict) size() int {
	return len(d.tokens)
}
