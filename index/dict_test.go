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
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Test_postings tests strength partitioning of posting bitmaps.
func Test_postings(t *testing.T) {
	t.Parallel()

	p := &postings{token: "cat"}
	p.add(1, StrengthExact)
	p.add(3, StrengthExact)
	p.add(2, StrengthPrefix)

	if diff := cmp.Diff([]uint32{1, 3}, p.bitmap(StrengthExact).ToArray()); diff != "" {
		t.Errorf("exact (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint32{2}, p.bitmap(StrengthPrefix).ToArray()); diff != "" {
		t.Errorf("prefix (-want, +got):\n%s", diff)
	}
	if p.bitmap(StrengthSubstring) != nil {
		t.Error("substr: got bitmap, want nil")
	}
}

// Test_tokenDict tests lookup and prefix scans over a sorted dictionary.
func Test_tokenDict(t *testing.T) {
	t.Parallel()

	d := &tokenDict{tokens: []*postings{
		{token: "ca"},
		{token: "cat"},
		{token: "cater"},
		{token: "dog"},
	}}

	if got, want := d.size(), 4; got != want {
		t.Errorf("size: got %d, want %d", got, want)
	}

	if p := d.find("cat"); p == nil || p.token != "cat" {
		t.Errorf(`find("cat"): got %v`, p)
	}
	if p := d.find("cow"); p != nil {
		t.Errorf(`find("cow"): got %v, want nil`, p)
	}
	if p := d.find(""); p != nil {
		t.Errorf(`find(""): got %v, want nil`, p)
	}

	tests := []struct {
		name     string
		prefix   string
		expected []string
	}{
		{
			name:     "proper prefixes only",
			prefix:   "cat",
			expected: []string{"cater"},
		},
		{
			name:     "multiple extensions",
			prefix:   "ca",
			expected: []string{"cat", "cater"},
		},
		{
			name:     "no extensions",
			prefix:   "dog",
			expected: nil,
		},
		{
			name:     "no match",
			prefix:   "z",
			expected: nil,
		},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			d.scanPrefix(test.prefix, func(p *postings) {
				got = append(got, p.token)
			})

			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Fatalf("scanPrefix(%q) (-want, +got):\n%s", test.prefix, diff)
			}
		})
	}
}
