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

package testutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/ianlewis/go-jiten/index"
	"github.com/ianlewis/go-jiten/jmdict"
)

// BuildIndex builds an index for entries in a new temporary directory and
// returns the directory.
func BuildIndex(t *testing.T, entries []*jmdict.Entry) string {
	t.Helper()

	dir := t.TempDir()
	p, err := jmdict.NewParser(bytes.NewReader(MakeJMdictEntries(t, entries)), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := index.Build(context.Background(), dir, p, nil); err != nil {
		t.Fatal(err)
	}
	return dir
}

// OpenIndex builds an index for entries and opens it. The index is closed
// when the test completes.
func OpenIndex(t *testing.T, entries []*jmdict.Entry) *index.Index {
	t.Helper()

	ix, err := index.Open(BuildIndex(t, entries))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := ix.Close(); err != nil {
			t.Fatal(err)
		}
	})
	return ix
}
