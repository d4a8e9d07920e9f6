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

package kana_test

import (
	"testing"

	"github.com/ianlewis/go-jiten/kana"
)

// TestToRomaji tests ToRomaji.
func TestToRomaji(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "hiragana", input: "ねこ", expected: "neko"},
		{name: "katakana", input: "ネコ", expected: "neko"},
		{name: "digraph", input: "きゃく", expected: "kyaku"},
		{name: "voiced digraph", input: "じゃま", expected: "jama"},
		{name: "gemination", input: "がっこう", expected: "gakkou"},
		{name: "gemination before chi", input: "マッチ", expected: "matchi"},
		{name: "prolonged sound mark", input: "コーヒー", expected: "koohii"},
		{name: "syllabic n", input: "しんぶん", expected: "shinbun"},
		{name: "syllabic n before vowel", input: "かんい", expected: "kan'i"},
		{name: "syllabic n before y", input: "ほんや", expected: "hon'ya"},
		{name: "syllabic n before consonant", input: "ほんだ", expected: "honda"},
		{name: "trailing n", input: "ほん", expected: "hon"},
		{name: "loanword combination", input: "ウィスキー", expected: "wisukii"},
		{name: "tsu digraph", input: "ツァー", expected: "tsaa"},
		{name: "non-kana passthrough", input: "English", expected: "English"},
		{name: "mixed scripts", input: "猫ねこ", expected: "猫neko"},
		{name: "dangling small tsu", input: "あっ", expected: "aっ"},
		{name: "small tsu only", input: "っ", expected: "っ"},
		{name: "leading prolonged sound mark", input: "ーあ", expected: "ーa"},
	}

	for _, test := range tests {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if got, want := kana.ToRomaji(test.input), test.expected; got != want {
				t.Errorf("ToRomaji: got %q, want %q", got, want)
			}
		})
	}
}
