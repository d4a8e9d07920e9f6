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

// Package index builds and queries the on-disk dictionary index.
//
// An index is a directory managed as a single atomic unit:
//
//	CURRENT               the name of the live manifest
//	MANIFEST-000002.json  build descriptor: format version, entry counts,
//	                      section file names, sizes, and checksums
//	postings-000002.jix   field postings tables and the entry record table
//	entries-000002.jdz    dictzip-compressed entry records
//
// Every build writes a new set of uniquely numbered section files and then
// atomically repoints CURRENT at the new manifest. Readers opened against
// the previous build are unaffected; a build that fails partway leaves
// CURRENT and the files it names untouched.
//
// The postings file holds one section per searchable field (kanji, reading,
// meaning). A section maps each token to up to three sorted entry-ID sets,
// one per match strength, so a single lookup yields ranked results. Kanji
// and reading sections include every substring of each indexed form;
// the meaning section holds whole words only, with prefix queries served by
// a range scan over the sorted token list. Integers are in network byte
// order and the section payload is protected by a CRC-32 footer.
//
// The entry store is a dictzip stream of newline-delimited JSON records,
// one per entry in ID order, allowing random access decompression of a
// single record at query time.
package index
