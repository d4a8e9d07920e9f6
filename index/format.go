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
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// postingsMagic identifies a postings file ("JIX1").
const (
	postingsMagic   uint32 = 0x4a495831
	postingsVersion uint32 = 1

	// headerSize is the fixed header: magic, version, entry count, and a
	// (offset, size) pair for each of the four sections.
	headerSize = 16 + 4*16

	// footerSize is the fixed footer: payload CRC-32 and total file size.
	footerSize = 16
)

// section slots in the header, after the three field sections.
const entryTableSlot = fieldCount

// entryOffset locates one entry record in the uncompressed entry store.
type entryOffset struct {
	off  int64
	size uint32
}

// postingsData is the decoded content of a postings file.
type postingsData struct {
	entryCount uint32
	fields     [fieldCount]*tokenDict
	offsets    []entryOffset
}

type countingWriter struct {
	w io.Writer
	n uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint64(n)
	//nolint:wrapcheck // forwarded to the underlying writer's caller.
	return n, err
}

// writePostings writes the postings file at path: a placeholder header,
// the three field sections and the entry record table, a CRC-32 footer,
// and finally the completed header. The file is synced before return.
func writePostings(path string, tables [fieldCount]map[string]*postings, sizes []uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating postings file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(make([]byte, headerSize)); err != nil {
		return fmt.Errorf("writing postings header: %w", err)
	}

	crc := crc32.NewIEEE()
	cw := &countingWriter{w: io.MultiWriter(f, crc)}
	bw := bufio.NewWriterSize(cw, 1<<20)

	// sections records the (offset, size) of each section for the header.
	var sections [fieldCount + 1][2]uint64
	writeSection := func(slot int, write func() error) error {
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("writing postings section: %w", err)
		}
		start := cw.n
		if err := write(); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("writing postings section: %w", err)
		}
		sections[slot] = [2]uint64{headerSize + start, cw.n - start}
		return nil
	}

	for slot := 0; slot < fieldCount; slot++ {
		if err := writeSection(slot, func() error {
			return writeFieldSection(bw, tables[slot])
		}); err != nil {
			return err
		}
	}
	if err := writeSection(entryTableSlot, func() error {
		return writeEntryTable(bw, sizes)
	}); err != nil {
		return err
	}

	footer := make([]byte, footerSize)
	binary.BigEndian.PutUint32(footer[0:4], crc.Sum32())
	binary.BigEndian.PutUint64(footer[8:16], headerSize+cw.n+footerSize)
	if _, err := f.Write(footer); err != nil {
		return fmt.Errorf("writing postings footer: %w", err)
	}

	header := make([]byte, headerSize)
	binary.BigEndian.PutUint32(header[0:4], postingsMagic)
	binary.BigEndian.PutUint32(header[4:8], postingsVersion)
	binary.BigEndian.PutUint32(header[8:12], uint32(len(sizes)))
	for slot, sec := range sections {
		binary.BigEndian.PutUint64(header[16+slot*16:], sec[0])
		binary.BigEndian.PutUint64(header[24+slot*16:], sec[1])
	}
	if _, err := f.WriteAt(header, 0); err != nil {
		return fmt.Errorf("updating postings header: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing postings file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing postings file: %w", err)
	}
	return nil
}

// writeFieldSection writes one field's token dictionary in ascending token
// order: token count, then per token its text, a strength presence flag
// byte, and the present bitmaps.
func writeFieldSection(w *bufio.Writer, tokens map[string]*postings) error {
	keys := make([]string, 0, len(tokens))
	for tok := range tokens {
		keys = append(keys, tok)
	}
	sort.Strings(keys)

	if err := binary.Write(w, binary.BigEndian, uint32(len(keys))); err != nil {
		return fmt.Errorf("writing token count: %w", err)
	}
	for _, tok := range keys {
		if err := writeUvarint(w, uint64(len(tok))); err != nil {
			return err
		}
		if _, err := w.WriteString(tok); err != nil {
			return fmt.Errorf("writing token: %w", err)
		}

		p := tokens[tok]
		bitmaps := []*roaring.Bitmap{p.exact, p.prefix, p.substr}
		var flags byte
		for i, bm := range bitmaps {
			if bm != nil && !bm.IsEmpty() {
				flags |= 1 << i
			}
		}
		if err := w.WriteByte(flags); err != nil {
			return fmt.Errorf("writing token flags: %w", err)
		}

		for i, bm := range bitmaps {
			if flags&(1<<i) == 0 {
				continue
			}
			bm.RunOptimize()
			if err := writeUvarint(w, bm.GetSerializedSizeInBytes()); err != nil {
				return err
			}
			if _, err := bm.WriteTo(w); err != nil {
				return fmt.Errorf("writing token bitmap: %w", err)
			}
		}
	}
	return nil
}

// writeEntryTable writes the byte length of each entry record in ID order.
// Record offsets are implicit: records are stored consecutively.
func writeEntryTable(w *bufio.Writer, sizes []uint32) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(sizes))); err != nil {
		return fmt.Errorf("writing entry count: %w", err)
	}
	for _, size := range sizes {
		if err := writeUvarint(w, uint64(size)); err != nil {
			return err
		}
	}
	return nil
}

func writeUvarint(w *bufio.Writer, v uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	if _, err := w.Write(buf[:n]); err != nil {
		return fmt.Errorf("writing varint: %w", err)
	}
	return nil
}

// parsePostings decodes and verifies a postings file.
func parsePostings(data []byte) (*postingsData, error) {
	if len(data) < headerSize+footerSize {
		return nil, fmt.Errorf("%w: postings file truncated (%d bytes)", ErrCorrupt, len(data))
	}
	if magic := binary.BigEndian.Uint32(data[0:4]); magic != postingsMagic {
		return nil, fmt.Errorf("%w: bad postings magic %#08x", ErrCorrupt, magic)
	}
	if version := binary.BigEndian.Uint32(data[4:8]); version != postingsVersion {
		return nil, fmt.Errorf("%w: unsupported postings version %d", ErrCorrupt, version)
	}
	if size := binary.BigEndian.Uint64(data[len(data)-8:]); size != uint64(len(data)) {
		return nil, fmt.Errorf("%w: postings size mismatch: header %d, file %d", ErrCorrupt, size, len(data))
	}

	payload := data[headerSize : len(data)-footerSize]
	wantCRC := binary.BigEndian.Uint32(data[len(data)-footerSize:])
	if crc := crc32.ChecksumIEEE(payload); crc != wantCRC {
		return nil, fmt.Errorf("%w: postings checksum mismatch: %#08x, want %#08x", ErrCorrupt, crc, wantCRC)
	}

	pd := &postingsData{
		entryCount: binary.BigEndian.Uint32(data[8:12]),
	}

	section := func(slot int) (*byteReader, error) {
		off := binary.BigEndian.Uint64(data[16+slot*16:])
		size := binary.BigEndian.Uint64(data[24+slot*16:])
		end := off + size
		if off < headerSize || end < off || end > uint64(len(data)-footerSize) {
			return nil, fmt.Errorf("%w: postings section %d out of bounds", ErrCorrupt, slot)
		}
		return &byteReader{data: data[off:end]}, nil
	}

	for slot := 0; slot < fieldCount; slot++ {
		r, err := section(slot)
		if err != nil {
			return nil, err
		}
		dict, err := parseFieldSection(r)
		if err != nil {
			return nil, fmt.Errorf("%w: postings section %d: %v", ErrCorrupt, slot, err)
		}
		pd.fields[slot] = dict
	}

	r, err := section(entryTableSlot)
	if err != nil {
		return nil, err
	}
	offsets, err := parseEntryTable(r, pd.entryCount)
	if err != nil {
		return nil, fmt.Errorf("%w: entry table: %v", ErrCorrupt, err)
	}
	pd.offsets = offsets

	return pd, nil
}

func parseFieldSection(r *byteReader) (*tokenDict, error) {
	count, err := r.uint32()
	if err != nil {
		return nil, err
	}

	tokens := make([]*postings, 0, count)
	for i := uint32(0); i < count; i++ {
		tokenLen, err := r.uvarint()
		if err != nil {
			return nil, err
		}
		tokenBytes, err := r.bytes(int(tokenLen))
		if err != nil {
			return nil, err
		}
		p := &postings{token: string(tokenBytes)}

		if len(tokens) > 0 && tokens[len(tokens)-1].token >= p.token {
			return nil, fmt.Errorf("token %q out of order", p.token)
		}

		flags, err := r.byte()
		if err != nil {
			return nil, err
		}
		for bit := 0; bit < 3; bit++ {
			if flags&(1<<bit) == 0 {
				continue
			}
			bmLen, err := r.uvarint()
			if err != nil {
				return nil, err
			}
			bmBytes, err := r.bytes(int(bmLen))
			if err != nil {
				return nil, err
			}
			bm := roaring.New()
			if _, err := bm.ReadFrom(bytes.NewReader(bmBytes)); err != nil {
				return nil, fmt.Errorf("reading bitmap for token %q: %w", p.token, err)
			}
			switch bit {
			case 0:
				p.exact = bm
			case 1:
				p.prefix = bm
			case 2:
				p.substr = bm
			}
		}
		tokens = append(tokens, p)
	}

	return &tokenDict{tokens: tokens}, nil
}

func parseEntryTable(r *byteReader, entryCount uint32) ([]entryOffset, error) {
	count, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if count != entryCount {
		return nil, fmt.Errorf("entry count mismatch: table %d, header %d", count, entryCount)
	}

	offsets := make([]entryOffset, count)
	var off int64
	for i := uint32(0); i < count; i++ {
		size, err := r.uvarint()
		if err != nil {
			return nil, err
		}
		offsets[i] = entryOffset{off: off, size: uint32(size)}
		off += int64(size)
	}
	return offsets, nil
}

// crcFile returns the CRC-32 and size of the file at path.
func crcFile(path string) (uint32, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	crc := crc32.NewIEEE()
	n, err := io.Copy(crc, f)
	if err != nil {
		return 0, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return crc.Sum32(), n, nil
}

// byteReader is a bounds-checked cursor over a byte slice.
type byteReader struct {
	data []byte
	off  int
}

func (r *byteReader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.off:])
	if n <= 0 {
		return 0, fmt.Errorf("truncated varint at offset %d", r.off)
	}
	r.off += n
	return v, nil
}

func (r *byteReader) uint32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *byteReader) byte() (byte, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) bytes(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, fmt.Errorf("truncated data at offset %d", r.off)
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}
