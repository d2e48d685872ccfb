// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import (
	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// userStringHeap is the #US heap: each entry is a compressed-length-
// prefixed blob of UTF-16LE text plus one trailing flag byte indicating
// whether any code unit is outside the printable-ASCII range, tab, LF and
// CR counting as printable here (ECMA-335 §II.24.2.4). Unlike #Strings and #Blob, real-world tools rarely dedup
// #US entries (user-visible literals are seldom repeated verbatim across a
// module), so this heap appends unconditionally; offset 0 is still the
// reserved empty entry.
//
// UTF-16LE transcoding is grounded on the teacher's own DecodeUTF16String
// in helper.go, which reaches for the same golang.org/x/text package for
// the same reason: Go's stdlib has no UTF-16 codec.
type userStringHeap struct {
	buf []byte
}

func newUserStringHeap() *userStringHeap {
	return &userStringHeap{buf: []byte{0}}
}

// Add encodes s as UTF-16LE, appends its compressed length prefix, the
// encoded bytes, and the trailing flag byte, and returns the entry's
// offset.
func (h *userStringHeap) Add(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	enc, err := utf16le.NewEncoder().String(s)
	if err != nil {
		return 0, ErrCorruptBlob
	}
	flag := uint8(0)
	for _, r := range s {
		if r > 0x7E || (r < 0x20 && r != 0x09 && r != 0x0A && r != 0x0D) {
			flag = 1
			break
		}
	}
	off := uint32(len(h.buf))
	var s2 sink
	if err := compressUnsigned(&s2, uint32(len(enc))+1); err != nil {
		return 0, err
	}
	h.buf = append(h.buf, s2.bytes()...)
	h.buf = append(h.buf, enc...)
	h.buf = append(h.buf, flag)
	return off, nil
}

// String decodes the #US entry at off back to a Go string, discarding the
// trailing flag byte (spec §4.1: this engine does not expose the flag to
// callers, matching the distilled spec's silence on it).
func (h *userStringHeap) String(off uint32) (string, error) {
	if int(off) >= len(h.buf) {
		return "", ErrCorruptIndex
	}
	c := newCursor(h.buf[off:])
	n, err := decompressUnsigned(c)
	if err != nil {
		return "", ErrCorruptBlob
	}
	if n == 0 {
		return "", nil
	}
	raw, err := c.bytes(n)
	if err != nil {
		return "", ErrCorruptBlob
	}
	payload := raw[:n-1]
	s, err := utf16le.NewDecoder().String(string(payload))
	if err != nil {
		return "", ErrCorruptBlob
	}
	return s, nil
}

func (h *userStringHeap) Bytes() []byte { return h.buf }

func (h *userStringHeap) Size() uint32 { return uint32(len(h.buf)) }

func loadUserStringHeap(raw []byte) *userStringHeap {
	return &userStringHeap{buf: raw}
}
