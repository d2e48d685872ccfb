// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import "github.com/cespare/xxhash/v2"

// stringHeap is the #Strings heap: a flat buffer of UTF-8, NUL-terminated
// strings addressed by byte offset, with the required empty string at
// offset 0 (spec §4.1). Appends are deduplicated so that two identical
// names share one offset, the way real compilers and this engine's teacher
// analogue (getStringAtOffset in helper.go, read-side only) both assume is
// already true of any metadata blob they consume.
//
// Dedup looks up by xxhash of the string bytes first (O(1)) and only falls
// back to a byte comparison on a hash match, the same two-step shape
// arloliu-mebo's internal/hash/id.go uses xxhash for: a cheap key, not a
// proof of equality.
type stringHeap struct {
	buf     []byte
	offsets map[uint64][]uint32 // hash -> candidate offsets
}

func newStringHeap() *stringHeap {
	h := &stringHeap{buf: []byte{0}, offsets: make(map[uint64][]uint32)}
	return h
}

// Add returns the offset of s within the heap, appending it if not already
// present. The empty string always returns 0.
func (h *stringHeap) Add(s string) uint32 {
	if s == "" {
		return 0
	}
	key := xxhash.Sum64String(s)
	for _, off := range h.offsets[key] {
		if h.stringAt(off) == s {
			return off
		}
	}
	off := uint32(len(h.buf))
	h.buf = append(h.buf, s...)
	h.buf = append(h.buf, 0)
	h.offsets[key] = append(h.offsets[key], off)
	return off
}

// stringAt reads the NUL-terminated string starting at off, without
// bounds-checking beyond the buffer's own length (callers only ever pass
// offsets this heap itself produced).
func (h *stringHeap) stringAt(off uint32) string {
	if int(off) >= len(h.buf) {
		return ""
	}
	end := off
	for int(end) < len(h.buf) && h.buf[end] != 0 {
		end++
	}
	return string(h.buf[off:end])
}

// String reads the string at off, validating off is in range (the reader
// path, spec §4.7, where off comes from an untrusted stream).
func (h *stringHeap) String(off uint32) (string, error) {
	if int(off) >= len(h.buf) {
		return "", ErrCorruptIndex
	}
	return h.stringAt(off), nil
}

// Bytes returns the heap's physical content, unpadded (stream layout is the
// writer's concern, not the heap's; WriteMetadataRoot adds no padding).
func (h *stringHeap) Bytes() []byte { return h.buf }

// Size is the heap's length in bytes, used by the planner to decide
// whether #Strings offset columns need 2 or 4 bytes (spec §4.4).
func (h *stringHeap) Size() uint32 { return uint32(len(h.buf)) }

// loadStringHeap seeds the heap from an already-built buffer (the reader path),
// bypassing dedup bookkeeping since the heap is now read-only content.
func loadStringHeap(raw []byte) *stringHeap {
	return &stringHeap{buf: raw}
}
