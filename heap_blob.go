// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import "github.com/cespare/xxhash/v2"

// blobHeap is the #Blob heap: compressed-length-prefixed byte strings,
// addressed by offset, with the required empty blob at offset 0 (spec
// §4.1). Signature blobs, CustomAttribute argument blobs, marshalling
// descriptors, and FieldRVA/Constant raw values all live here.
//
// Deduped the same way stringHeap is: xxhash as a cheap candidate key, a
// byte comparison to confirm (signature blobs are exact-match shareable —
// two fields of the same type emit byte-identical signature blobs).
type blobHeap struct {
	buf     []byte
	offsets map[uint64][]uint32
}

func newBlobHeap() *blobHeap {
	return &blobHeap{buf: []byte{0}, offsets: make(map[uint64][]uint32)}
}

// Add returns the offset of the length-prefixed encoding of b, appending it
// if an identical blob is not already present.
func (h *blobHeap) Add(b []byte) (uint32, error) {
	if len(b) == 0 {
		return 0, nil
	}
	key := xxhash.Sum64(b)
	for _, off := range h.offsets[key] {
		if existing, err := h.raw(off); err == nil && string(existing) == string(b) {
			return off, nil
		}
	}
	off := uint32(len(h.buf))
	var s sink
	if err := compressUnsigned(&s, uint32(len(b))); err != nil {
		return 0, err
	}
	h.buf = append(h.buf, s.bytes()...)
	h.buf = append(h.buf, b...)
	h.offsets[key] = append(h.offsets[key], off)
	return off, nil
}

// raw returns the blob payload at off, without its length prefix.
func (h *blobHeap) raw(off uint32) ([]byte, error) {
	if int(off) >= len(h.buf) {
		return nil, ErrCorruptIndex
	}
	c := newCursor(h.buf[off:])
	n, err := decompressUnsigned(c)
	if err != nil {
		return nil, ErrCorruptBlob
	}
	b, err := c.bytes(n)
	if err != nil {
		return nil, ErrCorruptBlob
	}
	return b, nil
}

// Bytes returns the blob at off (the reader-facing name; raw is the
// internal helper dedup also uses).
func (h *blobHeap) Bytes(off uint32) ([]byte, error) { return h.raw(off) }

func (h *blobHeap) heapBytes() []byte { return h.buf }

func (h *blobHeap) Size() uint32 { return uint32(len(h.buf)) }

func loadBlobHeap(raw []byte) *blobHeap {
	return &blobHeap{buf: raw}
}
