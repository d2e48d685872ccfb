// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// GUID is a 16-byte ECMA-335 GUID value, stored and compared byte-for-byte
// (no endian reinterpretation — the heap never inspects the Data1/2/3/4
// subfields Microsoft's textual GUID format exposes).
type GUID [16]byte

// guidHeap is the #GUID heap: a flat array of 16-byte GUIDs, 1-based
// indexed (index 0 means "no GUID", index 1 is the first entry), per spec
// §4.1. Unlike the other heaps this one has no offset-0 sentinel value
// baked into its storage; the null index is purely an out-of-range
// convention the column codecs enforce.
type guidHeap struct {
	entries []GUID
}

func newGUIDHeap() *guidHeap {
	return &guidHeap{}
}

// Add returns the 1-based index of g, appending it if an identical GUID is
// not already present.
func (h *guidHeap) Add(g GUID) uint32 {
	for i, e := range h.entries {
		if e == g {
			return uint32(i + 1)
		}
	}
	h.entries = append(h.entries, g)
	return uint32(len(h.entries))
}

// GUID resolves a 1-based index to its value. Index 0 returns the zero
// GUID and no error (it is the well-formed "null" reference).
func (h *guidHeap) GUID(idx uint32) (GUID, error) {
	if idx == 0 {
		return GUID{}, nil
	}
	if int(idx) > len(h.entries) {
		return GUID{}, ErrCorruptIndex
	}
	return h.entries[idx-1], nil
}

// Bytes returns the heap's physical content: each GUID's 16 bytes in
// sequence, with no header.
func (h *guidHeap) Bytes() []byte {
	out := make([]byte, 0, len(h.entries)*16)
	for _, e := range h.entries {
		out = append(out, e[:]...)
	}
	return out
}

// Size reports the heap's byte size, matching stringHeap/blobHeap's Size so
// the planner can apply the same "exceeds 2^16-1 bytes" rule uniformly
// across all three heaps (spec §3): each entry is 16 bytes.
func (h *guidHeap) Size() uint32 { return uint32(len(h.entries)) * 16 }

func loadGUIDHeap(raw []byte) (*guidHeap, error) {
	if len(raw)%16 != 0 {
		return nil, ErrCorruptBlob
	}
	h := &guidHeap{entries: make([]GUID, len(raw)/16)}
	for i := range h.entries {
		copy(h.entries[i][:], raw[i*16:(i+1)*16])
	}
	return h, nil
}
