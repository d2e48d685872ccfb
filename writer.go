// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// #~ stream writer: header, Valid/Sorted masks, row counts, row data, in
// that order (spec §4.6, ECMA-335 §II.24.2.6). Generalized from the field
// layout dotnet.go's MetadataTableStreamHeader struct already describes on
// the read side; this is its write-side mirror.

const (
	tableStreamMajorVersion = 2
	tableStreamMinorVersion = 0

	heapSizeWideStrings = 0x01
	heapSizeWideGUID    = 0x02
	heapSizeWideBlob    = 0x04
)

// sortedMask reports the fixed bitmask of tables ECMA-335 names as sortable
// — independent of whether this particular module happens to populate
// them, matching how real compilers stamp Sorted (it documents which
// tables the format allows to be sorted, not which ones currently are).
func sortedMask() uint64 {
	var mask uint64
	for id := TableID(0); id < numTables; id++ {
		if requiresSort(id) {
			mask |= 1 << uint(id)
		}
	}
	return mask
}

// writeTableStream serializes the #~ stream for store using the already-
// planned widths. Rows must already be sorted (Finalize runs sortTables,
// then planWidths; widths depend on row counts and heap sizes, which
// sorting does not change, so the two could run in either order).
func writeTableStream(store *tableStore, w *widths) []byte {
	var s sink
	s.u32(0) // Reserved
	s.u8(tableStreamMajorVersion)
	s.u8(tableStreamMinorVersion)

	heapSizes := uint8(0)
	if w.wideStrings {
		heapSizes |= heapSizeWideStrings
	}
	if w.wideGUID {
		heapSizes |= heapSizeWideGUID
	}
	if w.wideBlob {
		heapSizes |= heapSizeWideBlob
	}
	s.u8(heapSizes)
	s.u8(1) // Reserved2, conventionally 1

	valid := store.present()
	s.u64(valid)
	s.u64(sortedMask())

	for id := TableID(0); id < numTables; id++ {
		if valid&(1<<uint(id)) != 0 {
			s.u32(store.Count(id))
		}
	}
	for id := TableID(0); id < numTables; id++ {
		store.Iter(id, func(_ uint32, r Row) {
			r.encode(&s, w)
		})
	}
	return s.bytes()
}
