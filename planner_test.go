// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import "testing"

func TestPlanWidthsTableIndexNarrow(t *testing.T) {
	store := newTableStore()
	for i := 0; i < simpleIndexThreshold; i++ {
		store.AddRow(TableTypeDef, &TypeDefRow{})
	}
	w := planWidths(store, newStringHeap(), newUserStringHeap(), newBlobHeap(), newGUIDHeap())
	if w.tableIndexWide(TableTypeDef) {
		t.Fatalf("TypeDef with %d rows should still fit a 2-byte index", simpleIndexThreshold)
	}
}

// TestPlanWidthsTableIndexFlip pins spec §4.4's flip point: once a simple
// table index's target table holds more rows than fit in 16 bits, every
// column pointing at that table must widen to 4 bytes.
func TestPlanWidthsTableIndexFlip(t *testing.T) {
	store := newTableStore()
	for i := 0; i < simpleIndexThreshold+1; i++ {
		store.AddRow(TableTypeDef, &TypeDefRow{})
	}
	w := planWidths(store, newStringHeap(), newUserStringHeap(), newBlobHeap(), newGUIDHeap())
	if !w.tableIndexWide(TableTypeDef) {
		t.Fatalf("TypeDef with %d rows should require a 4-byte index", simpleIndexThreshold+1)
	}
}

func TestPlanWidthsHeapNarrow(t *testing.T) {
	strings := newStringHeap()
	strings.Add("Program")
	store := newTableStore()
	w := planWidths(store, strings, newUserStringHeap(), newBlobHeap(), newGUIDHeap())
	if w.wideStrings {
		t.Fatalf("a tiny #Strings heap should not require a 4-byte offset column")
	}
}

func TestPlanWidthsHeapFlip(t *testing.T) {
	strings := newStringHeap()
	for i := 0; strings.Size() <= simpleIndexThreshold; i++ {
		strings.Add(string(rune('a'+i%26)) + string(rune(i)))
	}
	store := newTableStore()
	w := planWidths(store, strings, newUserStringHeap(), newBlobHeap(), newGUIDHeap())
	if !w.wideStrings {
		t.Fatalf("a #Strings heap past %d bytes should require a 4-byte offset column", simpleIndexThreshold)
	}
}

// TestPlanWidthsGUIDHeapFlip pins the #GUID heap's flip point in entry
// terms: each entry is 16 bytes, so the byte threshold simpleIndexThreshold
// (2^16-1) is crossed at 4096 entries (4095*16 = 65520 still fits, 4096*16 =
// 65536 does not), not at simpleIndexThreshold entries.
func TestPlanWidthsGUIDHeapFlip(t *testing.T) {
	const flipEntries = simpleIndexThreshold/16 + 1 // 4096

	narrow := newGUIDHeap()
	for i := 0; i < flipEntries-1; i++ {
		narrow.Add(GUID{byte(i), byte(i >> 8)})
	}
	store := newTableStore()
	w := planWidths(store, newStringHeap(), newUserStringHeap(), newBlobHeap(), narrow)
	if w.wideGUID {
		t.Fatalf("a #GUID heap with %d entries (%d bytes) should still fit a 2-byte index", flipEntries-1, narrow.Size())
	}

	wide := newGUIDHeap()
	for i := 0; i < flipEntries; i++ {
		wide.Add(GUID{byte(i), byte(i >> 8)})
	}
	w = planWidths(store, newStringHeap(), newUserStringHeap(), newBlobHeap(), wide)
	if !w.wideGUID {
		t.Fatalf("a #GUID heap with %d entries (%d bytes) should require a 4-byte index", flipEntries, wide.Size())
	}
}

func TestPlanWidthsCodedIndexFlip(t *testing.T) {
	// codedTypeDefOrRef has TagBits=2, so maxRowsForWidth2 = 2^14 - 1.
	store := newTableStore()
	max := codedTypeDefOrRef.maxRowsForWidth2()
	for i := uint32(0); i < max+1; i++ {
		store.AddRow(TableTypeDef, &TypeDefRow{})
	}
	w := planWidths(store, newStringHeap(), newUserStringHeap(), newBlobHeap(), newGUIDHeap())
	if !w.codedWide(&codedTypeDefOrRef) {
		t.Fatalf("TypeDefOrRef with %d TypeDef rows should require a wide coded index", max+1)
	}
}
