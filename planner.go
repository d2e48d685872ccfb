// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// widths carries every index-width decision the table stream header's Heaps
// byte and the column codecs need (spec §4.4): whether each heap's offset
// column is 2 or 4 bytes, whether each simple table-index column is 2 or 4
// bytes, and the same for each of the 13 coded-index families.
//
// Generalized from dotnet_helper.go's getCodedIndexSize, which computes
// this same "does it fit in 2 bytes" test but only for the read path (row
// counts come from the stream header it just parsed); here the same
// arithmetic runs once up front, against row counts the store already has,
// so both the writer and the row codecs can share one set of decisions.
type widths struct {
	wideStrings bool
	wideGUID    bool
	wideBlob    bool

	wideTable [numTables]bool
	wideCoded map[*CodedFamily]bool

	// counts is each table's row count at the time widths was planned
	// (from the store being built, or the stream header just parsed).
	// readCoded/readSimple use it to reject a row number past the end of
	// its target table (spec §4.7's "row-index exceeding target size").
	counts [numTables]uint32
}

const simpleIndexThreshold = 0xFFFF

// planWidths inspects the store's row counts and the heaps' sizes and
// decides every column's width. Must run after all rows and heap content
// are final (i.e. during Finalize, spec §4.8), since adding one more row
// can flip a decision already made.
func planWidths(store *tableStore, strings *stringHeap, us *userStringHeap, blob *blobHeap, guid *guidHeap) *widths {
	w := &widths{
		wideStrings: strings.Size() > simpleIndexThreshold,
		wideGUID:    guid.Size() > simpleIndexThreshold,
		wideBlob:    blob.Size() > simpleIndexThreshold,
		wideCoded:   make(map[*CodedFamily]bool),
	}
	for id := TableID(0); id < numTables; id++ {
		w.wideTable[id] = store.Count(id) > simpleIndexThreshold
		w.counts[id] = store.Count(id)
	}
	for _, f := range allCodedFamilies {
		max := f.maxRowsForWidth2()
		wide := false
		for _, t := range f.Tables {
			if t == noTable {
				continue
			}
			if store.Count(t) > max {
				wide = true
				break
			}
		}
		w.wideCoded[f] = wide
	}
	return w
}

var allCodedFamilies = []*CodedFamily{
	&codedTypeDefOrRef, &codedHasConstant, &codedHasCustomAttribute,
	&codedHasFieldMarshal, &codedHasDeclSecurity, &codedMemberRefParent,
	&codedHasSemantics, &codedMethodDefOrRef, &codedMemberForwarded,
	&codedImplementation, &codedCustomAttributeType, &codedResolutionScope,
	&codedTypeOrMethodDef,
}

func (w *widths) tableIndexWide(id TableID) bool { return w.wideTable[id] }

func (w *widths) codedWide(f *CodedFamily) bool { return w.wideCoded[f] }
