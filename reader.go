// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// #~ (and tolerated #-) stream reader: header, Valid/Sorted masks, row
// counts, row data. Generalized from dotnet.go's parseCLRHeaderDirectory
// (stream discovery, the row-count prefix loop) and
// dotnet_metadata_tables.go's per-table parse functions into one
// table-agnostic loop over the catalogue, driven by newRow/Row.decode
// instead of 45 bespoke parse functions each recomputing index widths.

// readTableStream parses the #~/#- stream bytes into a tableStore plus the
// widths the header's own row counts imply (spec §4.7). SkipBody controls
// whether a row-decode failure aborts the whole read (strict) or the row is
// dropped, with no record kept, so later rows keep parsing (lenient, spec §7).
func readTableStream(data []byte, skipBody bool) (*tableStore, *widths, error) {
	c := newCursor(data)
	if _, err := c.u32(); err != nil { // Reserved
		return nil, nil, ErrShortRead
	}
	if _, err := c.u8(); err != nil { // MajorVersion
		return nil, nil, ErrShortRead
	}
	if _, err := c.u8(); err != nil { // MinorVersion
		return nil, nil, ErrShortRead
	}
	heapSizes, err := c.u8()
	if err != nil {
		return nil, nil, ErrShortRead
	}
	if _, err := c.u8(); err != nil { // Reserved2
		return nil, nil, ErrShortRead
	}
	valid, err := c.u64()
	if err != nil {
		return nil, nil, ErrShortRead
	}
	if _, err := c.u64(); err != nil { // Sorted
		return nil, nil, ErrShortRead
	}
	if valid>>uint(numTables) != 0 {
		return nil, nil, ErrUnsupportedTable
	}

	var counts [numTables]uint32
	for id := TableID(0); id < numTables; id++ {
		if valid&(1<<uint(id)) != 0 {
			n, err := c.u32()
			if err != nil {
				return nil, nil, ErrShortRead
			}
			counts[id] = n
		}
	}

	w := &widths{
		wideStrings: heapSizes&heapSizeWideStrings != 0,
		wideGUID:    heapSizes&heapSizeWideGUID != 0,
		wideBlob:    heapSizes&heapSizeWideBlob != 0,
		wideCoded:   make(map[*CodedFamily]bool),
	}
	for id := TableID(0); id < numTables; id++ {
		w.wideTable[id] = counts[id] > simpleIndexThreshold
		w.counts[id] = counts[id]
	}
	for _, f := range allCodedFamilies {
		max := f.maxRowsForWidth2()
		wide := false
		for _, t := range f.Tables {
			if t == noTable {
				continue
			}
			if counts[t] > max {
				wide = true
				break
			}
		}
		w.wideCoded[f] = wide
	}

	store := newTableStore()
	for id := TableID(0); id < numTables; id++ {
		n := counts[id]
		if n == 0 {
			continue
		}
		for i := uint32(0); i < n; i++ {
			row := newRow(id)
			if row == nil {
				return nil, nil, ErrUnsupportedTable
			}
			if err := row.decode(c, w); err != nil {
				de := diag(id, int(i+1), "row", err)
				if !skipBody {
					return nil, nil, de
				}
				continue
			}
			store.AddRow(id, row)
		}
	}
	return store, w, nil
}
