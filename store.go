// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// Row is implemented by every per-table row type in rows.go. encode/decode
// use the widths the planner has already computed; sortKey is only called
// for tables requiresSort reports true for.
type Row interface {
	encode(s *sink, w *widths)
	decode(c *cursor, w *widths) error
	sortKey() uint32 // primary sort key column value, 0 for unsorted tables
}

// tableStore holds one growable, insertion-order-preserving slice of rows
// per table id, generalizing the teacher's map[int]*MetadataTable
// (dotnet.go's CLRData.MetadataTables) from a read-only snapshot into a
// mutable store the writer path also populates.
type tableStore struct {
	rows [numTables][]Row
}

func newTableStore() *tableStore {
	return &tableStore{}
}

// AddRow appends r to table id and returns the row's 1-based row number
// (also its token's low 24 bits, spec §3/§6).
func (s *tableStore) AddRow(id TableID, r Row) uint32 {
	s.rows[id] = append(s.rows[id], r)
	return uint32(len(s.rows[id]))
}

// Get returns the row at the given 1-based row number, or nil if out of
// range.
func (s *tableStore) Get(id TableID, row uint32) Row {
	if row == 0 || int(row) > len(s.rows[id]) {
		return nil
	}
	return s.rows[id][row-1]
}

// Count returns the number of rows currently stored for id.
func (s *tableStore) Count(id TableID) uint32 {
	return uint32(len(s.rows[id]))
}

// Iter calls fn for every row in table id, in current row-number order.
func (s *tableStore) Iter(id TableID, fn func(row uint32, r Row)) {
	for i, r := range s.rows[id] {
		fn(uint32(i+1), r)
	}
}

// replace swaps in a freshly sorted slice for id (used by sortTables in
// sorter.go, which after swapping GenericParam remaps
// GenericParamConstraint.Owner; no other column is remapped).
func (s *tableStore) replace(id TableID, rows []Row) {
	s.rows[id] = rows
}

// present reports which tables have at least one row, used to build the
// Valid bitmask the #~ stream header carries (spec §6).
func (s *tableStore) present() uint64 {
	var mask uint64
	for id := TableID(0); id < numTables; id++ {
		if len(s.rows[id]) > 0 {
			mask |= 1 << uint(id)
		}
	}
	return mask
}
