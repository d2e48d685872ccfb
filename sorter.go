// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import "sort"

// sortTables stably sorts every table requiresSort names by its primary
// sort key (spec §4.5, ECMA-335 §II.22's "sorted tables" list), then fixes
// up the one column in the whole catalogue that addresses a sort-required
// table by plain row number: GenericParamConstraint.Owner, which points
// into GenericParam. Every other sort-required table is only ever reached
// through its own Parent/Owner coded index (looked up by value, not row
// number), so no other table needs a fixup pass.
//
// No teacher analogue: the teacher never writes, so it never sorts.
func sortTables(store *tableStore) {
	for id := TableID(0); id < numTables; id++ {
		if !requiresSort(id) {
			continue
		}
		rows := store.rows[id]
		if len(rows) < 2 {
			continue
		}
		perm := stableSortPermutation(rows, id)
		sorted := make([]Row, len(rows))
		oldToNew := make([]uint32, len(rows)+1) // 1-based old row -> 1-based new row
		for newIdx, oldIdx := range perm {
			sorted[newIdx] = rows[oldIdx]
			oldToNew[oldIdx+1] = uint32(newIdx + 1)
		}
		store.replace(id, sorted)
		if id == TableGenericParam {
			remapGenericParamConstraintOwners(store, oldToNew)
		}
	}
}

// stableSortPermutation returns the permutation of 0-based indices into
// rows that sorts them by sortKey ascending, with GenericParam additionally
// tie-broken by Number ascending (the one table ECMA-335 gives a compound
// key; every other sort-required table uses sortKey alone).
func stableSortPermutation(rows []Row, id TableID) []int {
	perm := make([]int, len(rows))
	for i := range perm {
		perm[i] = i
	}
	less := func(i, j int) bool { return rows[perm[i]].sortKey() < rows[perm[j]].sortKey() }
	if id == TableGenericParam {
		less = func(i, j int) bool {
			a, b := rows[perm[i]].(*GenericParamRow), rows[perm[j]].(*GenericParamRow)
			if a.Owner.key() != b.Owner.key() {
				return a.Owner.key() < b.Owner.key()
			}
			return a.Number < b.Number
		}
	}
	sort.SliceStable(perm, less)
	return perm
}

func remapGenericParamConstraintOwners(store *tableStore, oldToNew []uint32) {
	store.Iter(TableGenericParamConstraint, func(_ uint32, r Row) {
		gc := r.(*GenericParamConstraintRow)
		if int(gc.Owner) < len(oldToNew) {
			gc.Owner = oldToNew[gc.Owner]
		}
	})
}
