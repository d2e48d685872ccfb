// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import "testing"

// TestSortTablesFieldMarshal pins the worked example of a sort-required
// table keyed by a coded index (spec §4.5): three FieldMarshal rows
// inserted out of Parent order come out ascending by Parent.key().
func TestSortTablesFieldMarshal(t *testing.T) {
	store := newTableStore()
	store.AddRow(TableFieldMarshal, &FieldMarshalRow{Parent: CodedRef{Table: TableField, Row: 3}})
	store.AddRow(TableFieldMarshal, &FieldMarshalRow{Parent: CodedRef{Table: TableField, Row: 1}})
	store.AddRow(TableFieldMarshal, &FieldMarshalRow{Parent: CodedRef{Table: TableField, Row: 2}})

	sortTables(store)

	var gotOrder []uint32
	store.Iter(TableFieldMarshal, func(_ uint32, r Row) {
		gotOrder = append(gotOrder, r.(*FieldMarshalRow).Parent.Row)
	})
	want := []uint32{1, 2, 3}
	for i, w := range want {
		if gotOrder[i] != w {
			t.Fatalf("sorted order = %v, want %v", gotOrder, want)
		}
	}
}

// TestSortTablesGenericParamTieBreak pins the one compound sort key in the
// catalogue: GenericParam sorts by Owner first, then Number.
func TestSortTablesGenericParamTieBreak(t *testing.T) {
	store := newTableStore()
	store.AddRow(TableGenericParam, &GenericParamRow{Owner: CodedRef{Table: TableTypeDef, Row: 2}, Number: 0, Name: 0})
	store.AddRow(TableGenericParam, &GenericParamRow{Owner: CodedRef{Table: TableTypeDef, Row: 1}, Number: 1})
	store.AddRow(TableGenericParam, &GenericParamRow{Owner: CodedRef{Table: TableTypeDef, Row: 1}, Number: 0})

	sortTables(store)

	type pair struct {
		owner  uint32
		number uint16
	}
	var got []pair
	store.Iter(TableGenericParam, func(_ uint32, r Row) {
		gp := r.(*GenericParamRow)
		got = append(got, pair{gp.Owner.Row, gp.Number})
	})
	want := []pair{{1, 0}, {1, 1}, {2, 0}}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("sorted order = %v, want %v", got, want)
		}
	}
}

// TestSortTablesRemapsGenericParamConstraintOwner exercises the one
// cross-table fixup sorting requires: after GenericParam rows move, every
// GenericParamConstraint.Owner pointing at the old row numbers must be
// remapped to the new ones.
func TestSortTablesRemapsGenericParamConstraintOwner(t *testing.T) {
	store := newTableStore()
	// Row 1 (owner TypeDef#2) should end up after row 2 (owner TypeDef#1).
	store.AddRow(TableGenericParam, &GenericParamRow{Owner: CodedRef{Table: TableTypeDef, Row: 2}})
	store.AddRow(TableGenericParam, &GenericParamRow{Owner: CodedRef{Table: TableTypeDef, Row: 1}})

	// This constraint owns old row 1 (the TypeDef#2 generic parameter),
	// which should become new row 2 after the sort.
	store.AddRow(TableGenericParamConstraint, &GenericParamConstraintRow{
		Owner:      1,
		Constraint: CodedRef{Table: TableTypeRef, Row: 5},
	})

	sortTables(store)

	gc := store.Get(TableGenericParamConstraint, 1).(*GenericParamConstraintRow)
	if gc.Owner != 2 {
		t.Fatalf("GenericParamConstraint.Owner after sort = %d, want 2", gc.Owner)
	}
}
