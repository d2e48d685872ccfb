// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// Reader is the read-side counterpart of Engine: it owns a parsed table
// store plus the four heaps and answers the resolution questions a client
// walking an existing image needs — what a coded index points at, what
// range of child rows a TypeDef/EventMap/PropertyMap/MethodDef owns. The
// teacher stops at raw indices (dotnet_metadata_tables.go stores Extends,
// FieldList, etc. as plain ints); this generalizes that into a table-
// agnostic resolution layer.
type Reader struct {
	store   *tableStore
	widths  *widths
	strings *stringHeap
	us      *userStringHeap
	blob    *blobHeap
	guid    *guidHeap
}

// OpenReader parses a metadata-root blob (as produced by WriteMetadataRoot,
// or read from a real PE image via pehost) into a Reader.
func OpenReader(data []byte, opts *Options) (*Reader, error) {
	if opts == nil {
		opts = &Options{}
	}
	root, err := ReadMetadataRoot(data)
	if err != nil {
		return nil, err
	}
	tableBytes, ok := root.Streams["#~"]
	if !ok {
		tableBytes, ok = root.Streams["#-"]
	}
	if !ok {
		return nil, ErrCorruptIndex
	}
	store, w, err := readTableStream(tableBytes, opts.SkipBody)
	if err != nil {
		return nil, err
	}
	r := &Reader{
		store:   store,
		widths:  w,
		strings: loadStringHeap(root.Streams["#Strings"]),
		us:      loadUserStringHeap(root.Streams["#US"]),
		blob:    loadBlobHeap(root.Streams["#Blob"]),
	}
	if g, ok := root.Streams["#GUID"]; ok {
		guidHeap, err := loadGUIDHeap(g)
		if err != nil {
			return nil, err
		}
		r.guid = guidHeap
	} else {
		r.guid = newGUIDHeap()
	}
	return r, nil
}

// String resolves a #Strings heap offset.
func (r *Reader) String(off uint32) (string, error) { return r.strings.String(off) }

// UserString resolves a #US heap offset.
func (r *Reader) UserString(off uint32) (string, error) { return r.us.String(off) }

// Blob resolves a #Blob heap offset to its raw payload.
func (r *Reader) Blob(off uint32) ([]byte, error) { return r.blob.Bytes(off) }

// GUID resolves a 1-based #GUID heap index.
func (r *Reader) GUID(idx uint32) (GUID, error) { return r.guid.GUID(idx) }

// RowCount returns how many rows table id has.
func (r *Reader) RowCount(id TableID) uint32 { return r.store.Count(id) }

// Row returns the row at the given 1-based row number.
func (r *Reader) Row(id TableID, row uint32) Row { return r.store.Get(id, row) }

// Iter calls fn for every row in table id.
func (r *Reader) Iter(id TableID, fn func(row uint32, v Row)) { r.store.Iter(id, fn) }

// ResolveCoded decodes a raw coded-index value already read off a row
// (exposed for callers building their own tooling over Row directly; the
// row decoders in rows.go call CodedFamily.decode internally during
// Row.decode, so most callers never need this).
func ResolveCoded(f *CodedFamily, raw uint32) (TableID, uint32, error) {
	return f.decode(raw)
}

// FieldRange returns the inclusive-exclusive [start, end) row range of
// Field rows owned by the TypeDef at row typeDefRow, per spec §3's
// contiguous-ownership invariant: a TypeDef's fields run from its
// FieldList up to (but not including) the next TypeDef's FieldList, or the
// end of the Field table for the last TypeDef.
func (r *Reader) FieldRange(typeDefRow uint32) (start, end uint32, err error) {
	return r.childRange(TableTypeDef, typeDefRow, TableField, func(row Row) uint32 {
		return row.(*TypeDefRow).FieldList
	})
}

// MethodRange is FieldRange's MethodDef analogue.
func (r *Reader) MethodRange(typeDefRow uint32) (start, end uint32, err error) {
	return r.childRange(TableTypeDef, typeDefRow, TableMethodDef, func(row Row) uint32 {
		return row.(*TypeDefRow).MethodList
	})
}

// ParamRange is FieldRange's Param-owned-by-MethodDef analogue.
func (r *Reader) ParamRange(methodDefRow uint32) (start, end uint32, err error) {
	return r.childRange(TableMethodDef, methodDefRow, TableParam, func(row Row) uint32 {
		return row.(*MethodDefRow).ParamList
	})
}

// EventRange is FieldRange's Event-owned-by-EventMap analogue.
func (r *Reader) EventRange(eventMapRow uint32) (start, end uint32, err error) {
	return r.childRange(TableEventMap, eventMapRow, TableEvent, func(row Row) uint32 {
		return row.(*EventMapRow).EventList
	})
}

// PropertyRange is FieldRange's Property-owned-by-PropertyMap analogue.
func (r *Reader) PropertyRange(propertyMapRow uint32) (start, end uint32, err error) {
	return r.childRange(TablePropertyMap, propertyMapRow, TableProperty, func(row Row) uint32 {
		return row.(*PropertyMapRow).PropertyList
	})
}

// childRange generalizes the five owner/child pairs above: look up
// ownerRow's start index into childTable via start, then find the start
// index of the next owner row that has children (or the end of childTable
// if no later owner has any). A start index of 0 means "no children".
func (r *Reader) childRange(ownerTable TableID, ownerRow uint32, childTable TableID, start func(Row) uint32) (uint32, uint32, error) {
	owner := r.store.Get(ownerTable, ownerRow)
	if owner == nil {
		return 0, 0, ErrCorruptIndex
	}
	s := start(owner)
	if s == 0 {
		return 0, 0, nil
	}
	e := r.store.Count(childTable) + 1
	for next := ownerRow + 1; next <= r.store.Count(ownerTable); next++ {
		if ns := start(r.store.Get(ownerTable, next)); ns != 0 {
			e = ns
			break
		}
	}
	if s > e {
		return 0, 0, ErrCorruptIndex
	}
	return s, e, nil
}
