// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import "testing"

func TestFieldSigRoundTrip(t *testing.T) {
	tests := []*TypeSig{
		{Elem: ElemI4},
		{Elem: ElemString},
		{Elem: ElemSZArray, Elem1: &TypeSig{Elem: ElemObject}},
		{Elem: ElemClass, TypeRef: TableTypeRef, TypeRow: 3},
		{Elem: ElemValueType, TypeRef: TableTypeDef, TypeRow: 1},
	}
	for _, want := range tests {
		blob, err := EncodeFieldSig(want)
		if err != nil {
			t.Fatalf("EncodeFieldSig(%+v) failed, reason: %v", want, err)
		}
		got, err := DecodeFieldSig(blob)
		if err != nil {
			t.Fatalf("DecodeFieldSig failed, reason: %v", err)
		}
		if got.Elem != want.Elem {
			t.Fatalf("Elem = %v, want %v", got.Elem, want.Elem)
		}
		if want.Elem == ElemClass || want.Elem == ElemValueType {
			if got.TypeRef != want.TypeRef || got.TypeRow != want.TypeRow {
				t.Fatalf("TypeRef/TypeRow = (%v, %d), want (%v, %d)", got.TypeRef, got.TypeRow, want.TypeRef, want.TypeRow)
			}
		}
		if want.Elem == ElemSZArray {
			if got.Elem1 == nil || got.Elem1.Elem != want.Elem1.Elem {
				t.Fatalf("Elem1 round trip mismatch")
			}
		}
	}
}

// TestFieldSigRoundTripCustomMod covers a modreq/modopt-qualified field
// type (e.g. a volatile field, ECMA-335 §II.23.2.4), including the case of
// two stacked modifiers.
func TestFieldSigRoundTripCustomMod(t *testing.T) {
	want := &TypeSig{
		Elem:       ElemCModOpt,
		ModTypeRef: TableTypeRef,
		ModTypeRow: 4,
		Elem1: &TypeSig{
			Elem:       ElemCModReqd,
			ModTypeRef: TableTypeRef,
			ModTypeRow: 2,
			Elem1:      &TypeSig{Elem: ElemI4},
		},
	}
	blob, err := EncodeFieldSig(want)
	if err != nil {
		t.Fatalf("EncodeFieldSig failed, reason: %v", err)
	}
	got, err := DecodeFieldSig(blob)
	if err != nil {
		t.Fatalf("DecodeFieldSig failed, reason: %v", err)
	}
	if got.Elem != ElemCModOpt || got.ModTypeRef != TableTypeRef || got.ModTypeRow != 4 {
		t.Fatalf("outer modifier round trip mismatch: got %+v", got)
	}
	if got.Elem1 == nil || got.Elem1.Elem != ElemCModReqd || got.Elem1.ModTypeRow != 2 {
		t.Fatalf("inner modifier round trip mismatch: got %+v", got.Elem1)
	}
	if got.Elem1.Elem1 == nil || got.Elem1.Elem1.Elem != ElemI4 {
		t.Fatalf("modified type round trip mismatch: got %+v", got.Elem1.Elem1)
	}
}

// TestLocalVarSigRoundTripCustomMod covers a local whose type carries a
// leading CMOD_OPT, stored as the outermost layer of Type's own TypeSig
// chain rather than a separate field on LocalVar.
func TestLocalVarSigRoundTripCustomMod(t *testing.T) {
	want := []*LocalVar{
		{Type: &TypeSig{
			Elem:       ElemCModOpt,
			ModTypeRef: TableTypeRef,
			ModTypeRow: 7,
			Elem1:      &TypeSig{Elem: ElemI4},
		}},
	}
	blob, err := EncodeLocalVarSig(want)
	if err != nil {
		t.Fatalf("EncodeLocalVarSig failed, reason: %v", err)
	}
	got, err := DecodeLocalVarSig(blob)
	if err != nil {
		t.Fatalf("DecodeLocalVarSig failed, reason: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d locals, want 1", len(got))
	}
	if got[0].Type.Elem != ElemCModOpt || got[0].Type.ModTypeRow != 7 {
		t.Fatalf("local type modifier round trip mismatch: got %+v", got[0].Type)
	}
	if got[0].Type.Elem1 == nil || got[0].Type.Elem1.Elem != ElemI4 {
		t.Fatalf("modified type round trip mismatch: got %+v", got[0].Type.Elem1)
	}
}

func TestMethodSigRoundTripNoVarArg(t *testing.T) {
	want := &MethodSig{
		HasThis: true,
		RetType: &TypeSig{Elem: ElemVoid},
		Params:  []*TypeSig{{Elem: ElemI4}, {Elem: ElemString}},
	}
	var s sink
	if err := encodeMethodSig(&s, want); err != nil {
		t.Fatalf("encodeMethodSig failed, reason: %v", err)
	}
	got, err := decodeMethodSig(newCursor(s.bytes()))
	if err != nil {
		t.Fatalf("decodeMethodSig failed, reason: %v", err)
	}
	if got.HasThis != want.HasThis {
		t.Fatalf("HasThis = %v, want %v", got.HasThis, want.HasThis)
	}
	if len(got.Params) != 2 || got.Params[0].Elem != ElemI4 || got.Params[1].Elem != ElemString {
		t.Fatalf("Params round trip mismatch: %+v", got.Params)
	}
	if len(got.VarArgParams) != 0 {
		t.Fatalf("got %d vararg params, want 0", len(got.VarArgParams))
	}
}

// TestMethodSigRoundTripVarArg exercises the SENTINEL split (ECMA-335
// §II.23.2.2): params before it are the call site's fixed args, params
// after are the varargs only present at the call, not the declaration.
func TestMethodSigRoundTripVarArg(t *testing.T) {
	want := &MethodSig{
		IsVarArg:     true,
		RetType:      &TypeSig{Elem: ElemVoid},
		Params:       []*TypeSig{{Elem: ElemString}},
		VarArgParams: []*TypeSig{{Elem: ElemI4}, {Elem: ElemI4}},
	}
	var s sink
	if err := encodeMethodSig(&s, want); err != nil {
		t.Fatalf("encodeMethodSig failed, reason: %v", err)
	}
	got, err := decodeMethodSig(newCursor(s.bytes()))
	if err != nil {
		t.Fatalf("decodeMethodSig failed, reason: %v", err)
	}
	if !got.IsVarArg {
		t.Fatalf("IsVarArg should round trip true")
	}
	if len(got.Params) != 1 || got.Params[0].Elem != ElemString {
		t.Fatalf("Params round trip mismatch: %+v", got.Params)
	}
	if len(got.VarArgParams) != 2 {
		t.Fatalf("got %d vararg params, want 2", len(got.VarArgParams))
	}
}

func TestArrayShapeRoundTrip(t *testing.T) {
	want := &ArrayShape{Rank: 2, Sizes: []uint32{3, 4}, LowerBounds: []int32{0, -1}}
	var s sink
	if err := encodeArrayShape(&s, want); err != nil {
		t.Fatalf("encodeArrayShape failed, reason: %v", err)
	}
	got, err := decodeArrayShape(newCursor(s.bytes()))
	if err != nil {
		t.Fatalf("decodeArrayShape failed, reason: %v", err)
	}
	if got.Rank != want.Rank || len(got.Sizes) != len(want.Sizes) || len(got.LowerBounds) != len(want.LowerBounds) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
	for i := range want.LowerBounds {
		if got.LowerBounds[i] != want.LowerBounds[i] {
			t.Fatalf("LowerBounds[%d] = %d, want %d", i, got.LowerBounds[i], want.LowerBounds[i])
		}
	}
}

func TestLocalVarSigRoundTrip(t *testing.T) {
	want := []*LocalVar{
		{Type: &TypeSig{Elem: ElemI4}},
		{Type: &TypeSig{Elem: ElemObject}, Pinned: true},
		{Type: &TypeSig{Elem: ElemI4}, ByRef: true},
	}
	blob, err := EncodeLocalVarSig(want)
	if err != nil {
		t.Fatalf("EncodeLocalVarSig failed, reason: %v", err)
	}
	got, err := DecodeLocalVarSig(blob)
	if err != nil {
		t.Fatalf("DecodeLocalVarSig failed, reason: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d locals, want %d", len(got), len(want))
	}
	if !got[1].Pinned {
		t.Fatalf("local[1] should round trip Pinned=true")
	}
	if !got[2].ByRef {
		t.Fatalf("local[2] should round trip ByRef=true")
	}
}

func TestPropertySigRoundTrip(t *testing.T) {
	want := &PropertySig{HasThis: true, Type: &TypeSig{Elem: ElemI4}, Params: []*TypeSig{{Elem: ElemI4}}}
	blob, err := EncodePropertySig(want)
	if err != nil {
		t.Fatalf("EncodePropertySig failed, reason: %v", err)
	}
	got, err := DecodePropertySig(blob)
	if err != nil {
		t.Fatalf("DecodePropertySig failed, reason: %v", err)
	}
	if got.HasThis != want.HasThis || got.Type.Elem != want.Type.Elem || len(got.Params) != 1 {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}
