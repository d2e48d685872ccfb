// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import "testing"

// TestBuildTablesEmptyModule covers the minimal legal module: just the
// <Module> pseudo-type, no fields, methods, or external references.
func TestBuildTablesEmptyModule(t *testing.T) {
	e := NewEngine(nil)
	mod := &ModuleDesc{
		Name: "Empty.dll",
		Mvid: GUID{1, 2, 3, 4},
		TypeDefs: []*TypeDefDesc{
			{Name: "<Module>"},
		},
	}
	if err := mod.BuildTables(e); err != nil {
		t.Fatalf("BuildTables failed, reason: %v", err)
	}
	if err := e.Finalize(); err != nil {
		t.Fatalf("Finalize failed, reason: %v", err)
	}
	blob, err := e.Write("v4.0.30319")
	if err != nil {
		t.Fatalf("Write failed, reason: %v", err)
	}

	r, err := OpenReader(blob, nil)
	if err != nil {
		t.Fatalf("OpenReader failed, reason: %v", err)
	}
	if r.RowCount(TableModule) != 1 {
		t.Fatalf("Module row count = %d, want 1", r.RowCount(TableModule))
	}
	name, err := r.String(r.Row(TableModule, 1).(*ModuleRow).Name)
	if err != nil {
		t.Fatalf("String failed, reason: %v", err)
	}
	if name != "Empty.dll" {
		t.Fatalf("Module.Name = %q, want %q", name, "Empty.dll")
	}
	if r.RowCount(TableTypeDef) != 1 {
		t.Fatalf("TypeDef row count = %d, want 1", r.RowCount(TableTypeDef))
	}
}

// TestBuildTablesFieldsAndMethods covers the spec's "TypeDef with two
// fields" property: a second TypeDef owning two Fields and one MethodDef
// with one Param, and checks the contiguous-ownership ranges resolve.go
// computes come back correct.
func TestBuildTablesFieldsAndMethods(t *testing.T) {
	e := NewEngine(nil)
	mod := &ModuleDesc{
		Name: "Program.dll",
		Mvid: GUID{5, 6, 7, 8},
		TypeDefs: []*TypeDefDesc{
			{Name: "<Module>"},
			{
				Flags:     0x00100001,
				Name:      "Point",
				Namespace: "Geometry",
				Fields: []FieldDesc{
					{Flags: 0x0006, Name: "X", Type: &TypeSig{Elem: ElemI4}},
					{Flags: 0x0006, Name: "Y", Type: &TypeSig{Elem: ElemI4}},
				},
				Methods: []MethodDesc{
					{
						Flags:     0x0006,
						Name:      "Scale",
						Signature: &MethodSig{HasThis: true, RetType: &TypeSig{Elem: ElemVoid}, Params: []*TypeSig{{Elem: ElemI4}}},
						Params:    []ParamDesc{{Sequence: 1, Name: "factor"}},
					},
				},
			},
		},
	}
	if err := mod.BuildTables(e); err != nil {
		t.Fatalf("BuildTables failed, reason: %v", err)
	}
	if err := e.Finalize(); err != nil {
		t.Fatalf("Finalize failed, reason: %v", err)
	}
	blob, err := e.Write("v4.0.30319")
	if err != nil {
		t.Fatalf("Write failed, reason: %v", err)
	}

	r, err := OpenReader(blob, nil)
	if err != nil {
		t.Fatalf("OpenReader failed, reason: %v", err)
	}

	pointRow := uint32(2)
	typeDef := r.Row(TableTypeDef, pointRow).(*TypeDefRow)
	ns, err := r.String(typeDef.TypeNamespace)
	if err != nil {
		t.Fatalf("String failed, reason: %v", err)
	}
	if ns != "Geometry" {
		t.Fatalf("TypeDef.Namespace = %q, want %q", ns, "Geometry")
	}

	fs, fe, err := r.FieldRange(pointRow)
	if err != nil {
		t.Fatalf("FieldRange failed, reason: %v", err)
	}
	if fe-fs != 2 {
		t.Fatalf("FieldRange = [%d,%d), want 2 fields", fs, fe)
	}
	fname, err := r.String(r.Row(TableField, fs).(*FieldRow).Name)
	if err != nil {
		t.Fatalf("String failed, reason: %v", err)
	}
	if fname != "X" {
		t.Fatalf("first field name = %q, want %q", fname, "X")
	}

	ms, me, err := r.MethodRange(pointRow)
	if err != nil {
		t.Fatalf("MethodRange failed, reason: %v", err)
	}
	if me-ms != 1 {
		t.Fatalf("MethodRange = [%d,%d), want 1 method", ms, me)
	}

	ps, pe, err := r.ParamRange(ms)
	if err != nil {
		t.Fatalf("ParamRange failed, reason: %v", err)
	}
	if pe-ps != 1 {
		t.Fatalf("ParamRange = [%d,%d), want 1 param", ps, pe)
	}
	pname, err := r.String(r.Row(TableParam, ps).(*ParamRow).Name)
	if err != nil {
		t.Fatalf("String failed, reason: %v", err)
	}
	if pname != "factor" {
		t.Fatalf("param name = %q, want %q", pname, "factor")
	}
}
