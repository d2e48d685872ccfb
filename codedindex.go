// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// CodedFamily identifies one of the 13 coded-index families used across the
// table catalogue's foreign-key columns. Each family packs a small "which
// table" tag into the low bits of an index and a row number into the
// remaining bits (spec §4.4, ECMA-335 §II.24.2.6).
//
// Generalized from dotnet_helper.go's package-level codedidx vars
// (idxTypeDefOrRef, idxHasConstant, ...), which only ever need to be read;
// here the same tag-bits/member-table data also drives encoding and the
// planner's width decision.
type CodedFamily struct {
	Name    string
	TagBits uint
	Tables  []TableID // index by tag value; a slot the real format leaves without a member holds noTable
}

// The null table id (0xFF, outside the catalogue's table ids) marks a coded
// index tag slot the family leaves unused, matching the teacher's own
// convention of a 0 in idx.idx meaning "no such tag".
const noTable = TableID(0xFF)

var (
	codedTypeDefOrRef = CodedFamily{
		Name: "TypeDefOrRef", TagBits: 2,
		Tables: []TableID{TableTypeDef, TableTypeRef, TableTypeSpec},
	}
	codedHasConstant = CodedFamily{
		Name: "HasConstant", TagBits: 2,
		Tables: []TableID{TableField, TableParam, TableProperty},
	}
	codedHasCustomAttribute = CodedFamily{
		Name: "HasCustomAttribute", TagBits: 5,
		Tables: []TableID{
			TableMethodDef, TableField, TableTypeRef, TableTypeDef, TableParam,
			TableInterfaceImpl, TableMemberRef, TableModule, TableDeclSecurity,
			TableProperty, TableEvent, TableStandAloneSig, TableModuleRef,
			TableTypeSpec, TableAssembly, TableAssemblyRef, TableFileMD,
			TableExportedType, TableManifestResource, TableGenericParam,
			TableGenericParamConstraint, TableMethodSpec,
		},
	}
	codedHasFieldMarshal = CodedFamily{
		Name: "HasFieldMarshal", TagBits: 1,
		Tables: []TableID{TableField, TableParam},
	}
	codedHasDeclSecurity = CodedFamily{
		Name: "HasDeclSecurity", TagBits: 2,
		Tables: []TableID{TableTypeDef, TableMethodDef, TableAssembly},
	}
	codedMemberRefParent = CodedFamily{
		Name: "MemberRefParent", TagBits: 3,
		Tables: []TableID{TableTypeDef, TableTypeRef, TableModuleRef, TableMethodDef, TableTypeSpec},
	}
	codedHasSemantics = CodedFamily{
		Name: "HasSemantics", TagBits: 1,
		Tables: []TableID{TableEvent, TableProperty},
	}
	codedMethodDefOrRef = CodedFamily{
		Name: "MethodDefOrRef", TagBits: 1,
		Tables: []TableID{TableMethodDef, TableMemberRef},
	}
	codedMemberForwarded = CodedFamily{
		Name: "MemberForwarded", TagBits: 1,
		Tables: []TableID{TableField, TableMethodDef},
	}
	codedImplementation = CodedFamily{
		Name: "Implementation", TagBits: 2,
		Tables: []TableID{TableFileMD, TableAssemblyRef, TableExportedType},
	}
	codedCustomAttributeType = CodedFamily{
		Name: "CustomAttributeType", TagBits: 3,
		Tables: []TableID{noTable, noTable, TableMethodDef, TableMemberRef, noTable},
	}
	codedResolutionScope = CodedFamily{
		Name: "ResolutionScope", TagBits: 2,
		Tables: []TableID{TableModule, TableModuleRef, TableAssemblyRef, TableTypeRef},
	}
	codedTypeOrMethodDef = CodedFamily{
		Name: "TypeOrMethodDef", TagBits: 1,
		Tables: []TableID{TableTypeDef, TableMethodDef},
	}
)

// codedIndex packs a (table, row) pair into one raw index value: the low
// TagBits select the member table, the remaining high bits hold the 1-based
// row number, per ECMA-335 §II.24.2.6.
type codedIndex struct {
	family *CodedFamily
}

// tagFor returns the tag value for table within the family, or false if
// table is not a member (spec §4.4's "coded index out of range" case).
func (f *CodedFamily) tagFor(table TableID) (uint32, bool) {
	for i, t := range f.Tables {
		if t == table {
			return uint32(i), true
		}
	}
	return 0, false
}

// encode packs (table, row) into one raw coded-index value. row is the
// 1-based row number; row 0 means "null reference".
func (f *CodedFamily) encode(table TableID, row uint32) (uint32, error) {
	if row == 0 {
		return 0, nil
	}
	tag, ok := f.tagFor(table)
	if !ok {
		return 0, ErrCorruptIndex
	}
	return (row << f.TagBits) | tag, nil
}

// decode splits a raw coded-index value into its member table and 1-based
// row number. A raw value of 0 decodes to (noTable, 0), the family's null.
func (f *CodedFamily) decode(raw uint32) (TableID, uint32, error) {
	if raw == 0 {
		return noTable, 0, nil
	}
	mask := uint32(1)<<f.TagBits - 1
	tag := raw & mask
	row := raw >> f.TagBits
	if int(tag) >= len(f.Tables) || f.Tables[tag] == noTable {
		return noTable, 0, ErrCorruptIndex
	}
	return f.Tables[tag], row, nil
}

// maxRowsForWidth2 returns the largest row count the family's member tables
// may have before a coded-index column must widen from 2 to 4 bytes (spec
// §4.4): a 2-byte raw value has 16-TagBits usable bits for the row number.
func (f *CodedFamily) maxRowsForWidth2() uint32 {
	return uint32(1)<<(16-f.TagBits) - 1
}
