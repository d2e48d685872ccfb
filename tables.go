// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// TableID identifies one of the 45 ECMA-335 metadata tables. The numeric
// values below are the table's row-kind tag in a Token and its bit position
// in the table stream's Valid mask (spec §3, §6); they are fixed by the
// format and must not be renumbered.
//
// Generalized from dotnet.go's table-id const block, which names the same
// 45 values but leaves table 0x06 as "Method" and table 0x26 as "File" —
// both retained here under less ambiguous names (MethodDef to match every
// other *Def table, FileMD to avoid colliding with os.File).
type TableID uint8

const (
	TableModule TableID = iota
	TableTypeRef
	TableTypeDef
	TableFieldPtr
	TableField
	TableMethodPtr
	TableMethodDef
	TableParamPtr
	TableParam
	TableInterfaceImpl
	TableMemberRef
	TableConstant
	TableCustomAttribute
	TableFieldMarshal
	TableDeclSecurity
	TableClassLayout
	TableFieldLayout
	TableStandAloneSig
	TableEventMap
	TableEventPtr
	TableEvent
	TablePropertyMap
	TablePropertyPtr
	TableProperty
	TableMethodSemantics
	TableMethodImpl
	TableModuleRef
	TableTypeSpec
	TableImplMap
	TableFieldRVA
	TableENCLog
	TableENCMap
	TableAssembly
	TableAssemblyProcessor
	TableAssemblyOS
	TableAssemblyRef
	TableAssemblyRefProcessor
	TableAssemblyRefOS
	TableFileMD
	TableExportedType
	TableManifestResource
	TableNestedClass
	TableGenericParam
	TableMethodSpec
	TableGenericParamConstraint

	numTables
)

// tableNames mirrors dotnet.go's MetadataTableIndexToString, generalized
// from a read-only lookup into the catalogue's Name field.
var tableNames = [numTables]string{
	TableModule:                 "Module",
	TableTypeRef:                "TypeRef",
	TableTypeDef:                "TypeDef",
	TableFieldPtr:               "FieldPtr",
	TableField:                  "Field",
	TableMethodPtr:              "MethodPtr",
	TableMethodDef:              "MethodDef",
	TableParamPtr:               "ParamPtr",
	TableParam:                  "Param",
	TableInterfaceImpl:          "InterfaceImpl",
	TableMemberRef:              "MemberRef",
	TableConstant:               "Constant",
	TableCustomAttribute:        "CustomAttribute",
	TableFieldMarshal:           "FieldMarshal",
	TableDeclSecurity:           "DeclSecurity",
	TableClassLayout:            "ClassLayout",
	TableFieldLayout:            "FieldLayout",
	TableStandAloneSig:          "StandAloneSig",
	TableEventMap:               "EventMap",
	TableEventPtr:               "EventPtr",
	TableEvent:                  "Event",
	TablePropertyMap:            "PropertyMap",
	TablePropertyPtr:            "PropertyPtr",
	TableProperty:               "Property",
	TableMethodSemantics:        "MethodSemantics",
	TableMethodImpl:             "MethodImpl",
	TableModuleRef:              "ModuleRef",
	TableTypeSpec:               "TypeSpec",
	TableImplMap:                "ImplMap",
	TableFieldRVA:               "FieldRVA",
	TableENCLog:                 "ENCLog",
	TableENCMap:                 "ENCMap",
	TableAssembly:               "Assembly",
	TableAssemblyProcessor:      "AssemblyProcessor",
	TableAssemblyOS:             "AssemblyOS",
	TableAssemblyRef:            "AssemblyRef",
	TableAssemblyRefProcessor:   "AssemblyRefProcessor",
	TableAssemblyRefOS:          "AssemblyRefOS",
	TableFileMD:                 "File",
	TableExportedType:           "ExportedType",
	TableManifestResource:       "ManifestResource",
	TableNestedClass:            "NestedClass",
	TableGenericParam:           "GenericParam",
	TableMethodSpec:             "MethodSpec",
	TableGenericParamConstraint: "GenericParamConstraint",
}

// tableName returns the table's ECMA-335 name, or "Unknown" for a value
// outside the catalogue (used by DiagnosticError.Error, which must never
// panic on a corrupt or forward-incompatible table id).
func tableName(id TableID) string {
	if id >= numTables {
		return "Unknown"
	}
	return tableNames[id]
}

// sortRequired lists the tables ECMA-335 §II.22 requires sorted by a
// primary key before a stream is valid, per spec §4.5. Row types implement
// sortKey to expose the columns the sorter compares.
var sortRequired = [numTables]bool{
	TableInterfaceImpl:          true,
	TableConstant:               true,
	TableCustomAttribute:        true,
	TableFieldMarshal:           true,
	TableDeclSecurity:           true,
	TableClassLayout:            true,
	TableFieldLayout:            true,
	TableEventMap:               true,
	TablePropertyMap:            true,
	TableMethodSemantics:        true,
	TableMethodImpl:             true,
	TableImplMap:                true,
	TableFieldRVA:               true,
	TableNestedClass:            true,
	TableGenericParam:           true,
	TableGenericParamConstraint: true,
}

func requiresSort(id TableID) bool {
	if id >= numTables {
		return false
	}
	return sortRequired[id]
}

// NumTables is the number of table ids the catalogue knows, for callers
// (cmd/cilmetadump) that want to iterate TableID(0)..NumTables.
const NumTables = int(numTables)

// TableName is tableName's exported form, for diagnostic tooling outside
// this package.
func TableName(id TableID) string { return tableName(id) }
