// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// Row codecs for all 45 ECMA-335 tables, generalized from
// dotnet_metadata_tables.go's per-table *TableRow structs and
// parseMetadata*Table functions: every struct below keeps the teacher's
// column names and order, but is made bidirectional (the teacher only ever
// reads), and reads/writes index widths decided by the planner (the
// teacher recomputes per-field width on every field access via
// getCodedIndexSize instead of once up front).
//
// CodedRef and SimpleRef carry enough information for both directions.
// Their key() is the sort key sorter.go uses to group/sort rows by parent
// for the tables requiresSort names; it is not the coded index's raw wire
// value (which depends on a CodedFamily's tag width, decided later by the
// planner) but the target table id in the high byte and the row in the low
// 24 bits, so rows order by target table first and by row within a table.
// That is not the wire value's order, in which the row dominates and the
// tag only breaks ties.

// CodedRef is a foreign key through one of the 13 coded-index families.
type CodedRef struct {
	Table TableID
	Row   uint32
}

func (r CodedRef) key() uint32 { return uint32(r.Table)<<24 | r.Row }

func readCoded(c *cursor, w *widths, f *CodedFamily) (CodedRef, error) {
	raw, err := c.index(w.codedWide(f))
	if err != nil {
		return CodedRef{}, err
	}
	table, row, err := f.decode(raw)
	if err != nil {
		return CodedRef{}, err
	}
	if table != noTable && row > w.counts[table] {
		return CodedRef{}, ErrCorruptIndex
	}
	return CodedRef{Table: table, Row: row}, nil
}

func writeCoded(s *sink, w *widths, f *CodedFamily, r CodedRef) error {
	raw, err := f.encode(r.Table, r.Row)
	if err != nil {
		return err
	}
	s.index(raw, w.codedWide(f))
	return nil
}

func readSimple(c *cursor, w *widths, id TableID) (uint32, error) {
	row, err := c.index(w.tableIndexWide(id))
	if err != nil {
		return 0, err
	}
	if row > w.counts[id] {
		return 0, ErrCorruptIndex
	}
	return row, nil
}

func writeSimple(s *sink, w *widths, id TableID, v uint32) {
	s.index(v, w.tableIndexWide(id))
}

func readStr(c *cursor, w *widths) (uint32, error)  { return c.index(w.wideStrings) }
func writeStr(s *sink, w *widths, v uint32)          { s.index(v, w.wideStrings) }
func readBlob(c *cursor, w *widths) (uint32, error) { return c.index(w.wideBlob) }
func writeBlob(s *sink, w *widths, v uint32)         { s.index(v, w.wideBlob) }
func readGUID(c *cursor, w *widths) (uint32, error) { return c.index(w.wideGUID) }
func writeGUID(s *sink, w *widths, v uint32)         { s.index(v, w.wideGUID) }

// --- 0x00 Module ---

type ModuleRow struct {
	Generation uint16
	Name       uint32
	Mvid       uint32
	EncId      uint32
	EncBaseId  uint32
}

func (r *ModuleRow) encode(s *sink, w *widths) {
	s.u16(r.Generation)
	writeStr(s, w, r.Name)
	writeGUID(s, w, r.Mvid)
	writeGUID(s, w, r.EncId)
	writeGUID(s, w, r.EncBaseId)
}

func (r *ModuleRow) decode(c *cursor, w *widths) (err error) {
	if r.Generation, err = c.u16(); err != nil {
		return err
	}
	if r.Name, err = readStr(c, w); err != nil {
		return err
	}
	if r.Mvid, err = readGUID(c, w); err != nil {
		return err
	}
	if r.EncId, err = readGUID(c, w); err != nil {
		return err
	}
	r.EncBaseId, err = readGUID(c, w)
	return err
}

func (r *ModuleRow) sortKey() uint32 { return 0 }

// --- 0x01 TypeRef ---

type TypeRefRow struct {
	ResolutionScope CodedRef
	TypeName        uint32
	TypeNamespace   uint32
}

func (r *TypeRefRow) encode(s *sink, w *widths) {
	writeCoded(s, w, &codedResolutionScope, r.ResolutionScope)
	writeStr(s, w, r.TypeName)
	writeStr(s, w, r.TypeNamespace)
}

func (r *TypeRefRow) decode(c *cursor, w *widths) (err error) {
	if r.ResolutionScope, err = readCoded(c, w, &codedResolutionScope); err != nil {
		return err
	}
	if r.TypeName, err = readStr(c, w); err != nil {
		return err
	}
	r.TypeNamespace, err = readStr(c, w)
	return err
}

func (r *TypeRefRow) sortKey() uint32 { return 0 }

// --- 0x02 TypeDef ---

type TypeDefRow struct {
	Flags         uint32
	TypeName      uint32
	TypeNamespace uint32
	Extends       CodedRef
	FieldList     uint32
	MethodList    uint32
}

func (r *TypeDefRow) encode(s *sink, w *widths) {
	s.u32(r.Flags)
	writeStr(s, w, r.TypeName)
	writeStr(s, w, r.TypeNamespace)
	writeCoded(s, w, &codedTypeDefOrRef, r.Extends)
	writeSimple(s, w, TableField, r.FieldList)
	writeSimple(s, w, TableMethodDef, r.MethodList)
}

func (r *TypeDefRow) decode(c *cursor, w *widths) (err error) {
	if r.Flags, err = c.u32(); err != nil {
		return err
	}
	if r.TypeName, err = readStr(c, w); err != nil {
		return err
	}
	if r.TypeNamespace, err = readStr(c, w); err != nil {
		return err
	}
	if r.Extends, err = readCoded(c, w, &codedTypeDefOrRef); err != nil {
		return err
	}
	if r.FieldList, err = readSimple(c, w, TableField); err != nil {
		return err
	}
	r.MethodList, err = readSimple(c, w, TableMethodDef)
	return err
}

func (r *TypeDefRow) sortKey() uint32 { return 0 }

// --- 0x03 FieldPtr (EnC only, read tolerance) ---

type FieldPtrRow struct{ Field uint32 }

func (r *FieldPtrRow) encode(s *sink, w *widths) { writeSimple(s, w, TableField, r.Field) }
func (r *FieldPtrRow) decode(c *cursor, w *widths) (err error) {
	r.Field, err = readSimple(c, w, TableField)
	return err
}
func (r *FieldPtrRow) sortKey() uint32 { return 0 }

// --- 0x04 Field ---

type FieldRow struct {
	Flags     uint16
	Name      uint32
	Signature uint32
}

func (r *FieldRow) encode(s *sink, w *widths) {
	s.u16(r.Flags)
	writeStr(s, w, r.Name)
	writeBlob(s, w, r.Signature)
}

func (r *FieldRow) decode(c *cursor, w *widths) (err error) {
	if r.Flags, err = c.u16(); err != nil {
		return err
	}
	if r.Name, err = readStr(c, w); err != nil {
		return err
	}
	r.Signature, err = readBlob(c, w)
	return err
}

func (r *FieldRow) sortKey() uint32 { return 0 }

// --- 0x05 MethodPtr (EnC only) ---

type MethodPtrRow struct{ Method uint32 }

func (r *MethodPtrRow) encode(s *sink, w *widths) { writeSimple(s, w, TableMethodDef, r.Method) }
func (r *MethodPtrRow) decode(c *cursor, w *widths) (err error) {
	r.Method, err = readSimple(c, w, TableMethodDef)
	return err
}
func (r *MethodPtrRow) sortKey() uint32 { return 0 }

// --- 0x06 MethodDef ---

type MethodDefRow struct {
	RVA        uint32
	ImplFlags  uint16
	Flags      uint16
	Name       uint32
	Signature  uint32
	ParamList  uint32
}

func (r *MethodDefRow) encode(s *sink, w *widths) {
	s.u32(r.RVA)
	s.u16(r.ImplFlags)
	s.u16(r.Flags)
	writeStr(s, w, r.Name)
	writeBlob(s, w, r.Signature)
	writeSimple(s, w, TableParam, r.ParamList)
}

func (r *MethodDefRow) decode(c *cursor, w *widths) (err error) {
	if r.RVA, err = c.u32(); err != nil {
		return err
	}
	if r.ImplFlags, err = c.u16(); err != nil {
		return err
	}
	if r.Flags, err = c.u16(); err != nil {
		return err
	}
	if r.Name, err = readStr(c, w); err != nil {
		return err
	}
	if r.Signature, err = readBlob(c, w); err != nil {
		return err
	}
	r.ParamList, err = readSimple(c, w, TableParam)
	return err
}

func (r *MethodDefRow) sortKey() uint32 { return 0 }

// --- 0x07 ParamPtr (EnC only) ---

type ParamPtrRow struct{ Param uint32 }

func (r *ParamPtrRow) encode(s *sink, w *widths) { writeSimple(s, w, TableParam, r.Param) }
func (r *ParamPtrRow) decode(c *cursor, w *widths) (err error) {
	r.Param, err = readSimple(c, w, TableParam)
	return err
}
func (r *ParamPtrRow) sortKey() uint32 { return 0 }

// --- 0x08 Param ---

type ParamRow struct {
	Flags    uint16
	Sequence uint16
	Name     uint32
}

func (r *ParamRow) encode(s *sink, w *widths) {
	s.u16(r.Flags)
	s.u16(r.Sequence)
	writeStr(s, w, r.Name)
}

func (r *ParamRow) decode(c *cursor, w *widths) (err error) {
	if r.Flags, err = c.u16(); err != nil {
		return err
	}
	if r.Sequence, err = c.u16(); err != nil {
		return err
	}
	r.Name, err = readStr(c, w)
	return err
}

func (r *ParamRow) sortKey() uint32 { return 0 }

// --- 0x09 InterfaceImpl (sort-required: Class) ---

type InterfaceImplRow struct {
	Class     uint32
	Interface CodedRef
}

func (r *InterfaceImplRow) encode(s *sink, w *widths) {
	writeSimple(s, w, TableTypeDef, r.Class)
	writeCoded(s, w, &codedTypeDefOrRef, r.Interface)
}

func (r *InterfaceImplRow) decode(c *cursor, w *widths) (err error) {
	if r.Class, err = readSimple(c, w, TableTypeDef); err != nil {
		return err
	}
	r.Interface, err = readCoded(c, w, &codedTypeDefOrRef)
	return err
}

func (r *InterfaceImplRow) sortKey() uint32 { return r.Class }

// --- 0x0A MemberRef ---

type MemberRefRow struct {
	Class     CodedRef
	Name      uint32
	Signature uint32
}

func (r *MemberRefRow) encode(s *sink, w *widths) {
	writeCoded(s, w, &codedMemberRefParent, r.Class)
	writeStr(s, w, r.Name)
	writeBlob(s, w, r.Signature)
}

func (r *MemberRefRow) decode(c *cursor, w *widths) (err error) {
	if r.Class, err = readCoded(c, w, &codedMemberRefParent); err != nil {
		return err
	}
	if r.Name, err = readStr(c, w); err != nil {
		return err
	}
	r.Signature, err = readBlob(c, w)
	return err
}

func (r *MemberRefRow) sortKey() uint32 { return 0 }

// --- 0x0B Constant (sort-required: Parent) ---

type ConstantRow struct {
	Type    uint8
	Parent  CodedRef
	Value   uint32
}

func (r *ConstantRow) encode(s *sink, w *widths) {
	s.u8(r.Type)
	s.u8(0) // padding, per ECMA-335
	writeCoded(s, w, &codedHasConstant, r.Parent)
	writeBlob(s, w, r.Value)
}

func (r *ConstantRow) decode(c *cursor, w *widths) (err error) {
	if r.Type, err = c.u8(); err != nil {
		return err
	}
	if _, err = c.u8(); err != nil {
		return err
	}
	if r.Parent, err = readCoded(c, w, &codedHasConstant); err != nil {
		return err
	}
	r.Value, err = readBlob(c, w)
	return err
}

func (r *ConstantRow) sortKey() uint32 { return r.Parent.key() }

// --- 0x0C CustomAttribute (sort-required: Parent) ---

type CustomAttributeRow struct {
	Parent CodedRef
	Type   CodedRef
	Value  uint32
}

func (r *CustomAttributeRow) encode(s *sink, w *widths) {
	writeCoded(s, w, &codedHasCustomAttribute, r.Parent)
	writeCoded(s, w, &codedCustomAttributeType, r.Type)
	writeBlob(s, w, r.Value)
}

func (r *CustomAttributeRow) decode(c *cursor, w *widths) (err error) {
	if r.Parent, err = readCoded(c, w, &codedHasCustomAttribute); err != nil {
		return err
	}
	if r.Type, err = readCoded(c, w, &codedCustomAttributeType); err != nil {
		return err
	}
	r.Value, err = readBlob(c, w)
	return err
}

func (r *CustomAttributeRow) sortKey() uint32 { return r.Parent.key() }

// --- 0x0D FieldMarshal (sort-required: Parent) ---

type FieldMarshalRow struct {
	Parent     CodedRef
	NativeType uint32
}

func (r *FieldMarshalRow) encode(s *sink, w *widths) {
	writeCoded(s, w, &codedHasFieldMarshal, r.Parent)
	writeBlob(s, w, r.NativeType)
}

func (r *FieldMarshalRow) decode(c *cursor, w *widths) (err error) {
	if r.Parent, err = readCoded(c, w, &codedHasFieldMarshal); err != nil {
		return err
	}
	r.NativeType, err = readBlob(c, w)
	return err
}

func (r *FieldMarshalRow) sortKey() uint32 { return r.Parent.key() }

// --- 0x0E DeclSecurity (sort-required: Parent) ---

type DeclSecurityRow struct {
	Action        uint16
	Parent        CodedRef
	PermissionSet uint32
}

func (r *DeclSecurityRow) encode(s *sink, w *widths) {
	s.u16(r.Action)
	writeCoded(s, w, &codedHasDeclSecurity, r.Parent)
	writeBlob(s, w, r.PermissionSet)
}

func (r *DeclSecurityRow) decode(c *cursor, w *widths) (err error) {
	if r.Action, err = c.u16(); err != nil {
		return err
	}
	if r.Parent, err = readCoded(c, w, &codedHasDeclSecurity); err != nil {
		return err
	}
	r.PermissionSet, err = readBlob(c, w)
	return err
}

func (r *DeclSecurityRow) sortKey() uint32 { return r.Parent.key() }

// --- 0x0F ClassLayout (sort-required: Parent) ---

type ClassLayoutRow struct {
	PackingSize uint16
	ClassSize   uint32
	Parent      uint32
}

func (r *ClassLayoutRow) encode(s *sink, w *widths) {
	s.u16(r.PackingSize)
	s.u32(r.ClassSize)
	writeSimple(s, w, TableTypeDef, r.Parent)
}

func (r *ClassLayoutRow) decode(c *cursor, w *widths) (err error) {
	if r.PackingSize, err = c.u16(); err != nil {
		return err
	}
	if r.ClassSize, err = c.u32(); err != nil {
		return err
	}
	r.Parent, err = readSimple(c, w, TableTypeDef)
	return err
}

func (r *ClassLayoutRow) sortKey() uint32 { return r.Parent }

// --- 0x10 FieldLayout (sort-required: Field) ---

type FieldLayoutRow struct {
	Offset uint32
	Field  uint32
}

func (r *FieldLayoutRow) encode(s *sink, w *widths) {
	s.u32(r.Offset)
	writeSimple(s, w, TableField, r.Field)
}

func (r *FieldLayoutRow) decode(c *cursor, w *widths) (err error) {
	if r.Offset, err = c.u32(); err != nil {
		return err
	}
	r.Field, err = readSimple(c, w, TableField)
	return err
}

func (r *FieldLayoutRow) sortKey() uint32 { return r.Field }

// --- 0x11 StandAloneSig ---

type StandAloneSigRow struct{ Signature uint32 }

func (r *StandAloneSigRow) encode(s *sink, w *widths) { writeBlob(s, w, r.Signature) }
func (r *StandAloneSigRow) decode(c *cursor, w *widths) (err error) {
	r.Signature, err = readBlob(c, w)
	return err
}
func (r *StandAloneSigRow) sortKey() uint32 { return 0 }

// --- 0x12 EventMap (sort-required: Parent) ---

type EventMapRow struct {
	Parent    uint32
	EventList uint32
}

func (r *EventMapRow) encode(s *sink, w *widths) {
	writeSimple(s, w, TableTypeDef, r.Parent)
	writeSimple(s, w, TableEvent, r.EventList)
}

func (r *EventMapRow) decode(c *cursor, w *widths) (err error) {
	if r.Parent, err = readSimple(c, w, TableTypeDef); err != nil {
		return err
	}
	r.EventList, err = readSimple(c, w, TableEvent)
	return err
}

func (r *EventMapRow) sortKey() uint32 { return r.Parent }

// --- 0x13 EventPtr (EnC only) ---

type EventPtrRow struct{ Event uint32 }

func (r *EventPtrRow) encode(s *sink, w *widths) { writeSimple(s, w, TableEvent, r.Event) }
func (r *EventPtrRow) decode(c *cursor, w *widths) (err error) {
	r.Event, err = readSimple(c, w, TableEvent)
	return err
}
func (r *EventPtrRow) sortKey() uint32 { return 0 }

// --- 0x14 Event ---

type EventRow struct {
	EventFlags uint16
	Name       uint32
	EventType  CodedRef
}

func (r *EventRow) encode(s *sink, w *widths) {
	s.u16(r.EventFlags)
	writeStr(s, w, r.Name)
	writeCoded(s, w, &codedTypeDefOrRef, r.EventType)
}

func (r *EventRow) decode(c *cursor, w *widths) (err error) {
	if r.EventFlags, err = c.u16(); err != nil {
		return err
	}
	if r.Name, err = readStr(c, w); err != nil {
		return err
	}
	r.EventType, err = readCoded(c, w, &codedTypeDefOrRef)
	return err
}

func (r *EventRow) sortKey() uint32 { return 0 }

// --- 0x15 PropertyMap (sort-required: Parent) ---

type PropertyMapRow struct {
	Parent       uint32
	PropertyList uint32
}

func (r *PropertyMapRow) encode(s *sink, w *widths) {
	writeSimple(s, w, TableTypeDef, r.Parent)
	writeSimple(s, w, TableProperty, r.PropertyList)
}

func (r *PropertyMapRow) decode(c *cursor, w *widths) (err error) {
	if r.Parent, err = readSimple(c, w, TableTypeDef); err != nil {
		return err
	}
	r.PropertyList, err = readSimple(c, w, TableProperty)
	return err
}

func (r *PropertyMapRow) sortKey() uint32 { return r.Parent }

// --- 0x16 PropertyPtr (EnC only) ---

type PropertyPtrRow struct{ Property uint32 }

func (r *PropertyPtrRow) encode(s *sink, w *widths) { writeSimple(s, w, TableProperty, r.Property) }
func (r *PropertyPtrRow) decode(c *cursor, w *widths) (err error) {
	r.Property, err = readSimple(c, w, TableProperty)
	return err
}
func (r *PropertyPtrRow) sortKey() uint32 { return 0 }

// --- 0x17 Property ---

type PropertyRow struct {
	Flags uint16
	Name  uint32
	Type  uint32
}

func (r *PropertyRow) encode(s *sink, w *widths) {
	s.u16(r.Flags)
	writeStr(s, w, r.Name)
	writeBlob(s, w, r.Type)
}

func (r *PropertyRow) decode(c *cursor, w *widths) (err error) {
	if r.Flags, err = c.u16(); err != nil {
		return err
	}
	if r.Name, err = readStr(c, w); err != nil {
		return err
	}
	r.Type, err = readBlob(c, w)
	return err
}

func (r *PropertyRow) sortKey() uint32 { return 0 }

// --- 0x18 MethodSemantics (sort-required: Association) ---

type MethodSemanticsRow struct {
	Semantics   uint16
	Method      uint32
	Association CodedRef
}

func (r *MethodSemanticsRow) encode(s *sink, w *widths) {
	s.u16(r.Semantics)
	writeSimple(s, w, TableMethodDef, r.Method)
	writeCoded(s, w, &codedHasSemantics, r.Association)
}

func (r *MethodSemanticsRow) decode(c *cursor, w *widths) (err error) {
	if r.Semantics, err = c.u16(); err != nil {
		return err
	}
	if r.Method, err = readSimple(c, w, TableMethodDef); err != nil {
		return err
	}
	r.Association, err = readCoded(c, w, &codedHasSemantics)
	return err
}

func (r *MethodSemanticsRow) sortKey() uint32 { return r.Association.key() }

// --- 0x19 MethodImpl (sort-required: Class) ---

type MethodImplRow struct {
	Class              uint32
	MethodBody         CodedRef
	MethodDeclaration  CodedRef
}

func (r *MethodImplRow) encode(s *sink, w *widths) {
	writeSimple(s, w, TableTypeDef, r.Class)
	writeCoded(s, w, &codedMethodDefOrRef, r.MethodBody)
	writeCoded(s, w, &codedMethodDefOrRef, r.MethodDeclaration)
}

func (r *MethodImplRow) decode(c *cursor, w *widths) (err error) {
	if r.Class, err = readSimple(c, w, TableTypeDef); err != nil {
		return err
	}
	if r.MethodBody, err = readCoded(c, w, &codedMethodDefOrRef); err != nil {
		return err
	}
	r.MethodDeclaration, err = readCoded(c, w, &codedMethodDefOrRef)
	return err
}

func (r *MethodImplRow) sortKey() uint32 { return r.Class }

// --- 0x1A ModuleRef ---

type ModuleRefRow struct{ Name uint32 }

func (r *ModuleRefRow) encode(s *sink, w *widths) { writeStr(s, w, r.Name) }
func (r *ModuleRefRow) decode(c *cursor, w *widths) (err error) {
	r.Name, err = readStr(c, w)
	return err
}
func (r *ModuleRefRow) sortKey() uint32 { return 0 }

// --- 0x1B TypeSpec ---

type TypeSpecRow struct{ Signature uint32 }

func (r *TypeSpecRow) encode(s *sink, w *widths) { writeBlob(s, w, r.Signature) }
func (r *TypeSpecRow) decode(c *cursor, w *widths) (err error) {
	r.Signature, err = readBlob(c, w)
	return err
}
func (r *TypeSpecRow) sortKey() uint32 { return 0 }

// --- 0x1C ImplMap (sort-required: MemberForwarded) ---

type ImplMapRow struct {
	MappingFlags    uint16
	MemberForwarded CodedRef
	ImportName      uint32
	ImportScope     uint32
}

func (r *ImplMapRow) encode(s *sink, w *widths) {
	s.u16(r.MappingFlags)
	writeCoded(s, w, &codedMemberForwarded, r.MemberForwarded)
	writeStr(s, w, r.ImportName)
	writeSimple(s, w, TableModuleRef, r.ImportScope)
}

func (r *ImplMapRow) decode(c *cursor, w *widths) (err error) {
	if r.MappingFlags, err = c.u16(); err != nil {
		return err
	}
	if r.MemberForwarded, err = readCoded(c, w, &codedMemberForwarded); err != nil {
		return err
	}
	if r.ImportName, err = readStr(c, w); err != nil {
		return err
	}
	r.ImportScope, err = readSimple(c, w, TableModuleRef)
	return err
}

func (r *ImplMapRow) sortKey() uint32 { return r.MemberForwarded.key() }

// --- 0x1D FieldRVA (sort-required: Field) ---

type FieldRVARow struct {
	RVA   uint32
	Field uint32
}

func (r *FieldRVARow) encode(s *sink, w *widths) {
	s.u32(r.RVA)
	writeSimple(s, w, TableField, r.Field)
}

func (r *FieldRVARow) decode(c *cursor, w *widths) (err error) {
	if r.RVA, err = c.u32(); err != nil {
		return err
	}
	r.Field, err = readSimple(c, w, TableField)
	return err
}

func (r *FieldRVARow) sortKey() uint32 { return r.Field }

// --- 0x1E ENCLog / 0x1F ENCMap (EnC only, read tolerance) ---

type ENCLogRow struct {
	Token    uint32
	FuncCode uint32
}

func (r *ENCLogRow) encode(s *sink, w *widths) { s.u32(r.Token); s.u32(r.FuncCode) }
func (r *ENCLogRow) decode(c *cursor, w *widths) (err error) {
	if r.Token, err = c.u32(); err != nil {
		return err
	}
	r.FuncCode, err = c.u32()
	return err
}
func (r *ENCLogRow) sortKey() uint32 { return 0 }

type ENCMapRow struct{ Token uint32 }

func (r *ENCMapRow) encode(s *sink, w *widths) { s.u32(r.Token) }
func (r *ENCMapRow) decode(c *cursor, w *widths) (err error) {
	r.Token, err = c.u32()
	return err
}
func (r *ENCMapRow) sortKey() uint32 { return 0 }

// --- 0x20 Assembly ---

type AssemblyRow struct {
	HashAlgId      uint32
	MajorVersion   uint16
	MinorVersion   uint16
	BuildNumber    uint16
	RevisionNumber uint16
	Flags          uint32
	PublicKey      uint32
	Name           uint32
	Culture        uint32
}

func (r *AssemblyRow) encode(s *sink, w *widths) {
	s.u32(r.HashAlgId)
	s.u16(r.MajorVersion)
	s.u16(r.MinorVersion)
	s.u16(r.BuildNumber)
	s.u16(r.RevisionNumber)
	s.u32(r.Flags)
	writeBlob(s, w, r.PublicKey)
	writeStr(s, w, r.Name)
	writeStr(s, w, r.Culture)
}

func (r *AssemblyRow) decode(c *cursor, w *widths) (err error) {
	if r.HashAlgId, err = c.u32(); err != nil {
		return err
	}
	if r.MajorVersion, err = c.u16(); err != nil {
		return err
	}
	if r.MinorVersion, err = c.u16(); err != nil {
		return err
	}
	if r.BuildNumber, err = c.u16(); err != nil {
		return err
	}
	if r.RevisionNumber, err = c.u16(); err != nil {
		return err
	}
	if r.Flags, err = c.u32(); err != nil {
		return err
	}
	if r.PublicKey, err = readBlob(c, w); err != nil {
		return err
	}
	if r.Name, err = readStr(c, w); err != nil {
		return err
	}
	r.Culture, err = readStr(c, w)
	return err
}

func (r *AssemblyRow) sortKey() uint32 { return 0 }

// --- 0x21 AssemblyProcessor ---

type AssemblyProcessorRow struct{ Processor uint32 }

func (r *AssemblyProcessorRow) encode(s *sink, w *widths) { s.u32(r.Processor) }
func (r *AssemblyProcessorRow) decode(c *cursor, w *widths) (err error) {
	r.Processor, err = c.u32()
	return err
}
func (r *AssemblyProcessorRow) sortKey() uint32 { return 0 }

// --- 0x22 AssemblyOS ---

type AssemblyOSRow struct {
	OSPlatformId  uint32
	OSMajorVersion uint32
	OSMinorVersion uint32
}

func (r *AssemblyOSRow) encode(s *sink, w *widths) {
	s.u32(r.OSPlatformId)
	s.u32(r.OSMajorVersion)
	s.u32(r.OSMinorVersion)
}

func (r *AssemblyOSRow) decode(c *cursor, w *widths) (err error) {
	if r.OSPlatformId, err = c.u32(); err != nil {
		return err
	}
	if r.OSMajorVersion, err = c.u32(); err != nil {
		return err
	}
	r.OSMinorVersion, err = c.u32()
	return err
}

func (r *AssemblyOSRow) sortKey() uint32 { return 0 }

// --- 0x23 AssemblyRef ---

type AssemblyRefRow struct {
	MajorVersion       uint16
	MinorVersion       uint16
	BuildNumber        uint16
	RevisionNumber     uint16
	Flags              uint32
	PublicKeyOrToken   uint32
	Name               uint32
	Culture            uint32
	HashValue          uint32
}

func (r *AssemblyRefRow) encode(s *sink, w *widths) {
	s.u16(r.MajorVersion)
	s.u16(r.MinorVersion)
	s.u16(r.BuildNumber)
	s.u16(r.RevisionNumber)
	s.u32(r.Flags)
	writeBlob(s, w, r.PublicKeyOrToken)
	writeStr(s, w, r.Name)
	writeStr(s, w, r.Culture)
	writeBlob(s, w, r.HashValue)
}

func (r *AssemblyRefRow) decode(c *cursor, w *widths) (err error) {
	if r.MajorVersion, err = c.u16(); err != nil {
		return err
	}
	if r.MinorVersion, err = c.u16(); err != nil {
		return err
	}
	if r.BuildNumber, err = c.u16(); err != nil {
		return err
	}
	if r.RevisionNumber, err = c.u16(); err != nil {
		return err
	}
	if r.Flags, err = c.u32(); err != nil {
		return err
	}
	if r.PublicKeyOrToken, err = readBlob(c, w); err != nil {
		return err
	}
	if r.Name, err = readStr(c, w); err != nil {
		return err
	}
	if r.Culture, err = readStr(c, w); err != nil {
		return err
	}
	r.HashValue, err = readBlob(c, w)
	return err
}

func (r *AssemblyRefRow) sortKey() uint32 { return 0 }

// --- 0x24 AssemblyRefProcessor ---

type AssemblyRefProcessorRow struct {
	Processor   uint32
	AssemblyRef uint32
}

func (r *AssemblyRefProcessorRow) encode(s *sink, w *widths) {
	s.u32(r.Processor)
	writeSimple(s, w, TableAssemblyRef, r.AssemblyRef)
}

func (r *AssemblyRefProcessorRow) decode(c *cursor, w *widths) (err error) {
	if r.Processor, err = c.u32(); err != nil {
		return err
	}
	r.AssemblyRef, err = readSimple(c, w, TableAssemblyRef)
	return err
}

func (r *AssemblyRefProcessorRow) sortKey() uint32 { return 0 }

// --- 0x25 AssemblyRefOS ---

type AssemblyRefOSRow struct {
	OSPlatformId   uint32
	OSMajorVersion uint32
	OSMinorVersion uint32
	AssemblyRef    uint32
}

func (r *AssemblyRefOSRow) encode(s *sink, w *widths) {
	s.u32(r.OSPlatformId)
	s.u32(r.OSMajorVersion)
	s.u32(r.OSMinorVersion)
	writeSimple(s, w, TableAssemblyRef, r.AssemblyRef)
}

func (r *AssemblyRefOSRow) decode(c *cursor, w *widths) (err error) {
	if r.OSPlatformId, err = c.u32(); err != nil {
		return err
	}
	if r.OSMajorVersion, err = c.u32(); err != nil {
		return err
	}
	if r.OSMinorVersion, err = c.u32(); err != nil {
		return err
	}
	r.AssemblyRef, err = readSimple(c, w, TableAssemblyRef)
	return err
}

func (r *AssemblyRefOSRow) sortKey() uint32 { return 0 }

// --- 0x26 File ---

type FileRow struct {
	Flags     uint32
	Name      uint32
	HashValue uint32
}

func (r *FileRow) encode(s *sink, w *widths) {
	s.u32(r.Flags)
	writeStr(s, w, r.Name)
	writeBlob(s, w, r.HashValue)
}

func (r *FileRow) decode(c *cursor, w *widths) (err error) {
	if r.Flags, err = c.u32(); err != nil {
		return err
	}
	if r.Name, err = readStr(c, w); err != nil {
		return err
	}
	r.HashValue, err = readBlob(c, w)
	return err
}

func (r *FileRow) sortKey() uint32 { return 0 }

// --- 0x27 ExportedType ---

type ExportedTypeRow struct {
	Flags          uint32
	TypeDefId      uint32
	TypeName       uint32
	TypeNamespace  uint32
	Implementation CodedRef
}

func (r *ExportedTypeRow) encode(s *sink, w *widths) {
	s.u32(r.Flags)
	s.u32(r.TypeDefId)
	writeStr(s, w, r.TypeName)
	writeStr(s, w, r.TypeNamespace)
	writeCoded(s, w, &codedImplementation, r.Implementation)
}

func (r *ExportedTypeRow) decode(c *cursor, w *widths) (err error) {
	if r.Flags, err = c.u32(); err != nil {
		return err
	}
	if r.TypeDefId, err = c.u32(); err != nil {
		return err
	}
	if r.TypeName, err = readStr(c, w); err != nil {
		return err
	}
	if r.TypeNamespace, err = readStr(c, w); err != nil {
		return err
	}
	r.Implementation, err = readCoded(c, w, &codedImplementation)
	return err
}

func (r *ExportedTypeRow) sortKey() uint32 { return 0 }

// --- 0x28 ManifestResource ---

type ManifestResourceRow struct {
	Offset         uint32
	Flags          uint32
	Name           uint32
	Implementation CodedRef
}

func (r *ManifestResourceRow) encode(s *sink, w *widths) {
	s.u32(r.Offset)
	s.u32(r.Flags)
	writeStr(s, w, r.Name)
	writeCoded(s, w, &codedImplementation, r.Implementation)
}

func (r *ManifestResourceRow) decode(c *cursor, w *widths) (err error) {
	if r.Offset, err = c.u32(); err != nil {
		return err
	}
	if r.Flags, err = c.u32(); err != nil {
		return err
	}
	if r.Name, err = readStr(c, w); err != nil {
		return err
	}
	r.Implementation, err = readCoded(c, w, &codedImplementation)
	return err
}

func (r *ManifestResourceRow) sortKey() uint32 { return 0 }

// --- 0x29 NestedClass (sort-required: NestedClass) ---

type NestedClassRow struct {
	NestedClass    uint32
	EnclosingClass uint32
}

func (r *NestedClassRow) encode(s *sink, w *widths) {
	writeSimple(s, w, TableTypeDef, r.NestedClass)
	writeSimple(s, w, TableTypeDef, r.EnclosingClass)
}

func (r *NestedClassRow) decode(c *cursor, w *widths) (err error) {
	if r.NestedClass, err = readSimple(c, w, TableTypeDef); err != nil {
		return err
	}
	r.EnclosingClass, err = readSimple(c, w, TableTypeDef)
	return err
}

func (r *NestedClassRow) sortKey() uint32 { return r.NestedClass }

// --- 0x2A GenericParam (sort-required: Owner, tie-broken by Number) ---

type GenericParamRow struct {
	Number uint16
	Flags  uint16
	Owner  CodedRef
	Name   uint32
}

func (r *GenericParamRow) encode(s *sink, w *widths) {
	s.u16(r.Number)
	s.u16(r.Flags)
	writeCoded(s, w, &codedTypeOrMethodDef, r.Owner)
	writeStr(s, w, r.Name)
}

func (r *GenericParamRow) decode(c *cursor, w *widths) (err error) {
	if r.Number, err = c.u16(); err != nil {
		return err
	}
	if r.Flags, err = c.u16(); err != nil {
		return err
	}
	if r.Owner, err = readCoded(c, w, &codedTypeOrMethodDef); err != nil {
		return err
	}
	r.Name, err = readStr(c, w)
	return err
}

func (r *GenericParamRow) sortKey() uint32 { return r.Owner.key() }

// --- 0x2B MethodSpec ---

type MethodSpecRow struct {
	Method        CodedRef
	Instantiation uint32
}

func (r *MethodSpecRow) encode(s *sink, w *widths) {
	writeCoded(s, w, &codedMethodDefOrRef, r.Method)
	writeBlob(s, w, r.Instantiation)
}

func (r *MethodSpecRow) decode(c *cursor, w *widths) (err error) {
	if r.Method, err = readCoded(c, w, &codedMethodDefOrRef); err != nil {
		return err
	}
	r.Instantiation, err = readBlob(c, w)
	return err
}

func (r *MethodSpecRow) sortKey() uint32 { return 0 }

// --- 0x2C GenericParamConstraint (sort-required: Owner) ---

type GenericParamConstraintRow struct {
	Owner      uint32
	Constraint CodedRef
}

func (r *GenericParamConstraintRow) encode(s *sink, w *widths) {
	writeSimple(s, w, TableGenericParam, r.Owner)
	writeCoded(s, w, &codedTypeDefOrRef, r.Constraint)
}

func (r *GenericParamConstraintRow) decode(c *cursor, w *widths) (err error) {
	if r.Owner, err = readSimple(c, w, TableGenericParam); err != nil {
		return err
	}
	r.Constraint, err = readCoded(c, w, &codedTypeDefOrRef)
	return err
}

func (r *GenericParamConstraintRow) sortKey() uint32 { return r.Owner }

// newRow allocates the zero-value row for id, used by the reader (spec
// §4.7) before it knows which concrete fields a row will hold.
func newRow(id TableID) Row {
	switch id {
	case TableModule:
		return &ModuleRow{}
	case TableTypeRef:
		return &TypeRefRow{}
	case TableTypeDef:
		return &TypeDefRow{}
	case TableFieldPtr:
		return &FieldPtrRow{}
	case TableField:
		return &FieldRow{}
	case TableMethodPtr:
		return &MethodPtrRow{}
	case TableMethodDef:
		return &MethodDefRow{}
	case TableParamPtr:
		return &ParamPtrRow{}
	case TableParam:
		return &ParamRow{}
	case TableInterfaceImpl:
		return &InterfaceImplRow{}
	case TableMemberRef:
		return &MemberRefRow{}
	case TableConstant:
		return &ConstantRow{}
	case TableCustomAttribute:
		return &CustomAttributeRow{}
	case TableFieldMarshal:
		return &FieldMarshalRow{}
	case TableDeclSecurity:
		return &DeclSecurityRow{}
	case TableClassLayout:
		return &ClassLayoutRow{}
	case TableFieldLayout:
		return &FieldLayoutRow{}
	case TableStandAloneSig:
		return &StandAloneSigRow{}
	case TableEventMap:
		return &EventMapRow{}
	case TableEventPtr:
		return &EventPtrRow{}
	case TableEvent:
		return &EventRow{}
	case TablePropertyMap:
		return &PropertyMapRow{}
	case TablePropertyPtr:
		return &PropertyPtrRow{}
	case TableProperty:
		return &PropertyRow{}
	case TableMethodSemantics:
		return &MethodSemanticsRow{}
	case TableMethodImpl:
		return &MethodImplRow{}
	case TableModuleRef:
		return &ModuleRefRow{}
	case TableTypeSpec:
		return &TypeSpecRow{}
	case TableImplMap:
		return &ImplMapRow{}
	case TableFieldRVA:
		return &FieldRVARow{}
	case TableENCLog:
		return &ENCLogRow{}
	case TableENCMap:
		return &ENCMapRow{}
	case TableAssembly:
		return &AssemblyRow{}
	case TableAssemblyProcessor:
		return &AssemblyProcessorRow{}
	case TableAssemblyOS:
		return &AssemblyOSRow{}
	case TableAssemblyRef:
		return &AssemblyRefRow{}
	case TableAssemblyRefProcessor:
		return &AssemblyRefProcessorRow{}
	case TableAssemblyRefOS:
		return &AssemblyRefOSRow{}
	case TableFileMD:
		return &FileRow{}
	case TableExportedType:
		return &ExportedTypeRow{}
	case TableManifestResource:
		return &ManifestResourceRow{}
	case TableNestedClass:
		return &NestedClassRow{}
	case TableGenericParam:
		return &GenericParamRow{}
	case TableMethodSpec:
		return &MethodSpecRow{}
	case TableGenericParamConstraint:
		return &GenericParamConstraintRow{}
	default:
		return nil
	}
}
