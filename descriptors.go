// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// Client-facing descriptor object graph (spec §3 Data Model, §9 Design
// Notes' arena-by-(table,row) and visited-set patterns). A caller builds a
// tree of these values with plain Go struct literals and slices, then
// calls Module.BuildTables(engine) once to flatten it into the engine's
// table store — the inverse of what reader.go + resolve.go do for an
// existing image.
//
// No teacher analogue: the teacher only ever reads a metadata stream, it
// never assembles one, so this whole file is built directly from spec §3's
// ownership rules (a TypeDef owns its Fields/Methods contiguously; a
// MethodDef owns its Params contiguously) rather than adapted from an
// existing function.

// CustomAttributeDesc attaches one constructor-reference plus raw argument
// blob to whatever descriptor is holding the slice; Parent is filled in by
// BuildTables, not by the caller.
type CustomAttributeDesc struct {
	Ctor  Token // a MethodDef or MemberRef token, resolved by the caller
	Value []byte
}

// ParamDesc is one MethodDef parameter.
type ParamDesc struct {
	Flags      uint16
	Sequence   uint16
	Name       string
	Attributes []CustomAttributeDesc
}

// MethodDesc is one TypeDef member method.
type MethodDesc struct {
	RVA        uint32
	ImplFlags  uint16
	Flags      uint16
	Name       string
	Signature  *MethodSig
	Params     []ParamDesc
	Attributes []CustomAttributeDesc

	token Token
}

// FieldDesc is one TypeDef member field.
type FieldDesc struct {
	Flags      uint16
	Name       string
	Type       *TypeSig
	Constant   *ConstantDesc
	Attributes []CustomAttributeDesc

	token Token
}

// ConstantDesc is a Field or Param's compile-time constant value, stored
// through the #Blob heap (spec §3: Constant rows are always attached, never
// freestanding).
type ConstantDesc struct {
	Type  uint8
	Value []byte
}

// TypeDefDesc is one class/interface/struct/enum definition.
type TypeDefDesc struct {
	Flags      uint32
	Name       string
	Namespace  string
	Extends    Token // TypeDef/TypeRef/TypeSpec token, or 0 for none (System.Object or an interface)
	Fields     []FieldDesc
	Methods    []MethodDesc
	Interfaces []Token // TypeDef/TypeRef/TypeSpec tokens this type implements
	Attributes []CustomAttributeDesc

	token Token
}

// TypeRefDesc is a reference to a type defined in another module/assembly.
type TypeRefDesc struct {
	ResolutionScope CodedRef // typically an AssemblyRef token's (table,row), spec §3
	Name            string
	Namespace       string

	token Token
}

// MemberRefDesc is a reference to a field or method defined elsewhere.
type MemberRefDesc struct {
	Class     CodedRef
	Name      string
	Signature []byte

	token Token
}

// AssemblyRefDesc is a reference to an external assembly this module
// depends on.
type AssemblyRefDesc struct {
	MajorVersion, MinorVersion, BuildNumber, RevisionNumber uint16
	Flags                                                   uint32
	PublicKeyOrToken                                        []byte
	Name                                                     string
	Culture                                                  string
	HashValue                                                []byte

	token Token
}

// ModuleDesc is the root of the object graph: exactly one per built image,
// matching spec §3's invariant that the Module table always has exactly
// one row.
type ModuleDesc struct {
	Name string
	Mvid GUID

	Assembly     *AssemblyDesc
	AssemblyRefs []*AssemblyRefDesc
	TypeRefs     []*TypeRefDesc
	MemberRefs   []*MemberRefDesc
	TypeDefs     []*TypeDefDesc // module-level <Module> pseudo-type is TypeDefs[0] by convention, matching every real CLI image
}

// AssemblyDesc is this module's own assembly identity, optional (a
// multi-module assembly has it on exactly one constituent module).
type AssemblyDesc struct {
	HashAlgId                                               uint32
	MajorVersion, MinorVersion, BuildNumber, RevisionNumber uint16
	Flags                                                    uint32
	PublicKey                                                []byte
	Name                                                     string
	Culture                                                   string
}

// BuildTables flattens the descriptor graph rooted at m into engine's table
// store. It must run while the engine is in the Building state, and each
// descriptor may only appear once in the graph (a second appearance of the
// same *TypeDefDesc pointer is a caller bug, not a structural necessity, so
// it returns ErrDescriptorConflict rather than silently aliasing two
// tokens to one row).
func (m *ModuleDesc) BuildTables(e *Engine) error {
	visited := make(map[interface{}]bool)
	markOnce := func(p interface{}) error {
		if visited[p] {
			return ErrDescriptorConflict
		}
		visited[p] = true
		return nil
	}

	name, err := e.AddString(m.Name)
	if err != nil {
		return err
	}
	mvid, err := e.AddGUID(m.Mvid)
	if err != nil {
		return err
	}
	if _, err := e.AddRow(TableModule, &ModuleRow{Name: name, Mvid: mvid}); err != nil {
		return err
	}

	if m.Assembly != nil {
		if err := markOnce(m.Assembly); err != nil {
			return err
		}
		aname, err := e.AddString(m.Assembly.Name)
		if err != nil {
			return err
		}
		culture, err := e.AddString(m.Assembly.Culture)
		if err != nil {
			return err
		}
		pk, err := e.AddBlob(m.Assembly.PublicKey)
		if err != nil {
			return err
		}
		if _, err := e.AddRow(TableAssembly, &AssemblyRow{
			HashAlgId:      m.Assembly.HashAlgId,
			MajorVersion:   m.Assembly.MajorVersion,
			MinorVersion:   m.Assembly.MinorVersion,
			BuildNumber:    m.Assembly.BuildNumber,
			RevisionNumber: m.Assembly.RevisionNumber,
			Flags:          m.Assembly.Flags,
			PublicKey:      pk,
			Name:           aname,
			Culture:        culture,
		}); err != nil {
			return err
		}
	}

	for _, ar := range m.AssemblyRefs {
		if err := markOnce(ar); err != nil {
			return err
		}
		if err := buildAssemblyRef(e, ar); err != nil {
			return err
		}
	}
	for _, tr := range m.TypeRefs {
		if err := markOnce(tr); err != nil {
			return err
		}
		if err := buildTypeRef(e, tr); err != nil {
			return err
		}
	}
	for _, mr := range m.MemberRefs {
		if err := markOnce(mr); err != nil {
			return err
		}
		if err := buildMemberRef(e, mr); err != nil {
			return err
		}
	}
	for _, td := range m.TypeDefs {
		if err := markOnce(td); err != nil {
			return err
		}
	}
	// TypeDef rows are emitted in three passes: first every TypeDef row with
	// placeholder FieldList/MethodList, then every Field/MethodDef/Param
	// row (which must be globally contiguous per owning TypeDef, spec §3),
	// setting each TypeDef's real FieldList/MethodList as its members land,
	// then every InterfaceImpl and CustomAttribute row.
	for _, td := range m.TypeDefs {
		if err := buildTypeDefShell(e, td); err != nil {
			return err
		}
	}
	for _, td := range m.TypeDefs {
		if err := buildTypeDefMembers(e, td); err != nil {
			return err
		}
	}
	for _, td := range m.TypeDefs {
		if err := buildTypeDefAttributesAndInterfaces(e, td); err != nil {
			return err
		}
	}
	return nil
}

func buildAssemblyRef(e *Engine, ar *AssemblyRefDesc) error {
	name, err := e.AddString(ar.Name)
	if err != nil {
		return err
	}
	culture, err := e.AddString(ar.Culture)
	if err != nil {
		return err
	}
	pk, err := e.AddBlob(ar.PublicKeyOrToken)
	if err != nil {
		return err
	}
	hash, err := e.AddBlob(ar.HashValue)
	if err != nil {
		return err
	}
	tok, err := e.AddRow(TableAssemblyRef, &AssemblyRefRow{
		MajorVersion: ar.MajorVersion, MinorVersion: ar.MinorVersion,
		BuildNumber: ar.BuildNumber, RevisionNumber: ar.RevisionNumber,
		Flags: ar.Flags, PublicKeyOrToken: pk, Name: name, Culture: culture, HashValue: hash,
	})
	if err != nil {
		return err
	}
	ar.token = tok
	return nil
}

func buildTypeRef(e *Engine, tr *TypeRefDesc) error {
	name, err := e.AddString(tr.Name)
	if err != nil {
		return err
	}
	ns, err := e.AddString(tr.Namespace)
	if err != nil {
		return err
	}
	tok, err := e.AddRow(TableTypeRef, &TypeRefRow{
		ResolutionScope: tr.ResolutionScope, TypeName: name, TypeNamespace: ns,
	})
	if err != nil {
		return err
	}
	tr.token = tok
	return nil
}

func buildMemberRef(e *Engine, mr *MemberRefDesc) error {
	name, err := e.AddString(mr.Name)
	if err != nil {
		return err
	}
	sig, err := e.AddBlob(mr.Signature)
	if err != nil {
		return err
	}
	tok, err := e.AddRow(TableMemberRef, &MemberRefRow{Class: mr.Class, Name: name, Signature: sig})
	if err != nil {
		return err
	}
	mr.token = tok
	return nil
}

func buildTypeDefShell(e *Engine, td *TypeDefDesc) error {
	name, err := e.AddString(td.Name)
	if err != nil {
		return err
	}
	ns, err := e.AddString(td.Namespace)
	if err != nil {
		return err
	}
	extends := CodedRef{}
	if !td.Extends.IsNil() {
		extends = CodedRef{Table: td.Extends.Table(), Row: td.Extends.Row()}
	}
	tok, err := e.AddRow(TableTypeDef, &TypeDefRow{
		Flags: td.Flags, TypeName: name, TypeNamespace: ns, Extends: extends,
	})
	if err != nil {
		return err
	}
	td.token = tok
	return nil
}

func buildTypeDefMembers(e *Engine, td *TypeDefDesc) error {
	var firstField, firstMethod uint32
	for i := range td.Fields {
		f := &td.Fields[i]
		name, err := e.AddString(f.Name)
		if err != nil {
			return err
		}
		sigBytes, err := EncodeFieldSig(f.Type)
		if err != nil {
			return err
		}
		sig, err := e.AddBlob(sigBytes)
		if err != nil {
			return err
		}
		tok, err := e.AddRow(TableField, &FieldRow{Flags: f.Flags, Name: name, Signature: sig})
		if err != nil {
			return err
		}
		f.token = tok
		if i == 0 {
			firstField = tok.Row()
		}
		if f.Constant != nil {
			val, err := e.AddBlob(f.Constant.Value)
			if err != nil {
				return err
			}
			if _, err := e.AddRow(TableConstant, &ConstantRow{
				Type: f.Constant.Type, Parent: CodedRef{Table: TableField, Row: tok.Row()}, Value: val,
			}); err != nil {
				return err
			}
		}
	}
	for i := range td.Methods {
		m := &td.Methods[i]
		name, err := e.AddString(m.Name)
		if err != nil {
			return err
		}
		sigBytes := []byte(nil)
		if m.Signature != nil {
			var s sink
			if err := encodeMethodSig(&s, m.Signature); err != nil {
				return err
			}
			sigBytes = s.bytes()
		}
		sig, err := e.AddBlob(sigBytes)
		if err != nil {
			return err
		}
		tok, err := e.AddRow(TableMethodDef, &MethodDefRow{
			RVA: m.RVA, ImplFlags: m.ImplFlags, Flags: m.Flags, Name: name, Signature: sig,
		})
		if err != nil {
			return err
		}
		m.token = tok
		if i == 0 {
			firstMethod = tok.Row()
		}
		var firstParam uint32
		for j := range m.Params {
			p := &m.Params[j]
			pname, err := e.AddString(p.Name)
			if err != nil {
				return err
			}
			ptok, err := e.AddRow(TableParam, &ParamRow{Flags: p.Flags, Sequence: p.Sequence, Name: pname})
			if err != nil {
				return err
			}
			if j == 0 {
				firstParam = ptok.Row()
			}
		}
		if firstParam != 0 {
			if row, ok := e.store.Get(TableMethodDef, tok.Row()).(*MethodDefRow); ok {
				row.ParamList = firstParam
			}
		}
	}
	row, ok := e.store.Get(TableTypeDef, td.token.Row()).(*TypeDefRow)
	if !ok {
		return ErrCorruptIndex
	}
	if firstField != 0 {
		row.FieldList = firstField
	}
	if firstMethod != 0 {
		row.MethodList = firstMethod
	}
	return nil
}

func buildTypeDefAttributesAndInterfaces(e *Engine, td *TypeDefDesc) error {
	for _, iface := range td.Interfaces {
		if _, err := e.AddRow(TableInterfaceImpl, &InterfaceImplRow{
			Class:     td.token.Row(),
			Interface: CodedRef{Table: iface.Table(), Row: iface.Row()},
		}); err != nil {
			return err
		}
	}
	if err := buildAttributes(e, CodedRef{Table: TableTypeDef, Row: td.token.Row()}, td.Attributes); err != nil {
		return err
	}
	for i := range td.Fields {
		if err := buildAttributes(e, CodedRef{Table: TableField, Row: td.Fields[i].token.Row()}, td.Fields[i].Attributes); err != nil {
			return err
		}
	}
	for i := range td.Methods {
		if err := buildAttributes(e, CodedRef{Table: TableMethodDef, Row: td.Methods[i].token.Row()}, td.Methods[i].Attributes); err != nil {
			return err
		}
	}
	return nil
}

func buildAttributes(e *Engine, parent CodedRef, attrs []CustomAttributeDesc) error {
	for _, a := range attrs {
		val, err := e.AddBlob(a.Value)
		if err != nil {
			return err
		}
		ctorFamilyTable := a.Ctor.Table()
		if _, err := e.AddRow(TableCustomAttribute, &CustomAttributeRow{
			Parent: parent,
			Type:   CodedRef{Table: ctorFamilyTable, Row: a.Ctor.Row()},
			Value:  val,
		}); err != nil {
			return err
		}
	}
	return nil
}
