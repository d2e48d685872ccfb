// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// ElementType is an ECMA-335 §II.23.1.16 ELEMENT_TYPE tag byte: the leading
// byte of every encoded type in a signature blob.
type ElementType byte

const (
	ElemEnd          ElementType = 0x00
	ElemVoid         ElementType = 0x01
	ElemBoolean      ElementType = 0x02
	ElemChar         ElementType = 0x03
	ElemI1           ElementType = 0x04
	ElemU1           ElementType = 0x05
	ElemI2           ElementType = 0x06
	ElemU2           ElementType = 0x07
	ElemI4           ElementType = 0x08
	ElemU4           ElementType = 0x09
	ElemI8           ElementType = 0x0a
	ElemU8           ElementType = 0x0b
	ElemR4           ElementType = 0x0c
	ElemR8           ElementType = 0x0d
	ElemString       ElementType = 0x0e
	ElemPtr          ElementType = 0x0f
	ElemByRef        ElementType = 0x10
	ElemValueType    ElementType = 0x11
	ElemClass        ElementType = 0x12
	ElemVar          ElementType = 0x13
	ElemArray        ElementType = 0x14
	ElemGenericInst  ElementType = 0x15
	ElemTypedByRef   ElementType = 0x16
	ElemI            ElementType = 0x18
	ElemU            ElementType = 0x19
	ElemFnPtr        ElementType = 0x1b
	ElemObject       ElementType = 0x1c
	ElemSZArray      ElementType = 0x1d
	ElemMVar         ElementType = 0x1e
	ElemCModReqd     ElementType = 0x1f
	ElemCModOpt      ElementType = 0x20
	ElemInternal     ElementType = 0x21
	ElemModifier     ElementType = 0x40
	ElemSentinel     ElementType = 0x41
	ElemPinned       ElementType = 0x45
)

// Calling-convention bits in a signature's leading byte, ECMA-335 §II.23.2.
const (
	sigDefault      = 0x00
	sigVarArg       = 0x05
	sigGeneric      = 0x10
	sigHasThis      = 0x20
	sigExplicitThis = 0x40
	sigCallMask     = 0x0F

	sigField    = 0x06
	sigLocalVar = 0x07
	sigProperty = 0x08
)

// TypeSig is a decoded ECMA-335 type signature. Only the fields relevant to
// Elem are populated; this is the signature-blob analogue of rows.go's
// per-table row structs, just for the recursive mini-language nested inside
// blobs instead of a flat row.
type TypeSig struct {
	Elem ElementType

	// ElemValueType / ElemClass: the referenced type.
	TypeRef TableID
	TypeRow uint32

	// ElemPtr / ElemByRef / ElemSZArray / ElemPinned: the element type.
	Elem1 *TypeSig

	// ElemArray: shape.
	ArrayShape *ArrayShape

	// ElemVar / ElemMVar: generic parameter number.
	GenericIndex uint32

	// ElemGenericInst: the open generic type plus its arguments.
	GenericType *TypeSig
	GenericArgs []*TypeSig

	// ElemFnPtr: the referenced method signature.
	FnPtrSig *MethodSig

	// ElemCModReqd / ElemCModOpt: the modifier type, plus the type it
	// modifies in Elem1. CustomMods chain like Ptr/ByRef: a Type prefixed
	// by several modreqs/modopts decodes as nested TypeSigs, outermost
	// modifier first.
	ModTypeRef TableID
	ModTypeRow uint32
}

// ArrayShape is ECMA-335 §II.23.2.13's ArrayShape: rank plus optional
// per-dimension sizes and lower bounds.
type ArrayShape struct {
	Rank        uint32
	Sizes       []uint32
	LowerBounds []int32
}

func encodeType(s *sink, t *TypeSig) error {
	if t == nil {
		return ErrCorruptBlob
	}
	s.u8(byte(t.Elem))
	switch t.Elem {
	case ElemValueType, ElemClass:
		raw, err := codedTypeDefOrRef.encode(t.TypeRef, t.TypeRow)
		if err != nil {
			return err
		}
		return compressUnsigned(s, raw)
	case ElemPtr, ElemByRef, ElemPinned, ElemSZArray:
		return encodeType(s, t.Elem1)
	case ElemCModReqd, ElemCModOpt:
		raw, err := codedTypeDefOrRef.encode(t.ModTypeRef, t.ModTypeRow)
		if err != nil {
			return err
		}
		if err := compressUnsigned(s, raw); err != nil {
			return err
		}
		return encodeType(s, t.Elem1)
	case ElemArray:
		if err := encodeType(s, t.Elem1); err != nil {
			return err
		}
		return encodeArrayShape(s, t.ArrayShape)
	case ElemVar, ElemMVar:
		return compressUnsigned(s, t.GenericIndex)
	case ElemGenericInst:
		if err := encodeType(s, t.GenericType); err != nil {
			return err
		}
		if err := compressUnsigned(s, uint32(len(t.GenericArgs))); err != nil {
			return err
		}
		for _, a := range t.GenericArgs {
			if err := encodeType(s, a); err != nil {
				return err
			}
		}
		return nil
	case ElemFnPtr:
		return encodeMethodSig(s, t.FnPtrSig)
	default:
		// Primitive element types (Void, Boolean, Char, I1..R8, String,
		// Object, I, U, TypedByRef) carry no further payload.
		return nil
	}
}

func decodeType(c *cursor) (*TypeSig, error) {
	b, err := c.u8()
	if err != nil {
		return nil, ErrCorruptBlob
	}
	t := &TypeSig{Elem: ElementType(b)}
	switch t.Elem {
	case ElemValueType, ElemClass:
		raw, err := decompressUnsigned(c)
		if err != nil {
			return nil, err
		}
		table, row, err := codedTypeDefOrRef.decode(raw)
		if err != nil {
			return nil, err
		}
		t.TypeRef, t.TypeRow = table, row
	case ElemPtr, ElemByRef, ElemPinned, ElemSZArray:
		t.Elem1, err = decodeType(c)
		if err != nil {
			return nil, err
		}
	case ElemCModReqd, ElemCModOpt:
		raw, err := decompressUnsigned(c)
		if err != nil {
			return nil, err
		}
		t.ModTypeRef, t.ModTypeRow, err = codedTypeDefOrRef.decode(raw)
		if err != nil {
			return nil, err
		}
		t.Elem1, err = decodeType(c)
		if err != nil {
			return nil, err
		}
	case ElemArray:
		t.Elem1, err = decodeType(c)
		if err != nil {
			return nil, err
		}
		t.ArrayShape, err = decodeArrayShape(c)
		if err != nil {
			return nil, err
		}
	case ElemVar, ElemMVar:
		t.GenericIndex, err = decompressUnsigned(c)
		if err != nil {
			return nil, err
		}
	case ElemGenericInst:
		t.GenericType, err = decodeType(c)
		if err != nil {
			return nil, err
		}
		n, err := decompressUnsigned(c)
		if err != nil {
			return nil, err
		}
		t.GenericArgs = make([]*TypeSig, n)
		for i := range t.GenericArgs {
			t.GenericArgs[i], err = decodeType(c)
			if err != nil {
				return nil, err
			}
		}
	case ElemFnPtr:
		t.FnPtrSig, err = decodeMethodSig(c)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

func encodeArrayShape(s *sink, a *ArrayShape) error {
	if a == nil {
		return ErrCorruptBlob
	}
	if err := compressUnsigned(s, a.Rank); err != nil {
		return err
	}
	if err := compressUnsigned(s, uint32(len(a.Sizes))); err != nil {
		return err
	}
	for _, sz := range a.Sizes {
		if err := compressUnsigned(s, sz); err != nil {
			return err
		}
	}
	if err := compressUnsigned(s, uint32(len(a.LowerBounds))); err != nil {
		return err
	}
	for _, lb := range a.LowerBounds {
		if err := compressSigned(s, lb); err != nil {
			return err
		}
	}
	return nil
}

func decodeArrayShape(c *cursor) (*ArrayShape, error) {
	a := &ArrayShape{}
	var err error
	if a.Rank, err = decompressUnsigned(c); err != nil {
		return nil, err
	}
	numSizes, err := decompressUnsigned(c)
	if err != nil {
		return nil, err
	}
	a.Sizes = make([]uint32, numSizes)
	for i := range a.Sizes {
		if a.Sizes[i], err = decompressUnsigned(c); err != nil {
			return nil, err
		}
	}
	numLower, err := decompressUnsigned(c)
	if err != nil {
		return nil, err
	}
	a.LowerBounds = make([]int32, numLower)
	for i := range a.LowerBounds {
		if a.LowerBounds[i], err = decompressSigned(c); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// MethodSig is a decoded MethodDefSig/MethodRefSig (ECMA-335 §II.23.2.1/2).
type MethodSig struct {
	HasThis       bool
	ExplicitThis  bool
	IsVarArg      bool
	GenericCount  uint32
	RetType       *TypeSig
	Params        []*TypeSig
	VarArgParams  []*TypeSig // params after the SENTINEL, only for a VARARG call site
}

func encodeMethodSig(s *sink, m *MethodSig) error {
	flags := byte(0)
	if m.HasThis {
		flags |= sigHasThis
	}
	if m.ExplicitThis {
		flags |= sigExplicitThis
	}
	if m.IsVarArg {
		flags |= sigVarArg
	}
	if m.GenericCount > 0 {
		flags |= sigGeneric
	}
	s.u8(flags)
	if m.GenericCount > 0 {
		if err := compressUnsigned(s, m.GenericCount); err != nil {
			return err
		}
	}
	total := len(m.Params) + len(m.VarArgParams)
	if err := compressUnsigned(s, uint32(total)); err != nil {
		return err
	}
	if err := encodeType(s, m.RetType); err != nil {
		return err
	}
	for _, p := range m.Params {
		if err := encodeType(s, p); err != nil {
			return err
		}
	}
	if len(m.VarArgParams) > 0 {
		s.u8(byte(ElemSentinel))
		for _, p := range m.VarArgParams {
			if err := encodeType(s, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeMethodSig(c *cursor) (*MethodSig, error) {
	flags, err := c.u8()
	if err != nil {
		return nil, ErrCorruptBlob
	}
	m := &MethodSig{
		HasThis:      flags&sigHasThis != 0,
		ExplicitThis: flags&sigExplicitThis != 0,
		IsVarArg:     flags&sigCallMask == sigVarArg,
	}
	if flags&sigGeneric != 0 {
		if m.GenericCount, err = decompressUnsigned(c); err != nil {
			return nil, err
		}
	}
	count, err := decompressUnsigned(c)
	if err != nil {
		return nil, err
	}
	if m.RetType, err = decodeType(c); err != nil {
		return nil, err
	}
	afterSentinel := false
	for i := uint32(0); i < count; i++ {
		if c.remaining() > 0 {
			peek := c.data[c.pos]
			if ElementType(peek) == ElemSentinel {
				if _, err := c.u8(); err != nil {
					return nil, err
				}
				afterSentinel = true
			}
		}
		t, err := decodeType(c)
		if err != nil {
			return nil, err
		}
		if afterSentinel {
			m.VarArgParams = append(m.VarArgParams, t)
		} else {
			m.Params = append(m.Params, t)
		}
	}
	return m, nil
}

// EncodeFieldSig builds a FieldSig blob (ECMA-335 §II.23.2.4): the FIELD
// tag byte followed by one encoded type.
func EncodeFieldSig(t *TypeSig) ([]byte, error) {
	var s sink
	s.u8(sigField)
	if err := encodeType(&s, t); err != nil {
		return nil, err
	}
	return s.bytes(), nil
}

// DecodeFieldSig is the inverse of EncodeFieldSig.
func DecodeFieldSig(b []byte) (*TypeSig, error) {
	c := newCursor(b)
	tag, err := c.u8()
	if err != nil || tag != sigField {
		return nil, ErrCorruptBlob
	}
	return decodeType(c)
}

// PropertySig is a decoded PropertySig (ECMA-335 §II.23.2.5).
type PropertySig struct {
	HasThis bool
	Type    *TypeSig
	Params  []*TypeSig
}

// EncodePropertySig builds a PropertySig blob.
func EncodePropertySig(p *PropertySig) ([]byte, error) {
	var s sink
	flags := byte(sigProperty)
	if p.HasThis {
		flags |= sigHasThis
	}
	s.u8(flags)
	if err := compressUnsigned(&s, uint32(len(p.Params))); err != nil {
		return nil, err
	}
	if err := encodeType(&s, p.Type); err != nil {
		return nil, err
	}
	for _, prm := range p.Params {
		if err := encodeType(&s, prm); err != nil {
			return nil, err
		}
	}
	return s.bytes(), nil
}

// DecodePropertySig is the inverse of EncodePropertySig.
func DecodePropertySig(b []byte) (*PropertySig, error) {
	c := newCursor(b)
	flags, err := c.u8()
	if err != nil || flags&0x0F != sigProperty {
		return nil, ErrCorruptBlob
	}
	p := &PropertySig{HasThis: flags&sigHasThis != 0}
	n, err := decompressUnsigned(c)
	if err != nil {
		return nil, err
	}
	if p.Type, err = decodeType(c); err != nil {
		return nil, err
	}
	p.Params = make([]*TypeSig, n)
	for i := range p.Params {
		if p.Params[i], err = decodeType(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// LocalVar is one entry of a LocalVarSig (ECMA-335 §II.23.2.6). Any leading
// CMOD_REQD/CMOD_OPT modifiers are carried inside Type itself, as the
// outermost ElemCModReqd/ElemCModOpt layers of its TypeSig chain.
type LocalVar struct {
	Type   *TypeSig
	ByRef  bool
	Pinned bool
}

// EncodeLocalVarSig builds a LocalVarSig blob.
func EncodeLocalVarSig(locals []*LocalVar) ([]byte, error) {
	var s sink
	s.u8(sigLocalVar)
	if err := compressUnsigned(&s, uint32(len(locals))); err != nil {
		return nil, err
	}
	for _, lv := range locals {
		if lv.Pinned {
			s.u8(byte(ElemPinned))
		}
		if lv.ByRef {
			s.u8(byte(ElemByRef))
		}
		if err := encodeType(&s, lv.Type); err != nil {
			return nil, err
		}
	}
	return s.bytes(), nil
}

// DecodeLocalVarSig is the inverse of EncodeLocalVarSig.
func DecodeLocalVarSig(b []byte) ([]*LocalVar, error) {
	c := newCursor(b)
	tag, err := c.u8()
	if err != nil || tag != sigLocalVar {
		return nil, ErrCorruptBlob
	}
	n, err := decompressUnsigned(c)
	if err != nil {
		return nil, err
	}
	locals := make([]*LocalVar, n)
	for i := range locals {
		lv := &LocalVar{}
		for c.remaining() > 0 {
			peek := ElementType(c.data[c.pos])
			if peek == ElemPinned {
				lv.Pinned = true
				c.pos++
				continue
			}
			if peek == ElemByRef {
				lv.ByRef = true
				c.pos++
				continue
			}
			break
		}
		if lv.Type, err = decodeType(c); err != nil {
			return nil, err
		}
		locals[i] = lv
	}
	return locals, nil
}
