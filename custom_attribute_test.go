// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import "testing"

// TestDecodeCustomAttributeArgsFixedOnly builds a blob by hand for a
// constructor taking (int32, string) and checks both fixed args decode.
func TestDecodeCustomAttributeArgsFixedOnly(t *testing.T) {
	var s sink
	s.u16(customAttributeProlog)
	s.u32(uint32(int32(-7))) // I4 argument
	if err := compressUnsigned(&s, uint32(len("hi"))); err != nil {
		t.Fatalf("compressUnsigned failed, reason: %v", err)
	}
	s.raw([]byte("hi"))
	s.u16(0) // no named args

	ctorParams := []*TypeSig{{Elem: ElemI4}, {Elem: ElemString}}
	args, err := DecodeCustomAttributeArgs(s.bytes(), ctorParams)
	if err != nil {
		t.Fatalf("DecodeCustomAttributeArgs failed, reason: %v", err)
	}
	if len(args.Fixed) != 2 {
		t.Fatalf("got %d fixed args, want 2", len(args.Fixed))
	}
	if args.Fixed[0].I64 != -7 {
		t.Fatalf("fixed[0].I64 = %d, want -7", args.Fixed[0].I64)
	}
	if args.Fixed[1].Str != "hi" {
		t.Fatalf("fixed[1].Str = %q, want \"hi\"", args.Fixed[1].Str)
	}
	if len(args.Named) != 0 {
		t.Fatalf("got %d named args, want 0", len(args.Named))
	}
}

func TestDecodeCustomAttributeArgsBadProlog(t *testing.T) {
	var s sink
	s.u16(0xFFFF)
	if _, err := DecodeCustomAttributeArgs(s.bytes(), nil); err != ErrCorruptBlob {
		t.Fatalf("a bad prolog should return ErrCorruptBlob, got %v", err)
	}
}

func TestDecodeCustomAttributeArgsNullArray(t *testing.T) {
	var s sink
	s.u16(customAttributeProlog)
	s.u32(0xFFFFFFFF) // null SZArray
	s.u16(0)

	ctorParams := []*TypeSig{{Elem: ElemSZArray, Elem1: &TypeSig{Elem: ElemString}}}
	args, err := DecodeCustomAttributeArgs(s.bytes(), ctorParams)
	if err != nil {
		t.Fatalf("DecodeCustomAttributeArgs failed, reason: %v", err)
	}
	if args.Fixed[0].Array != nil {
		t.Fatalf("a null array should decode with a nil Array slice")
	}
}

func TestDecodeCustomAttributeArgsNamedArg(t *testing.T) {
	var s sink
	s.u16(customAttributeProlog) // no fixed args
	s.u16(1)                     // one named arg
	s.u8(0x53)                   // FIELD
	s.u8(byte(ElemI4))
	if err := compressUnsigned(&s, uint32(len("Count"))); err != nil {
		t.Fatalf("compressUnsigned failed, reason: %v", err)
	}
	s.raw([]byte("Count"))
	s.u32(42)

	args, err := DecodeCustomAttributeArgs(s.bytes(), nil)
	if err != nil {
		t.Fatalf("DecodeCustomAttributeArgs failed, reason: %v", err)
	}
	if len(args.Named) != 1 {
		t.Fatalf("got %d named args, want 1", len(args.Named))
	}
	na := args.Named[0]
	if na.IsProperty {
		t.Fatalf("tag 0x53 is FIELD, IsProperty should be false")
	}
	if na.Name != "Count" {
		t.Fatalf("Name = %q, want \"Count\"", na.Name)
	}
	if na.Value.I64 != 42 {
		t.Fatalf("Value.I64 = %d, want 42", na.Value.I64)
	}
}
