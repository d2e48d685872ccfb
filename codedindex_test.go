// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import "testing"

func TestCodedFamilyEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		f     *CodedFamily
		table TableID
		row   uint32
	}{
		{"TypeDefOrRef/TypeDef", &codedTypeDefOrRef, TableTypeDef, 1},
		{"TypeDefOrRef/TypeRef", &codedTypeDefOrRef, TableTypeRef, 42},
		{"TypeDefOrRef/TypeSpec", &codedTypeDefOrRef, TableTypeSpec, 0x3FFFF},
		{"ResolutionScope/Module", &codedResolutionScope, TableModule, 1},
		{"ResolutionScope/AssemblyRef", &codedResolutionScope, TableAssemblyRef, 7},
		{"HasCustomAttribute/GenericParamConstraint", &codedHasCustomAttribute, TableGenericParamConstraint, 3},
		{"CustomAttributeType/MemberRef", &codedCustomAttributeType, TableMemberRef, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := tt.f.encode(tt.table, tt.row)
			if err != nil {
				t.Fatalf("encode(%v, %d) failed, reason: %v", tt.table, tt.row, err)
			}
			table, row, err := tt.f.decode(raw)
			if err != nil {
				t.Fatalf("decode(%#x) failed, reason: %v", raw, err)
			}
			if table != tt.table || row != tt.row {
				t.Fatalf("round trip got (%v, %d), want (%v, %d)", table, row, tt.table, tt.row)
			}
		})
	}
}

func TestCodedFamilyEncodeUnknownTable(t *testing.T) {
	if _, err := codedHasSemantics.encode(TableField, 1); err != ErrCorruptIndex {
		t.Fatalf("encode with a non-member table should return ErrCorruptIndex, got %v", err)
	}
}

func TestCodedFamilyDecodeNull(t *testing.T) {
	table, row, err := codedTypeDefOrRef.decode(0)
	if err != nil {
		t.Fatalf("decode(0) failed, reason: %v", err)
	}
	if table != noTable || row != 0 {
		t.Fatalf("decode(0) = (%v, %d), want (noTable, 0)", table, row)
	}
}

func TestCodedFamilyDecodeUnusedTag(t *testing.T) {
	// codedCustomAttributeType's tags 0, 1 and 4 are unused per ECMA-335.
	if _, _, err := codedCustomAttributeType.decode(1 << 3); err != ErrCorruptIndex {
		t.Fatalf("decode with an unused tag should return ErrCorruptIndex, got %v", err)
	}
}

func TestMaxRowsForWidth2(t *testing.T) {
	// TagBits=1 leaves 15 usable bits: 2^15 - 1.
	if got, want := codedHasSemantics.maxRowsForWidth2(), uint32(1<<15-1); got != want {
		t.Fatalf("maxRowsForWidth2() = %d, want %d", got, want)
	}
	// TagBits=5 (HasCustomAttribute) leaves 11 usable bits: 2^11 - 1.
	if got, want := codedHasCustomAttribute.maxRowsForWidth2(), uint32(1<<11-1); got != want {
		t.Fatalf("maxRowsForWidth2() = %d, want %d", got, want)
	}
}
