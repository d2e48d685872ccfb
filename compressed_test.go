// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import "testing"

func TestCompressUnsigned(t *testing.T) {
	tests := []struct {
		in  uint32
		out []byte
	}{
		{0x00, []byte{0x00}},
		{0x03, []byte{0x03}},
		{0x7F, []byte{0x7F}},
		{0x80, []byte{0x80, 0x80}},
		{0x2E57, []byte{0xAE, 0x57}},
		{0x3FFF, []byte{0xBF, 0xFF}},
		{0x4000, []byte{0xC0, 0x00, 0x40, 0x00}},
		{0x1FFFFFFF, []byte{0xDF, 0xFF, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			var s sink
			if err := compressUnsigned(&s, tt.in); err != nil {
				t.Fatalf("compressUnsigned(%#x) failed, reason: %v", tt.in, err)
			}
			got := s.bytes()
			if len(got) != len(tt.out) {
				t.Fatalf("compressUnsigned(%#x) = % x, want % x", tt.in, got, tt.out)
			}
			for i := range got {
				if got[i] != tt.out[i] {
					t.Fatalf("compressUnsigned(%#x) = % x, want % x", tt.in, got, tt.out)
				}
			}
			c := newCursor(got)
			back, err := decompressUnsigned(c)
			if err != nil {
				t.Fatalf("decompressUnsigned failed, reason: %v", err)
			}
			if back != tt.in {
				t.Fatalf("round trip got %#x, want %#x", back, tt.in)
			}
		})
	}
}

func TestCompressUnsignedTooLarge(t *testing.T) {
	var s sink
	if err := compressUnsigned(&s, 0x20000000); err == nil {
		t.Fatalf("compressUnsigned(0x20000000) should have failed, value exceeds 4-byte encoding")
	}
}

func TestCompressSignedRoundTrip(t *testing.T) {
	values := []int32{0, 3, -3, 64, -64, 8192, -8192, 268435455, -268435456}
	for _, v := range values {
		t.Run("", func(t *testing.T) {
			var s sink
			if err := compressSigned(&s, v); err != nil {
				t.Fatalf("compressSigned(%d) failed, reason: %v", v, err)
			}
			c := newCursor(s.bytes())
			back, err := decompressSigned(c)
			if err != nil {
				t.Fatalf("decompressSigned failed, reason: %v", err)
			}
			if back != v {
				t.Fatalf("round trip got %d, want %d", back, v)
			}
		})
	}
}

// TestCompressSignedSpecVectors pins the sign-magnitude encoding spec §6
// describes: magnitude shifted left one bit, sign placed in bit 0.
func TestCompressSignedSpecVectors(t *testing.T) {
	tests := []struct {
		in  int32
		out []byte
	}{
		{3, []byte{0x06}},
		{-3, []byte{0x07}},
		{64, []byte{0x80, 0x80}},
	}
	for _, tt := range tests {
		var s sink
		if err := compressSigned(&s, tt.in); err != nil {
			t.Fatalf("compressSigned(%d) failed, reason: %v", tt.in, err)
		}
		got := s.bytes()
		if len(got) != len(tt.out) {
			t.Fatalf("compressSigned(%d) = % x, want % x", tt.in, got, tt.out)
		}
		for i := range got {
			if got[i] != tt.out[i] {
				t.Fatalf("compressSigned(%d) = % x, want % x", tt.in, got, tt.out)
			}
		}
	}
}
