// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	tok := NewToken(TableTypeDef, 7)
	if tok.Table() != TableTypeDef {
		t.Fatalf("Table() = %v, want TableTypeDef", tok.Table())
	}
	if tok.Row() != 7 {
		t.Fatalf("Row() = %d, want 7", tok.Row())
	}
	if tok.IsNil() {
		t.Fatalf("a row-7 token should not be nil")
	}
}

func TestTokenNil(t *testing.T) {
	var tok Token
	if !tok.IsNil() {
		t.Fatalf("the zero Token should be nil")
	}
}

func TestTokenEncoding(t *testing.T) {
	// TableTypeDef is 0x02; row 1 packs to 0x02000001.
	tok := NewToken(TableTypeDef, 1)
	if uint32(tok) != 0x02000001 {
		t.Fatalf("NewToken(TableTypeDef, 1) = %#x, want 0x02000001", uint32(tok))
	}
}
