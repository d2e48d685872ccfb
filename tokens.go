// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// Token is a metadata token: the table id in the high byte, the 1-based row
// number in the low 24 bits (spec §3, §6). Tokens are stable across a
// Finalize call's sort pass only for tables requiresSort reports false for;
// sort-required tables renumber their rows, so any token captured before
// Finalize into one of them is stale afterward (spec §4.5's sort-then-fixup
// contract exists precisely to keep callers from observing a stale token).
type Token uint32

// NewToken stamps a table id and 1-based row number into a Token.
func NewToken(id TableID, row uint32) Token {
	return Token(uint32(id)<<24 | row)
}

// Table returns the token's table id.
func (t Token) Table() TableID { return TableID(t >> 24) }

// Row returns the token's 1-based row number.
func (t Token) Row() uint32 { return uint32(t) & 0x00FFFFFF }

// IsNil reports whether t has row 0, in any table (the zero Token among
// them), the convention this engine uses for "no token" since real rows
// are numbered from 1.
func (t Token) IsNil() bool { return t.Row() == 0 }
