// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import (
	"errors"
	"fmt"
)

// Errors returned by the engine. They name a kind, not a concrete type, so
// callers compare with errors.Is against the sentinel rather than a type
// assertion.
var (
	// ErrCorruptIndex is returned when a raw row index, a coded-index tag,
	// or a heap offset falls outside the bounds the stream header promised.
	ErrCorruptIndex = errors.New("cilmeta: corrupt index")

	// ErrCorruptBlob is returned when a compressed integer is malformed or
	// a blob's length prefix claims more bytes than the heap holds.
	ErrCorruptBlob = errors.New("cilmeta: corrupt blob")

	// ErrUnsupportedTable is returned when the Valid mask names a table id
	// this engine's catalogue does not know.
	ErrUnsupportedTable = errors.New("cilmeta: unsupported table")

	// ErrShortRead is returned when the stream is truncated.
	ErrShortRead = errors.New("cilmeta: short read")

	// ErrShortWrite is returned when an underlying writer stops accepting
	// bytes before the stream is fully emitted.
	ErrShortWrite = errors.New("cilmeta: short write")

	// ErrInvalidState is returned when a mutation is attempted after
	// Finalize, or Finalize is invoked twice.
	ErrInvalidState = errors.New("cilmeta: invalid engine state")

	// ErrDescriptorConflict is returned when a duplicate class or member is
	// added where the engine's contract forbids duplicates.
	ErrDescriptorConflict = errors.New("cilmeta: duplicate descriptor")

	// ErrSignatureTooLarge is returned when a value would require more than
	// 4 bytes of compressed-unsigned encoding (i.e. is >= 0x20000000).
	ErrSignatureTooLarge = errors.New("cilmeta: signature value too large to compress")

	// ErrUnresolved is returned when a descriptor reference could not be
	// bound during the reader's resolution pass.
	ErrUnresolved = errors.New("cilmeta: unresolved reference")
)

// DiagnosticError wraps one of the sentinel errors above with the table,
// row, and column the reader was working on when it failed, per spec: "the
// reader makes a best effort to continue past a corrupt row only when
// skip_body mode is enabled".
type DiagnosticError struct {
	Table  TableID
	Row    int
	Column string
	Err    error
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("cilmeta: %s: table=%s row=%d column=%s",
		e.Err, tableName(e.Table), e.Row, e.Column)
}

func (e *DiagnosticError) Unwrap() error { return e.Err }

func diag(table TableID, row int, column string, err error) error {
	if err == nil {
		return nil
	}
	return &DiagnosticError{Table: table, Row: row, Column: column, Err: err}
}
