// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import (
	"bytes"
	"encoding/binary"
)

// cursor is a bounds-checked little-endian reader over an in-memory byte
// slice, the reader-side analogue of the teacher's pe.ReadUint16/32/64 and
// structUnpack helpers in helper.go, generalized away from a whole-PE-file
// receiver to the metadata-root bytes this engine actually owns.
type cursor struct {
	data []byte
	pos  uint32
}

func newCursor(data []byte) *cursor { return &cursor{data: data} }

func (c *cursor) remaining() uint32 {
	if uint32(len(c.data)) <= c.pos {
		return 0
	}
	return uint32(len(c.data)) - c.pos
}

func (c *cursor) u8() (uint8, error) {
	if c.remaining() < 1 {
		return 0, ErrShortRead
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) u16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, ErrShortRead
	}
	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *cursor) u32() (uint32, error) {
	if c.remaining() < 4 {
		return 0, ErrShortRead
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *cursor) u64() (uint64, error) {
	if c.remaining() < 8 {
		return 0, ErrShortRead
	}
	v := binary.LittleEndian.Uint64(c.data[c.pos:])
	c.pos += 8
	return v, nil
}

func (c *cursor) bytes(n uint32) ([]byte, error) {
	if c.remaining() < n {
		return nil, ErrShortRead
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// index reads a heap or table index whose width (2 or 4 bytes) is decided
// by the planner ahead of time.
func (c *cursor) index(wide bool) (uint32, error) {
	if wide {
		return c.u32()
	}
	v, err := c.u16()
	return uint32(v), err
}

// sink is the write-side mirror of cursor: an append-only little-endian
// byte buffer, the writer-side analogue of structUnpack's inverse.
type sink struct {
	buf bytes.Buffer
}

func (s *sink) u8(v uint8) { s.buf.WriteByte(v) }

func (s *sink) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	s.buf.Write(b[:])
}

func (s *sink) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	s.buf.Write(b[:])
}

func (s *sink) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	s.buf.Write(b[:])
}

func (s *sink) raw(b []byte) { s.buf.Write(b) }

func (s *sink) index(v uint32, wide bool) {
	if wide {
		s.u32(v)
	} else {
		s.u16(uint16(v))
	}
}

func (s *sink) bytes() []byte { return s.buf.Bytes() }

func (s *sink) len() int { return s.buf.Len() }
