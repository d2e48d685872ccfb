// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// Compressed unsigned/signed integer codec, per spec §6 and ECMA-335
// §II.23.2. Used for blob length prefixes and for most positions inside a
// signature blob. No example repo in the retrieval pack implements this
// exact variable-width scheme, so it is built directly from the formula:
//
//	1 byte  0xxxxxxx             for 0 .. 0x7F
//	2 bytes 10xxxxxx xxxxxxxx    for 0 .. 0x3FFF
//	4 bytes 110xxxxx xxxxxxxx xxxxxxxx xxxxxxxx   for 0 .. 0x1FFFFFFF
const (
	compressedMax1 = 0x7F
	compressedMax2 = 0x3FFF
	compressedMax4 = 0x1FFFFFFF
)

// compressUnsigned appends the compressed-unsigned encoding of v.
// ErrSignatureTooLarge is returned for v >= 0x20000000 (spec §4.1, §6).
func compressUnsigned(s *sink, v uint32) error {
	switch {
	case v <= compressedMax1:
		s.u8(uint8(v))
	case v <= compressedMax2:
		s.u8(uint8(0x80 | (v >> 8)))
		s.u8(uint8(v))
	case v <= compressedMax4:
		s.u8(uint8(0xC0 | (v >> 24)))
		s.u8(uint8(v >> 16))
		s.u8(uint8(v >> 8))
		s.u8(uint8(v))
	default:
		return ErrSignatureTooLarge
	}
	return nil
}

// compressedLen reports how many bytes compressUnsigned would emit for v,
// without emitting them.
func compressedLen(v uint32) int {
	switch {
	case v <= compressedMax1:
		return 1
	case v <= compressedMax2:
		return 2
	default:
		return 4
	}
}

// decompressUnsigned reads one compressed-unsigned integer and returns its
// value; the cursor is left just past the encoded bytes, where the payload
// after a length prefix begins.
func decompressUnsigned(c *cursor) (uint32, error) {
	b0, err := c.u8()
	if err != nil {
		return 0, ErrCorruptBlob
	}
	switch {
	case b0&0x80 == 0:
		return uint32(b0), nil
	case b0&0xC0 == 0x80:
		b1, err := c.u8()
		if err != nil {
			return 0, ErrCorruptBlob
		}
		return (uint32(b0&0x3F) << 8) | uint32(b1), nil
	case b0&0xE0 == 0xC0:
		rest, err := c.bytes(3)
		if err != nil {
			return 0, ErrCorruptBlob
		}
		return (uint32(b0&0x1F) << 24) | (uint32(rest[0]) << 16) |
			(uint32(rest[1]) << 8) | uint32(rest[2]), nil
	default:
		return 0, ErrCorruptBlob
	}
}

// compressSigned encodes a signed value per spec §6: the magnitude is
// left-shifted by one bit to make room for a sign bit placed in bit 0,
// and the result is compressed as unsigned. Decoding is the exact inverse,
// so there is no sign-extension subtlety to get wrong.
func compressSigned(s *sink, v int32) error {
	mag := uint32(v)
	if v < 0 {
		mag = uint32(-v)
	}
	shifted := mag << 1
	if v < 0 {
		shifted |= 1
	}
	return compressUnsigned(s, shifted)
}

// decompressSigned is the inverse of compressSigned.
func decompressSigned(c *cursor) (int32, error) {
	shifted, err := decompressUnsigned(c)
	if err != nil {
		return 0, err
	}
	mag := int32(shifted >> 1)
	if shifted&1 != 0 {
		return -mag, nil
	}
	return mag, nil
}
