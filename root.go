// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// BSJB metadata-root framing: the header that precedes the #~ stream and
// the four heaps inside a CLI image's Metadata data directory (spec §6,
// ECMA-335 §II.24.2.1). Grounded on dotnet.go's parseMetadataHeader /
// parseCLRHeaderDirectory stream-discovery loop, generalized into a write
// path the teacher never had.

const metadataSignature = 0x424A5342 // "BSJB"

// streamOrder is the fixed order this engine writes streams in. A real
// reader must accept any order (and this engine's own reader does, since
// it looks streams up by name) but always emitting a canonical order keeps
// the writer simple and its output byte-stable across runs.
var streamOrder = []string{"#~", "#Strings", "#US", "#GUID", "#Blob"}

// MetadataRoot is the parsed BSJB header plus the raw bytes of each stream
// it named, keyed by stream name (e.g. "#~", "#Strings").
type MetadataRoot struct {
	MajorVersion  uint16
	MinorVersion  uint16
	VersionString string
	Streams       map[string][]byte
}

// align4 rounds n up to the next multiple of 4, the padding ECMA-335 uses
// for the version string and every stream name.
func align4(n int) int { return (n + 3) &^ 3 }

// WriteMetadataRoot assembles the full metadata-root blob: header, version
// string, stream directory, then the streams themselves back to back in
// streamOrder. streams missing from the map are skipped (e.g. a module
// with no user strings omits "#US" entirely, per spec §4.1).
func WriteMetadataRoot(versionString string, streams map[string][]byte) []byte {
	var dir sink
	versionPadded := align4(len(versionString) + 1)

	present := make([]string, 0, len(streamOrder))
	for _, name := range streamOrder {
		if _, ok := streams[name]; ok {
			present = append(present, name)
		}
	}

	headerLen := 4 + 2 + 2 + 4 + 4 + versionPadded + 2 + 2
	dirLen := 0
	for _, name := range present {
		dirLen += 8 + align4(len(name)+1)
	}
	offset := uint32(headerLen + dirLen)

	dir.u32(metadataSignature)
	dir.u16(1) // MajorVersion
	dir.u16(1) // MinorVersion
	dir.u32(0) // ExtraData / Reserved
	dir.u32(uint32(versionPadded))
	vb := make([]byte, versionPadded)
	copy(vb, versionString)
	dir.raw(vb)
	dir.u16(0) // Flags
	dir.u16(uint16(len(present)))

	type placed struct {
		name string
		off  uint32
		size uint32
	}
	var placements []placed
	cursor := offset
	for _, name := range present {
		size := uint32(len(streams[name]))
		placements = append(placements, placed{name, cursor, size})
		cursor += size
	}
	for _, p := range placements {
		dir.u32(p.off)
		dir.u32(p.size)
		nb := make([]byte, align4(len(p.name)+1))
		copy(nb, p.name)
		dir.raw(nb)
	}

	out := dir.bytes()
	for _, name := range present {
		out = append(out, streams[name]...)
	}
	return out
}

// ReadMetadataRoot parses a BSJB metadata-root blob and slices out each
// stream's raw bytes.
func ReadMetadataRoot(data []byte) (*MetadataRoot, error) {
	c := newCursor(data)
	sig, err := c.u32()
	if err != nil || sig != metadataSignature {
		return nil, ErrCorruptBlob
	}
	root := &MetadataRoot{Streams: make(map[string][]byte)}
	if root.MajorVersion, err = c.u16(); err != nil {
		return nil, ErrShortRead
	}
	if root.MinorVersion, err = c.u16(); err != nil {
		return nil, ErrShortRead
	}
	if _, err = c.u32(); err != nil { // ExtraData / Reserved
		return nil, ErrShortRead
	}
	verLen, err := c.u32()
	if err != nil {
		return nil, ErrShortRead
	}
	verBytes, err := c.bytes(verLen)
	if err != nil {
		return nil, ErrShortRead
	}
	root.VersionString = cString(verBytes)
	if _, err = c.u16(); err != nil { // Flags
		return nil, ErrShortRead
	}
	numStreams, err := c.u16()
	if err != nil {
		return nil, ErrShortRead
	}
	for i := uint16(0); i < numStreams; i++ {
		off, err := c.u32()
		if err != nil {
			return nil, ErrShortRead
		}
		size, err := c.u32()
		if err != nil {
			return nil, ErrShortRead
		}
		name, err := readPaddedName(c)
		if err != nil {
			return nil, ErrShortRead
		}
		if uint64(off)+uint64(size) > uint64(len(data)) {
			return nil, ErrCorruptIndex
		}
		root.Streams[name] = data[off : off+size]
	}
	return root, nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// readPaddedName reads a NUL-terminated stream name padded to a 4-byte
// boundary, advancing the cursor past the padding.
func readPaddedName(c *cursor) (string, error) {
	start := c.pos
	for {
		b, err := c.u8()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
	}
	total := align4(int(c.pos - start))
	c.pos = start + uint32(total)
	return cString(c.data[start:c.pos]), nil
}
