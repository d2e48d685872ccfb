// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pehost

import (
	"encoding/binary"
	"testing"
)

// buildMinimalPE assembles the smallest PE32 image parse() can walk: a DOS
// stub, a PE32 optional header with a 16-entry data directory array, one
// section, and a CLR header (ECMA-335 §II.25.3.3) inside that section
// pointing at metadata, the bytes supplied by the caller.
func buildMinimalPE(t *testing.T, metadata []byte) []byte {
	t.Helper()

	const (
		fileHeaderSize = 20
		optHeaderSize  = 224 // PE32 standard+Windows fields plus 16 data directories
		sectionHdrSize = 40
		corHeaderSize  = 72
	)
	elfanew := uint32(0x80)
	fileHeaderOff := elfanew + 4
	optHeaderOff := fileHeaderOff + fileHeaderSize
	dirArrayOff := optHeaderOff + 96
	sectionsOff := optHeaderOff + optHeaderSize
	sectionOff := sectionsOff
	sectionRawOff := sectionOff + sectionHdrSize
	// CLR header sits right at the start of the section's raw data;
	// metadata immediately follows it, at RVA sectionVA+corHeaderSize.
	sectionVA := uint32(0x2000)
	corRVA := sectionVA
	metadataRVA := sectionVA + corHeaderSize
	sectionRawSize := corHeaderSize + len(metadata)

	total := sectionRawOff + uint32(sectionRawSize)
	buf := make([]byte, total)

	binary.LittleEndian.PutUint16(buf[0:2], imageDOSSignature)
	binary.LittleEndian.PutUint32(buf[0x3c:0x40], elfanew)
	binary.LittleEndian.PutUint32(buf[elfanew:elfanew+4], imageNTSignature)

	binary.LittleEndian.PutUint16(buf[fileHeaderOff+2:fileHeaderOff+4], 1) // NumberOfSections
	binary.LittleEndian.PutUint16(buf[fileHeaderOff+16:fileHeaderOff+18], optHeaderSize)

	binary.LittleEndian.PutUint16(buf[optHeaderOff:optHeaderOff+2], imageNtOptionalHeader32Magic)
	clrDirOff := dirArrayOff + imageDirectoryEntryCLR*8
	binary.LittleEndian.PutUint32(buf[clrDirOff:clrDirOff+4], corRVA)
	binary.LittleEndian.PutUint32(buf[clrDirOff+4:clrDirOff+8], uint32(corHeaderSize))

	copy(buf[sectionOff:sectionOff+8], ".text\x00\x00\x00")
	binary.LittleEndian.PutUint32(buf[sectionOff+8:sectionOff+12], uint32(sectionRawSize)) // VirtualSize
	binary.LittleEndian.PutUint32(buf[sectionOff+12:sectionOff+16], sectionVA)
	binary.LittleEndian.PutUint32(buf[sectionOff+16:sectionOff+20], uint32(sectionRawSize))
	binary.LittleEndian.PutUint32(buf[sectionOff+20:sectionOff+24], sectionRawOff)

	cor := buf[sectionRawOff : sectionRawOff+corHeaderSize]
	binary.LittleEndian.PutUint32(cor[0:4], corHeaderSize) // Cb
	binary.LittleEndian.PutUint32(cor[8:12], metadataRVA)  // MetaData.VirtualAddress
	binary.LittleEndian.PutUint32(cor[12:16], uint32(len(metadata)))

	copy(buf[sectionRawOff+corHeaderSize:], metadata)
	return buf
}

func TestOpenBytesFindsMetadataRoot(t *testing.T) {
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x00, 0x00, 0x00}
	pe := buildMinimalPE(t, want)

	img, err := OpenBytes(pe)
	if err != nil {
		t.Fatalf("OpenBytes failed, reason: %v", err)
	}
	defer img.Close()

	if !img.HasCLRHeader() {
		t.Fatalf("image built with a CLR header should report HasCLRHeader() true")
	}
	got, err := img.MetadataRoot()
	if err != nil {
		t.Fatalf("MetadataRoot failed, reason: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d metadata bytes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("metadata byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestOpenBytesNoCLRHeader(t *testing.T) {
	pe := buildMinimalPE(t, nil)
	// Zero out the CLR directory entry (dirArrayOff + 14*8, see
	// buildMinimalPE's layout): a native image.
	const clrDirOff = 0x80 + 4 + 20 + 96 + imageDirectoryEntryCLR*8
	binary.LittleEndian.PutUint32(pe[clrDirOff:clrDirOff+4], 0)

	img, err := OpenBytes(pe)
	if err != nil {
		t.Fatalf("OpenBytes failed, reason: %v", err)
	}
	defer img.Close()
	if img.HasCLRHeader() {
		t.Fatalf("a native image should report HasCLRHeader() false")
	}
	if _, err := img.MetadataRoot(); err == nil {
		t.Fatalf("MetadataRoot on a native image should return an error")
	}
}

func TestOpenBytesBadDOSSignature(t *testing.T) {
	buf := make([]byte, 0x40)
	if _, err := OpenBytes(buf); err == nil {
		t.Fatalf("a missing MZ signature should be rejected")
	}
}

func TestOpenBytesNoAuthenticode(t *testing.T) {
	pe := buildMinimalPE(t, []byte{0x01})
	img, err := OpenBytes(pe)
	if err != nil {
		t.Fatalf("OpenBytes failed, reason: %v", err)
	}
	defer img.Close()
	cert, err := img.Authenticode()
	if err != nil {
		t.Fatalf("Authenticode on an unsigned image should not error, got %v", err)
	}
	if cert != nil {
		t.Fatalf("Authenticode on an unsigned image should return a nil certificate")
	}
}
