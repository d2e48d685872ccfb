// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pehost locates the CLI header's Metadata data directory inside a
// real PE/COFF image, and hands the raw metadata-root bytes to cilmeta's
// reader. It is the minimal slice of the teacher's own PE/COFF parsing
// (dosheader.go's DOS stub check, ntheader.go's NT header and data
// directory array, section.go's RVA-to-file-offset mapping, dotnet.go's
// ImageCOR20Header) that this domain needs — no import/export/resource/
// relocation/TLS/exception/overlay parsing, all of which the teacher
// implements for its own broader scope but which SPEC_FULL's Non-goals
// explicitly exclude here.
package pehost

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"go.mozilla.org/pkcs7"
)

const (
	imageDOSSignature = 0x5A4D      // "MZ"
	imageNTSignature   = 0x00004550 // "PE\0\0"

	imageNtOptionalHeader32Magic = 0x10b
	imageNtOptionalHeader64Magic = 0x20b

	imageDirectoryEntrySecurity = 4  // Authenticode WIN_CERTIFICATE table
	imageDirectoryEntryCLR      = 14 // CLR Runtime Header, ECMA-335 §II.25.3.3

	winCertTypePKCSSignedData = 0x0002
)

// dataDirectory mirrors ntheader.go's DataDirectory: an RVA plus a size,
// one entry of the optional header's fixed 16-entry array.
type dataDirectory struct {
	VirtualAddress uint32
	Size           uint32
}

// sectionHeader mirrors section.go's IMAGE_SECTION_HEADER fields needed for
// RVA-to-file-offset translation; the rest (characteristics, relocations,
// line numbers) belong to PE features this package does not implement.
type sectionHeader struct {
	Name           [8]byte
	VirtualSize    uint32
	VirtualAddress uint32
	SizeOfRawData  uint32
	PtrToRawData   uint32
}

// corHeader mirrors dotnet.go's ImageCOR20Header: the CLI header a CLR
// Runtime Header data directory points at.
type corHeader struct {
	Cb                  uint32
	MajorRuntimeVersion uint16
	MinorRuntimeVersion uint16
	MetaData            dataDirectory
	Flags               uint32
	EntryPoint          uint32
	Resources           dataDirectory
	StrongNameSignature dataDirectory
	CodeManagerTable    dataDirectory
	VTableFixups        dataDirectory
	ExportAddressTable  dataDirectory
	ManagedNativeHeader dataDirectory
}

// Image is an opened PE/COFF file, memory-mapped exactly as the teacher's
// file.go New()/NewBytes() do, trimmed to what locating the CLI header
// needs.
type Image struct {
	data mmap.MMap
	file *os.File

	sections []sectionHeader
	cor      corHeader
	hasCLR   bool

	securityOff, securitySize uint32
}

// Open memory-maps name and parses enough of its PE/COFF structure to find
// the CLR Runtime Header, if any.
func Open(name string) (*Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	img := &Image{data: data, file: f}
	if err := img.parse(); err != nil {
		img.Close()
		return nil, err
	}
	return img, nil
}

// OpenBytes parses an in-memory PE/COFF image, for tests and for embedding
// a host binary without touching the filesystem.
func OpenBytes(data []byte) (*Image, error) {
	img := &Image{data: mmap.MMap(data)}
	if err := img.parse(); err != nil {
		return nil, err
	}
	return img, nil
}

// Close releases the memory mapping, if any.
func (img *Image) Close() error {
	var err error
	if img.data != nil {
		err = img.data.Unmap()
	}
	if img.file != nil {
		if cerr := img.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// HasCLRHeader reports whether the image carries a CLR Runtime Header at
// all (a native, non-managed PE has none).
func (img *Image) HasCLRHeader() bool { return img.hasCLR }

// MetadataRoot returns the raw bytes of the CLI header's Metadata data
// directory — the BSJB blob cilmeta.ReadMetadataRoot/OpenReader consumes.
func (img *Image) MetadataRoot() ([]byte, error) {
	if !img.hasCLR {
		return nil, fmt.Errorf("pehost: image has no CLR header")
	}
	return img.rvaBytes(img.cor.MetaData.VirtualAddress, img.cor.MetaData.Size)
}

// StrongNameSignature returns the raw bytes of the CLI header's
// StrongNameSignature data directory, for display-only inspection by a
// caller. This package never verifies it. (cmd/cilmetadump's --strong-name
// flag shows Authenticode instead, not this directory.)
func (img *Image) StrongNameSignature() ([]byte, error) {
	if !img.hasCLR || img.cor.StrongNameSignature.Size == 0 {
		return nil, nil
	}
	return img.rvaBytes(img.cor.StrongNameSignature.VirtualAddress, img.cor.StrongNameSignature.Size)
}

// Authenticode parses the image's Authenticode WIN_CERTIFICATE table (PE
// Security data directory, entry 4) and returns the embedded PKCS#7
// SignedData, for display by cmd/cilmetadump's --strong-name flag. This is
// unrelated to the CLI header's StrongNameSignature directory: Authenticode
// signs the whole PE file, the CLI strong-name signs only the managed
// metadata and IL. Returns nil, nil if the image carries no certificate
// table at all.
func (img *Image) Authenticode() (*pkcs7.PKCS7, error) {
	if img.securitySize == 0 {
		return nil, nil
	}
	if uint64(img.securityOff)+uint64(img.securitySize) > uint64(len(img.data)) {
		return nil, fmt.Errorf("pehost: security directory runs past end of file")
	}
	table := img.data[img.securityOff : img.securityOff+img.securitySize]
	if len(table) < 8 {
		return nil, fmt.Errorf("pehost: truncated WIN_CERTIFICATE header")
	}
	certType := binary.LittleEndian.Uint16(table[6:8])
	if certType != winCertTypePKCSSignedData {
		return nil, fmt.Errorf("pehost: unsupported certificate type %#x", certType)
	}
	return pkcs7.Parse(table[8:])
}

func (img *Image) parse() error {
	if len(img.data) < 0x40 {
		return fmt.Errorf("pehost: file too small")
	}
	if binary.LittleEndian.Uint16(img.data[0:2]) != imageDOSSignature {
		return fmt.Errorf("pehost: DOS signature not found")
	}
	elfanew := binary.LittleEndian.Uint32(img.data[0x3c:0x40])
	if uint64(elfanew)+4 > uint64(len(img.data)) {
		return fmt.Errorf("pehost: invalid e_lfanew")
	}
	if binary.LittleEndian.Uint32(img.data[elfanew:elfanew+4]) != imageNTSignature {
		return fmt.Errorf("pehost: NT signature not found")
	}

	fileHeaderOff := elfanew + 4
	if uint64(fileHeaderOff)+20 > uint64(len(img.data)) {
		return fmt.Errorf("pehost: truncated file header")
	}
	numSections := binary.LittleEndian.Uint16(img.data[fileHeaderOff+2 : fileHeaderOff+4])
	sizeOptHeader := binary.LittleEndian.Uint16(img.data[fileHeaderOff+16 : fileHeaderOff+18])

	optHeaderOff := fileHeaderOff + 20
	if uint64(optHeaderOff)+2 > uint64(len(img.data)) {
		return fmt.Errorf("pehost: truncated optional header")
	}
	magic := binary.LittleEndian.Uint16(img.data[optHeaderOff : optHeaderOff+2])

	var dirArrayOff uint32
	switch magic {
	case imageNtOptionalHeader32Magic:
		dirArrayOff = optHeaderOff + 96
	case imageNtOptionalHeader64Magic:
		dirArrayOff = optHeaderOff + 112
	default:
		return fmt.Errorf("pehost: unrecognized optional header magic %#x", magic)
	}
	clrDirOff := dirArrayOff + imageDirectoryEntryCLR*8
	if uint64(clrDirOff)+8 > uint64(len(img.data)) {
		return fmt.Errorf("pehost: truncated data directory array")
	}
	clrRVA := binary.LittleEndian.Uint32(img.data[clrDirOff : clrDirOff+4])
	clrSize := binary.LittleEndian.Uint32(img.data[clrDirOff+4 : clrDirOff+8])

	secDirOff := dirArrayOff + imageDirectoryEntrySecurity*8
	if uint64(secDirOff)+8 <= uint64(len(img.data)) {
		// Unlike every other data directory, Security's "VirtualAddress" is a
		// raw file offset: the WIN_CERTIFICATE table isn't mapped into memory.
		img.securityOff = binary.LittleEndian.Uint32(img.data[secDirOff : secDirOff+4])
		img.securitySize = binary.LittleEndian.Uint32(img.data[secDirOff+4 : secDirOff+8])
	}

	sectionsOff := optHeaderOff + uint32(sizeOptHeader)
	img.sections = make([]sectionHeader, 0, numSections)
	for i := uint16(0); i < numSections; i++ {
		off := sectionsOff + uint32(i)*40
		if uint64(off)+40 > uint64(len(img.data)) {
			break
		}
		var sh sectionHeader
		copy(sh.Name[:], img.data[off:off+8])
		sh.VirtualSize = binary.LittleEndian.Uint32(img.data[off+8 : off+12])
		sh.VirtualAddress = binary.LittleEndian.Uint32(img.data[off+12 : off+16])
		sh.SizeOfRawData = binary.LittleEndian.Uint32(img.data[off+16 : off+20])
		sh.PtrToRawData = binary.LittleEndian.Uint32(img.data[off+20 : off+24])
		img.sections = append(img.sections, sh)
	}

	if clrRVA == 0 || clrSize == 0 {
		return nil // no CLR header: a native image, not an error
	}
	corBytes, err := img.rvaBytes(clrRVA, clrSize)
	if err != nil {
		return err
	}
	if len(corBytes) < 72 {
		return fmt.Errorf("pehost: truncated CLR header")
	}
	img.cor = corHeader{
		Cb:                  binary.LittleEndian.Uint32(corBytes[0:4]),
		MajorRuntimeVersion: binary.LittleEndian.Uint16(corBytes[4:6]),
		MinorRuntimeVersion: binary.LittleEndian.Uint16(corBytes[6:8]),
		MetaData:            readDD(corBytes[8:16]),
		Flags:               binary.LittleEndian.Uint32(corBytes[16:20]),
		EntryPoint:          binary.LittleEndian.Uint32(corBytes[20:24]),
		Resources:           readDD(corBytes[24:32]),
		StrongNameSignature: readDD(corBytes[32:40]),
		CodeManagerTable:    readDD(corBytes[40:48]),
		VTableFixups:        readDD(corBytes[48:56]),
		ExportAddressTable:  readDD(corBytes[56:64]),
		ManagedNativeHeader: readDD(corBytes[64:72]),
	}
	img.hasCLR = true
	return nil
}

func readDD(b []byte) dataDirectory {
	return dataDirectory{
		VirtualAddress: binary.LittleEndian.Uint32(b[0:4]),
		Size:           binary.LittleEndian.Uint32(b[4:8]),
	}
}

// rvaBytes translates an RVA/size pair to a slice of the mapped file,
// generalizing section.go's RVA-to-file-offset walk: the address lies in
// whichever section's [VirtualAddress, VirtualAddress+VirtualSize) range
// contains it, at that section's PtrToRawData plus the RVA's offset into
// the section.
func (img *Image) rvaBytes(rva, size uint32) ([]byte, error) {
	for _, s := range img.sections {
		if rva >= s.VirtualAddress && rva < s.VirtualAddress+s.VirtualSize {
			fileOff := s.PtrToRawData + (rva - s.VirtualAddress)
			if uint64(fileOff)+uint64(size) > uint64(len(img.data)) {
				return nil, fmt.Errorf("pehost: directory runs past end of file")
			}
			return img.data[fileOff : fileOff+size], nil
		}
	}
	return nil, fmt.Errorf("pehost: RVA %#x not mapped by any section", rva)
}
