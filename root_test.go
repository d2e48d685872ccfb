// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import "testing"

func TestMetadataRootRoundTrip(t *testing.T) {
	streams := map[string][]byte{
		"#~":       {0x01, 0x02, 0x03},
		"#Strings": {0x00, 'a', 'b', 0x00},
		"#GUID":    make([]byte, 16),
	}
	blob := WriteMetadataRoot("v4.0.30319", streams)

	root, err := ReadMetadataRoot(blob)
	if err != nil {
		t.Fatalf("ReadMetadataRoot failed, reason: %v", err)
	}
	if root.VersionString != "v4.0.30319" {
		t.Fatalf("VersionString = %q, want %q", root.VersionString, "v4.0.30319")
	}
	if len(root.Streams) != len(streams) {
		t.Fatalf("got %d streams, want %d", len(root.Streams), len(streams))
	}
	for name, want := range streams {
		got, ok := root.Streams[name]
		if !ok {
			t.Fatalf("stream %q missing after round trip", name)
		}
		if len(got) != len(want) {
			t.Fatalf("stream %q length = %d, want %d", name, len(got), len(want))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("stream %q content mismatch at byte %d", name, i)
			}
		}
	}
}

func TestMetadataRootOmitsMissingStreams(t *testing.T) {
	blob := WriteMetadataRoot("v4.0.30319", map[string][]byte{"#~": {0xAA}})
	root, err := ReadMetadataRoot(blob)
	if err != nil {
		t.Fatalf("ReadMetadataRoot failed, reason: %v", err)
	}
	if _, ok := root.Streams["#US"]; ok {
		t.Fatalf("a module with no user strings should omit #US entirely")
	}
	if _, ok := root.Streams["#~"]; !ok {
		t.Fatalf("#~ stream should be present")
	}
}

func TestMetadataRootBadSignature(t *testing.T) {
	if _, err := ReadMetadataRoot([]byte{0, 0, 0, 0}); err != ErrCorruptBlob {
		t.Fatalf("ReadMetadataRoot with a bad signature should return ErrCorruptBlob, got %v", err)
	}
}
