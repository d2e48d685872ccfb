// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

// Fuzz is a go-fuzz entry point, grounded directly on the teacher's own
// fuzz.go (which wraps pe.NewBytes/Parse the same way): feed it arbitrary
// bytes as a candidate metadata-root blob and let OpenReader's bounds
// checks do the work. Returns 1 when data parsed as a well-formed root (so
// the fuzzer prioritizes mutating "interesting" inputs), 0 otherwise.
func Fuzz(data []byte) int {
	r, err := OpenReader(data, &Options{SkipBody: true})
	if err != nil || r == nil {
		return 0
	}
	return 1
}
