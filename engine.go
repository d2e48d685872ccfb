// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cilmeta

import "github.com/ecma335/cilmeta/log"

// engineState is the engine's one-way lifecycle (spec §4.8): Building
// accepts descriptor/row mutations, Finalize sorts and plans widths and
// moves to Finalizing then Written, after which every mutating method
// returns ErrInvalidState.
type engineState uint8

const (
	stateBuilding engineState = iota
	stateFinalizing
	stateWritten
)

// Options configures an Engine or Reader, mirroring the teacher's own
// pe.Options (Fast/SectionEntropy/Logger) in shape: a small struct of
// behavior toggles plus a logger, no environment variables.
type Options struct {
	// SkipBody makes the reader tolerate a corrupt row by leaving it out of
	// the table and going on to the next row instead of aborting the whole
	// read (spec §7). The skipped row's diagnostic is not kept or logged.
	SkipBody bool
	Logger   log.Logger
}

// Engine is the root container for a metadata module under construction:
// the table store plus the four heaps, gated by engineState so a caller
// can't keep adding rows after Finalize has sorted them.
type Engine struct {
	state   engineState
	store   *tableStore
	strings *stringHeap
	us      *userStringHeap
	blob    *blobHeap
	guid    *guidHeap
	widths  *widths
	logger  *log.Helper
}

// NewEngine creates an empty engine in the Building state.
func NewEngine(opts *Options) *Engine {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewStdLogger()
	}
	return &Engine{
		store:   newTableStore(),
		strings: newStringHeap(),
		us:      newUserStringHeap(),
		blob:    newBlobHeap(),
		guid:    newGUIDHeap(),
		logger:  log.NewHelper(logger),
	}
}

func (e *Engine) requireBuilding() error {
	if e.state != stateBuilding {
		return ErrInvalidState
	}
	return nil
}

// AddRow appends a raw row to table id, returning its token. Valid only in
// the Building state; this is the low-level entry point descriptors.go's
// BuildTables walk uses under the hood.
func (e *Engine) AddRow(id TableID, r Row) (Token, error) {
	if err := e.requireBuilding(); err != nil {
		return 0, err
	}
	row := e.store.AddRow(id, r)
	return NewToken(id, row), nil
}

// AddString interns s into the #Strings heap.
func (e *Engine) AddString(s string) (uint32, error) {
	if err := e.requireBuilding(); err != nil {
		return 0, err
	}
	return e.strings.Add(s), nil
}

// AddUserString interns s into the #US heap.
func (e *Engine) AddUserString(s string) (uint32, error) {
	if err := e.requireBuilding(); err != nil {
		return 0, err
	}
	return e.us.Add(s)
}

// AddBlob interns b into the #Blob heap.
func (e *Engine) AddBlob(b []byte) (uint32, error) {
	if err := e.requireBuilding(); err != nil {
		return 0, err
	}
	return e.blob.Add(b)
}

// AddGUID interns g into the #GUID heap.
func (e *Engine) AddGUID(g GUID) (uint32, error) {
	if err := e.requireBuilding(); err != nil {
		return 0, err
	}
	return e.guid.Add(g), nil
}

// Finalize sorts the sort-required tables, fixing up the one cross-table
// reference that sort reorders (GenericParamConstraint.Owner), then plans
// every column's width. After Finalize the engine is in the Finalizing
// state and only Write may still be called.
func (e *Engine) Finalize() error {
	if err := e.requireBuilding(); err != nil {
		return err
	}
	e.logger.Debugf("finalizing: %d table kinds populated", popcount64(e.store.present()))
	sortTables(e.store)
	e.widths = planWidths(e.store, e.strings, e.us, e.blob, e.guid)
	e.state = stateFinalizing
	return nil
}

// Write renders the finalized engine into a complete BSJB metadata-root
// blob (the #~ stream plus all four heaps). Calling Write before Finalize,
// or calling it twice, returns ErrInvalidState (spec §4.8: Written is
// terminal).
func (e *Engine) Write(versionString string) ([]byte, error) {
	if e.state != stateFinalizing {
		return nil, ErrInvalidState
	}
	tableBytes := writeTableStream(e.store, e.widths)
	streams := map[string][]byte{
		"#~":       tableBytes,
		"#Strings": e.strings.Bytes(),
		"#US":      e.us.Bytes(),
		"#GUID":    e.guid.Bytes(),
		"#Blob":    e.blob.heapBytes(),
	}
	out := WriteMetadataRoot(versionString, streams)
	e.state = stateWritten
	e.logger.Debugf("wrote metadata root: %d bytes", len(out))
	return out, nil
}

func popcount64(v uint64) int {
	n := 0
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}
