// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ecma335/cilmeta"
	"github.com/ecma335/cilmeta/pehost"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var (
		wantTables     bool
		wantStrings    bool
		wantStrongName bool
		skipBody       bool
	)

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Dumps a .NET image's CLI metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0], dumpOpts{
				tables:     wantTables,
				strings:    wantStrings,
				strongName: wantStrongName,
				skipBody:   skipBody,
			})
		},
	}

	cmd.Flags().BoolVar(&wantTables, "tables", true, "dump table row counts")
	cmd.Flags().BoolVar(&wantStrings, "strings", false, "dump the module and typedef names from the #Strings heap")
	cmd.Flags().BoolVar(&wantStrongName, "strong-name", false, "dump the Authenticode certificate, if present")
	cmd.Flags().BoolVar(&skipBody, "skip-body", false, "tolerate corrupt rows instead of aborting")
	return cmd
}

type dumpOpts struct {
	tables, strings, strongName, skipBody bool
}

func runDump(path string, opts dumpOpts) error {
	img, err := pehost.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer img.Close()

	if !img.HasCLRHeader() {
		return fmt.Errorf("%s: no CLR header, not a managed image", path)
	}

	if opts.strongName {
		cert, err := img.Authenticode()
		if err != nil {
			fmt.Fprintf(os.Stderr, "strong-name: %v\n", err)
		} else if cert == nil {
			fmt.Println("strong-name: none")
		} else {
			for _, c := range cert.Certificates {
				fmt.Printf("strong-name: subject=%q issuer=%q serial=%s\n",
					c.Subject.String(), c.Issuer.String(), c.SerialNumber.String())
			}
		}
	}

	root, err := img.MetadataRoot()
	if err != nil {
		return err
	}
	r, err := cilmeta.OpenReader(root, &cilmeta.Options{SkipBody: opts.skipBody})
	if err != nil {
		return fmt.Errorf("parsing metadata root: %w", err)
	}

	if opts.tables {
		counts := map[string]uint32{}
		for i := 0; i < cilmeta.NumTables; i++ {
			id := cilmeta.TableID(i)
			if n := r.RowCount(id); n > 0 {
				counts[cilmeta.TableName(id)] = n
			}
		}
		printJSON(counts)
	}

	if opts.strings {
		// The #Strings heap has no row count of its own; walk the Module
		// and TypeDef name columns instead of the raw byte buffer, which
		// has no self-describing structure to iterate.
		if n := r.RowCount(cilmeta.TableModule); n >= 1 {
			if row, ok := r.Row(cilmeta.TableModule, 1).(*cilmeta.ModuleRow); ok {
				name, _ := r.String(row.Name)
				fmt.Printf("module: %s\n", name)
			}
		}
		r.Iter(cilmeta.TableTypeDef, func(row uint32, v cilmeta.Row) {
			td := v.(*cilmeta.TypeDefRow)
			name, _ := r.String(td.TypeName)
			ns, _ := r.String(td.TypeNamespace)
			if ns != "" {
				fmt.Printf("typedef[%d]: %s.%s\n", row, ns, name)
			} else {
				fmt.Printf("typedef[%d]: %s\n", row, name)
			}
		})
	}

	return nil
}

func printJSON(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(b))
}
