// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/ecma335/cilmeta"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var (
		out         string
		moduleName  string
		typeName    string
		namespace   string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Assembles a minimal single-module metadata image",
		Long:  "Builds a Module row plus one public TypeDef deriving from System.Object, for smoke-testing the engine's write path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(out, moduleName, typeName, namespace)
		},
	}

	cmd.Flags().StringVar(&out, "out", "out.bin", "output file for the metadata root blob")
	cmd.Flags().StringVar(&moduleName, "module", "Hello.dll", "Module.Name")
	cmd.Flags().StringVar(&typeName, "type", "Program", "the one TypeDef's name")
	cmd.Flags().StringVar(&namespace, "namespace", "", "the one TypeDef's namespace")
	return cmd
}

func runBuild(out, moduleName, typeName, namespace string) error {
	e := cilmeta.NewEngine(nil)

	var mvid cilmeta.GUID
	if _, err := rand.Read(mvid[:]); err != nil {
		return fmt.Errorf("generating mvid: %w", err)
	}

	mscorlib := &cilmeta.AssemblyRefDesc{
		MajorVersion: 4, Name: "mscorlib",
		PublicKeyOrToken: []byte{0xb7, 0x7a, 0x5c, 0x56, 0x19, 0x34, 0xe0, 0x89},
	}
	// mscorlib is the only AssemblyRef, so it lands at row 1 regardless of
	// the token BuildTables will hand back later; ResolutionScope must be
	// set before BuildTables walks the TypeRefs.
	object := &cilmeta.TypeRefDesc{
		ResolutionScope: cilmeta.CodedRef{Table: cilmeta.TableAssemblyRef, Row: 1},
		Name:            "Object",
		Namespace:       "System",
	}

	mod := &cilmeta.ModuleDesc{
		Name:         moduleName,
		Mvid:         mvid,
		AssemblyRefs: []*cilmeta.AssemblyRefDesc{mscorlib},
		TypeRefs:     []*cilmeta.TypeRefDesc{object},
		TypeDefs: []*cilmeta.TypeDefDesc{
			{
				// <Module> pseudo-type, required as TypeDefs[0] on every
				// real CLI image (spec §3).
				Name: "<Module>",
			},
			{
				Flags:     0x00100001, // TdPublic (0x1) | TdBeforeFieldInit (0x100000); class and auto-layout are the zero defaults
				Name:      typeName,
				Namespace: namespace,
				// object is the only TypeRef, landing at row 1 the same way.
				Extends: cilmeta.NewToken(cilmeta.TableTypeRef, 1),
			},
		},
	}

	if err := mod.BuildTables(e); err != nil {
		return fmt.Errorf("building tables: %w", err)
	}
	if err := e.Finalize(); err != nil {
		return fmt.Errorf("finalizing: %w", err)
	}
	blob, err := e.Write("v4.0.30319")
	if err != nil {
		return fmt.Errorf("writing: %w", err)
	}
	if err := os.WriteFile(out, blob, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %d bytes to %s\n", len(blob), out)
	return nil
}
