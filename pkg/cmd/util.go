// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/diag"
	"github.com/fcapolini/goodscript-sub000/pkg/emit"
	"github.com/fcapolini/goodscript-sub000/pkg/emit/clow"
	"github.com/fcapolini/goodscript-sub000/pkg/emit/gs"
	"github.com/fcapolini/goodscript-sub000/pkg/serial"
)

// GetFlag gets an expected boolean flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// memoryModeFromFlag interprets the --mode flag.
func memoryModeFromFlag(cmd *cobra.Command) ast.MemoryMode {
	switch GetString(cmd, "mode") {
	case "ownership":
		return ast.Ownership
	default:
		return ast.GC
	}
}

// targetFromFlag interprets the --target flag.
func targetFromFlag(cmd *cobra.Command) emit.Emitter {
	switch GetString(cmd, "target") {
	case "clow":
		return clow.New()
	default:
		return gs.New()
	}
}

// readModuleFile reads and decodes a JSON module file from disk, exiting on
// any I/O or decode failure.
func readModuleFile(filename string) (*ast.Module, *ast.StaticOracle) {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	m, oracle, err := serial.Decode(data)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return m, oracle
}

// printDiagnostics writes one diagnostic per line to stderr, in collection
// order (spec.md §7: diagnostics are reported in the order the pass that
// found them ran, never re-sorted).
func printDiagnostics(sink *diag.Sink) {
	for _, d := range sink.Items() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
}
