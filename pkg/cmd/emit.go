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
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/compiler"
)

// inspectReport is the --json shape of the emit command's structural dump:
// the interned anonymous-struct table and the ownership SCCs recorded for
// the module, mirroring go-corset's own debug/inspect command family that
// prints internal schema shapes rather than a final artifact.
type inspectReport struct {
	Module        string           `json:"module"`
	AnonymousType []structTypeInfo `json:"anonymousStructs"`
	OwnershipSCCs [][]string       `json:"ownershipCycles"`
}

type structTypeInfo struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
}

var emitCmd = &cobra.Command{
	Use:   "emit [flags] module.json",
	Short: "Run the pipeline through Ownership Analysis and print the interned struct table and ownership cycles.",
	Long: `Run the pipeline through the Ownership Analyzer (without emitting source)
and print a structural report: every interned anonymous struct definition
and every recorded ownership SCC (GS301/GS302 source), as JSON. Intended
for tooling that inspects compiler internals rather than consuming the
final emitted program.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		m, oracle := readModuleFile(args[0])

		cfg := compiler.CompilationConfig{
			MemoryMode:   memoryModeFromFlag(cmd),
			ValidateOnly: true,
		}

		pipeline := compiler.NewPipeline([]*ast.Module{m}, oracle).WithConfig(cfg)
		results := pipeline.Run()

		for _, r := range results {
			printDiagnostics(r.Sink)

			report := inspectReport{Module: r.Module.Path}

			for _, s := range pipeline.Registry().All() {
				report.AnonymousType = append(report.AnonymousType, structTypeInfo{Name: s.Name, Signature: s.Type.Signature()})
			}

			if r.Graph != nil {
				sccs, err := r.Graph.SCCs()
				if err != nil {
					fmt.Println(err)
					os.Exit(2)
				}

				for _, scc := range sccs {
					names := make([]string, len(scc))

					for i, n := range scc {
						names[i] = r.Graph.Name(n)
					}

					report.OwnershipSCCs = append(report.OwnershipSCCs, names)
				}
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			if err := enc.Encode(report); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(emitCmd)
}
