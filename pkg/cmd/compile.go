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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/compiler"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] module.json",
	Short: "Run the full pipeline and emit source for the selected target backend.",
	Long: `Run the full pipeline (Validator, Lowerer, Ownership Analyzer,
Null-Safety Analyzer, Peephole Optimizer, Emitter) over a module and write
the emitted source to stdout or --out.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		m, oracle := readModuleFile(args[0])

		cfg := compiler.CompilationConfig{
			Target:         targetFromFlag(cmd),
			MemoryMode:     memoryModeFromFlag(cmd),
			SourceMap:      GetFlag(cmd, "sourcemap"),
			SkipValidation: GetFlag(cmd, "skip-validation"),
		}

		results := compiler.NewPipeline([]*ast.Module{m}, oracle).WithConfig(cfg).Run()

		out := os.Stdout
		outPath := GetString(cmd, "out")

		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}

			defer f.Close()

			out = f
		}

		hasErrors := false

		for _, r := range results {
			printDiagnostics(r.Sink)

			if r.Sink.HasErrors() {
				hasErrors = true
				continue
			}

			fmt.Fprint(out, r.Output)
		}

		if hasErrors {
			os.Exit(1)
		}
	},
}

func init() {
	compileCmd.Flags().Bool("skip-validation", false, "skip the Validator pass, assuming the module subset was already checked")
	compileCmd.Flags().String("out", "", "write emitted source to this file instead of stdout")
	rootCmd.AddCommand(compileCmd)
}
