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

var checkCmd = &cobra.Command{
	Use:   "check [flags] module.json",
	Short: "Run the Validator, Ownership Analyzer and Null-Safety Analyzer without emitting source.",
	Long: `Run the Validator, Ownership Analyzer and Null-Safety Analyzer over a
module without emitting source. Exits non-zero if any Error-severity
diagnostic was collected.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		m, oracle := readModuleFile(args[0])

		cfg := compiler.CompilationConfig{
			MemoryMode:     memoryModeFromFlag(cmd),
			SkipValidation: GetFlag(cmd, "skip-validation"),
			ValidateOnly:   true,
		}

		results := compiler.NewPipeline([]*ast.Module{m}, oracle).WithConfig(cfg).Run()

		hasErrors := false

		for _, r := range results {
			if GetFlag(cmd, "json") {
				printDiagnosticsJSON(r)
			} else {
				printDiagnostics(r.Sink)
			}

			if r.Sink.HasErrors() {
				hasErrors = true
			}
		}

		if hasErrors {
			os.Exit(1)
		}
	},
}

func printDiagnosticsJSON(r compiler.Result) {
	enc := json.NewEncoder(os.Stdout)

	for _, d := range r.Sink.Items() {
		if err := enc.Encode(d); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
}

func init() {
	checkCmd.Flags().Bool("skip-validation", false, "skip the Validator pass, assuming the module subset was already checked")
	checkCmd.Flags().Bool("json", false, "emit diagnostics as newline-delimited JSON instead of plain text")
	rootCmd.AddCommand(checkCmd)
}
