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

// Package cmd implements the command-line front end. It is the concrete
// stand-in for the "CLI, configuration file loading, and argument parsing"
// collaborator spec.md §1 lists as out of scope for the compiler proper:
// everything in this package only ever wires flags onto
// pkg/compiler.CompilationConfig and reads/writes files, never participates
// in the compilation semantics itself.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is filled when building with make, but *not* when installing via
// "go install".
var Version string

var rootCmd = &cobra.Command{
	Use:   "goodscript",
	Short: "A compiler for the GoodScript language.",
	Long:  "A compiler and toolbox for the GoodScript language: validate, lower, analyze and emit ownership-qualified source.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("goodscript ")

			if Version != "" {
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Printf("(unknown version)")
			}

			fmt.Println()

			return
		}

		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("mode", "gc", "memory management strategy: gc or ownership")
	rootCmd.PersistentFlags().String("target", "gs", "emission backend: gs (same-language) or clow (low-level C-family)")
	rootCmd.PersistentFlags().Bool("sourcemap", false, "request (file, line) directives ahead of functions and statements (the gs and clow emitters write none)")
}
