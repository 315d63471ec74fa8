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
package compiler

import (
	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/diag"
	"github.com/fcapolini/goodscript-sub000/pkg/ir"
)

// OwnershipAnalyzer builds the share<T> ownership graph for a module and
// reports every cycle it contains (spec.md §4.3). It runs after lowering, so
// every type position it inspects is already resolved and alias-transparent.
type OwnershipAnalyzer struct {
	memoryMode ast.MemoryMode
}

// NewOwnershipAnalyzer constructs an OwnershipAnalyzer for the given memory
// mode, which governs whether a cycle is reported as an error or a warning.
func NewOwnershipAnalyzer(mode ast.MemoryMode) *OwnershipAnalyzer {
	return &OwnershipAnalyzer{memoryMode: mode}
}

// severityFor reports a cycle as an error under the ownership runtime (a
// cycle there leaks memory the runtime can never reclaim) and as a warning
// under the tracing collector, where a cycle is merely a sign the author may
// not have meant to use `share<T>` (spec.md §4.3).
func (a *OwnershipAnalyzer) severityFor() diag.Severity {
	if a.memoryMode == ast.Ownership {
		return diag.Error
	}

	return diag.Warning
}

// AnalyzeModule builds the ownership graph for m's declarations and emits
// GS301 for every self-loop and GS302 for every multi-node cycle found,
// walking components in node-index order for reproducible diagnostic
// ordering (Testable Property 1).
func (a *OwnershipAnalyzer) AnalyzeModule(m *ast.Module) (*ir.Graph, *diag.Sink) {
	sink := diag.NewSink()

	g := ir.BuildOwnershipGraph(m.Declarations)

	sccs, err := g.SCCs()
	if err != nil {
		sink.Addf("GS399", diag.Error, "ownership analysis aborted: %s", err.Error())
		return g, sink
	}

	sev := a.severityFor()

	for _, scc := range sccs {
		if len(scc) == 1 {
			node := scc[0]
			sink.Addf("GS301", sev, "share<%s> forms a self-referential cycle via .%s",
				g.Name(node), g.SelfEdgeLabel(node))

			continue
		}

		sink.Addf("GS302", sev, "share<T> reference cycle: %s", g.RenderCycle(scc))
	}

	return g, sink
}
