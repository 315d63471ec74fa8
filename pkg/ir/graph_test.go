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
package ir

import "testing"

func TestGraph_SCCs_IsolatedNodesOmitted(t *testing.T) {
	g := NewGraph()
	g.Node("A")
	g.Node("B")

	sccs, err := g.SCCs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sccs) != 0 {
		t.Fatalf("expected no SCCs for isolated nodes, got %v", sccs)
	}
}

func TestGraph_SCCs_SelfEdgeReportedAsSingletonSCC(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "A", "next")

	sccs, err := g.SCCs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sccs) != 1 || len(sccs[0]) != 1 {
		t.Fatalf("expected one singleton SCC, got %v", sccs)
	}

	if label := g.SelfEdgeLabel(sccs[0][0]); label != "next" {
		t.Fatalf("expected self-edge label %q, got %q", "next", label)
	}
}

func TestGraph_SCCs_ThreeNodeCycle(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B", "next")
	g.AddEdge("B", "C", "next")
	g.AddEdge("C", "A", "next")

	sccs, err := g.SCCs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sccs) != 1 || len(sccs[0]) != 3 {
		t.Fatalf("expected one 3-node SCC, got %v", sccs)
	}

	rendered := g.RenderCycle(sccs[0])
	if rendered == "" {
		t.Fatalf("expected a non-empty rendered cycle")
	}
}

func TestGraph_SCCs_AcyclicChainHasNoSCCs(t *testing.T) {
	g := NewGraph()
	g.AddEdge("Pool", "Resource", "items[i]")
	g.Node("Resource")

	sccs, err := g.SCCs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sccs) != 0 {
		t.Fatalf("expected no SCCs for an acyclic pool->resource edge, got %v", sccs)
	}
}

func TestGraph_EdgeExtraction_ContainerLabelSuffix(t *testing.T) {
	g := NewGraph()
	g.AddEdge("Pool", "Resource", "items[i]")

	from := g.Node("Pool")

	edges := g.OutEdges(from)
	if len(edges) != 1 || edges[0].Label != "items[i]" {
		t.Fatalf("expected one edge labeled items[i], got %+v", edges)
	}
}
