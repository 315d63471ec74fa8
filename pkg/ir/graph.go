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

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/fcapolini/goodscript-sub000/pkg/ast"
)

// Edge is one share<T>-derived edge in the ownership graph.  Label encodes
// the field traversal path that produced it (spec.md §4.3: "field",
// "field[i]", "field|i", "field&i", "field.nested").
type Edge struct {
	To    int
	Label string
}

// Graph is the directed ownership graph: one node per declared class or
// interface (spec.md invariant 5), with share<T>-derived edges attached.
// Node and edge iteration is insertion order throughout, never hash order,
// so that edge extraction is deterministic (spec.md invariant 2) and SCC
// reporting is reproducible (Testable Property 1).
type Graph struct {
	names    []string
	index    map[string]int
	outEdges [][]Edge
}

// NewGraph constructs an empty ownership graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// Node returns the index of name, registering it as a new node the first
// time it is seen.
func (g *Graph) Node(name string) int {
	if i, ok := g.index[name]; ok {
		return i
	}

	i := len(g.names)
	g.index[name] = i
	g.names = append(g.names, name)
	g.outEdges = append(g.outEdges, nil)

	return i
}

// AddEdge records an edge between two (already-registered) node names.
func (g *Graph) AddEdge(from, to, label string) {
	f := g.Node(from)
	t := g.Node(to)
	g.outEdges[f] = append(g.outEdges[f], Edge{To: t, Label: label})
}

// Name returns the name of a node by index.
func (g *Graph) Name(i int) string { return g.names[i] }

// NodeCount returns the number of registered nodes.
func (g *Graph) NodeCount() int { return len(g.names) }

// OutEdges returns the outgoing edges of node i, in insertion order.
func (g *Graph) OutEdges(i int) []Edge { return g.outEdges[i] }

// BuildOwnershipGraph applies edge-extraction rules R1-R6 (spec.md §4.3) to
// every declared class and interface in decls, producing one node per
// declaration (even if it has no share edges) and one edge per reachable
// share<T>.
//
// Edge extraction is pure and deterministic: the same declaration list
// always yields the same node order and the same edges in the same order,
// independent of any hashing (spec.md invariant 2).
func BuildOwnershipGraph(decls []ast.Declaration) *Graph {
	g := NewGraph()

	// First pass: register every class/interface as a node, even ones with
	// no outgoing edges, so isolated declarations still appear in the
	// graph (spec.md invariant 5).
	for _, d := range decls {
		switch d.(type) {
		case *ast.ClassDecl, *ast.InterfaceDecl:
			g.Node(d.DeclName())
		}
	}

	for _, d := range decls {
		switch v := d.(type) {
		case *ast.ClassDecl:
			for _, f := range v.Fields {
				extractFieldEdges(g, v.Name, f.Name, f.Type)
			}
		case *ast.InterfaceDecl:
			for _, p := range v.Properties {
				extractFieldEdges(g, v.Name, p.Name, p.Type)
			}
		}
	}

	return g
}

// extractFieldEdges walks a single field's type, applying R1-R6, and calls
// g.AddEdge for every share<T> reachable inside it. R5 (alias transparency)
// falls out for free: ast.Underlying is applied at every step.
func extractFieldEdges(g *Graph, from, label string, t ast.Type) {
	switch v := ast.Underlying(t).(type) {
	case *ast.NamedType:
		// R1 (direct) and the terminal case of R3 (deep): only Share
		// produces an edge. R6: Own and Use never do, regardless of
		// nesting depth, because they cannot form owned-data cycles.
		if v.Ownership == ast.Share {
			g.AddEdge(from, v.Name, label)
		}
		// Recurse into type arguments of a parametric named type, since a
		// share<T> could be buried in a type parameter (R3, "transitively
		// reachable").
		for i, arg := range v.TypeArgs {
			extractFieldEdges(g, from, fmt.Sprintf("%s<%d>", label, i), arg)
		}
	case *ast.StructType:
		// R4: struct fields are expanded inline under the parent node,
		// never creating a node of their own.
		for _, f := range v.Fields {
			extractFieldEdges(g, from, label+"."+f.Name, f.Type)
		}
	case *ast.ArrayType:
		// R2 (shallow) and R3 (deep) both resolve to the same recursive
		// call; the resulting label already distinguishes a one-level
		// container (label+"[i]") from a multi-level one (label
		// accumulates further suffixes).
		extractFieldEdges(g, from, label+"[i]", v.Element)
	case *ast.MapType:
		extractFieldEdges(g, from, label+"[k]", v.Key)
		extractFieldEdges(g, from, label+"[v]", v.Value)
	case *ast.UnionType:
		for i, variant := range v.Variants {
			extractFieldEdges(g, from, fmt.Sprintf("%s|%d", label, i), variant)
		}
	case *ast.IntersectionType:
		for i, member := range v.Members {
			extractFieldEdges(g, from, fmt.Sprintf("%s&%d", label, i), member)
		}
	default:
		// Primitives, function types and promises never carry share
		// edges.
	}
}

// maxTarjanDepth bounds the explicit work stack used by SCCs, aborting with
// an internal error rather than risking unbounded growth on pathological
// input (spec.md §4.3, "safety depth bound").
const maxTarjanDepth = 10_000

// ErrDepthExceeded is returned by SCCs when the safety depth bound is hit.
type ErrDepthExceeded struct{}

func (ErrDepthExceeded) Error() string {
	return "ownership graph traversal exceeded the safety depth bound"
}

// SCCs computes the strongly connected components of the graph using
// Tarjan's algorithm, implemented iteratively with an explicit work stack
// (spec.md §9, "no hidden async" / recursion-avoidance note; §4.3,
// "iteratively"). Complexity is O(V + E) (spec.md §4.3).
//
// Every component of size 1 with no self-edge is omitted, per spec.md
// §4.3's recording rule ("more than one node OR exactly one node with a
// self-edge").
func (g *Graph) SCCs() ([][]int, error) {
	n := g.NodeCount()

	index := make([]int, n)
	low := make([]int, n)

	for i := range index {
		index[i] = -1
	}

	onStack := bitset.New(uint(n))

	var tstack []int

	counter := 0

	var result [][]int

	type frame struct {
		node     int
		childPos int
	}

	for start := 0; start < n; start++ {
		if index[start] != -1 {
			continue
		}

		work := []frame{{node: start}}
		index[start] = counter
		low[start] = counter
		counter++
		tstack = append(tstack, start)
		onStack.Set(uint(start))

		for len(work) > 0 {
			if len(work) > maxTarjanDepth {
				return nil, ErrDepthExceeded{}
			}

			top := &work[len(work)-1]
			v := top.node

			if top.childPos < len(g.outEdges[v]) {
				w := g.outEdges[v][top.childPos].To
				top.childPos++

				switch {
				case index[w] == -1:
					index[w] = counter
					low[w] = counter
					counter++
					tstack = append(tstack, w)
					onStack.Set(uint(w))
					work = append(work, frame{node: w})
				case onStack.Test(uint(w)):
					if index[w] < low[v] {
						low[v] = index[w]
					}
				}

				continue
			}

			// All of v's successors are processed.
			work = work[:len(work)-1]

			if len(work) > 0 {
				parent := &work[len(work)-1]
				if low[v] < low[parent.node] {
					low[parent.node] = low[v]
				}
			}

			if low[v] == index[v] {
				var scc []int

				for {
					popped := tstack[len(tstack)-1]
					tstack = tstack[:len(tstack)-1]
					onStack.Clear(uint(popped))
					scc = append(scc, popped)

					if popped == v {
						break
					}
				}

				if len(scc) > 1 || g.hasSelfEdge(scc[0]) {
					result = append(result, scc)
				}
			}
		}
	}

	return result, nil
}

func (g *Graph) hasSelfEdge(node int) bool {
	for _, e := range g.outEdges[node] {
		if e.To == node {
			return true
		}
	}

	return false
}

// SelfEdgeLabel returns the label of node's first self-edge, for GS301
// message rendering.
func (g *Graph) SelfEdgeLabel(node int) string {
	for _, e := range g.outEdges[node] {
		if e.To == node {
			return e.Label
		}
	}

	return ""
}

// RenderCycle produces the "A.f1 -> B.f2 -> ..." rendering of a multi-node
// SCC used in GS302 messages (spec.md §4.3; Testable Property 4): a
// depth-first traversal over edges whose endpoints are both in the SCC,
// starting from the lowest-index member for determinism, visits every
// member at least once by construction (the SCC subgraph restricted to its
// own edges is itself strongly connected).
func (g *Graph) RenderCycle(scc []int) string {
	members := make(map[int]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}

	start := scc[0]
	for _, n := range scc {
		if n < start {
			start = n
		}
	}

	visited := make(map[int]bool, len(scc))

	var steps []string

	var visit func(n int)

	visit = func(n int) {
		visited[n] = true

		for _, e := range g.outEdges[n] {
			if !members[e.To] {
				continue
			}

			if visited[e.To] {
				continue
			}

			steps = append(steps, fmt.Sprintf("%s.%s", g.names[n], e.Label))
			visit(e.To)
		}
	}

	visit(start)

	out := ""

	for i, s := range steps {
		if i > 0 {
			out += " -> "
		}

		out += s
	}

	return out
}
