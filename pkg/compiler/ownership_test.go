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
	"testing"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/diag"
)

func classWithSharedField(name, fieldType string) *ast.ClassDecl {
	return ast.NewClassDecl(name, nil, "", nil, []ast.FieldDecl{
		{Name: "next", Type: &ast.NamedType{Name: fieldType, Kind: ast.ClassRef, Ownership: ast.Share}},
	}, nil, nil, diag.Location{})
}

func TestOwnershipAnalyzer_SelfLoop(t *testing.T) {
	m := &ast.Module{
		Path:         "m",
		Declarations: []ast.Declaration{classWithSharedField("Node", "Node")},
	}

	a := NewOwnershipAnalyzer(ast.Ownership)
	_, sink := a.AnalyzeModule(m)

	if !sink.HasErrors() {
		t.Fatalf("expected GS301 error under ownership mode, got none")
	}

	found := false

	for _, d := range sink.Items() {
		if d.Code == "GS301" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected a GS301 diagnostic, got %+v", sink.Items())
	}
}

func TestOwnershipAnalyzer_SelfLoop_WarningUnderGC(t *testing.T) {
	m := &ast.Module{
		Path:         "m",
		Declarations: []ast.Declaration{classWithSharedField("Node", "Node")},
	}

	a := NewOwnershipAnalyzer(ast.GC)
	_, sink := a.AnalyzeModule(m)

	if sink.HasErrors() {
		t.Fatalf("expected GS301 warning under GC mode, not an error")
	}

	if sink.Count(diag.Warning) != 1 {
		t.Fatalf("expected exactly one warning, got %d", sink.Count(diag.Warning))
	}
}

func TestOwnershipAnalyzer_ThreeNodeCycle(t *testing.T) {
	decls := []ast.Declaration{
		classWithSharedField("A", "B"),
		classWithSharedField("B", "C"),
		classWithSharedField("C", "A"),
	}

	m := &ast.Module{Path: "m", Declarations: decls}

	a := NewOwnershipAnalyzer(ast.Ownership)
	graph, sink := a.AnalyzeModule(m)

	foundGS302 := false

	for _, d := range sink.Items() {
		if d.Code == "GS302" {
			foundGS302 = true
		}
	}

	if !foundGS302 {
		t.Fatalf("expected a GS302 diagnostic for the three-node cycle, got %+v", sink.Items())
	}

	if graph.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes in the ownership graph, got %d", graph.NodeCount())
	}
}

func TestOwnershipAnalyzer_NoCycleNoDiagnostics(t *testing.T) {
	decls := []ast.Declaration{
		classWithSharedField("Pool", "Resource"),
		ast.NewClassDecl("Resource", nil, "", nil, nil, nil, nil, diag.Location{}),
	}

	m := &ast.Module{Path: "m", Declarations: decls}

	a := NewOwnershipAnalyzer(ast.Ownership)
	_, sink := a.AnalyzeModule(m)

	if len(sink.Items()) != 0 {
		t.Fatalf("expected no diagnostics for the acyclic pool pattern, got %+v", sink.Items())
	}
}

func TestOwnershipAnalyzer_OwnAndUseNeverCycle(t *testing.T) {
	decl := ast.NewClassDecl("Node", nil, "", nil, []ast.FieldDecl{
		{Name: "parent", Type: &ast.NamedType{Name: "Node", Kind: ast.ClassRef, Ownership: ast.Use}},
		{Name: "child", Type: &ast.NamedType{Name: "Node", Kind: ast.ClassRef, Ownership: ast.Own}},
	}, nil, nil, diag.Location{})

	m := &ast.Module{Path: "m", Declarations: []ast.Declaration{decl}}

	a := NewOwnershipAnalyzer(ast.Ownership)
	_, sink := a.AnalyzeModule(m)

	if len(sink.Items()) != 0 {
		t.Fatalf("expected own<T> and use<T> self-references to never be reported as a cycle, got %+v", sink.Items())
	}
}
