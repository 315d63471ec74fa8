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
	"github.com/fcapolini/goodscript-sub000/pkg/emit/gs"
)

func TestPipeline_CleanModuleEmitsOutput(t *testing.T) {
	numType := &ast.PrimitiveType{Kind: ast.Number}
	fn := ast.NewFunctionDecl("double", nil, []ast.Param{{Name: "x", Type: numType}}, numType, []ast.Statement{
		ast.NewReturn(ast.NewBinary(ast.Add, ast.NewIdentifier("x", numType, diag.Location{}), ast.NewIdentifier("x", numType, diag.Location{}), numType, diag.Location{}), diag.Location{}),
	}, false, diag.Location{})

	m := &ast.Module{Path: "main", Declarations: []ast.Declaration{fn}}

	oracle := ast.NewStaticOracle()
	cfg := CompilationConfig{Target: gs.New(), MemoryMode: ast.GC}

	results := NewPipeline([]*ast.Module{m}, oracle).WithConfig(cfg).Run()

	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}

	r := results[0]

	if r.Sink.HasErrors() {
		t.Fatalf("expected a clean module to compile without errors, got %+v", r.Sink.Items())
	}

	if r.Output == "" {
		t.Fatalf("expected non-empty emitted output for a clean module")
	}
}

func TestPipeline_InvalidModuleReportsErrorsWithoutEmitting(t *testing.T) {
	obj := ast.NewIdentifier("console", &ast.PrimitiveType{Kind: ast.String}, diag.Location{})
	withStmt := ast.NewWithStatement(obj, nil, diag.Location{})

	m := &ast.Module{Path: "main", InitStatements: []ast.Statement{withStmt}}

	oracle := ast.NewStaticOracle()
	cfg := CompilationConfig{Target: gs.New(), MemoryMode: ast.GC}

	results := NewPipeline([]*ast.Module{m}, oracle).WithConfig(cfg).Run()

	r := results[0]

	if !r.Sink.HasErrors() {
		t.Fatalf("expected validation errors for a `with` block")
	}

	if r.Output != "" {
		t.Fatalf("expected no emitted output when validation fails, got %q", r.Output)
	}
}

func TestPipeline_ValidateOnlySkipsEmission(t *testing.T) {
	numType := &ast.PrimitiveType{Kind: ast.Number}
	fn := ast.NewFunctionDecl("identity", nil, []ast.Param{{Name: "x", Type: numType}}, numType, []ast.Statement{
		ast.NewReturn(ast.NewIdentifier("x", numType, diag.Location{}), diag.Location{}),
	}, false, diag.Location{})

	m := &ast.Module{Path: "main", Declarations: []ast.Declaration{fn}}

	oracle := ast.NewStaticOracle()
	cfg := CompilationConfig{MemoryMode: ast.GC, ValidateOnly: true}

	results := NewPipeline([]*ast.Module{m}, oracle).WithConfig(cfg).Run()

	r := results[0]

	if r.Sink.HasErrors() {
		t.Fatalf("unexpected errors: %+v", r.Sink.Items())
	}

	if r.Output != "" {
		t.Fatalf("expected no output under ValidateOnly, got %q", r.Output)
	}
}
