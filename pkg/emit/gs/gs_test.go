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
package gs

import (
	"strings"
	"testing"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/diag"
	"github.com/fcapolini/goodscript-sub000/pkg/ir"
)

func TestEmitModule_StructurallyIdenticalLiteralsShareOneCanonicalName(t *testing.T) {
	registry := ir.NewStructRegistry()

	st := &ast.StructType{Fields: []ast.StructField{
		{Name: "x", Type: &ast.PrimitiveType{Kind: ast.Number}},
	}}
	interned := registry.Intern(st)

	litA := ast.NewObjectLiteral([]ast.ObjectProperty{
		{Name: "x", Value: ast.NewLiteral(ast.NumberLiteral, 1.0, &ast.PrimitiveType{Kind: ast.Number}, diag.Location{})},
	}, st, diag.Location{})
	litB := ast.NewObjectLiteral([]ast.ObjectProperty{
		{Name: "x", Value: ast.NewLiteral(ast.NumberLiteral, 2.0, &ast.PrimitiveType{Kind: ast.Number}, diag.Location{})},
	}, st, diag.Location{})

	constA := ast.NewConstDecl("a", st, litA, diag.Location{})
	constB := ast.NewConstDecl("b", st, litB, diag.Location{})

	m := &ast.Module{Path: "m", Declarations: []ast.Declaration{constA, constB}}

	out, err := New().EmitModule(m, registry, ast.GC, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Count(out, "/* "+interned.Name+" */") != 2 {
		t.Fatalf("expected both literals to reference the canonical name %s, got:\n%s", interned.Name, out)
	}
}

func TestEmitModule_AsyncFunctionGetsAsyncKeyword(t *testing.T) {
	numType := &ast.PrimitiveType{Kind: ast.Number}
	promise := &ast.PromiseType{Result: numType}

	fn := ast.NewFunctionDecl("loadValue", nil, nil, promise, []ast.Statement{
		ast.NewReturn(ast.NewLiteral(ast.NumberLiteral, 1.0, numType, diag.Location{}), diag.Location{}),
	}, true, diag.Location{})

	m := &ast.Module{Path: "m", Declarations: []ast.Declaration{fn}}

	out, err := New().EmitModule(m, ir.NewStructRegistry(), ast.GC, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "async function loadValue") {
		t.Fatalf("expected an async function declaration, got:\n%s", out)
	}
}

func TestEmitModule_LambdaRendersBodyStatementCount(t *testing.T) {
	intType := &ast.PrimitiveType{Kind: ast.Integer}
	lambda := ast.NewLambda(nil, []ast.Statement{
		ast.NewReturn(ast.NewLiteral(ast.NumberLiteral, 1.0, intType, diag.Location{}), diag.Location{}),
	}, &ast.FunctionType{Return: intType}, diag.Location{})

	constDecl := ast.NewConstDecl("fact", &ast.FunctionType{Return: intType}, lambda, diag.Location{})

	m := &ast.Module{Path: "m", Declarations: []ast.Declaration{constDecl}}

	out, err := New().EmitModule(m, ir.NewStructRegistry(), ast.GC, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "=> { /* 1 statements */ }") {
		t.Fatalf("expected the lambda body statement count in the emitted text, got:\n%s", out)
	}
}

func TestEmitModule_SwitchStatementEmitsCasesAndDefault(t *testing.T) {
	intType := &ast.PrimitiveType{Kind: ast.Integer}

	sw := ast.NewSwitch(
		ast.NewIdentifier("n", intType, diag.Location{}),
		[]ast.SwitchCase{
			{
				Test: ast.NewLiteral(ast.NumberLiteral, 1.0, intType, diag.Location{}),
				Body: []ast.Statement{ast.NewBreak(diag.Location{})},
			},
			{
				Test: nil,
				Body: []ast.Statement{ast.NewBreak(diag.Location{})},
			},
		},
		diag.Location{},
	)

	fn := ast.NewFunctionDecl("classify", nil, nil, nil, []ast.Statement{sw}, false, diag.Location{})

	m := &ast.Module{Path: "m", Declarations: []ast.Declaration{fn}}

	out, err := New().EmitModule(m, ir.NewStructRegistry(), ast.GC, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "switch (n)") {
		t.Fatalf("expected a switch statement over n, got:\n%s", out)
	}

	if !strings.Contains(out, "case 1:") || !strings.Contains(out, "default:") {
		t.Fatalf("expected both a case and a default label, got:\n%s", out)
	}
}
