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
package clow

import (
	"strings"
	"testing"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/diag"
	"github.com/fcapolini/goodscript-sub000/pkg/ir"
)

func TestTypeRef_OwnershipMapsToPointerKind(t *testing.T) {
	e := New()

	cases := []struct {
		ownership ast.Ownership
		want      string
	}{
		{ast.Own, "std::unique_ptr<Node>"},
		{ast.Share, "std::shared_ptr<Node>"},
		{ast.Use, "std::weak_ptr<Node>"},
	}

	for _, c := range cases {
		named := &ast.NamedType{Name: "Node", Kind: ast.ClassRef, Ownership: c.ownership}
		if got := e.typeRef(named); got != c.want {
			t.Fatalf("ownership %v: expected %q, got %q", c.ownership, c.want, got)
		}
	}
}

func TestEmitModule_ObjectLiteralReferencesInternedStructName(t *testing.T) {
	registry := ir.NewStructRegistry()

	st := &ast.StructType{Fields: []ast.StructField{
		{Name: "x", Type: &ast.PrimitiveType{Kind: ast.Number}},
	}}
	interned := registry.Intern(st)

	lit := ast.NewObjectLiteral([]ast.ObjectProperty{
		{Name: "x", Value: ast.NewLiteral(ast.NumberLiteral, 1.0, &ast.PrimitiveType{Kind: ast.Number}, diag.Location{})},
	}, st, diag.Location{})

	fn := ast.NewFunctionDecl("make", nil, nil, st, []ast.Statement{
		ast.NewReturn(lit, diag.Location{}),
	}, false, diag.Location{})

	m := &ast.Module{Path: "m", Declarations: []ast.Declaration{fn}}

	out, err := New().EmitModule(m, registry, ast.GC, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "struct "+interned.Name) {
		t.Fatalf("expected the emitted output to define %s, got:\n%s", interned.Name, out)
	}

	if !strings.Contains(out, interned.Name+"{") {
		t.Fatalf("expected the returned object literal to reference %s, got:\n%s", interned.Name, out)
	}
}

func TestEmitModule_AsyncFunctionWrapsReturnInTask(t *testing.T) {
	numType := &ast.PrimitiveType{Kind: ast.Number}
	promise := &ast.PromiseType{Result: numType}

	fn := ast.NewFunctionDecl("loadValue", nil, nil, promise, []ast.Statement{
		ast.NewReturn(ast.NewLiteral(ast.NumberLiteral, 1.0, numType, diag.Location{}), diag.Location{}),
	}, true, diag.Location{})

	m := &ast.Module{Path: "m", Declarations: []ast.Declaration{fn}}

	registry := ir.NewStructRegistry()

	out, err := New().EmitModule(m, registry, ast.GC, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "Task<double>") {
		t.Fatalf("expected an async function's promise<T> return type to render as Task<T>, got:\n%s", out)
	}

	if strings.Contains(out, "Task<Task<double>>") {
		t.Fatalf("expected the Task<> wrapping to apply exactly once, got:\n%s", out)
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
