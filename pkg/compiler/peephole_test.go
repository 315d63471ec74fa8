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

func intLit(n float64) *ast.Literal {
	return ast.NewLiteral(ast.NumberLiteral, n, &ast.PrimitiveType{Kind: ast.Integer}, diag.Location{})
}

func TestPeephole_StringBuilderHoistsLoopConcatenation(t *testing.T) {
	intType := &ast.PrimitiveType{Kind: ast.Integer}
	boolType := &ast.PrimitiveType{Kind: ast.Boolean}
	strType := &ast.PrimitiveType{Kind: ast.String}

	init := ast.NewVariableDeclaration("i", intType, true, false, intLit(0), diag.Location{})
	cond := ast.NewBinary(ast.LessThan, ast.NewIdentifier("i", intType, diag.Location{}), ast.NewIdentifier("n", intType, diag.Location{}), boolType, diag.Location{})
	incr := ast.NewAssignment(
		ast.NewIdentifier("i", intType, diag.Location{}),
		ast.NewBinary(ast.Add, ast.NewIdentifier("i", intType, diag.Location{}), intLit(1), intType, diag.Location{}),
		diag.Location{},
	)

	concat := ast.NewAssignment(
		ast.NewIdentifier("result", strType, diag.Location{}),
		ast.NewBinary(ast.Add, ast.NewIdentifier("result", strType, diag.Location{}), ast.NewIdentifier("part", strType, diag.Location{}), strType, diag.Location{}),
		diag.Location{},
	)

	loop := ast.NewFor(init, cond, incr, []ast.Statement{concat}, diag.Location{})

	p := NewPeepholeOptimizer()
	out := p.optimizeBody([]ast.Statement{loop})

	if len(out) != 4 {
		t.Fatalf("expected [builder decl, seed append, loop, result assignment], got %d statements: %+v", len(out), out)
	}

	if _, ok := out[0].(*ast.VariableDeclaration); !ok {
		t.Fatalf("expected the first statement to declare the builder, got %T", out[0])
	}

	rewrittenLoop, ok := out[2].(*ast.For)
	if !ok {
		t.Fatalf("expected the original loop at position 2, got %T", out[2])
	}

	if len(rewrittenLoop.Body) != 1 {
		t.Fatalf("expected the loop body to still have one statement, got %d", len(rewrittenLoop.Body))
	}

	assignStmt, ok := out[3].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected the final statement to reassign result, got %T", out[3])
	}

	target, ok := assignStmt.Target.(*ast.Identifier)
	if !ok || target.Name != "result" {
		t.Fatalf("expected the final assignment to target `result`, got %+v", assignStmt.Target)
	}
}

func TestPeephole_StandaloneStringConcatChainRewritten(t *testing.T) {
	strType := &ast.PrimitiveType{Kind: ast.String}

	a := ast.NewIdentifier("a", strType, diag.Location{})
	b := ast.NewIdentifier("b", strType, diag.Location{})
	c := ast.NewIdentifier("c", strType, diag.Location{})

	chain := ast.NewBinary(ast.Add, ast.NewBinary(ast.Add, a, b, strType, diag.Location{}), c, strType, diag.Location{})
	decl := ast.NewVariableDeclaration("s", strType, false, false, chain, diag.Location{})

	p := NewPeepholeOptimizer()
	out := p.optimizeBody([]ast.Statement{decl})

	if len(out) != 5 {
		t.Fatalf("expected [builder decl, 3 appends, final decl], got %d statements: %+v", len(out), out)
	}

	if _, ok := out[0].(*ast.VariableDeclaration); !ok {
		t.Fatalf("expected the first statement to declare the builder, got %T", out[0])
	}

	for i := 1; i <= 3; i++ {
		es, ok := out[i].(*ast.ExpressionStatement)
		if !ok {
			t.Fatalf("expected statement %d to be an append call, got %T", i, out[i])
		}

		call, ok := es.Expr.(*ast.Call)
		if !ok {
			t.Fatalf("expected statement %d to wrap a Call, got %T", i, es.Expr)
		}

		member, ok := call.Callee.(*ast.MemberAccess)
		if !ok || member.Member != "append" {
			t.Fatalf("expected statement %d to call .append(...), got %+v", i, call.Callee)
		}
	}

	final, ok := out[4].(*ast.VariableDeclaration)
	if !ok || final.Name != "s" {
		t.Fatalf("expected the final statement to redeclare `s` from the builder, got %+v", out[4])
	}

	call, ok := final.Initializer.(*ast.Call)
	if !ok {
		t.Fatalf("expected the final declaration's initializer to be a Call, got %T", final.Initializer)
	}

	member, ok := call.Callee.(*ast.MemberAccess)
	if !ok || member.Member != "build" {
		t.Fatalf("expected the final declaration to call .build(), got %+v", call.Callee)
	}
}

func TestPeephole_TwoPartConcatenationIsLeftAlone(t *testing.T) {
	strType := &ast.PrimitiveType{Kind: ast.String}

	a := ast.NewIdentifier("a", strType, diag.Location{})
	b := ast.NewIdentifier("b", strType, diag.Location{})

	chain := ast.NewBinary(ast.Add, a, b, strType, diag.Location{})
	decl := ast.NewVariableDeclaration("s", strType, false, false, chain, diag.Location{})

	p := NewPeepholeOptimizer()
	out := p.optimizeBody([]ast.Statement{decl})

	if len(out) != 1 {
		t.Fatalf("expected a two-part concatenation to pass through unchanged, got %d statements: %+v", len(out), out)
	}

	if _, ok := out[0].(*ast.VariableDeclaration); !ok {
		t.Fatalf("expected the original declaration to survive unchanged, got %T", out[0])
	}
}

func TestPeephole_ArrayReserveInsertedAheadOfCountedPushLoop(t *testing.T) {
	intType := &ast.PrimitiveType{Kind: ast.Integer}
	boolType := &ast.PrimitiveType{Kind: ast.Boolean}

	init := ast.NewVariableDeclaration("i", intType, true, false, intLit(0), diag.Location{})
	cond := ast.NewBinary(ast.LessThan, ast.NewIdentifier("i", intType, diag.Location{}), ast.NewIdentifier("n", intType, diag.Location{}), boolType, diag.Location{})
	incr := ast.NewAssignment(
		ast.NewIdentifier("i", intType, diag.Location{}),
		ast.NewBinary(ast.Add, ast.NewIdentifier("i", intType, diag.Location{}), intLit(1), intType, diag.Location{}),
		diag.Location{},
	)

	push := ast.NewExpressionStatement(
		ast.NewCall(
			ast.NewMemberAccess(ast.NewIdentifier("items", nil, diag.Location{}), "push", false, nil, diag.Location{}),
			[]ast.Expression{ast.NewIdentifier("i", intType, diag.Location{})},
			nil, diag.Location{},
		),
		diag.Location{},
	)

	loop := ast.NewFor(init, cond, incr, []ast.Statement{push}, diag.Location{})

	p := NewPeepholeOptimizer()
	out := p.optimizeBody([]ast.Statement{loop})

	if len(out) != 2 {
		t.Fatalf("expected [reserve call, loop], got %d statements: %+v", len(out), out)
	}

	es, ok := out[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected a reserve call statement first, got %T", out[0])
	}

	call, ok := es.Expr.(*ast.Call)
	if !ok {
		t.Fatalf("expected a Call expression, got %T", es.Expr)
	}

	member, ok := call.Callee.(*ast.MemberAccess)
	if !ok || member.Member != "reserve" {
		t.Fatalf("expected a .reserve(...) call, got %+v", call.Callee)
	}
}

func TestPeephole_RecursiveLambdaMarksSelfName(t *testing.T) {
	intType := &ast.PrimitiveType{Kind: ast.Integer}

	lambdaBody := []ast.Statement{
		ast.NewReturn(
			ast.NewCall(ast.NewIdentifier("fact", &ast.FunctionType{}, diag.Location{}), nil, intType, diag.Location{}),
			diag.Location{},
		),
	}
	lambda := ast.NewLambda(nil, lambdaBody, &ast.FunctionType{}, diag.Location{})

	decl := ast.NewVariableDeclaration("fact", &ast.FunctionType{}, false, false, lambda, diag.Location{})

	p := NewPeepholeOptimizer()
	p.optimizeBody([]ast.Statement{decl})

	if lambda.SelfName != "fact" {
		t.Fatalf("expected the lambda's SelfName to be set to `fact`, got %q", lambda.SelfName)
	}
}

func TestPeephole_NonRecursiveLambdaLeavesSelfNameEmpty(t *testing.T) {
	intType := &ast.PrimitiveType{Kind: ast.Integer}

	lambdaBody := []ast.Statement{
		ast.NewReturn(intLit(0), diag.Location{}),
	}
	lambda := ast.NewLambda(nil, lambdaBody, &ast.FunctionType{Return: intType}, diag.Location{})

	decl := ast.NewVariableDeclaration("zero", &ast.FunctionType{}, false, false, lambda, diag.Location{})

	p := NewPeepholeOptimizer()
	p.optimizeBody([]ast.Statement{decl})

	if lambda.SelfName != "" {
		t.Fatalf("expected SelfName to stay empty for a non-recursive lambda, got %q", lambda.SelfName)
	}
}
