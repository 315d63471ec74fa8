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
	"fmt"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/diag"
)

// PeepholeOptimizer applies three local, output-preserving rewrites to each
// function body in turn: string-builder allocation for concatenation
// chains, array-reserve insertion ahead of counted push loops, and
// recursive-lambda marking (spec.md §4.5). Rewrites never cross a function
// body boundary.
type PeepholeOptimizer struct {
	counter int
}

// NewPeepholeOptimizer constructs a PeepholeOptimizer. Its builder-name
// counter is instance-owned and should be reset (via a fresh instance) once
// per module, matching the "no global state" design note (spec.md §9).
func NewPeepholeOptimizer() *PeepholeOptimizer {
	return &PeepholeOptimizer{}
}

// OptimizeModule rewrites every function-like body reachable from m's
// declarations, in place.
func (p *PeepholeOptimizer) OptimizeModule(m *ast.Module) {
	for _, d := range m.Declarations {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			decl.Body = p.optimizeBody(decl.Body)
		case *ast.ClassDecl:
			if decl.Constructor != nil {
				decl.Constructor.Body = p.optimizeBody(decl.Constructor.Body)
			}

			for i := range decl.Methods {
				decl.Methods[i].Body = p.optimizeBody(decl.Methods[i].Body)
			}
		}
	}

	m.InitStatements = p.optimizeBody(m.InitStatements)
}

// optimizeBody applies the three recognizers, in order, to one function
// body and recurses into every nested statement body it contains (if,
// while, for, for-of, block, try and switch bodies, and nested function
// declarations). Lambda bodies are not visited.
func (p *PeepholeOptimizer) optimizeBody(body []ast.Statement) []ast.Statement {
	body = p.rewriteStringBuilders(body)
	body = p.rewriteArrayReserves(body)
	p.markRecursiveLambdas(body)
	p.recurseNested(body)

	return body
}

func (p *PeepholeOptimizer) recurseNested(body []ast.Statement) {
	for _, s := range body {
		switch st := s.(type) {
		case *ast.If:
			st.Then = p.optimizeBody(st.Then)
			st.Else = p.optimizeBody(st.Else)
		case *ast.While:
			st.Body = p.optimizeBody(st.Body)
		case *ast.For:
			st.Body = p.optimizeBody(st.Body)
		case *ast.ForOf:
			st.Body = p.optimizeBody(st.Body)
		case *ast.Block:
			st.Statements = p.optimizeBody(st.Statements)
		case *ast.Try:
			st.TryBlock = p.optimizeBody(st.TryBlock)
			if st.Catch != nil {
				st.Catch.Body = p.optimizeBody(st.Catch.Body)
			}

			st.FinallyBlock = p.optimizeBody(st.FinallyBlock)
		case *ast.Switch:
			for i := range st.Cases {
				st.Cases[i].Body = p.optimizeBody(st.Cases[i].Body)
			}
		case *ast.FunctionDeclStmt:
			st.Decl.Body = p.optimizeBody(st.Decl.Body)
		}
	}
}

// --- 1. String-builder for concatenation chains ---------------------------

// rewriteStringBuilders rewrites two shapes: a standalone ≥3-part string
// concatenation chain, and the loop-hoisted `result = result + x` pattern
// (spec.md §4.5.1).
func (p *PeepholeOptimizer) rewriteStringBuilders(body []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(body))

	for _, s := range body {
		if loop, ok := loopWithHoistableConcat(s); ok {
			out = append(out, p.hoistLoopConcat(loop, s)...)
			continue
		}

		if rewritten, ok := p.standaloneConcatChain(s); ok {
			out = append(out, rewritten...)
			continue
		}

		out = append(out, s)
	}

	return out
}

// loopWithHoistableConcat reports whether s is a loop whose body contains,
// at top level, a `result = result + x` statement over a string-typed
// result.
func loopWithHoistableConcat(s ast.Statement) (loopBody []ast.Statement, ok bool) {
	switch st := s.(type) {
	case *ast.While:
		if hasHoistableConcat(st.Body) {
			return st.Body, true
		}
	case *ast.For:
		if hasHoistableConcat(st.Body) {
			return st.Body, true
		}
	case *ast.ForOf:
		if hasHoistableConcat(st.Body) {
			return st.Body, true
		}
	}

	return nil, false
}

func hasHoistableConcat(body []ast.Statement) bool {
	for _, s := range body {
		if _, _, ok := concatSelfAssign(s); ok {
			return true
		}
	}

	return false
}

// concatSelfAssign recognizes `result = result + x` in either statement
// form (an Assignment, or an ExpressionStatement wrapping an
// AssignmentExpr) and returns the target name and the appended operand.
func concatSelfAssign(s ast.Statement) (target string, operand ast.Expression, ok bool) {
	var left, right ast.Expression

	switch st := s.(type) {
	case *ast.Assignment:
		left, right = st.Target, st.Value
	case *ast.ExpressionStatement:
		ae, isAssign := st.Expr.(*ast.AssignmentExpr)
		if !isAssign {
			return "", nil, false
		}

		left, right = ae.Left, ae.Right
	default:
		return "", nil, false
	}

	id, isIdent := left.(*ast.Identifier)
	if !isIdent || !isStringType(id.Type()) {
		return "", nil, false
	}

	bin, isBinary := right.(*ast.Binary)
	if !isBinary || bin.Op != ast.Add {
		return "", nil, false
	}

	lhs, isSelf := bin.Left.(*ast.Identifier)
	if !isSelf || lhs.Name != id.Name {
		return "", nil, false
	}

	return id.Name, bin.Right, true
}

// hoistLoopConcat rewrites loop into [builder declaration, seed append of
// the current result, mutated loop, result assignment] (spec.md §4.5.1).
func (p *PeepholeOptimizer) hoistLoopConcat(loopBody []ast.Statement, loop ast.Statement) []ast.Statement {
	var target string

	var operand ast.Expression

	idx := -1

	for i, s := range loopBody {
		if t, op, ok := concatSelfAssign(s); ok {
			target, operand, idx = t, op, i
			break
		}
	}

	if idx == -1 {
		return []ast.Statement{loop}
	}

	builderName := p.nextBuilderName()
	builderType := stringBuilderType()
	loc := loop.Location()

	decl := &ast.VariableDeclaration{
		Name:        builderName,
		Type:        builderType,
		Mutable:     true,
		Initializer: ast.NewNewExpression("StringBuilder", nil, builderType, loc),
	}

	seedAppend := &ast.ExpressionStatement{
		Expr: ast.NewCall(
			ast.NewMemberAccess(ast.NewIdentifier(builderName, builderType, loc), "append", false, voidType(), loc),
			[]ast.Expression{ast.NewIdentifier(target, stringType(), loc)},
			voidType(), loc,
		),
	}

	loopBody[idx] = &ast.ExpressionStatement{
		Expr: ast.NewCall(
			ast.NewMemberAccess(ast.NewIdentifier(builderName, builderType, loc), "append", false, voidType(), loc),
			[]ast.Expression{operand},
			voidType(), loc,
		),
	}

	assignBack := &ast.Assignment{
		Target: ast.NewIdentifier(target, stringType(), loc),
		Value: ast.NewCall(
			ast.NewMemberAccess(ast.NewIdentifier(builderName, builderType, loc), "build", false, stringType(), loc),
			nil, stringType(), loc,
		),
	}

	return []ast.Statement{decl, seedAppend, loop, assignBack}
}

// standaloneConcatChain recognizes a non-loop `let s = a + b + c` or
// `s = a + b + c` statement whose right-hand side is a `+`-chain of three
// or more string-typed operands, independent of the loop-hoisted
// self-assignment pattern above, and expands it into a builder declaration
// plus one append per operand (spec.md §4.5.1's standalone-chain rule).
func (p *PeepholeOptimizer) standaloneConcatChain(s ast.Statement) ([]ast.Statement, bool) {
	loc := s.Location()

	switch st := s.(type) {
	case *ast.VariableDeclaration:
		chain, ok := concatChainOperands(st.Initializer)
		if !ok {
			return nil, false
		}

		return p.buildConcatChain(chain, loc, func(builderName string, loc diag.Location) ast.Statement {
			return &ast.VariableDeclaration{
				Name:        st.Name,
				Type:        st.Type,
				Mutable:     st.Mutable,
				Initializer: buildCall(builderName, loc),
			}
		}), true
	case *ast.Assignment:
		chain, ok := concatChainOperands(st.Value)
		if !ok {
			return nil, false
		}

		target := st.Target

		return p.buildConcatChain(chain, loc, func(builderName string, loc diag.Location) ast.Statement {
			return &ast.Assignment{Target: target, Value: buildCall(builderName, loc)}
		}), true
	case *ast.ExpressionStatement:
		ae, isAssign := st.Expr.(*ast.AssignmentExpr)
		if !isAssign {
			return nil, false
		}

		chain, ok := concatChainOperands(ae.Right)
		if !ok {
			return nil, false
		}

		target := ae.Left

		return p.buildConcatChain(chain, loc, func(builderName string, loc diag.Location) ast.Statement {
			return &ast.Assignment{Target: target, Value: buildCall(builderName, loc)}
		}), true
	}

	return nil, false
}

// concatChainOperands flattens a left-associative `+` chain and reports
// whether it has three or more parts and produces a string.
func concatChainOperands(e ast.Expression) ([]ast.Expression, bool) {
	if e == nil || !isStringType(e.Type()) {
		return nil, false
	}

	chain := flattenAddChain(e)
	if len(chain) < 3 {
		return nil, false
	}

	return chain, true
}

func flattenAddChain(e ast.Expression) []ast.Expression {
	bin, ok := e.(*ast.Binary)
	if !ok || bin.Op != ast.Add {
		return []ast.Expression{e}
	}

	return append(flattenAddChain(bin.Left), bin.Right)
}

// buildConcatChain expands a flattened +-chain into [builder declaration,
// one append per operand, a final statement produced by finish], reusing
// the same StringBuilder shape hoistLoopConcat produces.
func (p *PeepholeOptimizer) buildConcatChain(
	chain []ast.Expression, loc diag.Location, finish func(builderName string, loc diag.Location) ast.Statement,
) []ast.Statement {
	builderName := p.nextBuilderName()
	builderType := stringBuilderType()

	out := make([]ast.Statement, 0, len(chain)+2)
	out = append(out, &ast.VariableDeclaration{
		Name:        builderName,
		Type:        builderType,
		Mutable:     true,
		Initializer: ast.NewNewExpression("StringBuilder", nil, builderType, loc),
	})

	for _, operand := range chain {
		out = append(out, &ast.ExpressionStatement{
			Expr: ast.NewCall(
				ast.NewMemberAccess(ast.NewIdentifier(builderName, builderType, loc), "append", false, voidType(), loc),
				[]ast.Expression{operand},
				voidType(), loc,
			),
		})
	}

	out = append(out, finish(builderName, loc))

	return out
}

func buildCall(builderName string, loc diag.Location) ast.Expression {
	return ast.NewCall(
		ast.NewMemberAccess(ast.NewIdentifier(builderName, stringBuilderType(), loc), "build", false, stringType(), loc),
		nil, stringType(), loc,
	)
}

func (p *PeepholeOptimizer) nextBuilderName() string {
	name := fmt.Sprintf("__sb%d", p.counter)
	p.counter++

	return name
}

func stringBuilderType() ast.Type {
	return &ast.NamedType{Name: "StringBuilder", Kind: ast.ClassRef, Ownership: ast.Own}
}

func stringType() ast.Type  { return &ast.PrimitiveType{Kind: ast.String} }
func voidType() ast.Type    { return &ast.PrimitiveType{Kind: ast.Void} }

func isStringType(t ast.Type) bool {
	p, ok := ast.Underlying(t).(*ast.PrimitiveType)
	return ok && p.Kind == ast.String
}

// --- 2. Array reserve for push loops ---------------------------------------

// rewriteArrayReserves inserts `arr.reserve(bound)` ahead of a counted For
// loop whose body pushes into arr and whose termination compares the
// induction variable to an identifier or literal bound (spec.md §4.5.2).
func (p *PeepholeOptimizer) rewriteArrayReserves(body []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(body))

	for _, s := range body {
		forStmt, ok := s.(*ast.For)
		if !ok {
			out = append(out, s)
			continue
		}

		bound, ok := countedLoopBound(forStmt)
		if !ok {
			out = append(out, forStmt)
			continue
		}

		arrName, ok := pushedArrayName(forStmt.Body)
		if !ok {
			out = append(out, forStmt)
			continue
		}

		loc := forStmt.Location()
		reserve := &ast.ExpressionStatement{
			Expr: ast.NewCall(
				ast.NewMemberAccess(ast.NewIdentifier(arrName, nil, loc), "reserve", false, voidType(), loc),
				[]ast.Expression{bound}, voidType(), loc,
			),
		}

		out = append(out, reserve, forStmt)
	}

	return out
}

// countedLoopBound recognizes `for (...; i < bound; ...)` / `i <= bound`
// and returns the bound expression.
func countedLoopBound(f *ast.For) (ast.Expression, bool) {
	bin, ok := f.Cond.(*ast.Binary)
	if !ok {
		return nil, false
	}

	if bin.Op != ast.LessThan && bin.Op != ast.LessEquals {
		return nil, false
	}

	if _, isIdent := bin.Left.(*ast.Identifier); !isIdent {
		return nil, false
	}

	switch bin.Right.(type) {
	case *ast.Identifier, *ast.Literal:
		return bin.Right, true
	default:
		return nil, false
	}
}

// pushedArrayName reports the name of the first array an induction-bounded
// loop body calls .push(...) on.
func pushedArrayName(body []ast.Statement) (string, bool) {
	for _, s := range body {
		es, ok := s.(*ast.ExpressionStatement)
		if !ok {
			continue
		}

		call, ok := es.Expr.(*ast.Call)
		if !ok {
			continue
		}

		member, ok := call.Callee.(*ast.MemberAccess)
		if !ok || member.Member != "push" {
			continue
		}

		id, ok := member.Object.(*ast.Identifier)
		if !ok {
			continue
		}

		return id.Name, true
	}

	return "", false
}

// --- 3. Recursive lambda detection -----------------------------------------

// markRecursiveLambdas finds every `let name = lambda(...) { ... }` binding
// whose lambda body calls name, and records the self-reference on the
// lambda so the emitter produces a self-referential callable rather than a
// plain one (spec.md §4.5.3).
func (p *PeepholeOptimizer) markRecursiveLambdas(body []ast.Statement) {
	for _, s := range body {
		decl, ok := s.(*ast.VariableDeclaration)
		if !ok {
			continue
		}

		lambda, ok := decl.Initializer.(*ast.Lambda)
		if !ok {
			continue
		}

		if bodyCallsName(lambda.Body, decl.Name) {
			lambda.SelfName = decl.Name
		}
	}
}

func bodyCallsName(body []ast.Statement, name string) bool {
	found := false

	var visitExpr func(e ast.Expression)

	var visitStmt func(s ast.Statement)

	visitExpr = func(e ast.Expression) {
		if found || e == nil {
			return
		}

		switch ex := e.(type) {
		case *ast.Call:
			if id, ok := ex.Callee.(*ast.Identifier); ok && id.Name == name {
				found = true
				return
			}

			visitExpr(ex.Callee)

			for _, a := range ex.Args {
				visitExpr(a)
			}
		case *ast.Binary:
			visitExpr(ex.Left)
			visitExpr(ex.Right)
		case *ast.Unary:
			visitExpr(ex.Operand)
		case *ast.Conditional:
			visitExpr(ex.Cond)
			visitExpr(ex.Then)
			visitExpr(ex.Else)
		case *ast.MemberAccess:
			visitExpr(ex.Object)
		case *ast.IndexAccess:
			visitExpr(ex.Object)
			visitExpr(ex.Index)
		case *ast.AssignmentExpr:
			visitExpr(ex.Left)
			visitExpr(ex.Right)
		case *ast.ArrayLiteral:
			for _, el := range ex.Elements {
				visitExpr(el)
			}
		case *ast.ObjectLiteral:
			for _, prop := range ex.Properties {
				visitExpr(prop.Value)
			}
		case *ast.Await:
			visitExpr(ex.Operand)
		case *ast.NewExpression:
			for _, a := range ex.Args {
				visitExpr(a)
			}
		}
	}

	visitStmt = func(s ast.Statement) {
		if found || s == nil {
			return
		}

		switch st := s.(type) {
		case *ast.VariableDeclaration:
			visitExpr(st.Initializer)
		case *ast.Assignment:
			visitExpr(st.Target)
			visitExpr(st.Value)
		case *ast.ExpressionStatement:
			visitExpr(st.Expr)
		case *ast.Return:
			visitExpr(st.Value)
		case *ast.Throw:
			visitExpr(st.Expr)
		case *ast.If:
			visitExpr(st.Cond)

			for _, c := range st.Then {
				visitStmt(c)
			}

			for _, c := range st.Else {
				visitStmt(c)
			}
		case *ast.While:
			visitExpr(st.Cond)

			for _, c := range st.Body {
				visitStmt(c)
			}
		case *ast.For:
			visitExpr(st.Cond)

			for _, c := range st.Body {
				visitStmt(c)
			}
		case *ast.ForOf:
			visitExpr(st.Iterable)

			for _, c := range st.Body {
				visitStmt(c)
			}
		case *ast.Block:
			for _, c := range st.Statements {
				visitStmt(c)
			}
		case *ast.Try:
			for _, c := range st.TryBlock {
				visitStmt(c)
			}

			if st.Catch != nil {
				for _, c := range st.Catch.Body {
					visitStmt(c)
				}
			}

			for _, c := range st.FinallyBlock {
				visitStmt(c)
			}
		case *ast.Switch:
			visitExpr(st.Discriminant)

			for _, c := range st.Cases {
				visitExpr(c.Test)

				for _, b := range c.Body {
					visitStmt(b)
				}
			}
		}
	}

	for _, s := range body {
		visitStmt(s)

		if found {
			return true
		}
	}

	return found
}
