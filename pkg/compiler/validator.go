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
// Package compiler implements the semantic-analysis and lowering pipeline:
// Validator, Lowerer, OwnershipAnalyzer, NullSafetyAnalyzer and
// PeepholeOptimizer (spec.md §2, §4). Each pass is a pure function from an
// *ast.Module (plus whatever read-only collaborators it needs) to a result
// plus a *diag.Sink of diagnostics it collected — nothing here throws
// except a genuine compiler-internal bug (spec.md §7).
package compiler

import (
	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/diag"
)

// Validator rejects constructs outside the permitted "good parts" subset
// (spec.md §4.1). It operates purely on the source ast.Module — it never
// needs type information — and never halts on the first error: every
// violation in the module is collected before the pass returns.
type Validator struct {
	sink *diag.Sink
}

// NewValidator constructs a Validator reporting into the given sink.
func NewValidator(sink *diag.Sink) *Validator {
	return &Validator{sink: sink}
}

// ValidateModule runs every GS1xx rule over a module's declarations and
// init statements.
func (v *Validator) ValidateModule(m *ast.Module) {
	for _, d := range m.Declarations {
		v.validateDecl(d)
	}

	v.validateStatements(m.InitStatements, ctxTop)
}

// validatorCtx threads just enough context through the walk to evaluate the
// two context-sensitive rules: GS108 (`this` only inside arrow lambdas or
// class methods) and GS103 (no implicit `arguments` object).
type validatorCtx struct {
	allowThis      bool
	declaredParams map[string]bool
}

var ctxTop = validatorCtx{}

func (v *Validator) validateDecl(d ast.Declaration) {
	switch decl := d.(type) {
	case *ast.FunctionDecl:
		v.validateFunctionLike(decl.Params, decl.Body, false)
	case *ast.ClassDecl:
		if decl.Constructor != nil {
			v.validateFunctionLike(decl.Constructor.Params, decl.Constructor.Body, true)
		}

		for _, f := range decl.Fields {
			v.checkType(f.Type, f.Initializer)
		}

		for _, m := range decl.Methods {
			v.validateFunctionLike(m.Params, m.Body, true)
			v.checkType(m.ReturnType, nil)
		}
	case *ast.InterfaceDecl:
		for _, p := range decl.Properties {
			v.checkType(p.Type, nil)
		}

		for _, m := range decl.Methods {
			v.checkType(m.ReturnType, nil)
		}
	case *ast.TypeAliasDecl:
		v.checkType(decl.Aliased, nil)
	case *ast.ConstDecl:
		v.checkType(decl.Type, decl.Initializer)
	}
}

func (v *Validator) validateFunctionLike(params []ast.Param, body []ast.Statement, allowThis bool) {
	declared := make(map[string]bool, len(params))
	for _, p := range params {
		declared[p.Name] = true
		v.checkType(p.Type, nil)
	}

	v.validateStatements(body, validatorCtx{allowThis: allowThis, declaredParams: declared})
}

func (v *Validator) validateStatements(stmts []ast.Statement, ctx validatorCtx) {
	for i, s := range stmts {
		isLast := i == len(stmts)-1
		v.validateStatement(s, ctx, isLast)
	}
}

//nolint:gocyclo
func (v *Validator) validateStatement(s ast.Statement, ctx validatorCtx, isLastInBlock bool) {
	switch st := s.(type) {
	case *ast.WithStatement:
		v.err("GS101", st.Location(), "`with` blocks are not permitted")
		v.checkExpr(st.Object, ctx)
		v.validateStatements(st.Body, ctx)
	case *ast.ForIn:
		v.err("GS104", st.Location(), "member-key-iteration loops (`for...in`) are not permitted; use `for...of` over Object.entries/keys instead")
		v.checkExpr(st.Object, ctx)
		v.validateStatements(st.Body, ctx)
	case *ast.VariableDeclaration:
		if st.FunctionScoped {
			v.err("GS105", st.Location(), "function-scoped mutable bindings predating block scope are not permitted; use a block-scoped declaration")
		}

		v.checkType(st.Type, st.Initializer)

		if st.Initializer != nil {
			v.checkExpr(st.Initializer, ctx)
		}
	case *ast.Assignment:
		v.checkExpr(st.Target, ctx)
		v.checkExpr(st.Value, ctx)

		if ma, ok := st.Target.(*ast.MemberAccess); ok && ma.Member == "prototype" {
			v.err("GS126", st.Location(), "prototype mutation is not permitted")
		}
	case *ast.ExpressionStatement:
		v.checkExpr(st.Expr, ctx)
	case *ast.Return:
		if st.Value != nil {
			v.checkExpr(st.Value, ctx)
		}
	case *ast.Throw:
		v.checkExpr(st.Expr, ctx)
	case *ast.Try:
		v.validateStatements(st.TryBlock, ctx)

		if st.Catch != nil {
			v.validateStatements(st.Catch.Body, ctx)
		}

		v.validateStatements(st.FinallyBlock, ctx)
	case *ast.If:
		v.checkExpr(st.Cond, ctx)
		v.checkTruthy(st.Cond)
		v.validateStatements(st.Then, ctx)
		v.validateStatements(st.Else, ctx)
	case *ast.While:
		v.checkExpr(st.Cond, ctx)
		v.checkTruthy(st.Cond)
		v.validateStatements(st.Body, ctx)
	case *ast.For:
		if st.Init != nil {
			v.validateStatement(st.Init, ctx, false)
		}

		if st.Cond != nil {
			v.checkExpr(st.Cond, ctx)
		}

		if st.Incr != nil {
			v.validateStatement(st.Incr, ctx, false)
		}

		v.validateStatements(st.Body, ctx)
	case *ast.ForOf:
		v.checkExpr(st.Iterable, ctx)
		v.validateStatements(st.Body, ctx)
	case *ast.Block:
		v.validateStatements(st.Statements, ctx)
	case *ast.Switch:
		v.checkExpr(st.Discriminant, ctx)

		for i, c := range st.Cases {
			if c.Test != nil {
				v.checkExpr(c.Test, ctx)
			}

			v.validateStatements(c.Body, ctx)

			isLastCase := i == len(st.Cases)-1
			if len(c.Body) > 0 && !isLastCase && !endsWithControlTransfer(c.Body) {
				v.err("GS113", st.Location(), "switch case falls through; every non-empty case but the last must end with break, return, throw or continue")
			}
		}
	case *ast.FunctionDeclStmt:
		v.validateFunctionLike(st.Decl.Params, st.Decl.Body, ctx.allowThis)
	case *ast.Break, *ast.Continue:
		// Nothing to check.
	}
}

func endsWithControlTransfer(body []ast.Statement) bool {
	if len(body) == 0 {
		return false
	}

	switch body[len(body)-1].(type) {
	case *ast.Break, *ast.Return, *ast.Throw, *ast.Continue:
		return true
	default:
		return false
	}
}

//nolint:gocyclo
func (v *Validator) checkExpr(e ast.Expression, ctx validatorCtx) {
	if e == nil {
		return
	}

	switch ex := e.(type) {
	case *ast.Identifier:
		if ex.Name == "this" && !ctx.allowThis {
			v.err("GS108", ex.Location(), "`this` is only permitted inside class methods or arrow lambdas")
		}

		if ex.Name == "arguments" && ctx.declaredParams != nil && !ctx.declaredParams["arguments"] {
			v.err("GS103", ex.Location(), "the implicit `arguments` object is not permitted; declare an explicit rest parameter")
		}
	case *ast.Binary:
		if ex.Op == ast.LooseEquals || ex.Op == ast.LooseNotEquals {
			code := "GS106"
			if ex.Op == ast.LooseNotEquals {
				code = "GS107"
			}

			v.err(code, ex.Location(), "loose-equality operators are not permitted; use strict equality")
		}

		v.checkExpr(ex.Left, ctx)
		v.checkExpr(ex.Right, ctx)
	case *ast.Unary:
		if ex.Op == ast.Void {
			v.err("GS115", ex.Location(), "`void` is not permitted as an operator")
		}

		if ex.Op == ast.LogicalNot {
			v.checkTruthy(ex.Operand)
		}

		v.checkExpr(ex.Operand, ctx)
	case *ast.Delete:
		v.err("GS111", ex.Location(), "member deletion is not permitted")
		v.checkExpr(ex.Target, ctx)
	case *ast.CommaExpr:
		v.err("GS112", ex.Location(), "the comma operator is not permitted outside an argument or array list")
		v.checkExpr(ex.Left, ctx)
		v.checkExpr(ex.Right, ctx)
	case *ast.DynamicImport:
		if lit, ok := ex.Path.(*ast.Literal); !ok || lit.Kind != ast.StringLiteral {
			v.err("GS127", ex.Location(), "dynamic module load requires a literal path")
		}
	case *ast.Conditional:
		v.checkExpr(ex.Cond, ctx)
		v.checkTruthy(ex.Cond)
		v.checkExpr(ex.Then, ctx)
		v.checkExpr(ex.Else, ctx)
	case *ast.MemberAccess:
		if ex.Member == "__proto__" {
			v.err("GS126", ex.Location(), "dunder-proto access is not permitted")
		}

		v.checkExpr(ex.Object, ctx)
	case *ast.IndexAccess:
		v.checkExpr(ex.Object, ctx)
		v.checkExpr(ex.Index, ctx)
	case *ast.AssignmentExpr:
		v.checkExpr(ex.Left, ctx)
		v.checkExpr(ex.Right, ctx)
	case *ast.Call:
		v.checkBoxedWrapperCall(ex)

		for _, a := range ex.Args {
			v.checkExpr(a, ctx)
		}

		v.checkExpr(ex.Callee, ctx)
	case *ast.NewExpression:
		if isBoxedWrapperName(ex.ClassName) {
			v.err("GS116", ex.Location(), "constructor-style calls to boxed primitive wrappers are not permitted; use a conversion call instead")
		}

		for _, a := range ex.Args {
			v.checkExpr(a, ctx)
		}
	case *ast.ArrayLiteral:
		for _, el := range ex.Elements {
			v.checkExpr(el, ctx)
		}
	case *ast.ObjectLiteral:
		for _, p := range ex.Properties {
			v.checkExpr(p.Value, ctx)
		}
	case *ast.Lambda:
		v.validateFunctionLike(ex.Params, ex.Body, true)
	case *ast.Await:
		v.checkExpr(ex.Operand, ctx)
	case *ast.Literal:
		// Nothing to check.
	}
}

// checkBoxedWrapperCall is a no-op placeholder kept symmetric with
// checkExpr's NewExpression handling: plain conversion calls like
// `Number(x)` are explicitly allowed by GS116 and need no diagnostic.
func (v *Validator) checkBoxedWrapperCall(*ast.Call) {}

func isBoxedWrapperName(name string) bool {
	switch name {
	case "Number", "String", "Boolean":
		return true
	default:
		return false
	}
}

// checkTruthy enforces GS110: a condition must be a genuine boolean-typed
// expression (necessarily the result of an explicit comparison or a
// boolean literal/identifier), never an implicit truthy/falsy coercion of
// some other type.
func (v *Validator) checkTruthy(cond ast.Expression) {
	if cond == nil || cond.Type() == nil {
		return
	}

	if p, ok := ast.Underlying(cond.Type()).(*ast.PrimitiveType); ok && p.Kind == ast.Boolean {
		return
	}

	v.err("GS110", cond.Location(),
		"implicit truthy/falsy check is not permitted; compare explicitly against null or a boolean literal")
}

// checkType walks a declared type position (and, for unknown-dynamic
// detection, any initializer whose static type is unknown) looking for
// GS109.
func (v *Validator) checkType(t ast.Type, init ast.Expression) {
	if init != nil && init.Type() != nil {
		if _, ok := ast.Underlying(init.Type()).(*ast.UnknownType); ok {
			v.err("GS109", init.Location(), "the unknown-dynamic type is not permitted")
		}
	}

	if t == nil {
		return
	}

	switch tv := ast.Underlying(t).(type) {
	case *ast.UnknownType:
		v.err("GS109", diag.Location{}, "the unknown-dynamic type is not permitted")
	case *ast.ArrayType:
		v.checkType(tv.Element, nil)
	case *ast.MapType:
		v.checkType(tv.Key, nil)
		v.checkType(tv.Value, nil)
	case *ast.StructType:
		for _, f := range tv.Fields {
			v.checkType(f.Type, nil)
		}
	case *ast.UnionType:
		for _, m := range tv.Variants {
			v.checkType(m, nil)
		}
	case *ast.IntersectionType:
		for _, m := range tv.Members {
			v.checkType(m, nil)
		}
	}
}

func (v *Validator) err(code string, loc diag.Location, msg string) {
	v.sink.Add(diag.At(code, diag.Error, msg, loc))
}
