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
)

// lowerStatement resolves the declared types a statement carries and lowers
// every nested expression and sub-statement in place.
func (l *Lowerer) lowerStatement(s ast.Statement, sink *diag.Sink) error {
	switch st := s.(type) {
	case *ast.VariableDeclaration:
		resolved, err := l.ResolveType(st.Type)
		if err != nil {
			return err
		}

		st.Type = resolved
		l.define(st.Name, resolved)

		if st.Initializer != nil {
			return l.lowerExpr(st.Initializer, sink)
		}

		return nil
	case *ast.Assignment:
		if err := l.lowerExpr(st.Target, sink); err != nil {
			return err
		}

		return l.lowerExpr(st.Value, sink)
	case *ast.ExpressionStatement:
		return l.lowerStatementLevelExpr(st.Expr, sink)
	case *ast.Return:
		if st.Value == nil {
			return nil
		}

		return l.lowerExpr(st.Value, sink)
	case *ast.Throw:
		return l.lowerExpr(st.Expr, sink)
	case *ast.Try:
		if err := l.lowerBlock(st.TryBlock, sink); err != nil {
			return err
		}

		if st.Catch != nil {
			l.pushScope(false)
			l.define(st.Catch.ParamName, st.Catch.ParamType)

			err := l.lowerBlock(st.Catch.Body, sink)
			l.popScope()

			if err != nil {
				return err
			}
		}

		return l.lowerBlock(st.FinallyBlock, sink)
	case *ast.If:
		if err := l.lowerExpr(st.Cond, sink); err != nil {
			return err
		}

		if err := l.lowerBlock(st.Then, sink); err != nil {
			return err
		}

		return l.lowerBlock(st.Else, sink)
	case *ast.While:
		if err := l.lowerExpr(st.Cond, sink); err != nil {
			return err
		}

		return l.lowerBlock(st.Body, sink)
	case *ast.For:
		l.pushScope(false)

		var err error

		if st.Init != nil {
			err = l.lowerStatement(st.Init, sink)
		}

		if err == nil && st.Cond != nil {
			err = l.lowerExpr(st.Cond, sink)
		}

		if err == nil && st.Incr != nil {
			err = l.lowerStatement(st.Incr, sink)
		}

		if err == nil {
			err = l.lowerBlock(st.Body, sink)
		}

		l.popScope()

		return err
	case *ast.ForOf:
		if err := l.lowerExpr(st.Iterable, sink); err != nil {
			return err
		}

		resolved, err := l.ResolveType(st.VariableType)
		if err != nil {
			return err
		}

		st.VariableType = resolved

		l.pushScope(false)
		l.define(st.VariableName, resolved)
		err = l.lowerBlock(st.Body, sink)
		l.popScope()

		return err
	case *ast.Block:
		return l.lowerBlock(st.Statements, sink)
	case *ast.FunctionDeclStmt:
		l.define(st.Decl.Name, &ast.FunctionType{})
		return l.lowerFunctionLike(st.Decl.Params, &st.Decl.ReturnType, st.Decl.Body, &st.Decl.Async, sink)
	case *ast.WithStatement:
		if err := l.lowerExpr(st.Object, sink); err != nil {
			return err
		}

		return l.lowerBlock(st.Body, sink)
	case *ast.ForIn:
		if err := l.lowerExpr(st.Object, sink); err != nil {
			return err
		}

		l.pushScope(false)
		l.define(st.VariableName, nil)
		err := l.lowerBlock(st.Body, sink)
		l.popScope()

		return err
	case *ast.Switch:
		if err := l.lowerExpr(st.Discriminant, sink); err != nil {
			return err
		}

		for i := range st.Cases {
			c := &st.Cases[i]
			if c.Test != nil {
				if err := l.lowerExpr(c.Test, sink); err != nil {
					return err
				}
			}

			if err := l.lowerBlock(c.Body, sink); err != nil {
				return err
			}
		}

		return nil
	case *ast.Break, *ast.Continue:
		return nil
	}

	return nil
}

func (l *Lowerer) lowerBlock(stmts []ast.Statement, sink *diag.Sink) error {
	l.pushScope(false)

	for _, s := range stmts {
		if err := l.lowerStatement(s, sink); err != nil {
			l.popScope()
			return err
		}
	}

	l.popScope()

	return nil
}

// lowerStatementLevelExpr lowers an expression used as a full statement and,
// when it is a direct call to a function or method already known to be
// async, marks it SyncAwait (spec.md §4.2).
func (l *Lowerer) lowerStatementLevelExpr(e ast.Expression, sink *diag.Sink) error {
	if call, ok := e.(*ast.Call); ok && l.isAsyncCallee(call.Callee) {
		call.SyncAwait = true
	}

	return l.lowerExpr(e, sink)
}

func (l *Lowerer) isAsyncCallee(callee ast.Expression) bool {
	switch c := callee.(type) {
	case *ast.Identifier:
		return l.asyncFnNames[c.Name]
	case *ast.MemberAccess:
		return l.asyncMethodNames[c.Member]
	}

	return false
}

// bodyContainsAwait reports whether body contains a reachable `await`
// expression without crossing into a nested function or lambda boundary —
// those have their own, independently-computed async-ness.
func bodyContainsAwait(body []ast.Statement) bool {
	for _, s := range body {
		if statementContainsAwait(s) {
			return true
		}
	}

	return false
}

func statementContainsAwait(s ast.Statement) bool {
	switch st := s.(type) {
	case *ast.VariableDeclaration:
		return st.Initializer != nil && exprContainsAwait(st.Initializer)
	case *ast.Assignment:
		return exprContainsAwait(st.Target) || exprContainsAwait(st.Value)
	case *ast.ExpressionStatement:
		return exprContainsAwait(st.Expr)
	case *ast.Return:
		return st.Value != nil && exprContainsAwait(st.Value)
	case *ast.Throw:
		return exprContainsAwait(st.Expr)
	case *ast.Try:
		if bodyContainsAwait(st.TryBlock) || bodyContainsAwait(st.FinallyBlock) {
			return true
		}

		return st.Catch != nil && bodyContainsAwait(st.Catch.Body)
	case *ast.If:
		return exprContainsAwait(st.Cond) || bodyContainsAwait(st.Then) || bodyContainsAwait(st.Else)
	case *ast.While:
		return exprContainsAwait(st.Cond) || bodyContainsAwait(st.Body)
	case *ast.For:
		if st.Init != nil && statementContainsAwait(st.Init) {
			return true
		}

		if st.Cond != nil && exprContainsAwait(st.Cond) {
			return true
		}

		if st.Incr != nil && statementContainsAwait(st.Incr) {
			return true
		}

		return bodyContainsAwait(st.Body)
	case *ast.ForOf:
		return exprContainsAwait(st.Iterable) || bodyContainsAwait(st.Body)
	case *ast.Block:
		return bodyContainsAwait(st.Statements)
	case *ast.WithStatement:
		return exprContainsAwait(st.Object) || bodyContainsAwait(st.Body)
	case *ast.ForIn:
		return exprContainsAwait(st.Object) || bodyContainsAwait(st.Body)
	case *ast.Switch:
		if exprContainsAwait(st.Discriminant) {
			return true
		}

		for _, c := range st.Cases {
			if c.Test != nil && exprContainsAwait(c.Test) {
				return true
			}

			if bodyContainsAwait(c.Body) {
				return true
			}
		}

		return false
	}

	return false
}

func exprContainsAwait(e ast.Expression) bool {
	switch ex := e.(type) {
	case *ast.Await:
		return true
	case *ast.Binary:
		return exprContainsAwait(ex.Left) || exprContainsAwait(ex.Right)
	case *ast.Unary:
		return exprContainsAwait(ex.Operand)
	case *ast.Conditional:
		return exprContainsAwait(ex.Cond) || exprContainsAwait(ex.Then) || exprContainsAwait(ex.Else)
	case *ast.MemberAccess:
		return exprContainsAwait(ex.Object)
	case *ast.IndexAccess:
		return exprContainsAwait(ex.Object) || exprContainsAwait(ex.Index)
	case *ast.AssignmentExpr:
		return exprContainsAwait(ex.Left) || exprContainsAwait(ex.Right)
	case *ast.Call:
		if exprContainsAwait(ex.Callee) {
			return true
		}

		for _, a := range ex.Args {
			if exprContainsAwait(a) {
				return true
			}
		}

		return false
	case *ast.NewExpression:
		for _, a := range ex.Args {
			if exprContainsAwait(a) {
				return true
			}
		}

		return false
	case *ast.ArrayLiteral:
		for _, el := range ex.Elements {
			if exprContainsAwait(el) {
				return true
			}
		}

		return false
	case *ast.ObjectLiteral:
		for _, p := range ex.Properties {
			if exprContainsAwait(p.Value) {
				return true
			}
		}

		return false
	case *ast.CommaExpr:
		return exprContainsAwait(ex.Left) || exprContainsAwait(ex.Right)
	case *ast.Delete:
		return exprContainsAwait(ex.Target)
	case *ast.DynamicImport:
		return exprContainsAwait(ex.Path)
	default:
		// Identifier, Literal, Lambda: a lambda's own await reachability is
		// computed independently when it is lowered, not inherited here.
		return false
	}
}
