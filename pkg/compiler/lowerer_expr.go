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

// lowerExpr recurses into every nested expression, resolving an
// ObjectLiteral's structural type through the struct registry and computing
// a Lambda's explicit capture list along the way (spec.md §4.2).
func (l *Lowerer) lowerExpr(e ast.Expression, sink *diag.Sink) error {
	switch ex := e.(type) {
	case nil:
		return nil
	case *ast.Literal:
		return nil
	case *ast.Identifier:
		l.use(ex.Name)
		return nil
	case *ast.Binary:
		if err := l.lowerExpr(ex.Left, sink); err != nil {
			return err
		}

		return l.lowerExpr(ex.Right, sink)
	case *ast.Unary:
		return l.lowerExpr(ex.Operand, sink)
	case *ast.Conditional:
		if err := l.lowerExpr(ex.Cond, sink); err != nil {
			return err
		}

		if err := l.lowerExpr(ex.Then, sink); err != nil {
			return err
		}

		return l.lowerExpr(ex.Else, sink)
	case *ast.MemberAccess:
		return l.lowerExpr(ex.Object, sink)
	case *ast.IndexAccess:
		if err := l.lowerExpr(ex.Object, sink); err != nil {
			return err
		}

		return l.lowerExpr(ex.Index, sink)
	case *ast.AssignmentExpr:
		if err := l.lowerExpr(ex.Left, sink); err != nil {
			return err
		}

		return l.lowerExpr(ex.Right, sink)
	case *ast.Call:
		if err := l.lowerExpr(ex.Callee, sink); err != nil {
			return err
		}

		for _, a := range ex.Args {
			if err := l.lowerExpr(a, sink); err != nil {
				return err
			}
		}

		return nil
	case *ast.NewExpression:
		for _, a := range ex.Args {
			if err := l.lowerExpr(a, sink); err != nil {
				return err
			}
		}

		return nil
	case *ast.ArrayLiteral:
		for _, el := range ex.Elements {
			if err := l.lowerExpr(el, sink); err != nil {
				return err
			}
		}

		return nil
	case *ast.ObjectLiteral:
		return l.lowerObjectLiteral(ex, sink)
	case *ast.Lambda:
		return l.lowerLambda(ex, sink)
	case *ast.Await:
		return l.lowerExpr(ex.Operand, sink)
	case *ast.CommaExpr:
		if err := l.lowerExpr(ex.Left, sink); err != nil {
			return err
		}

		return l.lowerExpr(ex.Right, sink)
	case *ast.Delete:
		return l.lowerExpr(ex.Target, sink)
	case *ast.DynamicImport:
		return l.lowerExpr(ex.Path, sink)
	}

	return nil
}

// lowerObjectLiteral resolves each property's value and assigns the
// literal's type to the canonical, registry-interned *ast.StructType for its
// shape (spec.md invariant 3).
func (l *Lowerer) lowerObjectLiteral(ex *ast.ObjectLiteral, sink *diag.Sink) error {
	fields := make([]ast.StructField, len(ex.Properties))

	for i, p := range ex.Properties {
		if err := l.lowerExpr(p.Value, sink); err != nil {
			return err
		}

		fields[i] = ast.StructField{Name: p.Name, Type: p.Value.Type()}
	}

	st := &ast.StructType{Fields: fields}
	if l.registry != nil {
		l.registry.Intern(st)
	}

	ex.Typ = st

	return nil
}

// lowerLambda binds the lambda's own parameters into a fresh lambda-boundary
// scope, lowers its body, and turns every name the body referenced from an
// outer scope into an explicit Capture (spec.md §4.2).
func (l *Lowerer) lowerLambda(ex *ast.Lambda, sink *diag.Sink) error {
	for i := range ex.Params {
		resolved, err := l.ResolveType(ex.Params[i].Type)
		if err != nil {
			return err
		}

		ex.Params[i].Type = resolved
	}

	l.pushScope(true)

	for _, p := range ex.Params {
		l.define(p.Name, p.Type)
	}

	for _, s := range ex.Body {
		if err := l.lowerStatement(s, sink); err != nil {
			l.popScope()
			return err
		}
	}

	ex.Captures = l.popScope()

	if bodyContainsAwait(ex.Body) {
		ex.Async = true
	}

	return nil
}
