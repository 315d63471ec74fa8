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
	"github.com/fcapolini/goodscript-sub000/pkg/ir"
	"github.com/fcapolini/goodscript-sub000/pkg/util"
)

// Lowerer transforms a validated AST module into its lowered form: type
// aliases resolved (with identity preserved via *ast.AliasType), unmarked
// class-typed positions defaulted per the oracle's documented policy,
// anonymous struct literals assigned a canonical type, lambda free-variable
// captures computed explicitly, and async propagated from leaf `await`
// expressions up through enclosing function declarations (spec.md §4.2).
//
// Internal errors (an alias that never resolves, an unhandled type variant)
// are fatal for the *current module* only; other modules still lower and
// emit (spec.md §7).
type Lowerer struct {
	oracle     ast.SymbolOracle
	memoryMode ast.MemoryMode
	aliases    *util.OrderedMap[string, ast.Type]
	registry   *ir.StructRegistry
	scopes     []*scopeFrame

	asyncFnNames     map[string]bool
	asyncMethodNames map[string]bool
}

// NewLowerer constructs a Lowerer for one module. The alias table is
// module-scoped and discarded after the module lowers (spec.md, "Shared
// resources within a compilation").
func NewLowerer(oracle ast.SymbolOracle, mode ast.MemoryMode, registry *ir.StructRegistry) *Lowerer {
	return &Lowerer{
		oracle:     oracle,
		memoryMode: mode,
		aliases:    util.NewOrderedMap[string, ast.Type](),
		registry:   registry,
	}
}

// InternalError reports a fatal, pass-halting condition (spec.md §7):
// unresolvable alias, unhandled type variant, or similar compiler bugs.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string { return e.Message }

// LowerModule resolves every alias declaration first (so forward and
// mutually-visible aliases within one module are available to every
// declaration), then lowers each declaration's types and bodies in place.
//
// Lowering is idempotent after alias resolution (spec.md §8): re-running
// LowerModule on an already-lowered module yields equal types, because
// ResolveType rebuilds each type from its already-resolved parts, keeps an
// ownership that is already set, and resolves an *ast.AliasType again.
func (l *Lowerer) LowerModule(m *ast.Module) (*ast.Module, *diag.Sink, error) {
	sink := diag.NewSink()

	for _, d := range m.Declarations {
		if ta, ok := d.(*ast.TypeAliasDecl); ok {
			l.aliases.Put(ta.Name, ta.Aliased)
		}
	}

	// A function's async-ness must be known before any earlier statement
	// that calls it can be marked with SyncAwait, so this runs as its own
	// pass ahead of lowering (spec.md §4.2 allows forward reference to
	// sibling declarations).
	l.asyncFnNames = make(map[string]bool)
	l.asyncMethodNames = make(map[string]bool)

	for _, d := range m.Declarations {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			if decl.Async || bodyContainsAwait(decl.Body) {
				decl.Async = true
				l.asyncFnNames[decl.Name] = true
			}
		case *ast.ClassDecl:
			for i := range decl.Methods {
				me := &decl.Methods[i]
				if me.Async || bodyContainsAwait(me.Body) {
					me.Async = true
					l.asyncMethodNames[me.Name] = true
				}
			}
		}
	}

	l.pushScope(false)

	for _, d := range m.Declarations {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			l.define(decl.Name, &ast.FunctionType{})
		case *ast.ConstDecl:
			l.define(decl.Name, decl.Type)
		}
	}

	for _, d := range m.Declarations {
		if err := l.lowerDecl(d, sink); err != nil {
			return nil, sink, err
		}
	}

	for _, s := range m.InitStatements {
		if err := l.lowerStatement(s, sink); err != nil {
			return nil, sink, err
		}
	}

	l.popScope()

	return m, sink, nil
}

func (l *Lowerer) lowerDecl(d ast.Declaration, sink *diag.Sink) error {
	switch decl := d.(type) {
	case *ast.FunctionDecl:
		return l.lowerFunctionLike(decl.Params, &decl.ReturnType, decl.Body, &decl.Async, sink)
	case *ast.ClassDecl:
		for i := range decl.Fields {
			resolved, err := l.ResolveType(decl.Fields[i].Type)
			if err != nil {
				return err
			}

			decl.Fields[i].Type = resolved

			if decl.Fields[i].Initializer != nil {
				if err := l.lowerExpr(decl.Fields[i].Initializer, sink); err != nil {
					return err
				}
			}
		}

		if decl.Constructor != nil {
			async := false
			if err := l.lowerFunctionLike(decl.Constructor.Params, nil, decl.Constructor.Body, &async, sink); err != nil {
				return err
			}
		}

		for i := range decl.Methods {
			m := &decl.Methods[i]
			if err := l.lowerFunctionLike(m.Params, &m.ReturnType, m.Body, &m.Async, sink); err != nil {
				return err
			}
		}

		return nil
	case *ast.InterfaceDecl:
		for i := range decl.Properties {
			resolved, err := l.ResolveType(decl.Properties[i].Type)
			if err != nil {
				return err
			}

			decl.Properties[i].Type = resolved
		}

		for i := range decl.Methods {
			resolved, err := l.ResolveType(decl.Methods[i].ReturnType)
			if err != nil {
				return err
			}

			decl.Methods[i].ReturnType = resolved
		}

		return nil
	case *ast.TypeAliasDecl:
		resolved, err := l.ResolveType(decl.Aliased)
		if err != nil {
			return err
		}

		decl.Aliased = resolved
		l.aliases.Put(decl.Name, resolved)

		return nil
	case *ast.ConstDecl:
		resolved, err := l.ResolveType(decl.Type)
		if err != nil {
			return err
		}

		decl.Type = resolved

		return l.lowerExpr(decl.Initializer, sink)
	}

	return nil
}

func (l *Lowerer) lowerFunctionLike(params []ast.Param, ret *ast.Type, body []ast.Statement, async *bool, sink *diag.Sink) error {
	for i := range params {
		resolved, err := l.ResolveType(params[i].Type)
		if err != nil {
			return err
		}

		params[i].Type = resolved
	}

	if ret != nil {
		resolved, err := l.ResolveType(*ret)
		if err != nil {
			return err
		}

		*ret = resolved
	}

	l.pushScope(false)

	for _, p := range params {
		l.define(p.Name, p.Type)
	}

	for _, s := range body {
		if err := l.lowerStatement(s, sink); err != nil {
			l.popScope()
			return err
		}
	}

	l.popScope()

	// Async propagation (spec.md §4.2): if the body contains `await`
	// anywhere reachable without crossing into a nested function/lambda
	// boundary, this function is async and must declare a promise(T)
	// return type.
	if async != nil && bodyContainsAwait(body) {
		*async = true

		if ret != nil {
			if _, ok := ast.Underlying(*ret).(*ast.PromiseType); !ok {
				return &InternalError{Message: "async function body requires a promise<T> return type"}
			}
		}
	}

	return nil
}
