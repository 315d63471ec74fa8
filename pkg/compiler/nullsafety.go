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

// NullSafetyAnalyzer enforces where a use<T> (borrowed, non-owning)
// reference may appear: as a local variable or a parameter, never as a
// field, an interface property, inside a container, as a declared return
// type, or as the value actually returned regardless of what the function
// declares it returns (spec.md §4.4). It only runs under the ownership
// runtime; the tracing collector has no borrow-checking story.
type NullSafetyAnalyzer struct {
	memoryMode ast.MemoryMode
}

// NewNullSafetyAnalyzer constructs a NullSafetyAnalyzer for the given
// memory mode.
func NewNullSafetyAnalyzer(mode ast.MemoryMode) *NullSafetyAnalyzer {
	return &NullSafetyAnalyzer{memoryMode: mode}
}

// AnalyzeModule walks every declaration in m and reports GS401/GS402/GS403.
// Under ast.GC it returns an empty sink immediately.
func (a *NullSafetyAnalyzer) AnalyzeModule(m *ast.Module) *diag.Sink {
	sink := diag.NewSink()

	if a.memoryMode != ast.Ownership {
		return sink
	}

	for _, d := range m.Declarations {
		switch decl := d.(type) {
		case *ast.ClassDecl:
			a.checkClass(decl, sink)
		case *ast.InterfaceDecl:
			a.checkInterface(decl, sink)
		case *ast.FunctionDecl:
			a.checkReturnType(decl.Name, decl.ReturnType, sink)
			a.checkBody(decl.Params, decl.Body, sink)
		}
	}

	for _, s := range m.InitStatements {
		a.walkStatement(s, map[string]ast.Type{}, sink)
	}

	return sink
}

func (a *NullSafetyAnalyzer) checkClass(decl *ast.ClassDecl, sink *diag.Sink) {
	for _, f := range decl.Fields {
		a.checkFieldLike(decl.Name, f.Name, f.Type, sink)
	}

	if decl.Constructor != nil {
		a.checkBody(decl.Constructor.Params, decl.Constructor.Body, sink)
	}

	for i := range decl.Methods {
		me := &decl.Methods[i]
		a.checkReturnType(decl.Name+"."+me.Name, me.ReturnType, sink)
		a.checkBody(me.Params, me.Body, sink)
	}
}

func (a *NullSafetyAnalyzer) checkInterface(decl *ast.InterfaceDecl, sink *diag.Sink) {
	for _, p := range decl.Properties {
		a.checkFieldLike(decl.Name, p.Name, p.Type, sink)
	}

	for _, me := range decl.Methods {
		a.checkReturnType(decl.Name+"."+me.Name, me.ReturnType, sink)
	}
}

// checkFieldLike reports GS401 when t carries use<T> anywhere in its shape,
// whether directly or nested inside an array/map/struct/union/intersection.
func (a *NullSafetyAnalyzer) checkFieldLike(owner, name string, t ast.Type, sink *diag.Sink) {
	if t == nil {
		return
	}

	if containsUse(t) {
		sink.Addf("GS401", diag.Error,
			"%s.%s: use<T> may only appear as a local variable or parameter type, never as a field, property, or container element",
			owner, name)
	}
}

// checkReturnType reports GS402 when a declared return type carries use<T>
// anywhere in its shape.
func (a *NullSafetyAnalyzer) checkReturnType(owner string, t ast.Type, sink *diag.Sink) {
	if t == nil {
		return
	}

	if containsUse(t) {
		sink.Addf("GS402", diag.Error, "%s: use<T> is forbidden as a return type", owner)
	}
}

func (a *NullSafetyAnalyzer) checkBody(params []ast.Param, body []ast.Statement, sink *diag.Sink) {
	locals := make(map[string]ast.Type, len(params))
	for _, p := range params {
		locals[p.Name] = p.Type
	}

	for _, s := range body {
		a.walkStatement(s, locals, sink)
	}
}

// walkStatement tracks local variable declarations by name and flags GS403
// on any `return x` where x is a use<T>-typed binding, independent of the
// function's own declared return type (spec.md §4.4, "even under a
// different declared return type").
func (a *NullSafetyAnalyzer) walkStatement(s ast.Statement, locals map[string]ast.Type, sink *diag.Sink) {
	switch st := s.(type) {
	case *ast.VariableDeclaration:
		locals[st.Name] = st.Type
	case *ast.Return:
		if id, ok := st.Value.(*ast.Identifier); ok {
			if t, found := locals[id.Name]; found && ast.OwnershipOf(t) == ast.Use {
				sink.Addf("GS403", diag.Error,
					"return %s: use<T>-typed identifiers may never be returned", id.Name)
			}
		}
	case *ast.If:
		for _, c := range st.Then {
			a.walkStatement(c, locals, sink)
		}

		for _, c := range st.Else {
			a.walkStatement(c, locals, sink)
		}
	case *ast.While:
		for _, c := range st.Body {
			a.walkStatement(c, locals, sink)
		}
	case *ast.For:
		for _, c := range st.Body {
			a.walkStatement(c, locals, sink)
		}
	case *ast.ForOf:
		locals[st.VariableName] = st.VariableType

		for _, c := range st.Body {
			a.walkStatement(c, locals, sink)
		}
	case *ast.Switch:
		for _, sc := range st.Cases {
			for _, c := range sc.Body {
				a.walkStatement(c, locals, sink)
			}
		}
	case *ast.Block:
		for _, c := range st.Statements {
			a.walkStatement(c, locals, sink)
		}
	case *ast.Try:
		for _, c := range st.TryBlock {
			a.walkStatement(c, locals, sink)
		}

		if st.Catch != nil {
			locals[st.Catch.ParamName] = st.Catch.ParamType

			for _, c := range st.Catch.Body {
				a.walkStatement(c, locals, sink)
			}
		}

		for _, c := range st.FinallyBlock {
			a.walkStatement(c, locals, sink)
		}
	}
}

// containsUse reports whether t carries a use<T> ownership qualifier at any
// depth: directly, or nested inside an array/map/struct/union/intersection
// element (spec.md §4.4).
func containsUse(t ast.Type) bool {
	switch v := ast.Underlying(t).(type) {
	case *ast.NamedType:
		if v.Ownership == ast.Use {
			return true
		}

		for _, arg := range v.TypeArgs {
			if containsUse(arg) {
				return true
			}
		}

		return false
	case *ast.StructType:
		if v.Ownership == ast.Use {
			return true
		}

		for _, f := range v.Fields {
			if containsUse(f.Type) {
				return true
			}
		}

		return false
	case *ast.ArrayType:
		if v.Ownership == ast.Use {
			return true
		}

		return containsUse(v.Element)
	case *ast.MapType:
		if v.Ownership == ast.Use {
			return true
		}

		return containsUse(v.Key) || containsUse(v.Value)
	case *ast.UnionType:
		for _, m := range v.Variants {
			if containsUse(m) {
				return true
			}
		}

		return false
	case *ast.IntersectionType:
		for _, m := range v.Members {
			if containsUse(m) {
				return true
			}
		}

		return false
	default:
		return false
	}
}
