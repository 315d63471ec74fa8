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
// Package ir holds the cross-cutting data structures the lowering and
// analysis passes share: the anonymous-struct registry, the ownership
// graph and its Tarjan SCC pass, and type-equality helpers.
//
// Design note (see DESIGN.md): the spec's §3 DATA MODEL names one set of
// entities — Module, Declaration, Type, Statement, Expression — and uses it
// to describe both what the Lowerer consumes and what it produces ("a
// typed, ownership-annotated tree"). This implementation takes that
// literally: pkg/ast's tree *is* the IR once the Lowerer has resolved it
// (aliases inlined with identity preserved via *ast.AliasType, ownership
// defaulted, anonymous structs assigned through the Registry below, lambda
// captures computed). There is deliberately no second, structurally
// duplicate "IRExpression"/"IRStatement" hierarchy: the re-architecture
// note in spec.md §9 calls for tagged variants over dispatch hierarchies,
// not for duplicating the variant set a second time under a new name.
package ir

import "github.com/fcapolini/goodscript-sub000/pkg/ast"

// Program is the fully-lowered output of the pipeline: every source module,
// resolved, ready for analysis and emission.
type Program struct {
	Modules []*ast.Module
}

// ModuleByPath finds a lowered module by its declared path, or nil.
func (p *Program) ModuleByPath(path string) *ast.Module {
	for _, m := range p.Modules {
		if m.Path == path {
			return m
		}
	}

	return nil
}

// TypeEqual determines structural equality of two resolved types, following
// alias chains to their underlying form first. Struct types compare by
// Signature, the same key StructRegistry interns under (spec.md invariant
// 3).
func TypeEqual(a, b ast.Type) bool {
	a, b = ast.Underlying(a), ast.Underlying(b)

	switch av := a.(type) {
	case *ast.PrimitiveType:
		bv, ok := b.(*ast.PrimitiveType)
		return ok && av.Kind == bv.Kind
	case *ast.NamedType:
		bv, ok := b.(*ast.NamedType)
		if !ok || av.Name != bv.Name || av.Kind != bv.Kind || av.Ownership != bv.Ownership {
			return false
		}

		return typeSliceEqual(av.TypeArgs, bv.TypeArgs)
	case *ast.StructType:
		bv, ok := b.(*ast.StructType)
		return ok && av.Signature() == bv.Signature()
	case *ast.ArrayType:
		bv, ok := b.(*ast.ArrayType)
		return ok && av.Ownership == bv.Ownership && TypeEqual(av.Element, bv.Element)
	case *ast.MapType:
		bv, ok := b.(*ast.MapType)
		return ok && av.Ownership == bv.Ownership && TypeEqual(av.Key, bv.Key) && TypeEqual(av.Value, bv.Value)
	case *ast.UnionType:
		bv, ok := b.(*ast.UnionType)
		return ok && typeSliceEqual(av.Variants, bv.Variants)
	case *ast.IntersectionType:
		bv, ok := b.(*ast.IntersectionType)
		return ok && typeSliceEqual(av.Members, bv.Members)
	case *ast.FunctionType:
		bv, ok := b.(*ast.FunctionType)
		return ok && TypeEqual(av.Return, bv.Return) && typeSliceEqual(av.Params, bv.Params)
	case *ast.PromiseType:
		bv, ok := b.(*ast.PromiseType)
		return ok && TypeEqual(av.Result, bv.Result)
	default:
		return a == b
	}
}

func typeSliceEqual(a, b []ast.Type) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !TypeEqual(a[i], b[i]) {
			return false
		}
	}

	return true
}
