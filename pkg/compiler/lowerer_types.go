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
)

// ResolveType interprets a surface Type into its lowered form: type-alias
// references are resolved (with the alias's own Name preserved alongside
// its Resolved form, spec.md invariant 2), every nested position is
// resolved recursively, and unmarked class-typed positions receive the
// oracle's documented ownership default (spec.md §4.2, §9).
//
// Every *ast.StructType produced here is also registered with the
// Lowerer's struct registry so structurally-identical anonymous records —
// wherever they appear, not only at object-literal sites — intern to one
// definition (spec.md invariant 3).
func (l *Lowerer) ResolveType(t ast.Type) (ast.Type, error) {
	if t == nil {
		return nil, nil
	}

	switch v := t.(type) {
	case *ast.PrimitiveType:
		return v, nil
	case *ast.NamedType:
		args := make([]ast.Type, len(v.TypeArgs))

		for i, a := range v.TypeArgs {
			resolved, err := l.ResolveType(a)
			if err != nil {
				return nil, err
			}

			args[i] = resolved
		}

		ownership := v.Ownership
		if v.Kind == ast.ClassRef && ownership == ast.Value {
			ownership = l.oracle.DefaultClassOwnership(l.memoryMode)
		}

		return &ast.NamedType{Name: v.Name, Kind: v.Kind, Ownership: ownership, TypeArgs: args}, nil
	case *ast.StructType:
		fields := make([]ast.StructField, len(v.Fields))

		for i, f := range v.Fields {
			resolved, err := l.ResolveType(f.Type)
			if err != nil {
				return nil, err
			}

			fields[i] = ast.StructField{Name: f.Name, Type: resolved}
		}

		st := &ast.StructType{Fields: fields, Ownership: v.Ownership}
		if l.registry != nil {
			l.registry.Intern(st)
		}

		return st, nil
	case *ast.ArrayType:
		el, err := l.ResolveType(v.Element)
		if err != nil {
			return nil, err
		}

		return &ast.ArrayType{Element: el, Ownership: v.Ownership}, nil
	case *ast.MapType:
		key, err := l.ResolveType(v.Key)
		if err != nil {
			return nil, err
		}

		val, err := l.ResolveType(v.Value)
		if err != nil {
			return nil, err
		}

		return &ast.MapType{Key: key, Value: val, Ownership: v.Ownership}, nil
	case *ast.UnionType:
		variants := make([]ast.Type, len(v.Variants))

		for i, m := range v.Variants {
			resolved, err := l.ResolveType(m)
			if err != nil {
				return nil, err
			}

			variants[i] = resolved
		}

		return &ast.UnionType{Variants: variants}, nil
	case *ast.IntersectionType:
		members := make([]ast.Type, len(v.Members))

		for i, m := range v.Members {
			resolved, err := l.ResolveType(m)
			if err != nil {
				return nil, err
			}

			members[i] = resolved
		}

		return &ast.IntersectionType{Members: members}, nil
	case *ast.FunctionType:
		params := make([]ast.Type, len(v.Params))

		for i, p := range v.Params {
			resolved, err := l.ResolveType(p)
			if err != nil {
				return nil, err
			}

			params[i] = resolved
		}

		ret, err := l.ResolveType(v.Return)
		if err != nil {
			return nil, err
		}

		return &ast.FunctionType{Params: params, Return: ret}, nil
	case *ast.PromiseType:
		res, err := l.ResolveType(v.Result)
		if err != nil {
			return nil, err
		}

		return &ast.PromiseType{Result: res}, nil
	case *ast.AliasType:
		return l.resolveAlias(v)
	default:
		return nil, &InternalError{Message: fmt.Sprintf("lowerer: unhandled type variant %T", t)}
	}
}

func (l *Lowerer) resolveAlias(v *ast.AliasType) (ast.Type, error) {
	if v.Resolved != nil {
		inner, err := l.ResolveType(v.Resolved)
		if err != nil {
			return nil, err
		}

		return &ast.AliasType{Name: v.Name, Resolved: inner}, nil
	}

	aliased, ok := l.aliases.Get(v.Name)
	if !ok {
		var found bool

		aliased, found = l.oracle.LookupAlias(v.Name)
		if !found {
			return nil, &InternalError{Message: fmt.Sprintf("lowerer: unresolved type alias %q", v.Name)}
		}
	}

	inner, err := l.ResolveType(aliased)
	if err != nil {
		return nil, err
	}

	return &ast.AliasType{Name: v.Name, Resolved: inner}, nil
}
