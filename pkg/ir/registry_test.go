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
package ir

import (
	"testing"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
)

func structType(fields ...ast.StructField) *ast.StructType {
	return &ast.StructType{Fields: fields}
}

func TestStructRegistry_InternSameSignatureReusesName(t *testing.T) {
	r := NewStructRegistry()

	a := structType(
		ast.StructField{Name: "x", Type: &ast.PrimitiveType{Kind: ast.Number}},
		ast.StructField{Name: "y", Type: &ast.PrimitiveType{Kind: ast.Number}},
	)
	b := structType(
		ast.StructField{Name: "y", Type: &ast.PrimitiveType{Kind: ast.Number}},
		ast.StructField{Name: "x", Type: &ast.PrimitiveType{Kind: ast.Number}},
	)

	first := r.Intern(a)
	second := r.Intern(b)

	if first.Name != second.Name {
		t.Fatalf("expected field-order-independent interning, got %q and %q", first.Name, second.Name)
	}

	if len(r.All()) != 1 {
		t.Fatalf("expected exactly one interned struct, got %d", len(r.All()))
	}
}

func TestStructRegistry_InternDistinctSignaturesGetDistinctNames(t *testing.T) {
	r := NewStructRegistry()

	a := structType(ast.StructField{Name: "x", Type: &ast.PrimitiveType{Kind: ast.Number}})
	b := structType(ast.StructField{Name: "x", Type: &ast.PrimitiveType{Kind: ast.String}})

	first := r.Intern(a)
	second := r.Intern(b)

	if first.Name == second.Name {
		t.Fatalf("expected distinct signatures to get distinct names, both got %q", first.Name)
	}
}

func TestStructRegistry_ClearResetsNumbering(t *testing.T) {
	r := NewStructRegistry()

	a := structType(ast.StructField{Name: "x", Type: &ast.PrimitiveType{Kind: ast.Number}})
	first := r.Intern(a)

	r.Clear()

	b := structType(ast.StructField{Name: "y", Type: &ast.PrimitiveType{Kind: ast.String}})
	second := r.Intern(b)

	if first.Name != second.Name {
		t.Fatalf("expected numbering to restart after Clear, got %q then %q", first.Name, second.Name)
	}
}
