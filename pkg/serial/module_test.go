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
package serial

import (
	"testing"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
)

const minimalModuleJSON = `{
	"path": "main",
	"classes": ["Counter"],
	"declarations": [
		{
			"kind": "class",
			"name": "Counter",
			"file": "main.gs",
			"line": 1,
			"fields": [
				{"name": "value", "type": {"kind": "primitive", "name": "integer"}}
			]
		},
		{
			"kind": "function",
			"name": "increment",
			"file": "main.gs",
			"line": 10,
			"params": [
				{"name": "c", "type": {"kind": "named", "name": "Counter", "ownership": "use"}}
			],
			"returnType": {"kind": "primitive", "name": "void"},
			"body": [
				{
					"kind": "assignment",
					"file": "main.gs",
					"line": 11,
					"target": {
						"kind": "memberAccess",
						"file": "main.gs",
						"line": 11,
						"type": {"kind": "primitive", "name": "integer"},
						"object": {"kind": "identifier", "file": "main.gs", "line": 11, "type": {"kind": "named", "name": "Counter", "ownership": "use"}, "name": "c"},
						"member": "value"
					},
					"value": {
						"kind": "binary",
						"file": "main.gs",
						"line": 11,
						"type": {"kind": "primitive", "name": "integer"},
						"op": "add",
						"left": {
							"kind": "memberAccess",
							"file": "main.gs",
							"line": 11,
							"type": {"kind": "primitive", "name": "integer"},
							"object": {"kind": "identifier", "file": "main.gs", "line": 11, "type": {"kind": "named", "name": "Counter", "ownership": "use"}, "name": "c"},
							"member": "value"
						},
						"right": {"kind": "literal", "file": "main.gs", "line": 11, "type": {"kind": "primitive", "name": "integer"}, "literalKind": "number", "value": 1}
					}
				}
			]
		}
	],
	"initStatements": []
}`

func TestDecode_MinimalModule(t *testing.T) {
	m, oracle, err := Decode([]byte(minimalModuleJSON))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	if m.Path != "main" {
		t.Fatalf("expected module path %q, got %q", "main", m.Path)
	}

	if len(m.Declarations) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(m.Declarations))
	}

	class, ok := m.Declarations[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected first declaration to be a ClassDecl, got %T", m.Declarations[0])
	}

	if class.DeclName() != "Counter" {
		t.Fatalf("expected class name Counter, got %q", class.DeclName())
	}

	if len(class.Fields) != 1 || class.Fields[0].Name != "value" {
		t.Fatalf("unexpected fields: %+v", class.Fields)
	}

	fn, ok := m.Declarations[1].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected second declaration to be a FunctionDecl, got %T", m.Declarations[1])
	}

	if len(fn.Params) != 1 || fn.Params[0].Name != "c" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}

	if len(fn.Body) != 1 {
		t.Fatalf("expected one body statement, got %d", len(fn.Body))
	}

	assign, ok := fn.Body[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected an assignment statement, got %T", fn.Body[0])
	}

	bin, ok := assign.Value.(*ast.Binary)
	if !ok {
		t.Fatalf("expected assignment value to be a binary expression, got %T", assign.Value)
	}

	if bin.Op != ast.Add {
		t.Fatalf("expected add operator, got %v", bin.Op)
	}

	if !oracle.IsClass("Counter") {
		t.Fatalf("expected the oracle to know about the declared Counter class")
	}
}

func TestDecode_UnknownTypeKindErrors(t *testing.T) {
	_, _, err := Decode([]byte(`{"path":"m","declarations":[{"kind":"const","name":"x","type":{"kind":"bogus"},"initializer":{"kind":"literal","literalKind":"number","value":1,"type":{"kind":"primitive","name":"integer"}}}]}`))
	if err == nil {
		t.Fatalf("expected an error for an unknown type kind")
	}
}

func TestDecode_UnknownDeclarationKindErrors(t *testing.T) {
	_, _, err := Decode([]byte(`{"path":"m","declarations":[{"kind":"bogus"}]}`))
	if err == nil {
		t.Fatalf("expected an error for an unknown declaration kind")
	}
}

func TestDecode_InterfaceRefResolvesAgainstDeclaredInterfaces(t *testing.T) {
	src := `{
		"path": "m",
		"interfaces": ["Shape"],
		"declarations": [
			{
				"kind": "interface",
				"name": "Shape",
				"properties": [{"name": "area", "type": {"kind": "primitive", "name": "number"}}],
				"methods": []
			},
			{
				"kind": "const",
				"name": "shape",
				"type": {"kind": "named", "name": "Shape", "ownership": "share"},
				"initializer": {"kind": "identifier", "name": "x", "type": {"kind": "named", "name": "Shape", "ownership": "share"}}
			}
		]
	}`

	m, _, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	constDecl, ok := m.Declarations[1].(*ast.ConstDecl)
	if !ok {
		t.Fatalf("expected a ConstDecl, got %T", m.Declarations[1])
	}

	named, ok := constDecl.Type.(*ast.NamedType)
	if !ok {
		t.Fatalf("expected a NamedType, got %T", constDecl.Type)
	}

	if named.Kind != ast.InterfaceRef {
		t.Fatalf("expected an InterfaceRef, got %v", named.Kind)
	}

	if named.Ownership != ast.Share {
		t.Fatalf("expected Share ownership, got %v", named.Ownership)
	}
}
