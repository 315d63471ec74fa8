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

// Package serial decodes the JSON module format the CLI reads from disk.
// The source parser and typechecker are host-toolchain collaborators this
// repository never implements (spec.md §1); what the CLI actually consumes
// is whatever artifact that external frontend would have produced — an
// already-resolved module tree plus a symbol table. This package is the
// boundary: it owns the on-disk shape and converts it to *ast.Module plus a
// ast.SymbolOracle, the two inputs pkg/compiler.Pipeline requires.
package serial

import (
	"encoding/json"
	"fmt"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/diag"
)

// wireModule mirrors ast.Module's shape with JSON-friendly, discriminated
// field types standing in for the closed interfaces.
type wireModule struct {
	Path           string           `json:"path"`
	Imports        []wireImport     `json:"imports"`
	Declarations   []json.RawMessage `json:"declarations"`
	InitStatements []json.RawMessage `json:"initStatements"`
	// Classes/Interfaces list the nominal types the accompanying symbol
	// oracle should resolve names against; ownership defaults to the given
	// memory mode's documented policy when a position is unmarked.
	Classes    []string `json:"classes"`
	Interfaces []string `json:"interfaces"`
}

type wireImport struct {
	From  string          `json:"from"`
	Names []wireImportedName `json:"names"`
}

type wireImportedName struct {
	Name  string `json:"name"`
	Alias string `json:"alias"`
}

type wireNode struct {
	Kind string `json:"kind"`
}

// Decode parses a JSON-encoded module and constructs a matching
// *ast.StaticOracle seeded with the module's declared classes and interfaces.
func Decode(data []byte) (*ast.Module, *ast.StaticOracle, error) {
	var wm wireModule
	if err := json.Unmarshal(data, &wm); err != nil {
		return nil, nil, fmt.Errorf("serial: invalid module JSON: %w", err)
	}

	oracle := ast.NewStaticOracle()

	for _, c := range wm.Classes {
		oracle.DeclareClass(c)
	}

	for _, i := range wm.Interfaces {
		oracle.DeclareInterface(i)
	}

	d := &decoder{oracle: oracle}

	decls := make([]ast.Declaration, 0, len(wm.Declarations))

	for _, raw := range wm.Declarations {
		decl, err := d.decodeDecl(raw)
		if err != nil {
			return nil, nil, err
		}

		decls = append(decls, decl)
	}

	init := make([]ast.Statement, 0, len(wm.InitStatements))

	for _, raw := range wm.InitStatements {
		stmt, err := d.decodeStmt(raw)
		if err != nil {
			return nil, nil, err
		}

		init = append(init, stmt)
	}

	imports := make([]ast.Import, len(wm.Imports))

	for i, imp := range wm.Imports {
		names := make([]ast.ImportedName, len(imp.Names))

		for j, n := range imp.Names {
			names[j] = ast.ImportedName{Name: n.Name, Alias: n.Alias}
		}

		imports[i] = ast.Import{From: imp.From, Names: names}
	}

	m := &ast.Module{
		Path:           wm.Path,
		Imports:        imports,
		Declarations:   decls,
		InitStatements: init,
	}

	return m, oracle, nil
}

type decoder struct {
	oracle *ast.StaticOracle
}

func kindOf(raw json.RawMessage) (string, error) {
	var n wireNode
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("serial: malformed node: %w", err)
	}

	return n.Kind, nil
}

func (d *decoder) decodeType(raw json.RawMessage) (ast.Type, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var wt struct {
		Kind      string            `json:"kind"`
		Name      string            `json:"name"`
		Ownership string            `json:"ownership"`
		TypeArgs  []json.RawMessage `json:"typeArgs"`
		Fields    []wireField       `json:"fields"`
		Element   json.RawMessage   `json:"element"`
		Key       json.RawMessage   `json:"key"`
		Value     json.RawMessage   `json:"value"`
		Variants  []json.RawMessage `json:"variants"`
		Members   []json.RawMessage `json:"members"`
		Result    json.RawMessage   `json:"result"`
	}

	if err := json.Unmarshal(raw, &wt); err != nil {
		return nil, fmt.Errorf("serial: malformed type: %w", err)
	}

	switch wt.Kind {
	case "primitive":
		return &ast.PrimitiveType{Kind: primitiveKind(wt.Name)}, nil
	case "named":
		kind := ast.ClassRef
		if d.oracle.IsInterface(wt.Name) {
			kind = ast.InterfaceRef
		}

		args := make([]ast.Type, 0, len(wt.TypeArgs))

		for _, a := range wt.TypeArgs {
			at, err := d.decodeType(a)
			if err != nil {
				return nil, err
			}

			args = append(args, at)
		}

		return &ast.NamedType{Name: wt.Name, Kind: kind, Ownership: ownershipOf(wt.Ownership), TypeArgs: args}, nil
	case "struct":
		fields := make([]ast.StructField, len(wt.Fields))

		for i, f := range wt.Fields {
			ft, err := d.decodeType(f.Type)
			if err != nil {
				return nil, err
			}

			fields[i] = ast.StructField{Name: f.Name, Type: ft}
		}

		return &ast.StructType{Fields: fields, Ownership: ownershipOf(wt.Ownership)}, nil
	case "array":
		el, err := d.decodeType(wt.Element)
		if err != nil {
			return nil, err
		}

		return &ast.ArrayType{Element: el, Ownership: ownershipOf(wt.Ownership)}, nil
	case "map":
		k, err := d.decodeType(wt.Key)
		if err != nil {
			return nil, err
		}

		v, err := d.decodeType(wt.Value)
		if err != nil {
			return nil, err
		}

		return &ast.MapType{Key: k, Value: v, Ownership: ownershipOf(wt.Ownership)}, nil
	case "union":
		variants := make([]ast.Type, 0, len(wt.Variants))

		for _, v := range wt.Variants {
			vt, err := d.decodeType(v)
			if err != nil {
				return nil, err
			}

			variants = append(variants, vt)
		}

		return &ast.UnionType{Variants: variants}, nil
	case "intersection":
		members := make([]ast.Type, 0, len(wt.Members))

		for _, v := range wt.Members {
			mt, err := d.decodeType(v)
			if err != nil {
				return nil, err
			}

			members = append(members, mt)
		}

		return &ast.IntersectionType{Members: members}, nil
	case "promise":
		r, err := d.decodeType(wt.Result)
		if err != nil {
			return nil, err
		}

		return &ast.PromiseType{Result: r}, nil
	default:
		return nil, fmt.Errorf("serial: unknown type kind %q", wt.Kind)
	}
}

type wireField struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

func primitiveKind(name string) ast.PrimitiveKind {
	switch name {
	case "integer":
		return ast.Integer
	case "integer53":
		return ast.Integer53
	case "string":
		return ast.String
	case "boolean":
		return ast.Boolean
	case "void":
		return ast.Void
	case "never":
		return ast.Never
	case "null":
		return ast.Null
	default:
		return ast.Number
	}
}

func ownershipOf(s string) ast.Ownership {
	switch s {
	case "own":
		return ast.Own
	case "share":
		return ast.Share
	case "use":
		return ast.Use
	default:
		return ast.Value
	}
}

func loc(file string, line uint) diag.Location {
	return diag.Location{File: file, Line: line}
}
