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
	"encoding/json"
	"fmt"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
)

type wireParam struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

func (d *decoder) decodeParams(raw []wireParam) ([]ast.Param, error) {
	out := make([]ast.Param, len(raw))

	for i, p := range raw {
		t, err := d.decodeType(p.Type)
		if err != nil {
			return nil, err
		}

		out[i] = ast.Param{Name: p.Name, Type: t}
	}

	return out, nil
}

func (d *decoder) decodeDecl(raw json.RawMessage) (ast.Declaration, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "function":
		var w struct {
			Name       string            `json:"name"`
			File       string            `json:"file"`
			Line       uint              `json:"line"`
			Params     []wireParam       `json:"params"`
			ReturnType json.RawMessage   `json:"returnType"`
			Body       []json.RawMessage `json:"body"`
			Async      bool              `json:"async"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed function decl: %w", err)
		}

		params, err := d.decodeParams(w.Params)
		if err != nil {
			return nil, err
		}

		ret, err := d.decodeType(w.ReturnType)
		if err != nil {
			return nil, err
		}

		body, err := d.decodeStmts(w.Body)
		if err != nil {
			return nil, err
		}

		return ast.NewFunctionDecl(w.Name, nil, params, ret, body, w.Async, loc(w.File, w.Line)), nil
	case "class":
		var w struct {
			Name        string          `json:"name"`
			File        string          `json:"file"`
			Line        uint            `json:"line"`
			Extends     string          `json:"extends"`
			Implements  []string        `json:"implements"`
			Fields      []wireFieldDecl `json:"fields"`
			Constructor *wireCtor       `json:"constructor"`
			Methods     []wireMethod    `json:"methods"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed class decl: %w", err)
		}

		fields := make([]ast.FieldDecl, len(w.Fields))

		for i, f := range w.Fields {
			t, err := d.decodeType(f.Type)
			if err != nil {
				return nil, err
			}

			var init ast.Expression

			if len(f.Initializer) > 0 {
				init, err = d.decodeExpr(f.Initializer)
				if err != nil {
					return nil, err
				}
			}

			fields[i] = ast.FieldDecl{Name: f.Name, Type: t, IsReadonly: f.IsReadonly, Initializer: init}
		}

		var ctor *ast.ConstructorDecl

		if w.Constructor != nil {
			params, err := d.decodeParams(w.Constructor.Params)
			if err != nil {
				return nil, err
			}

			body, err := d.decodeStmts(w.Constructor.Body)
			if err != nil {
				return nil, err
			}

			ctor = &ast.ConstructorDecl{Params: params, Body: body}
		}

		methods := make([]ast.MethodDecl, len(w.Methods))

		for i, m := range w.Methods {
			params, err := d.decodeParams(m.Params)
			if err != nil {
				return nil, err
			}

			ret, err := d.decodeType(m.ReturnType)
			if err != nil {
				return nil, err
			}

			body, err := d.decodeStmts(m.Body)
			if err != nil {
				return nil, err
			}

			methods[i] = ast.MethodDecl{
				Name: m.Name, Params: params, ReturnType: ret,
				IsStatic: m.IsStatic, Async: m.Async, Body: body, Loc: loc(w.File, w.Line),
			}
		}

		return ast.NewClassDecl(w.Name, nil, w.Extends, w.Implements, fields, ctor, methods, loc(w.File, w.Line)), nil
	case "interface":
		var w struct {
			Name       string             `json:"name"`
			File       string             `json:"file"`
			Line       uint               `json:"line"`
			Extends    []string           `json:"extends"`
			Properties []wireField        `json:"properties"`
			Methods    []wireIfaceMethod  `json:"methods"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed interface decl: %w", err)
		}

		props := make([]ast.PropertyDecl, len(w.Properties))

		for i, p := range w.Properties {
			t, err := d.decodeType(p.Type)
			if err != nil {
				return nil, err
			}

			props[i] = ast.PropertyDecl{Name: p.Name, Type: t}
		}

		methods := make([]ast.InterfaceMethodDecl, len(w.Methods))

		for i, m := range w.Methods {
			params, err := d.decodeParams(m.Params)
			if err != nil {
				return nil, err
			}

			ret, err := d.decodeType(m.ReturnType)
			if err != nil {
				return nil, err
			}

			methods[i] = ast.InterfaceMethodDecl{Name: m.Name, Params: params, ReturnType: ret}
		}

		return ast.NewInterfaceDecl(w.Name, nil, w.Extends, props, methods, loc(w.File, w.Line)), nil
	case "typeAlias":
		var w struct {
			Name    string          `json:"name"`
			File    string          `json:"file"`
			Line    uint            `json:"line"`
			Aliased json.RawMessage `json:"aliased"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed type alias decl: %w", err)
		}

		aliased, err := d.decodeType(w.Aliased)
		if err != nil {
			return nil, err
		}

		d.oracle.DeclareAlias(w.Name, aliased)

		return ast.NewTypeAliasDecl(w.Name, nil, aliased, loc(w.File, w.Line)), nil
	case "const":
		var w struct {
			Name        string          `json:"name"`
			File        string          `json:"file"`
			Line        uint            `json:"line"`
			Type        json.RawMessage `json:"type"`
			Initializer json.RawMessage `json:"initializer"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed const decl: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		init, err := d.decodeExpr(w.Initializer)
		if err != nil {
			return nil, err
		}

		return ast.NewConstDecl(w.Name, t, init, loc(w.File, w.Line)), nil
	default:
		return nil, fmt.Errorf("serial: unknown declaration kind %q", kind)
	}
}

type wireFieldDecl struct {
	Name        string          `json:"name"`
	Type        json.RawMessage `json:"type"`
	IsReadonly  bool            `json:"isReadonly"`
	Initializer json.RawMessage `json:"initializer"`
}

type wireCtor struct {
	Params []wireParam       `json:"params"`
	Body   []json.RawMessage `json:"body"`
}

type wireMethod struct {
	Name       string            `json:"name"`
	Params     []wireParam       `json:"params"`
	ReturnType json.RawMessage   `json:"returnType"`
	IsStatic   bool              `json:"isStatic"`
	Async      bool              `json:"async"`
	Body       []json.RawMessage `json:"body"`
}

type wireIfaceMethod struct {
	Name       string          `json:"name"`
	Params     []wireParam     `json:"params"`
	ReturnType json.RawMessage `json:"returnType"`
}
