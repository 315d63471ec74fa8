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
	"testing"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/diag"
)

func useNode() *ast.NamedType {
	return &ast.NamedType{Name: "Node", Kind: ast.ClassRef, Ownership: ast.Use}
}

func TestNullSafety_FieldOfUseTypeRejected(t *testing.T) {
	class := ast.NewClassDecl("Holder", nil, "", nil, []ast.FieldDecl{
		{Name: "ref", Type: useNode()},
	}, nil, nil, diag.Location{})

	m := &ast.Module{Path: "m", Declarations: []ast.Declaration{class}}

	sink := NewNullSafetyAnalyzer(ast.Ownership).AnalyzeModule(m)

	if !hasCode(sink, "GS401") {
		t.Fatalf("expected GS401 for a use<T>-typed field, got %+v", sink.Items())
	}
}

func TestNullSafety_ReturnTypeOfUseRejected(t *testing.T) {
	fn := ast.NewFunctionDecl("borrow", nil, nil, useNode(), nil, false, diag.Location{})

	m := &ast.Module{Path: "m", Declarations: []ast.Declaration{fn}}

	sink := NewNullSafetyAnalyzer(ast.Ownership).AnalyzeModule(m)

	if !hasCode(sink, "GS402") {
		t.Fatalf("expected GS402 for a use<T> declared return type, got %+v", sink.Items())
	}
}

func TestNullSafety_ReturningUseLocalRejected(t *testing.T) {
	numType := &ast.PrimitiveType{Kind: ast.Number}
	body := []ast.Statement{
		ast.NewVariableDeclaration("ref", useNode(), true, false, nil, diag.Location{}),
		ast.NewReturn(ast.NewIdentifier("ref", useNode(), diag.Location{}), diag.Location{}),
	}

	fn := ast.NewFunctionDecl("leak", nil, nil, numType, body, false, diag.Location{})

	m := &ast.Module{Path: "m", Declarations: []ast.Declaration{fn}}

	sink := NewNullSafetyAnalyzer(ast.Ownership).AnalyzeModule(m)

	if !hasCode(sink, "GS403") {
		t.Fatalf("expected GS403 for returning a use<T>-typed local, got %+v", sink.Items())
	}
}

func TestNullSafety_ReturningUseLocalInsideSwitchCaseRejected(t *testing.T) {
	numType := &ast.PrimitiveType{Kind: ast.Number}
	intType := &ast.PrimitiveType{Kind: ast.Integer}

	sw := ast.NewSwitch(
		ast.NewIdentifier("n", intType, diag.Location{}),
		[]ast.SwitchCase{
			{
				Test: ast.NewLiteral(ast.NumberLiteral, 1.0, intType, diag.Location{}),
				Body: []ast.Statement{
					ast.NewReturn(ast.NewIdentifier("ref", useNode(), diag.Location{}), diag.Location{}),
				},
			},
		},
		diag.Location{},
	)

	body := []ast.Statement{
		ast.NewVariableDeclaration("ref", useNode(), true, false, nil, diag.Location{}),
		sw,
	}

	fn := ast.NewFunctionDecl("leak", nil, nil, numType, body, false, diag.Location{})

	m := &ast.Module{Path: "m", Declarations: []ast.Declaration{fn}}

	sink := NewNullSafetyAnalyzer(ast.Ownership).AnalyzeModule(m)

	if !hasCode(sink, "GS403") {
		t.Fatalf("expected GS403 for returning a use<T>-typed local from within a switch case, got %+v", sink.Items())
	}
}

func TestNullSafety_UseAsParameterIsAllowed(t *testing.T) {
	fn := ast.NewFunctionDecl("borrow", nil, []ast.Param{{Name: "n", Type: useNode()}},
		&ast.PrimitiveType{Kind: ast.Void}, nil, false, diag.Location{})

	m := &ast.Module{Path: "m", Declarations: []ast.Declaration{fn}}

	sink := NewNullSafetyAnalyzer(ast.Ownership).AnalyzeModule(m)

	if sink.HasErrors() {
		t.Fatalf("expected use<T> as a parameter to be allowed, got %+v", sink.Items())
	}
}

func TestNullSafety_SkippedUnderGCMode(t *testing.T) {
	class := ast.NewClassDecl("Holder", nil, "", nil, []ast.FieldDecl{
		{Name: "ref", Type: useNode()},
	}, nil, nil, diag.Location{})

	m := &ast.Module{Path: "m", Declarations: []ast.Declaration{class}}

	sink := NewNullSafetyAnalyzer(ast.GC).AnalyzeModule(m)

	if len(sink.Items()) != 0 {
		t.Fatalf("expected no diagnostics under GC mode, got %+v", sink.Items())
	}
}
