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

func strType() ast.Type { return &ast.PrimitiveType{Kind: ast.String} }

func TestValidator_WithStatementRejected(t *testing.T) {
	obj := ast.NewIdentifier("console", strType(), diag.Location{})
	withStmt := ast.NewWithStatement(obj, nil, diag.Location{File: "m.gs", Line: 3})

	m := &ast.Module{Path: "m", InitStatements: []ast.Statement{withStmt}}

	sink := diag.NewSink()
	NewValidator(sink).ValidateModule(m)

	if !hasCode(sink, "GS101") {
		t.Fatalf("expected GS101 for a `with` block, got %+v", sink.Items())
	}
}

func TestValidator_ForInRejected(t *testing.T) {
	obj := ast.NewIdentifier("obj", strType(), diag.Location{})
	forIn := ast.NewForIn("k", obj, nil, diag.Location{})

	m := &ast.Module{Path: "m", InitStatements: []ast.Statement{forIn}}

	sink := diag.NewSink()
	NewValidator(sink).ValidateModule(m)

	if !hasCode(sink, "GS104") {
		t.Fatalf("expected GS104 for a for...in loop, got %+v", sink.Items())
	}
}

func TestValidator_LooseEqualityRejected(t *testing.T) {
	left := ast.NewLiteral(ast.NumberLiteral, 1.0, &ast.PrimitiveType{Kind: ast.Number}, diag.Location{})
	right := ast.NewLiteral(ast.NumberLiteral, 1.0, &ast.PrimitiveType{Kind: ast.Number}, diag.Location{})
	bin := ast.NewBinary(ast.LooseEquals, left, right, &ast.PrimitiveType{Kind: ast.Boolean}, diag.Location{})

	m := &ast.Module{Path: "m", InitStatements: []ast.Statement{
		ast.NewExpressionStatement(bin, diag.Location{}),
	}}

	sink := diag.NewSink()
	NewValidator(sink).ValidateModule(m)

	if !hasCode(sink, "GS106") {
		t.Fatalf("expected GS106 for loose equality, got %+v", sink.Items())
	}
}

func TestValidator_SwitchFallthroughRejected(t *testing.T) {
	disc := ast.NewIdentifier("x", &ast.PrimitiveType{Kind: ast.Integer}, diag.Location{})
	lit := ast.NewLiteral(ast.NumberLiteral, 1.0, &ast.PrimitiveType{Kind: ast.Integer}, diag.Location{})

	sw := ast.NewSwitch(disc, []ast.SwitchCase{
		{Test: lit, Body: []ast.Statement{ast.NewExpressionStatement(disc, diag.Location{})}},
		{Test: nil, Body: []ast.Statement{ast.NewReturn(nil, diag.Location{})}},
	}, diag.Location{})

	m := &ast.Module{Path: "m", InitStatements: []ast.Statement{sw}}

	sink := diag.NewSink()
	NewValidator(sink).ValidateModule(m)

	if !hasCode(sink, "GS113") {
		t.Fatalf("expected GS113 for a non-terminal fallthrough case, got %+v", sink.Items())
	}
}

func TestValidator_SwitchNoFallthroughPasses(t *testing.T) {
	disc := ast.NewIdentifier("x", &ast.PrimitiveType{Kind: ast.Integer}, diag.Location{})
	lit := ast.NewLiteral(ast.NumberLiteral, 1.0, &ast.PrimitiveType{Kind: ast.Integer}, diag.Location{})

	sw := ast.NewSwitch(disc, []ast.SwitchCase{
		{Test: lit, Body: []ast.Statement{ast.NewBreak(diag.Location{})}},
		{Test: nil, Body: []ast.Statement{ast.NewReturn(nil, diag.Location{})}},
	}, diag.Location{})

	m := &ast.Module{Path: "m", InitStatements: []ast.Statement{sw}}

	sink := diag.NewSink()
	NewValidator(sink).ValidateModule(m)

	if hasCode(sink, "GS113") {
		t.Fatalf("expected no GS113 when every case ends with a control transfer, got %+v", sink.Items())
	}
}

func hasCode(sink *diag.Sink, code string) bool {
	for _, d := range sink.Items() {
		if d.Code == code {
			return true
		}
	}

	return false
}
