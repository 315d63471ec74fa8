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

func (d *decoder) decodeExprs(raw []json.RawMessage) ([]ast.Expression, error) {
	out := make([]ast.Expression, len(raw))

	for i, r := range raw {
		e, err := d.decodeExpr(r)
		if err != nil {
			return nil, err
		}

		out[i] = e
	}

	return out, nil
}

var binaryOps = map[string]ast.BinaryOp{
	"add": ast.Add, "sub": ast.Sub, "mul": ast.Mul, "div": ast.Div, "mod": ast.Mod,
	"strictEquals": ast.StrictEquals, "strictNotEquals": ast.StrictNotEquals,
	"looseEquals": ast.LooseEquals, "looseNotEquals": ast.LooseNotEquals,
	"lessThan": ast.LessThan, "lessEquals": ast.LessEquals,
	"greaterThan": ast.GreaterThan, "greaterEquals": ast.GreaterEquals,
	"logicalAnd": ast.LogicalAnd, "logicalOr": ast.LogicalOr,
}

var unaryOps = map[string]ast.UnaryOp{
	"negate": ast.Negate, "logicalNot": ast.LogicalNot, "void": ast.Void,
}

func (d *decoder) decodeExpr(raw json.RawMessage) (ast.Expression, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "literal":
		var w struct {
			File  string          `json:"file"`
			Line  uint            `json:"line"`
			Type  json.RawMessage `json:"type"`
			Kind  string          `json:"literalKind"`
			Value any             `json:"value"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed literal: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		var lk ast.LiteralKind

		switch w.Kind {
		case "string":
			lk = ast.StringLiteral
		case "boolean":
			lk = ast.BooleanLiteral
		case "null":
			lk = ast.NullLiteral
		default:
			lk = ast.NumberLiteral
		}

		return ast.NewLiteral(lk, w.Value, t, loc(w.File, w.Line)), nil
	case "identifier":
		var w struct {
			File string          `json:"file"`
			Line uint            `json:"line"`
			Type json.RawMessage `json:"type"`
			Name string          `json:"name"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed identifier: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		return ast.NewIdentifier(w.Name, t, loc(w.File, w.Line)), nil
	case "binary":
		var w struct {
			File  string          `json:"file"`
			Line  uint            `json:"line"`
			Type  json.RawMessage `json:"type"`
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed binary: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		left, err := d.decodeExpr(w.Left)
		if err != nil {
			return nil, err
		}

		right, err := d.decodeExpr(w.Right)
		if err != nil {
			return nil, err
		}

		op, ok := binaryOps[w.Op]
		if !ok {
			return nil, fmt.Errorf("serial: unknown binary op %q", w.Op)
		}

		return ast.NewBinary(op, left, right, t, loc(w.File, w.Line)), nil
	case "unary":
		var w struct {
			File    string          `json:"file"`
			Line    uint            `json:"line"`
			Type    json.RawMessage `json:"type"`
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed unary: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		operand, err := d.decodeExpr(w.Operand)
		if err != nil {
			return nil, err
		}

		op, ok := unaryOps[w.Op]
		if !ok {
			return nil, fmt.Errorf("serial: unknown unary op %q", w.Op)
		}

		return ast.NewUnary(op, operand, t, loc(w.File, w.Line)), nil
	case "conditional":
		var w struct {
			File string          `json:"file"`
			Line uint            `json:"line"`
			Type json.RawMessage `json:"type"`
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed conditional: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		cond, err := d.decodeExpr(w.Cond)
		if err != nil {
			return nil, err
		}

		then, err := d.decodeExpr(w.Then)
		if err != nil {
			return nil, err
		}

		els, err := d.decodeExpr(w.Else)
		if err != nil {
			return nil, err
		}

		return ast.NewConditional(cond, then, els, t, loc(w.File, w.Line)), nil
	case "memberAccess":
		var w struct {
			File     string          `json:"file"`
			Line     uint            `json:"line"`
			Type     json.RawMessage `json:"type"`
			Object   json.RawMessage `json:"object"`
			Member   string          `json:"member"`
			Optional bool            `json:"optional"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed memberAccess: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		object, err := d.decodeExpr(w.Object)
		if err != nil {
			return nil, err
		}

		return ast.NewMemberAccess(object, w.Member, w.Optional, t, loc(w.File, w.Line)), nil
	case "indexAccess":
		var w struct {
			File   string          `json:"file"`
			Line   uint            `json:"line"`
			Type   json.RawMessage `json:"type"`
			Object json.RawMessage `json:"object"`
			Index  json.RawMessage `json:"index"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed indexAccess: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		object, err := d.decodeExpr(w.Object)
		if err != nil {
			return nil, err
		}

		index, err := d.decodeExpr(w.Index)
		if err != nil {
			return nil, err
		}

		return ast.NewIndexAccess(object, index, t, loc(w.File, w.Line)), nil
	case "assignmentExpr":
		var w struct {
			File  string          `json:"file"`
			Line  uint            `json:"line"`
			Type  json.RawMessage `json:"type"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed assignmentExpr: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		left, err := d.decodeExpr(w.Left)
		if err != nil {
			return nil, err
		}

		right, err := d.decodeExpr(w.Right)
		if err != nil {
			return nil, err
		}

		return ast.NewAssignmentExpr(left, right, t, loc(w.File, w.Line)), nil
	case "call":
		var w struct {
			File      string            `json:"file"`
			Line      uint              `json:"line"`
			Type      json.RawMessage   `json:"type"`
			Callee    json.RawMessage   `json:"callee"`
			Args      []json.RawMessage `json:"args"`
			SyncAwait bool              `json:"syncAwait"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed call: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		callee, err := d.decodeExpr(w.Callee)
		if err != nil {
			return nil, err
		}

		args, err := d.decodeExprs(w.Args)
		if err != nil {
			return nil, err
		}

		call := ast.NewCall(callee, args, t, loc(w.File, w.Line))
		call.SyncAwait = w.SyncAwait

		return call, nil
	case "newExpression":
		var w struct {
			File      string            `json:"file"`
			Line      uint              `json:"line"`
			Type      json.RawMessage   `json:"type"`
			ClassName string            `json:"className"`
			Args      []json.RawMessage `json:"args"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed newExpression: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		args, err := d.decodeExprs(w.Args)
		if err != nil {
			return nil, err
		}

		return ast.NewNewExpression(w.ClassName, args, t, loc(w.File, w.Line)), nil
	case "arrayLiteral":
		var w struct {
			File     string            `json:"file"`
			Line     uint              `json:"line"`
			Type     json.RawMessage   `json:"type"`
			Elements []json.RawMessage `json:"elements"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed arrayLiteral: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		elements, err := d.decodeExprs(w.Elements)
		if err != nil {
			return nil, err
		}

		return ast.NewArrayLiteral(elements, t, loc(w.File, w.Line)), nil
	case "objectLiteral":
		var w struct {
			File       string `json:"file"`
			Line       uint   `json:"line"`
			Type       json.RawMessage `json:"type"`
			Properties []struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
			} `json:"properties"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed objectLiteral: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		props := make([]ast.ObjectProperty, len(w.Properties))

		for i, p := range w.Properties {
			v, err := d.decodeExpr(p.Value)
			if err != nil {
				return nil, err
			}

			props[i] = ast.ObjectProperty{Name: p.Name, Value: v}
		}

		return ast.NewObjectLiteral(props, t, loc(w.File, w.Line)), nil
	case "lambda":
		var w struct {
			File   string            `json:"file"`
			Line   uint              `json:"line"`
			Type   json.RawMessage   `json:"type"`
			Params []wireParam       `json:"params"`
			Body   []json.RawMessage `json:"body"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed lambda: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		params, err := d.decodeParams(w.Params)
		if err != nil {
			return nil, err
		}

		body, err := d.decodeStmts(w.Body)
		if err != nil {
			return nil, err
		}

		return ast.NewLambda(params, body, t, loc(w.File, w.Line)), nil
	case "await":
		var w struct {
			File    string          `json:"file"`
			Line    uint            `json:"line"`
			Type    json.RawMessage `json:"type"`
			Operand json.RawMessage `json:"operand"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed await: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		operand, err := d.decodeExpr(w.Operand)
		if err != nil {
			return nil, err
		}

		return ast.NewAwait(operand, t, loc(w.File, w.Line)), nil
	default:
		return nil, fmt.Errorf("serial: unknown expression kind %q", kind)
	}
}
