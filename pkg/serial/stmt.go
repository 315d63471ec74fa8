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

func (d *decoder) decodeStmts(raw []json.RawMessage) ([]ast.Statement, error) {
	out := make([]ast.Statement, len(raw))

	for i, r := range raw {
		s, err := d.decodeStmt(r)
		if err != nil {
			return nil, err
		}

		out[i] = s
	}

	return out, nil
}

func (d *decoder) decodeStmt(raw json.RawMessage) (ast.Statement, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "variableDeclaration":
		var w struct {
			Name           string          `json:"name"`
			File           string          `json:"file"`
			Line           uint            `json:"line"`
			Type           json.RawMessage `json:"type"`
			Mutable        bool            `json:"mutable"`
			FunctionScoped bool            `json:"functionScoped"`
			Initializer    json.RawMessage `json:"initializer"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed variableDeclaration: %w", err)
		}

		t, err := d.decodeType(w.Type)
		if err != nil {
			return nil, err
		}

		var init ast.Expression

		if len(w.Initializer) > 0 {
			init, err = d.decodeExpr(w.Initializer)
			if err != nil {
				return nil, err
			}
		}

		return ast.NewVariableDeclaration(w.Name, t, w.Mutable, w.FunctionScoped, init, loc(w.File, w.Line)), nil
	case "assignment":
		var w struct {
			File   string          `json:"file"`
			Line   uint            `json:"line"`
			Target json.RawMessage `json:"target"`
			Value  json.RawMessage `json:"value"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed assignment: %w", err)
		}

		target, err := d.decodeExpr(w.Target)
		if err != nil {
			return nil, err
		}

		value, err := d.decodeExpr(w.Value)
		if err != nil {
			return nil, err
		}

		return ast.NewAssignment(target, value, loc(w.File, w.Line)), nil
	case "expressionStatement":
		var w struct {
			File string          `json:"file"`
			Line uint            `json:"line"`
			Expr json.RawMessage `json:"expr"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed expressionStatement: %w", err)
		}

		e, err := d.decodeExpr(w.Expr)
		if err != nil {
			return nil, err
		}

		return ast.NewExpressionStatement(e, loc(w.File, w.Line)), nil
	case "return":
		var w struct {
			File  string          `json:"file"`
			Line  uint            `json:"line"`
			Value json.RawMessage `json:"value"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed return: %w", err)
		}

		var value ast.Expression

		if len(w.Value) > 0 {
			value, err = d.decodeExpr(w.Value)
			if err != nil {
				return nil, err
			}
		}

		return ast.NewReturn(value, loc(w.File, w.Line)), nil
	case "throw":
		var w struct {
			File string          `json:"file"`
			Line uint            `json:"line"`
			Expr json.RawMessage `json:"expr"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed throw: %w", err)
		}

		e, err := d.decodeExpr(w.Expr)
		if err != nil {
			return nil, err
		}

		return ast.NewThrow(e, loc(w.File, w.Line)), nil
	case "try":
		var w struct {
			File     string            `json:"file"`
			Line     uint              `json:"line"`
			TryBlock []json.RawMessage `json:"tryBlock"`
			Catch    *wireCatchClause  `json:"catch"`
			Finally  []json.RawMessage `json:"finallyBlock"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed try: %w", err)
		}

		tryBlock, err := d.decodeStmts(w.TryBlock)
		if err != nil {
			return nil, err
		}

		var catch *ast.CatchClause

		if w.Catch != nil {
			paramType, err := d.decodeType(w.Catch.ParamType)
			if err != nil {
				return nil, err
			}

			body, err := d.decodeStmts(w.Catch.Body)
			if err != nil {
				return nil, err
			}

			catch = &ast.CatchClause{ParamName: w.Catch.ParamName, ParamType: paramType, Body: body}
		}

		finallyBlock, err := d.decodeStmts(w.Finally)
		if err != nil {
			return nil, err
		}

		return ast.NewTry(tryBlock, catch, finallyBlock, loc(w.File, w.Line)), nil
	case "if":
		var w struct {
			File string            `json:"file"`
			Line uint              `json:"line"`
			Cond json.RawMessage   `json:"cond"`
			Then []json.RawMessage `json:"then"`
			Else []json.RawMessage `json:"else"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed if: %w", err)
		}

		cond, err := d.decodeExpr(w.Cond)
		if err != nil {
			return nil, err
		}

		then, err := d.decodeStmts(w.Then)
		if err != nil {
			return nil, err
		}

		var els []ast.Statement

		if len(w.Else) > 0 {
			els, err = d.decodeStmts(w.Else)
			if err != nil {
				return nil, err
			}
		}

		return ast.NewIf(cond, then, els, loc(w.File, w.Line)), nil
	case "while":
		var w struct {
			File string            `json:"file"`
			Line uint              `json:"line"`
			Cond json.RawMessage   `json:"cond"`
			Body []json.RawMessage `json:"body"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed while: %w", err)
		}

		cond, err := d.decodeExpr(w.Cond)
		if err != nil {
			return nil, err
		}

		body, err := d.decodeStmts(w.Body)
		if err != nil {
			return nil, err
		}

		return ast.NewWhile(cond, body, loc(w.File, w.Line)), nil
	case "for":
		var w struct {
			File string            `json:"file"`
			Line uint              `json:"line"`
			Init json.RawMessage   `json:"init"`
			Cond json.RawMessage   `json:"cond"`
			Incr json.RawMessage   `json:"incr"`
			Body []json.RawMessage `json:"body"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed for: %w", err)
		}

		var (
			init ast.Statement
			cond ast.Expression
			incr ast.Statement
			err  error
		)

		if len(w.Init) > 0 {
			init, err = d.decodeStmt(w.Init)
			if err != nil {
				return nil, err
			}
		}

		if len(w.Cond) > 0 {
			cond, err = d.decodeExpr(w.Cond)
			if err != nil {
				return nil, err
			}
		}

		if len(w.Incr) > 0 {
			incr, err = d.decodeStmt(w.Incr)
			if err != nil {
				return nil, err
			}
		}

		body, err := d.decodeStmts(w.Body)
		if err != nil {
			return nil, err
		}

		return ast.NewFor(init, cond, incr, body, loc(w.File, w.Line)), nil
	case "forOf":
		var w struct {
			File         string            `json:"file"`
			Line         uint              `json:"line"`
			VariableName string            `json:"variableName"`
			VariableType json.RawMessage   `json:"variableType"`
			Iterable     json.RawMessage   `json:"iterable"`
			Body         []json.RawMessage `json:"body"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed forOf: %w", err)
		}

		variableType, err := d.decodeType(w.VariableType)
		if err != nil {
			return nil, err
		}

		iterable, err := d.decodeExpr(w.Iterable)
		if err != nil {
			return nil, err
		}

		body, err := d.decodeStmts(w.Body)
		if err != nil {
			return nil, err
		}

		return ast.NewForOf(w.VariableName, variableType, iterable, body, loc(w.File, w.Line)), nil
	case "break":
		var w struct {
			File string `json:"file"`
			Line uint   `json:"line"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed break: %w", err)
		}

		return ast.NewBreak(loc(w.File, w.Line)), nil
	case "continue":
		var w struct {
			File string `json:"file"`
			Line uint   `json:"line"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed continue: %w", err)
		}

		return ast.NewContinue(loc(w.File, w.Line)), nil
	case "block":
		var w struct {
			File       string            `json:"file"`
			Line       uint              `json:"line"`
			Statements []json.RawMessage `json:"statements"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed block: %w", err)
		}

		stmts, err := d.decodeStmts(w.Statements)
		if err != nil {
			return nil, err
		}

		return ast.NewBlock(stmts, loc(w.File, w.Line)), nil
	case "functionDeclStmt":
		var w struct {
			File string          `json:"file"`
			Line uint            `json:"line"`
			Decl json.RawMessage `json:"decl"`
		}

		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("serial: malformed functionDeclStmt: %w", err)
		}

		decl, err := d.decodeDecl(w.Decl)
		if err != nil {
			return nil, err
		}

		fn, ok := decl.(*ast.FunctionDecl)
		if !ok {
			return nil, fmt.Errorf("serial: functionDeclStmt decl is not a function declaration")
		}

		return ast.NewFunctionDeclStmt(fn, loc(w.File, w.Line)), nil
	default:
		return nil, fmt.Errorf("serial: unknown statement kind %q", kind)
	}
}

type wireCatchClause struct {
	ParamName string            `json:"paramName"`
	ParamType json.RawMessage   `json:"paramType"`
	Body      []json.RawMessage `json:"body"`
}
