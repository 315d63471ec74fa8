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
package ast

import "github.com/fcapolini/goodscript-sub000/pkg/diag"

// This file groups AST node kinds the Validator (pkg/compiler.Validator,
// spec.md §4.1) inspects to police the permitted subset. Most of them —
// WithStatement, ForIn, CommaExpr, Delete, UnknownType, and DynamicImport
// with a non-literal path — are outright forbidden: a "good program" never contains them, and the
// pipeline halts after validation when one is present. Under
// SkipValidation they reach the Lowerer, which walks into them without
// translating them; the emitters then reject a forbidden statement with an
// internal error (reported as GS999) but do not reject a forbidden
// expression or type.
//
// Switch is the exception: GS113 polices fall-through within it rather
// than forbidding the construct itself, so a well-formed switch statement
// passes validation, is lowered, and must be emitted like any other
// statement.

// WithStatement is a `with (object) { ... }` block (GS101).
type WithStatement struct {
	stmtBase
	Object Expression
	Body   []Statement
}

// NewWithStatement constructs a forbidden `with` statement node.
func NewWithStatement(object Expression, body []Statement, loc diag.Location) *WithStatement {
	return &WithStatement{stmtBase{Loc: loc}, object, body}
}

// ForIn is a member-key-iteration loop, `for (k in obj) { ... }` (GS104).
type ForIn struct {
	stmtBase
	VariableName string
	Object       Expression
	Body         []Statement
}

// NewForIn constructs a forbidden `for...in` statement node.
func NewForIn(variableName string, object Expression, body []Statement, loc diag.Location) *ForIn {
	return &ForIn{stmtBase{Loc: loc}, variableName, object, body}
}

// SwitchCase is one case (or, when Test is nil, the default) of a Switch.
type SwitchCase struct {
	Test Expression // nil for `default`
	Body []Statement
}

// Switch is a switch statement. The Validator enforces GS113 (no
// fall-through) on it: every non-empty case but possibly the last must end
// with break/return/throw/continue. A switch that passes is lowered and
// emitted like any other statement.
type Switch struct {
	stmtBase
	Discriminant Expression
	Cases        []SwitchCase
}

// NewSwitch constructs a switch statement node.
func NewSwitch(discriminant Expression, cases []SwitchCase, loc diag.Location) *Switch {
	return &Switch{stmtBase{Loc: loc}, discriminant, cases}
}

// CommaExpr is the comma operator joining two expressions, `(a, b)`,
// outside of an argument or array list position (GS112). Comma used to
// separate elements of an argument list or array literal is represented
// directly by Call.Args / ArrayLiteral.Elements and never produces this
// node.
type CommaExpr struct {
	exprBase
	Left, Right Expression
}

// NewCommaExpr constructs a comma-operator expression node.
func NewCommaExpr(left, right Expression, typ Type, loc diag.Location) *CommaExpr {
	return &CommaExpr{exprBase{typ, loc}, left, right}
}

// Delete is the member-deletion operator, `delete obj.prop` (GS111).
type Delete struct {
	exprBase
	Target Expression
}

// NewDelete constructs a member-deletion expression node.
func NewDelete(target Expression, typ Type, loc diag.Location) *Delete {
	return &Delete{exprBase{typ, loc}, target}
}

// DynamicImport is a dynamic module-load expression, `import(path)`
// (GS127). It is only forbidden when Path is not a literal string; a
// literal-path dynamic import passes validation, the Lowerer lowers its Path
// expression, and the emitters write a placeholder comment for it.
type DynamicImport struct {
	exprBase
	Path Expression
}

// NewDynamicImport constructs a dynamic-import expression node.
func NewDynamicImport(path Expression, typ Type, loc diag.Location) *DynamicImport {
	return &DynamicImport{exprBase{typ, loc}, path}
}

// UnknownType represents the source language's "any"/unknown dynamic type
// (GS109). It implements Type purely so the Validator can walk declared
// type positions and flag its presence; it must never survive lowering.
type UnknownType struct{}

func (*UnknownType) isType() {}

func (*UnknownType) String() string { return "unknown" }
