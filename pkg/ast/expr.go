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

// Expression is the sum of every expression-level AST node.  Every
// expression carries its resolved Type (spec.md invariant 1: no `any`
// escapes the Validator) and an optional source Location.
type Expression interface {
	isExpr()
	Type() Type
	Location() diag.Location
}

// exprBase factors the two fields every expression variant carries.
type exprBase struct {
	Typ Type
	Loc diag.Location
}

func (e *exprBase) isExpr()              {}
func (e *exprBase) Type() Type           { return e.Typ }
func (e *exprBase) Location() diag.Location { return e.Loc }

// LiteralKind enumerates the kinds of literal value a Literal expression
// can carry.
type LiteralKind uint8

// Literal kinds.
const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BooleanLiteral
	NullLiteral
)

// Literal is a literal(value) expression.
type Literal struct {
	exprBase
	Kind  LiteralKind
	Value any
}

// NewLiteral constructs a literal expression.
func NewLiteral(kind LiteralKind, value any, typ Type, loc diag.Location) *Literal {
	return &Literal{exprBase{typ, loc}, kind, value}
}

// Identifier is an identifier(name) expression referring to a local,
// parameter, field, or top-level binding.
type Identifier struct {
	exprBase
	Name string
}

// NewIdentifier constructs an identifier expression.
func NewIdentifier(name string, typ Type, loc diag.Location) *Identifier {
	return &Identifier{exprBase{typ, loc}, name}
}

// BinaryOp enumerates binary operators. LooseEquals/LooseNotEquals exist
// only so the Validator has something concrete to reject (GS106/GS107); a
// good program never carries them past validation, so the Lowerer never
// needs to translate them.
type BinaryOp uint8

// Binary operators.
const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	StrictEquals
	StrictNotEquals
	LooseEquals
	LooseNotEquals
	LessThan
	LessEquals
	GreaterThan
	GreaterEquals
	LogicalAnd
	LogicalOr
)

// Binary is a binary(op, left, right) expression.
type Binary struct {
	exprBase
	Op          BinaryOp
	Left, Right Expression
}

// NewBinary constructs a binary expression.
func NewBinary(op BinaryOp, left, right Expression, typ Type, loc diag.Location) *Binary {
	return &Binary{exprBase{typ, loc}, op, left, right}
}

// UnaryOp enumerates unary operators. Void exists only so the Validator can
// reject it (GS115); member-deletion is its own node kind (Delete) since it
// only ever applies to a member-access target, see forbidden.go.
type UnaryOp uint8

// Unary operators.
const (
	Negate UnaryOp = iota
	LogicalNot
	Void
)

// Unary is a unary(op, operand) expression.
type Unary struct {
	exprBase
	Op      UnaryOp
	Operand Expression
}

// NewUnary constructs a unary expression.
func NewUnary(op UnaryOp, operand Expression, typ Type, loc diag.Location) *Unary {
	return &Unary{exprBase{typ, loc}, op, operand}
}

// Conditional is a conditional(cond, then, else) ternary expression.
type Conditional struct {
	exprBase
	Cond, Then, Else Expression
}

// NewConditional constructs a conditional expression.
func NewConditional(cond, then, els Expression, typ Type, loc diag.Location) *Conditional {
	return &Conditional{exprBase{typ, loc}, cond, then, els}
}

// MemberAccess is a memberAccess(object, member, optional) expression.
// obj?.m lowers with Optional=true (spec.md §4.2).
type MemberAccess struct {
	exprBase
	Object   Expression
	Member   string
	Optional bool
}

// NewMemberAccess constructs a member-access expression.
func NewMemberAccess(object Expression, member string, optional bool, typ Type, loc diag.Location) *MemberAccess {
	return &MemberAccess{exprBase{typ, loc}, object, member, optional}
}

// IndexAccess is an indexAccess(object, index) expression.
type IndexAccess struct {
	exprBase
	Object, Index Expression
}

// NewIndexAccess constructs an index-access expression.
func NewIndexAccess(object, index Expression, typ Type, loc diag.Location) *IndexAccess {
	return &IndexAccess{exprBase{typ, loc}, object, index}
}

// AssignmentExpr is an assignment(left, right) expression (as distinct from
// the assignment *statement*, which wraps this when used at statement
// level).
type AssignmentExpr struct {
	exprBase
	Left, Right Expression
}

// NewAssignmentExpr constructs an assignment expression.
func NewAssignmentExpr(left, right Expression, typ Type, loc diag.Location) *AssignmentExpr {
	return &AssignmentExpr{exprBase{typ, loc}, left, right}
}

// Call is a call(callee, args) expression.
type Call struct {
	exprBase
	Callee Expression
	Args   []Expression
	// SyncAwait marks a call to an async function made at statement level
	// (spec.md §4.2, "async propagation"): the emitter inserts the
	// appropriate blocking primitive instead of suspending.
	SyncAwait bool
}

// NewCall constructs a call expression.
func NewCall(callee Expression, args []Expression, typ Type, loc diag.Location) *Call {
	return &Call{exprBase{typ, loc}, callee, args, false}
}

// NewExpression is a newExpression(class_name, args) constructor call.
type NewExpression struct {
	exprBase
	ClassName string
	Args      []Expression
}

// NewNewExpression constructs a `new` expression.
func NewNewExpression(className string, args []Expression, typ Type, loc diag.Location) *NewExpression {
	return &NewExpression{exprBase{typ, loc}, className, args}
}

// ArrayLiteral is an arrayLiteral(elements) expression.
type ArrayLiteral struct {
	exprBase
	Elements []Expression
}

// NewArrayLiteral constructs an array-literal expression.
func NewArrayLiteral(elements []Expression, typ Type, loc diag.Location) *ArrayLiteral {
	return &ArrayLiteral{exprBase{typ, loc}, elements}
}

// ObjectProperty is one (name, value) pair of an object literal.
type ObjectProperty struct {
	Name  string
	Value Expression
}

// ObjectLiteral is an objectLiteral(properties) expression.  Its Type is a
// *StructType once lowered, so that structurally-identical literals intern
// to the same emitted definition.
type ObjectLiteral struct {
	exprBase
	Properties []ObjectProperty
}

// NewObjectLiteral constructs an object-literal expression.
func NewObjectLiteral(props []ObjectProperty, typ Type, loc diag.Location) *ObjectLiteral {
	return &ObjectLiteral{exprBase{typ, loc}, props}
}

// Capture describes one free variable captured by a lambda, recorded
// explicitly during lowering (spec.md §4.2).
type Capture struct {
	Name string
	Type Type
}

// Lambda is a lambda(params, captures, body) expression.  Captures are
// populated by the Lowerer's free-variable analysis (lowerLambda in
// pkg/compiler/lowerer_expr.go, with scope tracking in
// pkg/compiler/scope.go).
type Lambda struct {
	exprBase
	Params   []Param
	Captures []Capture
	Body     []Statement
	Async    bool
	// SelfName is set when the peephole recursive-lambda recognizer
	// determines this lambda calls itself by name; empty otherwise.
	SelfName string
}

// NewLambda constructs a lambda expression.
func NewLambda(params []Param, body []Statement, typ Type, loc diag.Location) *Lambda {
	return &Lambda{exprBase: exprBase{typ, loc}, Params: params, Body: body}
}

// Await is an await(expression) expression, legal only inside a function
// whose body makes it async (spec.md §4.2, async propagation).
type Await struct {
	exprBase
	Operand Expression
}

// NewAwait constructs an await expression.
func NewAwait(operand Expression, typ Type, loc diag.Location) *Await {
	return &Await{exprBase{typ, loc}, operand}
}
