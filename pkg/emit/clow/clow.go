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

// Package clow emits a low-level, C-family rendering of a lowered module:
// ownership qualifiers become pointer-shape annotations, containers map to
// the target runtime's value-type collections, and async functions become
// coroutine-returning calls (spec.md §4.6).
package clow

import (
	"fmt"
	"strings"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/diag"
	"github.com/fcapolini/goodscript-sub000/pkg/emit"
	"github.com/fcapolini/goodscript-sub000/pkg/ir"
)

// keywords reserves the C-family identifiers a lowered name could clash
// with, plus the low-level runtime's own well-known type names.
var keywords = []string{
	"int", "float", "double", "char", "void", "struct", "union", "switch",
	"case", "default", "return", "if", "else", "for", "while", "break",
	"continue", "sizeof", "typedef", "const", "static", "unique_ptr",
	"shared_ptr", "weak_ptr", "vector", "optional", "Task",
}

// Emitter is the clow backend. Its sanitizer is instance-owned; the struct
// registry is supplied per call so every reference to an anonymous struct's
// type resolves to the same interned name as its definition.
type Emitter struct {
	sanitizer *emit.Sanitizer
	registry  *ir.StructRegistry
}

// New constructs a clow Emitter.
func New() *Emitter {
	return &Emitter{sanitizer: emit.NewSanitizer(keywords)}
}

// EmitModule implements emit.Emitter.
func (e *Emitter) EmitModule(m *ast.Module, registry *ir.StructRegistry, mode ast.MemoryMode, sourceMap bool) (string, error) {
	e.registry = registry

	var b strings.Builder

	fmt.Fprintf(&b, "// module %s\n\n", m.Path)

	for _, s := range registry.All() {
		e.emitStructDef(&b, s)
	}

	for _, d := range m.Declarations {
		if err := e.emitDecl(&b, d, mode, sourceMap); err != nil {
			return "", err
		}
	}

	if len(m.InitStatements) > 0 {
		e.emitEntryPoint(&b, m.InitStatements, mode, sourceMap)
	}

	return b.String(), nil
}

func (e *Emitter) emitStructDef(b *strings.Builder, s *ir.InternedStruct) {
	fmt.Fprintf(b, "struct %s {\n", s.Name)

	for _, f := range s.Type.Fields {
		fmt.Fprintf(b, "\t%s %s;\n", e.typeRef(f.Type), e.sanitizer.Member(f.Name))
	}

	b.WriteString("};\n\n")
}

func (e *Emitter) emitDecl(b *strings.Builder, d ast.Declaration, mode ast.MemoryMode, sourceMap bool) error {
	switch decl := d.(type) {
	case *ast.FunctionDecl:
		return e.emitFunction(b, "", decl.Name, decl.Params, decl.ReturnType, decl.Body, decl.Async, mode, sourceMap)
	case *ast.ClassDecl:
		return e.emitClass(b, decl, mode, sourceMap)
	case *ast.InterfaceDecl:
		e.emitInterface(b, decl, mode)
		return nil
	case *ast.TypeAliasDecl, *ast.ConstDecl:
		// Aliases carry no runtime representation; constants are emitted
		// inline at use sites by the statement emitter.
		return nil
	default:
		return &emit.InternalError{Message: fmt.Sprintf("clow: unhandled declaration %T", d)}
	}
}

func (e *Emitter) emitClass(b *strings.Builder, decl *ast.ClassDecl, mode ast.MemoryMode, sourceMap bool) error {
	fmt.Fprintf(b, "class %s {\n", e.sanitizer.Ident(decl.Name))

	for _, f := range decl.Fields {
		fmt.Fprintf(b, "\t%s %s;\n", e.typeRef(f.Type), e.sanitizer.Member(f.Name))
	}

	if decl.Constructor != nil {
		b.WriteString("public:\n")

		if err := e.emitFunction(b, "\t", decl.Name, decl.Constructor.Params, nil, decl.Constructor.Body, false, mode, sourceMap); err != nil {
			return err
		}
	}

	for i := range decl.Methods {
		m := &decl.Methods[i]
		if err := e.emitFunction(b, "\t", m.Name, m.Params, m.ReturnType, m.Body, m.Async, mode, sourceMap); err != nil {
			return err
		}
	}

	b.WriteString("};\n\n")

	return nil
}

func (e *Emitter) emitInterface(b *strings.Builder, decl *ast.InterfaceDecl, mode ast.MemoryMode) {
	fmt.Fprintf(b, "class %s {\npublic:\n", e.sanitizer.Ident(decl.Name))

	for _, p := range decl.Properties {
		fmt.Fprintf(b, "\tvirtual %s %s() = 0;\n", e.typeRef(p.Type), e.sanitizer.Member(p.Name))
	}

	for _, m := range decl.Methods {
		fmt.Fprintf(b, "\tvirtual %s %s(...) = 0;\n", e.retTypeRef(m.ReturnType), e.sanitizer.Member(m.Name))
	}

	b.WriteString("};\n\n")
}

func (e *Emitter) emitFunction(
	b *strings.Builder, indent, name string, params []ast.Param, ret ast.Type,
	body []ast.Statement, async bool, mode ast.MemoryMode, sourceMap bool,
) error {
	if sourceMap {
		if dir := emit.SourceMapDirective(indent+"//", diag.Location{}); dir != "" {
			b.WriteString(dir)
		}
	}

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s %s", e.typeRef(p.Type), e.sanitizer.Ident(p.Name))
	}

	// An async function's declared return type is already promise<T>
	// (enforced by the Lowerer), and retTypeRef's *ast.PromiseType case
	// already renders that as Task<T>; no further wrapping here.
	retStr := e.retTypeRef(ret)

	fmt.Fprintf(b, "%s%s %s(%s) {\n", indent, retStr, e.sanitizer.Ident(name), strings.Join(parts, ", "))

	for _, s := range body {
		if err := e.emitStatement(b, indent+"\t", s, mode); err != nil {
			return err
		}
	}

	fmt.Fprintf(b, "%s}\n\n", indent)

	return nil
}

func (e *Emitter) emitEntryPoint(b *strings.Builder, init []ast.Statement, mode ast.MemoryMode, sourceMap bool) {
	b.WriteString("int main(int argc, char** argv) {\n")
	b.WriteString("\tauto args = Argv(argc, argv);\n")

	for _, s := range init {
		_ = e.emitStatement(b, "\t", s, mode)
	}

	b.WriteString("\treturn 0;\n}\n")
}

func (e *Emitter) emitStatement(b *strings.Builder, indent string, s ast.Statement, mode ast.MemoryMode) error {
	switch st := s.(type) {
	case *ast.VariableDeclaration:
		fmt.Fprintf(b, "%s%s %s", indent, e.typeRef(st.Type), e.sanitizer.Ident(st.Name))

		if st.Initializer != nil {
			fmt.Fprintf(b, " = %s", e.expr(st.Initializer))
		}

		b.WriteString(";\n")
	case *ast.Assignment:
		fmt.Fprintf(b, "%s%s = %s;\n", indent, e.expr(st.Target), e.expr(st.Value))
	case *ast.ExpressionStatement:
		if call, ok := st.Expr.(*ast.Call); ok && call.SyncAwait {
			fmt.Fprintf(b, "%s%s.wait();\n", indent, e.expr(st.Expr))
			return nil
		}

		fmt.Fprintf(b, "%s%s;\n", indent, e.expr(st.Expr))
	case *ast.Return:
		if st.Value == nil {
			fmt.Fprintf(b, "%sreturn;\n", indent)
		} else {
			fmt.Fprintf(b, "%sreturn %s;\n", indent, e.expr(st.Value))
		}
	case *ast.Throw:
		fmt.Fprintf(b, "%sthrow %s;\n", indent, e.expr(st.Expr))
	case *ast.If:
		fmt.Fprintf(b, "%sif (%s) {\n", indent, e.expr(st.Cond))

		for _, c := range st.Then {
			if err := e.emitStatement(b, indent+"\t", c, mode); err != nil {
				return err
			}
		}

		fmt.Fprintf(b, "%s}", indent)

		if len(st.Else) > 0 {
			b.WriteString(" else {\n")

			for _, c := range st.Else {
				if err := e.emitStatement(b, indent+"\t", c, mode); err != nil {
					return err
				}
			}

			fmt.Fprintf(b, "%s}", indent)
		}

		b.WriteString("\n")
	case *ast.While:
		fmt.Fprintf(b, "%swhile (%s) {\n", indent, e.expr(st.Cond))

		for _, c := range st.Body {
			if err := e.emitStatement(b, indent+"\t", c, mode); err != nil {
				return err
			}
		}

		fmt.Fprintf(b, "%s}\n", indent)
	case *ast.For:
		fmt.Fprintf(b, "%sfor (;%s;) {\n", indent, e.expr(st.Cond))

		for _, c := range st.Body {
			if err := e.emitStatement(b, indent+"\t", c, mode); err != nil {
				return err
			}
		}

		fmt.Fprintf(b, "%s}\n", indent)
	case *ast.ForOf:
		fmt.Fprintf(b, "%sfor (auto& %s : %s) {\n", indent, e.sanitizer.Ident(st.VariableName), e.expr(st.Iterable))

		for _, c := range st.Body {
			if err := e.emitStatement(b, indent+"\t", c, mode); err != nil {
				return err
			}
		}

		fmt.Fprintf(b, "%s}\n", indent)
	case *ast.Switch:
		fmt.Fprintf(b, "%sswitch (%s) {\n", indent, e.expr(st.Discriminant))

		for _, c := range st.Cases {
			if c.Test == nil {
				fmt.Fprintf(b, "%sdefault:\n", indent)
			} else {
				fmt.Fprintf(b, "%scase %s:\n", indent, e.expr(c.Test))
			}

			for _, body := range c.Body {
				if err := e.emitStatement(b, indent+"\t", body, mode); err != nil {
					return err
				}
			}
		}

		fmt.Fprintf(b, "%s}\n", indent)
	case *ast.Block:
		for _, c := range st.Statements {
			if err := e.emitStatement(b, indent, c, mode); err != nil {
				return err
			}
		}
	case *ast.Break:
		fmt.Fprintf(b, "%sbreak;\n", indent)
	case *ast.Continue:
		fmt.Fprintf(b, "%scontinue;\n", indent)
	case *ast.FunctionDeclStmt:
		return e.emitFunction(b, indent, st.Decl.Name, st.Decl.Params, st.Decl.ReturnType, st.Decl.Body, st.Decl.Async, mode, false)
	default:
		return &emit.InternalError{Message: fmt.Sprintf("clow: unhandled statement %T", s)}
	}

	return nil
}

func (e *Emitter) expr(x ast.Expression) string {
	switch v := x.(type) {
	case *ast.Literal:
		return literalText(v)
	case *ast.Identifier:
		return e.sanitizer.Ident(v.Name)
	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", e.expr(v.Left), binaryOpText(v.Op), e.expr(v.Right))
	case *ast.Unary:
		return fmt.Sprintf("(%s%s)", unaryOpText(v.Op), e.expr(v.Operand))
	case *ast.Conditional:
		return fmt.Sprintf("(%s ? %s : %s)", e.expr(v.Cond), e.expr(v.Then), e.expr(v.Else))
	case *ast.MemberAccess:
		op := "."
		if v.Optional {
			op = "->"
		}

		return fmt.Sprintf("%s%s%s", e.expr(v.Object), op, e.sanitizer.Member(v.Member))
	case *ast.IndexAccess:
		return fmt.Sprintf("%s[%s]", e.expr(v.Object), e.expr(v.Index))
	case *ast.AssignmentExpr:
		return fmt.Sprintf("(%s = %s)", e.expr(v.Left), e.expr(v.Right))
	case *ast.Call:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = e.expr(a)
		}

		call := fmt.Sprintf("%s(%s)", e.expr(v.Callee), strings.Join(args, ", "))
		if v.SyncAwait {
			return call + ".get()"
		}

		return call
	case *ast.NewExpression:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = e.expr(a)
		}

		return fmt.Sprintf("std::make_shared<%s>(%s)", e.sanitizer.Ident(v.ClassName), strings.Join(args, ", "))
	case *ast.ArrayLiteral:
		els := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			els[i] = e.expr(el)
		}

		return fmt.Sprintf("{%s}", strings.Join(els, ", "))
	case *ast.ObjectLiteral:
		vals := make([]string, len(v.Properties))
		for i, p := range v.Properties {
			vals[i] = e.expr(p.Value)
		}

		name := "AnonymousStruct"
		if st, ok := v.Type().(*ast.StructType); ok {
			name = e.structName(st)
		}

		return fmt.Sprintf("%s{%s}", name, strings.Join(vals, ", "))
	case *ast.Lambda:
		return e.lambdaText(v)
	case *ast.Await:
		return fmt.Sprintf("co_await %s", e.expr(v.Operand))
	default:
		return fmt.Sprintf("/* unhandled expr %T */", x)
	}
}

func (e *Emitter) lambdaText(l *ast.Lambda) string {
	caps := make([]string, len(l.Captures))
	for i, c := range l.Captures {
		caps[i] = "&" + e.sanitizer.Ident(c.Name)
	}

	params := make([]string, len(l.Params))
	for i, p := range l.Params {
		params[i] = fmt.Sprintf("%s %s", e.typeRef(p.Type), e.sanitizer.Ident(p.Name))
	}

	name := e.sanitizer.Ident(l.SelfName)
	if name == "" {
		return fmt.Sprintf("[%s](%s) { /* %d statements */ }", strings.Join(caps, ", "), strings.Join(params, ", "), len(l.Body))
	}

	return fmt.Sprintf("/* self-referential */ [%s, &%s](%s) { /* %d statements */ }",
		strings.Join(caps, ", "), name, strings.Join(params, ", "), len(l.Body))
}

// structName resolves st to the name the registry interned it under, so an
// object-literal reference and its AnonymousStructN definition always agree.
// A struct type that was never interned (e.g. synthesized during emission)
// falls back to registering it now.
func (e *Emitter) structName(st *ast.StructType) string {
	if e.registry == nil {
		return "AnonymousStruct"
	}

	return e.registry.Intern(st).Name
}

func literalText(l *ast.Literal) string {
	switch l.Kind {
	case ast.StringLiteral:
		return fmt.Sprintf("%q", l.Value)
	case ast.NullLiteral:
		return "nullptr"
	default:
		return fmt.Sprintf("%v", l.Value)
	}
}

func binaryOpText(op ast.BinaryOp) string {
	switch op {
	case ast.Add:
		return "+"
	case ast.Sub:
		return "-"
	case ast.Mul:
		return "*"
	case ast.Div:
		return "/"
	case ast.Mod:
		return "%"
	case ast.StrictEquals:
		return "=="
	case ast.StrictNotEquals:
		return "!="
	case ast.LessThan:
		return "<"
	case ast.LessEquals:
		return "<="
	case ast.GreaterThan:
		return ">"
	case ast.GreaterEquals:
		return ">="
	case ast.LogicalAnd:
		return "&&"
	case ast.LogicalOr:
		return "||"
	default:
		return "/* op */"
	}
}

func unaryOpText(op ast.UnaryOp) string {
	switch op {
	case ast.Negate:
		return "-"
	case ast.LogicalNot:
		return "!"
	default:
		return ""
	}
}

// typeRef renders t as a pointer-shape-aware type reference (spec.md §4.6).
func (e *Emitter) typeRef(t ast.Type) string {
	switch v := ast.Underlying(t).(type) {
	case nil:
		return "void"
	case *ast.NamedType:
		base := e.sanitizer.Ident(v.Name)

		switch v.Ownership {
		case ast.Own:
			return fmt.Sprintf("std::unique_ptr<%s>", base)
		case ast.Share:
			return fmt.Sprintf("std::shared_ptr<%s>", base)
		case ast.Use:
			return fmt.Sprintf("std::weak_ptr<%s>", base)
		default:
			return base
		}
	case *ast.PrimitiveType:
		return primitiveTypeText(v.Kind)
	case *ast.ArrayType:
		return fmt.Sprintf("std::vector<%s>", e.typeRef(v.Element))
	case *ast.MapType:
		return fmt.Sprintf("std::unordered_map<%s, %s>", e.typeRef(v.Key), e.typeRef(v.Value))
	case *ast.StructType:
		return e.structName(v)
	case *ast.UnionType:
		if v.IsNullable() {
			inner := v.Variants[0]
			if _, ok := inner.(*ast.PrimitiveType); ok {
				inner = v.Variants[1]
			}

			return fmt.Sprintf("std::optional<%s>", e.typeRef(inner))
		}

		return "Variant"
	case *ast.IntersectionType:
		return "Intersection"
	case *ast.FunctionType:
		return "std::function<void()>"
	case *ast.PromiseType:
		return fmt.Sprintf("Task<%s>", e.typeRef(v.Result))
	default:
		return "/* ? */"
	}
}

func (e *Emitter) retTypeRef(t ast.Type) string {
	if t == nil {
		return "void"
	}

	return e.typeRef(t)
}

func primitiveTypeText(k ast.PrimitiveKind) string {
	switch k {
	case ast.Number:
		return "double"
	case ast.Integer, ast.Integer53:
		return "int64_t"
	case ast.String:
		return "std::string"
	case ast.Boolean:
		return "bool"
	case ast.Void:
		return "void"
	case ast.Never:
		return "[[noreturn]] void"
	case ast.Null:
		return "std::nullptr_t"
	default:
		return "auto"
	}
}
