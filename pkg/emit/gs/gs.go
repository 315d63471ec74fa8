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

// Package gs is the same-language Emitter: a pretty-printer that renders a
// lowered module back into the source surface syntax, with every inferred
// capture, struct interning, and async marker now explicit (spec.md §4.6).
package gs

import (
	"fmt"
	"strings"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/diag"
	"github.com/fcapolini/goodscript-sub000/pkg/emit"
	"github.com/fcapolini/goodscript-sub000/pkg/ir"
)

// keywords is the same-language reserved-word set; the sanitizer never
// needs to fire in practice (the parser already rejects keyword-named
// bindings) but is kept for contract symmetry with pkg/emit/clow.
var keywords = []string{
	"own", "share", "use", "class", "interface", "function", "let", "const",
	"if", "else", "while", "for", "return", "throw", "try", "catch",
	"finally", "await", "async", "new", "type", "import", "from",
}

// Emitter is the gs backend.
type Emitter struct {
	sanitizer *emit.Sanitizer
	registry  *ir.StructRegistry
}

// New constructs a gs Emitter.
func New() *Emitter {
	return &Emitter{sanitizer: emit.NewSanitizer(keywords)}
}

// EmitModule implements emit.Emitter.
func (e *Emitter) EmitModule(m *ast.Module, registry *ir.StructRegistry, mode ast.MemoryMode, sourceMap bool) (string, error) {
	e.registry = registry

	var b strings.Builder

	for _, imp := range m.Imports {
		e.emitImport(&b, imp)
	}

	if len(m.Imports) > 0 {
		b.WriteString("\n")
	}

	for _, s := range registry.All() {
		e.emitStructComment(&b, s)
	}

	for _, d := range m.Declarations {
		if err := e.emitDecl(&b, d, sourceMap); err != nil {
			return "", err
		}
	}

	if len(m.InitStatements) > 0 {
		for _, s := range m.InitStatements {
			if err := e.emitStatement(&b, "", s, sourceMap); err != nil {
				return "", err
			}
		}
	}

	return b.String(), nil
}

func (e *Emitter) emitImport(b *strings.Builder, imp ast.Import) {
	names := make([]string, len(imp.Names))

	for i, n := range imp.Names {
		if n.Alias != "" {
			names[i] = fmt.Sprintf("%s as %s", n.Name, n.Alias)
		} else {
			names[i] = n.Name
		}
	}

	fmt.Fprintf(b, "from %s import (%s)\n", imp.From, strings.Join(names, ", "))
}

// emitStructComment documents the canonical name an interned anonymous
// struct shape was assigned, so emitted object literals referencing it read
// as deliberate rather than coincidental.
func (e *Emitter) emitStructComment(b *strings.Builder, s *ir.InternedStruct) {
	fmt.Fprintf(b, "// %s = %s\n", s.Name, s.Type.String())
}

func (e *Emitter) emitDecl(b *strings.Builder, d ast.Declaration, sourceMap bool) error {
	switch decl := d.(type) {
	case *ast.FunctionDecl:
		return e.emitFunction(b, "", "function", decl.Name, decl.Params, decl.ReturnType, decl.Body, decl.Async, sourceMap)
	case *ast.ClassDecl:
		return e.emitClass(b, decl, sourceMap)
	case *ast.InterfaceDecl:
		e.emitInterface(b, decl)
		return nil
	case *ast.TypeAliasDecl:
		fmt.Fprintf(b, "type %s = %s\n\n", decl.Name, e.typeText(decl.Aliased))
		return nil
	case *ast.ConstDecl:
		fmt.Fprintf(b, "const %s: %s = %s\n\n", decl.Name, e.typeText(decl.Type), e.expr(decl.Initializer))
		return nil
	default:
		return &emit.InternalError{Message: fmt.Sprintf("gs: unhandled declaration %T", d)}
	}
}

func (e *Emitter) emitClass(b *strings.Builder, decl *ast.ClassDecl, sourceMap bool) error {
	header := "class " + decl.Name

	if decl.HasExtends() {
		header += " extends " + decl.Extends
	}

	if len(decl.Implements) > 0 {
		header += " implements " + strings.Join(decl.Implements, ", ")
	}

	fmt.Fprintf(b, "%s {\n", header)

	for _, f := range decl.Fields {
		ro := ""
		if f.IsReadonly {
			ro = "readonly "
		}

		fmt.Fprintf(b, "\t%s%s: %s", ro, f.Name, e.typeText(f.Type))

		if f.Initializer != nil {
			fmt.Fprintf(b, " = %s", e.expr(f.Initializer))
		}

		b.WriteString("\n")
	}

	if decl.Constructor != nil {
		if err := e.emitFunction(b, "\t", "constructor", "", decl.Constructor.Params, nil, decl.Constructor.Body, false, sourceMap); err != nil {
			return err
		}
	}

	for i := range decl.Methods {
		m := &decl.Methods[i]

		kw := "function"
		if m.Async {
			kw = "async function"
		}

		if err := e.emitFunction(b, "\t", kw, m.Name, m.Params, m.ReturnType, m.Body, false, sourceMap); err != nil {
			return err
		}
	}

	b.WriteString("}\n\n")

	return nil
}

func (e *Emitter) emitInterface(b *strings.Builder, decl *ast.InterfaceDecl) {
	header := "interface " + decl.Name

	if len(decl.Extends) > 0 {
		header += " extends " + strings.Join(decl.Extends, ", ")
	}

	fmt.Fprintf(b, "%s {\n", header)

	for _, p := range decl.Properties {
		fmt.Fprintf(b, "\t%s: %s\n", p.Name, e.typeText(p.Type))
	}

	for _, m := range decl.Methods {
		parts := make([]string, len(m.Params))
		for i, p := range m.Params {
			parts[i] = fmt.Sprintf("%s: %s", p.Name, e.typeText(p.Type))
		}

		fmt.Fprintf(b, "\t%s(%s): %s\n", m.Name, strings.Join(parts, ", "), e.retTypeText(m.ReturnType))
	}

	b.WriteString("}\n\n")
}

func (e *Emitter) emitFunction(
	b *strings.Builder, indent, keyword, name string, params []ast.Param, ret ast.Type,
	body []ast.Statement, async bool, sourceMap bool,
) error {
	if sourceMap {
		if dir := emit.SourceMapDirective(indent+"//", diag.Location{}); dir != "" {
			b.WriteString(dir)
		}
	}

	if async {
		keyword = "async " + keyword
	}

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, e.typeText(p.Type))
	}

	header := fmt.Sprintf("%s%s %s(%s)", indent, keyword, name, strings.Join(parts, ", "))
	if ret != nil {
		header += ": " + e.retTypeText(ret)
	}

	fmt.Fprintf(b, "%s {\n", header)

	for _, s := range body {
		if err := e.emitStatement(b, indent+"\t", s, sourceMap); err != nil {
			return err
		}
	}

	fmt.Fprintf(b, "%s}\n\n", indent)

	return nil
}

func (e *Emitter) emitStatement(b *strings.Builder, indent string, s ast.Statement, sourceMap bool) error {
	switch st := s.(type) {
	case *ast.VariableDeclaration:
		kw := "let"
		if !st.Mutable {
			kw = "const"
		}

		fmt.Fprintf(b, "%s%s %s: %s", indent, kw, st.Name, e.typeText(st.Type))

		if st.Initializer != nil {
			fmt.Fprintf(b, " = %s", e.expr(st.Initializer))
		}

		b.WriteString("\n")
	case *ast.Assignment:
		fmt.Fprintf(b, "%s%s = %s\n", indent, e.expr(st.Target), e.expr(st.Value))
	case *ast.ExpressionStatement:
		prefix := ""
		if call, ok := st.Expr.(*ast.Call); ok && call.SyncAwait {
			prefix = "await "
		}

		fmt.Fprintf(b, "%s%s%s\n", indent, prefix, e.expr(st.Expr))
	case *ast.Return:
		if st.Value == nil {
			fmt.Fprintf(b, "%sreturn\n", indent)
		} else {
			fmt.Fprintf(b, "%sreturn %s\n", indent, e.expr(st.Value))
		}
	case *ast.Throw:
		fmt.Fprintf(b, "%sthrow %s\n", indent, e.expr(st.Expr))
	case *ast.If:
		fmt.Fprintf(b, "%sif (%s) {\n", indent, e.expr(st.Cond))

		for _, c := range st.Then {
			if err := e.emitStatement(b, indent+"\t", c, sourceMap); err != nil {
				return err
			}
		}

		fmt.Fprintf(b, "%s}", indent)

		if len(st.Else) > 0 {
			b.WriteString(" else {\n")

			for _, c := range st.Else {
				if err := e.emitStatement(b, indent+"\t", c, sourceMap); err != nil {
					return err
				}
			}

			fmt.Fprintf(b, "%s}", indent)
		}

		b.WriteString("\n")
	case *ast.While:
		fmt.Fprintf(b, "%swhile (%s) {\n", indent, e.expr(st.Cond))

		for _, c := range st.Body {
			if err := e.emitStatement(b, indent+"\t", c, sourceMap); err != nil {
				return err
			}
		}

		fmt.Fprintf(b, "%s}\n", indent)
	case *ast.For:
		fmt.Fprintf(b, "%sfor (; %s;) {\n", indent, e.expr(st.Cond))

		for _, c := range st.Body {
			if err := e.emitStatement(b, indent+"\t", c, sourceMap); err != nil {
				return err
			}
		}

		fmt.Fprintf(b, "%s}\n", indent)
	case *ast.ForOf:
		fmt.Fprintf(b, "%sfor (%s of %s) {\n", indent, st.VariableName, e.expr(st.Iterable))

		for _, c := range st.Body {
			if err := e.emitStatement(b, indent+"\t", c, sourceMap); err != nil {
				return err
			}
		}

		fmt.Fprintf(b, "%s}\n", indent)
	case *ast.Try:
		b.WriteString(indent + "try {\n")

		for _, c := range st.TryBlock {
			if err := e.emitStatement(b, indent+"\t", c, sourceMap); err != nil {
				return err
			}
		}

		fmt.Fprintf(b, "%s}", indent)

		if st.Catch != nil {
			fmt.Fprintf(b, " catch (%s: %s) {\n", st.Catch.ParamName, e.typeText(st.Catch.ParamType))

			for _, c := range st.Catch.Body {
				if err := e.emitStatement(b, indent+"\t", c, sourceMap); err != nil {
					return err
				}
			}

			fmt.Fprintf(b, "%s}", indent)
		}

		if len(st.FinallyBlock) > 0 {
			b.WriteString(" finally {\n")

			for _, c := range st.FinallyBlock {
				if err := e.emitStatement(b, indent+"\t", c, sourceMap); err != nil {
					return err
				}
			}

			fmt.Fprintf(b, "%s}", indent)
		}

		b.WriteString("\n")
	case *ast.Switch:
		fmt.Fprintf(b, "%sswitch (%s) {\n", indent, e.expr(st.Discriminant))

		for _, c := range st.Cases {
			if c.Test == nil {
				fmt.Fprintf(b, "%sdefault:\n", indent)
			} else {
				fmt.Fprintf(b, "%scase %s:\n", indent, e.expr(c.Test))
			}

			for _, body := range c.Body {
				if err := e.emitStatement(b, indent+"\t", body, sourceMap); err != nil {
					return err
				}
			}
		}

		fmt.Fprintf(b, "%s}\n", indent)
	case *ast.Block:
		b.WriteString(indent + "{\n")

		for _, c := range st.Statements {
			if err := e.emitStatement(b, indent+"\t", c, sourceMap); err != nil {
				return err
			}
		}

		fmt.Fprintf(b, "%s}\n", indent)
	case *ast.Break:
		fmt.Fprintf(b, "%sbreak\n", indent)
	case *ast.Continue:
		fmt.Fprintf(b, "%scontinue\n", indent)
	case *ast.FunctionDeclStmt:
		return e.emitFunction(b, indent, "function", st.Decl.Name, st.Decl.Params, st.Decl.ReturnType, st.Decl.Body, st.Decl.Async, sourceMap)
	default:
		return &emit.InternalError{Message: fmt.Sprintf("gs: unhandled statement %T", s)}
	}

	return nil
}

func (e *Emitter) expr(x ast.Expression) string {
	switch v := x.(type) {
	case *ast.Literal:
		return literalText(v)
	case *ast.Identifier:
		return v.Name
	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", e.expr(v.Left), binaryOpText(v.Op), e.expr(v.Right))
	case *ast.Unary:
		return fmt.Sprintf("(%s%s)", unaryOpText(v.Op), e.expr(v.Operand))
	case *ast.Conditional:
		return fmt.Sprintf("(%s ? %s : %s)", e.expr(v.Cond), e.expr(v.Then), e.expr(v.Else))
	case *ast.MemberAccess:
		op := "."
		if v.Optional {
			op = "?."
		}

		return fmt.Sprintf("%s%s%s", e.expr(v.Object), op, v.Member)
	case *ast.IndexAccess:
		return fmt.Sprintf("%s[%s]", e.expr(v.Object), e.expr(v.Index))
	case *ast.AssignmentExpr:
		return fmt.Sprintf("(%s = %s)", e.expr(v.Left), e.expr(v.Right))
	case *ast.Call:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = e.expr(a)
		}

		return fmt.Sprintf("%s(%s)", e.expr(v.Callee), strings.Join(args, ", "))
	case *ast.NewExpression:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = e.expr(a)
		}

		return fmt.Sprintf("new %s(%s)", v.ClassName, strings.Join(args, ", "))
	case *ast.ArrayLiteral:
		els := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			els[i] = e.expr(el)
		}

		return fmt.Sprintf("[%s]", strings.Join(els, ", "))
	case *ast.ObjectLiteral:
		parts := make([]string, len(v.Properties))
		for i, p := range v.Properties {
			parts[i] = fmt.Sprintf("%s: %s", p.Name, e.expr(p.Value))
		}

		name := ""
		if st, ok := v.Type().(*ast.StructType); ok {
			name = "/* " + e.structName(st) + " */ "
		}

		return fmt.Sprintf("%s{%s}", name, strings.Join(parts, ", "))
	case *ast.Lambda:
		return e.lambdaText(v)
	case *ast.Await:
		return fmt.Sprintf("await %s", e.expr(v.Operand))
	default:
		return fmt.Sprintf("/* unhandled expr %T */", x)
	}
}

func (e *Emitter) lambdaText(l *ast.Lambda) string {
	params := make([]string, len(l.Params))
	for i, p := range l.Params {
		params[i] = fmt.Sprintf("%s: %s", p.Name, e.typeText(p.Type))
	}

	capNames := make([]string, len(l.Captures))
	for i, c := range l.Captures {
		capNames[i] = c.Name
	}

	prefix := ""
	if len(capNames) > 0 {
		prefix = fmt.Sprintf("/* captures: %s */ ", strings.Join(capNames, ", "))
	}

	kw := ""
	if l.Async {
		kw = "async "
	}

	return fmt.Sprintf("%s%s(%s) => { /* %d statements */ }", prefix, kw, strings.Join(params, ", "), len(l.Body))
}

// structName resolves st to its registry-interned name, matching the
// canonical name documented in the header comment this Emitter writes for
// every registry entry.
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
		return "null"
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
		return "==="
	case ast.StrictNotEquals:
		return "!=="
	case ast.LooseEquals:
		return "=="
	case ast.LooseNotEquals:
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
	case ast.Void:
		return "void "
	default:
		return ""
	}
}

// typeText renders t the way it would appear in source, with ownership
// qualifiers preserved exactly as written (spec.md invariant 4) rather than
// resolved through Underlying — an alias reference is emitted by name.
func (e *Emitter) typeText(t ast.Type) string {
	if t == nil {
		return "void"
	}

	if st, ok := t.(*ast.StructType); ok {
		return e.structName(st)
	}

	return t.String()
}

func (e *Emitter) retTypeText(t ast.Type) string {
	return e.typeText(t)
}
