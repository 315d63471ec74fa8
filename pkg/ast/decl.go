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

// Declaration is the sum of every top-level declaration kind a Module can
// contain.
type Declaration interface {
	isDecl()
	DeclName() string
	Location() diag.Location
}

type declBase struct {
	Name string
	Loc  diag.Location
}

func (d *declBase) isDecl()                 {}
func (d *declBase) DeclName() string        { return d.Name }
func (d *declBase) Location() diag.Location { return d.Loc }

// FunctionDecl is a top-level (or nested) function declaration.
type FunctionDecl struct {
	declBase
	TypeParams []string
	Params     []Param
	ReturnType Type
	Body       []Statement
	Async      bool
}

// NewFunctionDecl constructs a function declaration.
func NewFunctionDecl(name string, typeParams []string, params []Param, ret Type, body []Statement, async bool, loc diag.Location) *FunctionDecl {
	return &FunctionDecl{
		declBase:   declBase{Name: name, Loc: loc},
		TypeParams: typeParams,
		Params:     params,
		ReturnType: ret,
		Body:       body,
		Async:      async,
	}
}

// FieldDecl is one field of a ClassDecl.
type FieldDecl struct {
	Name        string
	Type        Type
	IsReadonly  bool
	Initializer Expression
}

// ConstructorDecl is the optional constructor of a ClassDecl.
type ConstructorDecl struct {
	Params []Param
	Body   []Statement
}

// MethodDecl is one method of a ClassDecl.
type MethodDecl struct {
	Name       string
	Params     []Param
	ReturnType Type
	IsStatic   bool
	Async      bool
	Body       []Statement
	Loc        diag.Location
}

// ClassDecl is a nominal class declaration.
type ClassDecl struct {
	declBase
	TypeParams  []string
	Extends     string // empty when absent
	Implements  []string
	Fields      []FieldDecl
	Constructor *ConstructorDecl
	Methods     []MethodDecl
}

// HasExtends reports whether this class declares a superclass.
func (c *ClassDecl) HasExtends() bool { return c.Extends != "" }

// NewClassDecl constructs a class declaration.
func NewClassDecl(
	name string, typeParams []string, extends string, implements []string,
	fields []FieldDecl, ctor *ConstructorDecl, methods []MethodDecl, loc diag.Location,
) *ClassDecl {
	return &ClassDecl{
		declBase:    declBase{Name: name, Loc: loc},
		TypeParams:  typeParams,
		Extends:     extends,
		Implements:  implements,
		Fields:      fields,
		Constructor: ctor,
		Methods:     methods,
	}
}

// PropertyDecl is one property of an InterfaceDecl.
type PropertyDecl struct {
	Name string
	Type Type
}

// InterfaceMethodDecl is one method signature of an InterfaceDecl.
type InterfaceMethodDecl struct {
	Name       string
	Params     []Param
	ReturnType Type
}

// InterfaceDecl is a nominal interface declaration.
type InterfaceDecl struct {
	declBase
	TypeParams []string
	Extends    []string
	Properties []PropertyDecl
	Methods    []InterfaceMethodDecl
}

// NewInterfaceDecl constructs an interface declaration.
func NewInterfaceDecl(
	name string, typeParams []string, extends []string,
	properties []PropertyDecl, methods []InterfaceMethodDecl, loc diag.Location,
) *InterfaceDecl {
	return &InterfaceDecl{
		declBase:   declBase{Name: name, Loc: loc},
		TypeParams: typeParams,
		Extends:    extends,
		Properties: properties,
		Methods:    methods,
	}
}

// TypeAliasDecl is a `type Name<...> = <type>` declaration.  Alias
// declarations populate the Lowerer's module-scoped alias map; references to
// the alias wrap the resolved type in an *AliasType carrier (spec.md §4.2).
type TypeAliasDecl struct {
	declBase
	TypeParams []string
	Aliased    Type
}

// NewTypeAliasDecl constructs a type-alias declaration.
func NewTypeAliasDecl(name string, typeParams []string, aliased Type, loc diag.Location) *TypeAliasDecl {
	return &TypeAliasDecl{declBase: declBase{Name: name, Loc: loc}, TypeParams: typeParams, Aliased: aliased}
}

// ConstDecl is a top-level constant declaration.
type ConstDecl struct {
	declBase
	Type        Type
	Initializer Expression
}

// NewConstDecl constructs a top-level constant declaration.
func NewConstDecl(name string, t Type, initializer Expression, loc diag.Location) *ConstDecl {
	return &ConstDecl{declBase: declBase{Name: name, Loc: loc}, Type: t, Initializer: initializer}
}

// ImportedName is one imported binding within an Import clause.
type ImportedName struct {
	Name  string
	Alias string // empty when no alias given
}

// Import is a module's `from X import (a, b as c)` clause.
type Import struct {
	From  string
	Names []ImportedName
}

// Module is a named compilation unit: an ordered sequence of declarations,
// an ordered sequence of imports, and the ordered top-level statements that
// form the program entry point when this module is the entry module
// (spec.md §3, "Init statements").
//
// Modules are created once by the Lowerer per source file and are immutable
// thereafter (spec.md, "Lifecycles").
type Module struct {
	Path           string
	Imports        []Import
	Declarations   []Declaration
	InitStatements []Statement
}
