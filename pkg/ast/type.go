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

import "strings"

// Type is the sum of every type-level construct the source language admits.
// Following the re-architecture note in spec.md §9 ("tagged variants over
// dispatch-class hierarchies"), each variant below is a distinct struct and
// Type is a closed interface: the unexported isType marker keeps types
// outside this package from satisfying it, so an exhaustive type switch
// here is a compile-time-checkable closed match, not virtual dispatch.
type Type interface {
	isType()
	// String renders the type the way it would appear in a diagnostic
	// message or an emitted comment.
	String() string
}

// PrimitiveKind enumerates the primitive type kinds.
type PrimitiveKind uint8

const (
	// Number is the general floating-point numeric type.
	Number PrimitiveKind = iota
	// Integer is a native machine integer.
	Integer
	// Integer53 is an integer guaranteed to round-trip through the
	// runtime's double-precision numeric representation.
	Integer53
	// String is the UTF-8 string type.
	String
	// Boolean is the two-valued boolean type.
	Boolean
	// Void is the "no value" return type.
	Void
	// Never is the uninhabited type (e.g. the type of a function that
	// always throws).
	Never
	// Null is the singleton null type; it only ever appears as a variant
	// inside a union, produced by NewNullable.
	Null
)

var primitiveNames = map[PrimitiveKind]string{
	Number: "number", Integer: "integer", Integer53: "integer53",
	String: "string", Boolean: "boolean", Void: "void", Never: "never",
	Null: "null",
}

// PrimitiveType is a primitive(kind) type.
type PrimitiveType struct {
	Kind PrimitiveKind
}

func (*PrimitiveType) isType() {}

func (t *PrimitiveType) String() string { return primitiveNames[t.Kind] }

// NamedKind distinguishes a named(...) type referring to a class from one
// referring to an interface.
type NamedKind uint8

const (
	// ClassRef marks a named type resolving to a class declaration.
	ClassRef NamedKind = iota
	// InterfaceRef marks a named type resolving to an interface
	// declaration.
	InterfaceRef
)

// NamedType is a named(name, ownership, type_args?) type referring to a
// declared class or interface.
type NamedType struct {
	Name      string
	Kind      NamedKind
	Ownership Ownership
	TypeArgs  []Type
}

func (*NamedType) isType() {}

func (t *NamedType) String() string {
	var b strings.Builder

	if t.Ownership != Value {
		b.WriteString(t.Ownership.String())
		b.WriteByte('<')
		b.WriteString(t.Name)
		b.WriteByte('>')
	} else {
		b.WriteString(t.Name)
	}

	if len(t.TypeArgs) > 0 {
		b.WriteByte('<')

		for i, a := range t.TypeArgs {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(a.String())
		}

		b.WriteByte('>')
	}

	return b.String()
}

// StructField is one field of an anonymous struct type.
type StructField struct {
	Name string
	Type Type
}

// StructType is an anonymous record type (struct(fields, ownership)).
// Two struct types are structurally identical when their sorted
// (name, type-signature) sets match (spec.md invariant 3); Signature
// computes the canonical form the emitter's struct registry interns on.
type StructType struct {
	Fields    []StructField
	Ownership Ownership
}

func (*StructType) isType() {}

func (t *StructType) String() string {
	var b strings.Builder

	b.WriteByte('{')

	for i, f := range t.Fields {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Type.String())
	}

	b.WriteByte('}')

	return b.String()
}

// Signature returns the canonical, sort-order-independent signature used to
// intern structurally-equal anonymous structs to a single emitted
// definition.  Field order in Fields is preserved for emission, but the
// signature sorts by name so that {x,y} and {y,x} with matching field types
// compare equal.
func (t *StructType) Signature() string {
	names := make([]string, len(t.Fields))
	byName := make(map[string]string, len(t.Fields))

	for i, f := range t.Fields {
		names[i] = f.Name
		byName[f.Name] = f.Type.String()
	}

	sortStrings(names)

	var b strings.Builder

	for i, n := range names {
		if i > 0 {
			b.WriteByte(';')
		}

		b.WriteString(n)
		b.WriteByte(':')
		b.WriteString(byName[n])
	}

	return b.String()
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// ArrayType is an array(element, ownership) type.
type ArrayType struct {
	Element   Type
	Ownership Ownership
}

func (*ArrayType) isType() {}

func (t *ArrayType) String() string { return "Array<" + t.Element.String() + ">" }

// MapType is a map(key, value, ownership) type.
type MapType struct {
	Key, Value Type
	Ownership  Ownership
}

func (*MapType) isType() {}

func (t *MapType) String() string {
	return "Map<" + t.Key.String() + ", " + t.Value.String() + ">"
}

// UnionType is a union(variants) type, in declared order.
type UnionType struct {
	Variants []Type
}

func (*UnionType) isType() {}

func (t *UnionType) String() string {
	parts := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		parts[i] = v.String()
	}

	return strings.Join(parts, " | ")
}

// IsNullable reports whether this union is the nullable(inner) sugar form:
// exactly one Null variant alongside the inner type.
func (t *UnionType) IsNullable() bool {
	if len(t.Variants) != 2 {
		return false
	}

	for _, v := range t.Variants {
		if p, ok := v.(*PrimitiveType); ok && p.Kind == Null {
			return true
		}
	}

	return false
}

// NewNullable constructs the union(inner, null) sugar form described in
// spec.md's data model.
func NewNullable(inner Type) *UnionType {
	return &UnionType{Variants: []Type{inner, &PrimitiveType{Kind: Null}}}
}

// IntersectionType is an intersection(members) type, in declared order.
type IntersectionType struct {
	Members []Type
}

func (*IntersectionType) isType() {}

func (t *IntersectionType) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}

	return strings.Join(parts, " & ")
}

// FunctionType is a function(params, return_type) type.
type FunctionType struct {
	Params []Type
	Return Type
}

func (*FunctionType) isType() {}

func (t *FunctionType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}

	return "(" + strings.Join(parts, ", ") + ") => " + t.Return.String()
}

// PromiseType is an async result carrier, promise(result_type).
type PromiseType struct {
	Result Type
}

func (*PromiseType) isType() {}

func (t *PromiseType) String() string { return "Promise<" + t.Result.String() + ">" }

// AliasType is a cached type-alias resolution: type_alias(name, resolved).
// The alias identity (Name) is preserved alongside the Resolved form so
// diagnostics can refer to the alias as written (spec.md invariant 2).
type AliasType struct {
	Name     string
	Resolved Type
}

func (*AliasType) isType() {}

func (t *AliasType) String() string { return t.Name }

// Underlying follows alias chains down to the first non-alias type. Used
// wherever a pass needs the structural shape rather than the surface name.
func Underlying(t Type) Type {
	for {
		a, ok := t.(*AliasType)
		if !ok {
			return t
		}

		t = a.Resolved
	}
}

// OwnershipOf returns the ownership qualifier carried by a type, or Value
// for types (primitives, unions, …) that have no ownership marker of their
// own.
func OwnershipOf(t Type) Ownership {
	switch v := Underlying(t).(type) {
	case *NamedType:
		return v.Ownership
	case *StructType:
		return v.Ownership
	case *ArrayType:
		return v.Ownership
	case *MapType:
		return v.Ownership
	default:
		return Value
	}
}
