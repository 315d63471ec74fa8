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

// StaticOracle is a SymbolOracle backed by a fixed, explicitly-declared
// table of class/interface/alias names. It stands in for the host
// toolchain's real parser/typechecker (spec.md §1) wherever a caller already
// knows the full symbol table up front — the CLI's JSON module loader is the
// only caller in this repository.
type StaticOracle struct {
	classes     map[string]bool
	interfaces  map[string]bool
	aliases     map[string]Type
	defaultMode MemoryMode
}

// NewStaticOracle constructs an empty StaticOracle.
func NewStaticOracle() *StaticOracle {
	return &StaticOracle{
		classes:    make(map[string]bool),
		interfaces: make(map[string]bool),
		aliases:    make(map[string]Type),
	}
}

// DeclareClass registers name as a known class.
func (o *StaticOracle) DeclareClass(name string) { o.classes[name] = true }

// DeclareInterface registers name as a known interface.
func (o *StaticOracle) DeclareInterface(name string) { o.interfaces[name] = true }

// DeclareAlias registers name as a known type alias resolving to aliased.
func (o *StaticOracle) DeclareAlias(name string, aliased Type) { o.aliases[name] = aliased }

// ResolveType interprets name against the declared class/interface table.
// Primitive names never reach here (pkg/serial decodes them directly), so an
// unrecognized name is always a genuinely undeclared symbol.
func (o *StaticOracle) ResolveType(name string, ownership Ownership, typeArgs []Type) (Type, bool) {
	if o.classes[name] {
		return &NamedType{Name: name, Kind: ClassRef, Ownership: ownership, TypeArgs: typeArgs}, true
	}

	if o.interfaces[name] {
		return &NamedType{Name: name, Kind: InterfaceRef, Ownership: ownership, TypeArgs: typeArgs}, true
	}

	return nil, false
}

// LookupAlias returns the declared aliased type for name, if any.
func (o *StaticOracle) LookupAlias(name string) (Type, bool) {
	t, ok := o.aliases[name]
	return t, ok
}

// IsClass reports whether name was declared via DeclareClass.
func (o *StaticOracle) IsClass(name string) bool { return o.classes[name] }

// IsInterface reports whether name was declared via DeclareInterface.
func (o *StaticOracle) IsInterface(name string) bool { return o.interfaces[name] }

// DefaultClassOwnership returns Share under the tracing collector and Own
// under the ownership runtime, the default policy spec.md §4.2 and §9
// document for an unmarked class-typed position.
func (o *StaticOracle) DefaultClassOwnership(memoryMode MemoryMode) Ownership {
	if memoryMode == Ownership {
		return Own
	}

	return Share
}
