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

import "testing"

func TestStaticOracle_ResolveTypeDistinguishesClassFromInterface(t *testing.T) {
	o := NewStaticOracle()
	o.DeclareClass("Node")
	o.DeclareInterface("Shape")

	class, ok := o.ResolveType("Node", Value, nil)
	if !ok {
		t.Fatalf("expected Node to resolve")
	}

	named, ok := class.(*NamedType)
	if !ok || named.Kind != ClassRef {
		t.Fatalf("expected a ClassRef NamedType, got %#v", class)
	}

	iface, ok := o.ResolveType("Shape", Value, nil)
	if !ok {
		t.Fatalf("expected Shape to resolve")
	}

	namedIface, ok := iface.(*NamedType)
	if !ok || namedIface.Kind != InterfaceRef {
		t.Fatalf("expected an InterfaceRef NamedType, got %#v", iface)
	}
}

func TestStaticOracle_ResolveTypeUnknownNameFails(t *testing.T) {
	o := NewStaticOracle()

	if _, ok := o.ResolveType("Ghost", Value, nil); ok {
		t.Fatalf("expected an undeclared name to fail resolution")
	}
}

func TestStaticOracle_DefaultClassOwnershipByMemoryMode(t *testing.T) {
	o := NewStaticOracle()

	if got := o.DefaultClassOwnership(Ownership); got != Own {
		t.Fatalf("expected Own under the ownership runtime, got %v", got)
	}

	if got := o.DefaultClassOwnership(GC); got != Share {
		t.Fatalf("expected Share under the tracing collector, got %v", got)
	}
}

func TestStaticOracle_LookupAlias(t *testing.T) {
	o := NewStaticOracle()
	o.DeclareAlias("Id", &PrimitiveType{Kind: Integer})

	aliased, ok := o.LookupAlias("Id")
	if !ok {
		t.Fatalf("expected Id to resolve as a declared alias")
	}

	prim, ok := aliased.(*PrimitiveType)
	if !ok || prim.Kind != Integer {
		t.Fatalf("expected Id to alias integer, got %#v", aliased)
	}

	if _, ok := o.LookupAlias("Missing"); ok {
		t.Fatalf("expected an undeclared alias name to fail")
	}
}
