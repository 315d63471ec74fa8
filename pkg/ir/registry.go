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
package ir

import (
	"fmt"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/util"
)

// StructRegistry interns anonymous struct types to a single emitted
// definition per unique signature (spec.md invariant 3). A Pipeline creates
// one registry and shares it between the Lowerer and the emitter for every
// module it compiles; it does not Clear it between modules, so a module's
// emitted output also includes structs interned while compiling earlier
// modules.
//
// Iteration order over registered structs is insertion order, never hash
// order, per the determinism requirement in spec.md §9.
type StructRegistry struct {
	bySig *util.OrderedMap[string, *InternedStruct]
	next  int
}

// InternedStruct is one uniquely-named anonymous struct definition.
type InternedStruct struct {
	Name string // "AnonymousStructN"
	Type *ast.StructType
}

// NewStructRegistry constructs an empty registry.
func NewStructRegistry() *StructRegistry {
	return &StructRegistry{bySig: util.NewOrderedMap[string, *InternedStruct]()}
}

// Intern returns the canonical name for the given struct type, registering
// a new AnonymousStructN definition the first time a given signature is
// seen and reusing it for every subsequent structurally-equal struct.
func (r *StructRegistry) Intern(t *ast.StructType) *InternedStruct {
	sig := t.Signature()
	if existing, ok := r.bySig.Get(sig); ok {
		return existing
	}

	s := &InternedStruct{Name: fmt.Sprintf("AnonymousStruct%d", r.next), Type: t}
	r.next++
	r.bySig.Put(sig, s)

	return s
}

// All returns every interned struct in the order first encountered, so
// emitted output is byte-stable across runs.
func (r *StructRegistry) All() []*InternedStruct {
	out := make([]*InternedStruct, 0, r.bySig.Len())

	for _, k := range r.bySig.Keys() {
		v, _ := r.bySig.Get(k)
		out = append(out, v)
	}

	return out
}

// Clear resets the registry, as required between modules.
func (r *StructRegistry) Clear() {
	r.bySig = util.NewOrderedMap[string, *InternedStruct]()
	r.next = 0
}
