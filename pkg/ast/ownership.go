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

// Ownership is the qualifier attached to named types, structs, arrays and
// maps: own<T>, share<T>, use<T>, or the implicit by-value default.
// Ownership is preserved exactly as written (spec.md invariant 4) — the
// Lowerer never rewrites it silently.
type Ownership uint8

const (
	// Own marks a uniquely-owned reference (own<T>).
	Own Ownership = iota
	// Share marks a shared, reference-counted reference (share<T>); these
	// are the only edges the OwnershipAnalyzer's share-graph tracks.
	Share
	// Use marks a non-owning, borrowed reference (use<T>); constrained by
	// the NullSafetyAnalyzer to parameters and locals only.
	Use
	// Value is the by-value default for primitives and, absent an explicit
	// marker, containers.
	Value
)

// String renders the ownership qualifier the way it appears in source.
func (o Ownership) String() string {
	switch o {
	case Own:
		return "own"
	case Share:
		return "share"
	case Use:
		return "use"
	default:
		return "value"
	}
}
