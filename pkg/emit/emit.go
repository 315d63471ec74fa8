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

// Package emit defines the backend-independent Emitter contract (spec.md
// §4.6) and the helpers every concrete emitter shares: identifier
// sanitation and source-map directive formatting.
package emit

import (
	"fmt"

	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/diag"
	"github.com/fcapolini/goodscript-sub000/pkg/ir"
)

// Emitter is a pure function from a lowered module (plus the struct
// registry shared across the compilation) to emitted source text. Two
// emitters satisfy it: pkg/emit/clow (a low-level C-family backend) and
// pkg/emit/gs (a same-language backend).
type Emitter interface {
	// EmitModule renders one module's declarations and init statements.
	// sourceMap requests a `(file, line)` directive ahead of every emitted
	// function and top-level statement. The clow and gs emitters pass no
	// location to SourceMapDirective, so they write no directive.
	EmitModule(m *ast.Module, registry *ir.StructRegistry, mode ast.MemoryMode, sourceMap bool) (string, error)
}

// Sanitizer appends an underscore to any identifier clashing with a
// reserved keyword, per-backend (spec.md §4.6). Member accesses only ever
// consult the keyword set, never a library-name set, since a field name
// shadowing a library type is safe inside a member chain.
type Sanitizer struct {
	Keywords map[string]bool
}

// NewSanitizer builds a Sanitizer over the given reserved-word list.
func NewSanitizer(keywords []string) *Sanitizer {
	m := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		m[k] = true
	}

	return &Sanitizer{Keywords: m}
}

// Ident sanitizes a top-level or local identifier.
func (s *Sanitizer) Ident(name string) string {
	if s.Keywords[name] {
		return name + "_"
	}

	return name
}

// Member sanitizes a member-access name; by contract it never consults a
// library-name set, only the keyword set (spec.md §4.6).
func (s *Sanitizer) Member(name string) string {
	return s.Ident(name)
}

// SourceMapDirective formats the `(file, line)` comment an emitter
// prepends to a function or top-level statement when source maps are
// requested. A location with no file (such as the zero Location) is
// rendered as an empty string: emitting a directive for "no location" would
// be misleading.
func SourceMapDirective(prefix string, loc diag.Location) string {
	if loc.File == "" {
		return ""
	}

	return fmt.Sprintf("%s sourcemap %s:%d\n", prefix, loc.File, loc.Line)
}

// InternalError reports an emitter-side compiler bug: an IR shape the
// emitter was never meant to see past Validator/Lowerer/NullSafetyAnalyzer
// (spec.md §7 — halting is always appropriate for an internal error).
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string { return e.Message }
