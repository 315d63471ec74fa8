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
package compiler

import (
	"github.com/fcapolini/goodscript-sub000/pkg/ast"
	"github.com/fcapolini/goodscript-sub000/pkg/util"
)

// scopeFrame is one lexical scope on the Lowerer's scope stack, used to
// compute each Lambda's explicit free-variable capture list (spec.md §4.2).
// captures is nil for a non-lambda frame; it uses an OrderedMap so a
// lambda's Captures list comes out in first-use order without a parallel
// slice to keep in sync.
type scopeFrame struct {
	names    map[string]ast.Type
	isLambda bool
	captures *util.OrderedMap[string, ast.Type]
}

func newScopeFrame(isLambda bool) *scopeFrame {
	f := &scopeFrame{names: make(map[string]ast.Type), isLambda: isLambda}
	if isLambda {
		f.captures = util.NewOrderedMap[string, ast.Type]()
	}

	return f
}

func (l *Lowerer) pushScope(isLambda bool) {
	l.scopes = append(l.scopes, newScopeFrame(isLambda))
}

// popScope removes and returns the innermost frame, in capture-insertion
// order, for the caller (typically Lambda lowering) to turn into the
// expression's Captures list.
func (l *Lowerer) popScope() []ast.Capture {
	n := len(l.scopes)
	top := l.scopes[n-1]
	l.scopes = l.scopes[:n-1]

	if top.captures == nil {
		return nil
	}

	caps := make([]ast.Capture, 0, top.captures.Len())
	for _, name := range top.captures.Keys() {
		t, _ := top.captures.Get(name)
		caps = append(caps, ast.Capture{Name: name, Type: t})
	}

	return caps
}

// define binds a name in the innermost scope (a parameter, a local
// variable, a for-loop or catch binding).
func (l *Lowerer) define(name string, t ast.Type) {
	if len(l.scopes) == 0 {
		return
	}

	l.scopes[len(l.scopes)-1].names[name] = t
}

// use records a reference to name, walking outward from the innermost
// scope. Every lambda boundary crossed between the use site and the
// defining scope records name as one of that lambda's captures — so a
// chain of nested lambdas each captures the name, matching how a closure
// would actually need to thread the value inward.
func (l *Lowerer) use(name string) {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		t, ok := l.scopes[i].names[name]
		if !ok {
			continue
		}

		for j := i + 1; j < len(l.scopes); j++ {
			frame := l.scopes[j]
			if !frame.isLambda {
				continue
			}

			if _, shadowed := frame.names[name]; shadowed {
				continue
			}

			if !frame.captures.Has(name) {
				frame.captures.Put(name, t)
			}
		}

		return
	}
}
