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
package util

import "strings"

// Path describes a traversal through a type or field tree, e.g. the label on
// an ownership-graph edge ("items[i]", "pool", "entries|0.value").  Segments
// are accumulated outermost-first.
type Path struct {
	segments []string
}

// NewPath constructs a path from the given segments.
func NewPath(segments ...string) Path {
	return Path{segments: segments}
}

// Push returns a new path with an additional trailing segment.
func (p Path) Push(segment string) Path {
	next := make([]string, len(p.segments), len(p.segments)+1)
	copy(next, p.segments)
	next = append(next, segment)

	return Path{segments: next}
}

// String renders the path using "." between segments, as produced by the
// SCC cycle renderer (e.g. "A.b").
func (p Path) String() string {
	return strings.Join(p.segments, ".")
}

// IsEmpty determines whether this path has no segments.
func (p Path) IsEmpty() bool {
	return len(p.segments) == 0
}
