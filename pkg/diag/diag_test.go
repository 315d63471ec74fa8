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
package diag

import "testing"

func TestSink_PreservesInsertionOrder(t *testing.T) {
	s := NewSink()
	s.Add(New("GS101", Error, "first"))
	s.Add(New("GS102", Warning, "second"))

	items := s.Items()
	if len(items) != 2 || items[0].Code != "GS101" || items[1].Code != "GS102" {
		t.Fatalf("expected insertion order preserved, got %+v", items)
	}
}

func TestSink_HasErrorsOnlyForErrorSeverity(t *testing.T) {
	s := NewSink()
	s.Add(New("GS102", Warning, "warn only"))

	if s.HasErrors() {
		t.Fatalf("expected HasErrors to be false with only a warning present")
	}

	s.Add(New("GS101", Error, "now an error"))

	if !s.HasErrors() {
		t.Fatalf("expected HasErrors to be true once an error diagnostic is added")
	}
}

func TestSink_Merge(t *testing.T) {
	a := NewSink()
	a.Add(New("GS101", Error, "a"))

	b := NewSink()
	b.Add(New("GS102", Warning, "b"))

	a.Merge(b)

	if len(a.Items()) != 2 {
		t.Fatalf("expected merged sink to have 2 items, got %d", len(a.Items()))
	}

	if a.Count(Error) != 1 || a.Count(Warning) != 1 {
		t.Fatalf("expected one error and one warning after merge, got errors=%d warnings=%d", a.Count(Error), a.Count(Warning))
	}
}

func TestDiagnostic_ErrorFormatsLocationWhenPresent(t *testing.T) {
	d := At("GS101", Error, "bad thing", Location{File: "m.gs", Line: 3, Column: 5})

	want := "m.gs:3:5: GS101: bad thing"
	if got := d.Error(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDiagnostic_ErrorOmitsLocationWhenAbsent(t *testing.T) {
	d := New("GS101", Error, "bad thing")

	want := "GS101: bad thing"
	if got := d.Error(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
