// Copyright 2024 The CFT Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cft

import "testing"

func TestParent(t *testing.T) {
	cases := map[string]string{
		"/":      "/",
		"/a":     "/",
		"/a/b":   "/a/",
		"/a/b/c": "/a/b/",
	}
	for in, want := range cases {
		if got := Parent(in); got != want {
			t.Errorf("Parent(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestLastSegment(t *testing.T) {
	cases := map[string]string{
		"/a":     "a",
		"/a/b":   "b",
		"/a/b/c": "c",
	}
	for in, want := range cases {
		if got := LastSegment(in); got != want {
			t.Errorf("LastSegment(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestIsPrefixOf(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"/", "/a", true},
		{"/a", "/a", true},
		{"/a", "/a/b", true},
		{"/a/", "/a/b", true},
		{"/ab", "/abc", false},
		{"/a/b", "/a/bc", false},
		{"/a/b", "/a", false},
	}
	for _, c := range cases {
		if got := IsPrefixOf(c.a, c.b); got != c.want {
			t.Errorf("IsPrefixOf(%q, %q) = %v; want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestJoin(t *testing.T) {
	if got := Join("/", "a"); got != "/a" {
		t.Errorf("Join(%q, %q) = %q; want /a", "/", "a", got)
	}
	if got := Join("/a/", "b"); got != "/a/b" {
		t.Errorf("Join(%q, %q) = %q; want /a/b", "/a/", "b", got)
	}
}

func TestIsValidPointer(t *testing.T) {
	valid := []string{"/a", "/a/b", "/a/b/c"}
	invalid := []string{"", "a", "/", "/a/", "/a//b", "a/b"}
	for _, p := range valid {
		if !IsValidPointer(p) {
			t.Errorf("IsValidPointer(%q) = false; want true", p)
		}
	}
	for _, p := range invalid {
		if IsValidPointer(p) {
			t.Errorf("IsValidPointer(%q) = true; want false", p)
		}
	}
}

func TestSegments(t *testing.T) {
	if got := Segments("/a/b/c"); len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("Segments(/a/b/c) = %v", got)
	}
	if got := Segments("/"); got != nil {
		t.Errorf("Segments(/) = %v; want nil", got)
	}
}
