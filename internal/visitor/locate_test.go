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

package visitor

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-cft/cft/cft/errors"
	"github.com/go-cft/cft/internal/cborio"
	"github.com/go-cft/cft/internal/value"
)

// encodeFixture builds {"a": 1, "b": {"c": "x"}}.
func encodeFixture(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("encode fixture: %v", err)
		}
	}
	must(cborio.EncodeMapHeader(&buf, 2))
	must(cborio.EncodeTextString(&buf, "a"))
	must(cborio.EncodeUint(&buf, cborio.Width8, 1))
	must(cborio.EncodeTextString(&buf, "b"))
	must(cborio.EncodeMapHeader(&buf, 1))
	must(cborio.EncodeTextString(&buf, "c"))
	must(cborio.EncodeTextString(&buf, "x"))
	return buf.Bytes()
}

func runLocate(t *testing.T, data []byte, target string) *Locate {
	t.Helper()
	l := NewLocate(target, 16)
	d := cborio.NewDecoder()
	off := 0
	for off < len(data) {
		n, err := d.Step(data[off:], l)
		if err != nil {
			if err == l.Err {
				return l
			}
			t.Fatalf("Step() = %v", err)
		}
		off += n
		if l.Done() {
			break
		}
	}
	return l
}

func TestLocateFindsNestedValue(t *testing.T) {
	data := encodeFixture(t)
	l := runLocate(t, data, "/b/c")
	if l.Err != nil {
		t.Fatalf("Err = %v", l.Err)
	}
	if !l.Found {
		t.Fatalf("Found = false; want true")
	}
	got, err := l.Value.AsText()
	if err != nil || got != "x" {
		t.Fatalf("Value = %v, %v; want x, nil", got, err)
	}
}

// TestLocateCapturesExactValue compares the full captured Value struct,
// not just its decoded text, against what the fixture actually encodes:
// Kind, Width, and every other field must match, not merely the
// projection AsText() returns.
func TestLocateCapturesExactValue(t *testing.T) {
	data := encodeFixture(t)
	l := runLocate(t, data, "/a")
	if l.Err != nil {
		t.Fatalf("Err = %v", l.Err)
	}
	want := value.Value{Kind: value.KindUint, Width: value.Width8, U: 1}
	if diff := cmp.Diff(want, l.Value); diff != "" {
		t.Fatalf("Value mismatch (-want +got):\n%s", diff)
	}
}

func TestLocateMissingRecordsInsertionAnchor(t *testing.T) {
	data := encodeFixture(t)
	l := runLocate(t, data, "/b/d")
	if l.Err != nil {
		t.Fatalf("Err = %v", l.Err)
	}
	if l.Found {
		t.Fatalf("Found = true; want false")
	}
	if l.InsertionAnchor != "/b/" {
		t.Fatalf("InsertionAnchor = %q; want /b/", l.InsertionAnchor)
	}
}

func TestLocateMapTargetIsPointerIsMap(t *testing.T) {
	data := encodeFixture(t)
	l := runLocate(t, data, "/b")
	if errors.CodeOf(l.Err) != errors.PointerIsMap {
		t.Fatalf("Err = %v; want PointerIsMap", l.Err)
	}
}

func TestLocateDescendPastLeafIsWrongDataType(t *testing.T) {
	data := encodeFixture(t)
	l := runLocate(t, data, "/a/x")
	if errors.CodeOf(l.Err) != errors.WrongDataType {
		t.Fatalf("Err = %v; want WrongDataType", l.Err)
	}
}

// TestLocateNonTerminalMapPair exercises a map whose middle pair (not its
// last) holds a nested map: {"a":{"x":1},"b":2}. Completing "a" must
// correctly close that frame and resume reading "b" as a sibling key of
// the root, not mistake it for a stray value.
func TestLocateNonTerminalMapPair(t *testing.T) {
	var buf bytes.Buffer
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("encode fixture: %v", err)
		}
	}
	must(cborio.EncodeMapHeader(&buf, 2))
	must(cborio.EncodeTextString(&buf, "a"))
	must(cborio.EncodeMapHeader(&buf, 1))
	must(cborio.EncodeTextString(&buf, "x"))
	must(cborio.EncodeUint(&buf, cborio.Width8, 1))
	must(cborio.EncodeTextString(&buf, "b"))
	must(cborio.EncodeUint(&buf, cborio.Width8, 2))

	l := runLocate(t, buf.Bytes(), "/b")
	if l.Err != nil {
		t.Fatalf("Err = %v", l.Err)
	}
	if !l.Found {
		t.Fatalf("Found = false; want true")
	}
	got, err := l.Value.Uint8()
	if err != nil || got != 2 {
		t.Fatalf("Value = %v, %v; want 2, nil", got, err)
	}
}

// TestLocateEmptyMapValue exercises a map value with no pairs of its own:
// {"a":{}}. Looking for "/a/x" must report the insertion anchor as "/a/",
// since "a" already exists as an (empty) map.
func TestLocateEmptyMapValue(t *testing.T) {
	var buf bytes.Buffer
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("encode fixture: %v", err)
		}
	}
	must(cborio.EncodeMapHeader(&buf, 1))
	must(cborio.EncodeTextString(&buf, "a"))
	must(cborio.EncodeMapHeader(&buf, 0))

	l := runLocate(t, buf.Bytes(), "/a/x")
	if l.Err != nil {
		t.Fatalf("Err = %v", l.Err)
	}
	if l.Found {
		t.Fatalf("Found = true; want false")
	}
	if l.InsertionAnchor != "/a/" {
		t.Fatalf("InsertionAnchor = %q; want /a/", l.InsertionAnchor)
	}
}

func TestLocateRejectsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := cborio.EncodeMapHeader(&buf, 1); err != nil {
		t.Fatal(err)
	}
	if err := cborio.EncodeTextString(&buf, "a"); err != nil {
		t.Fatal(err)
	}
	buf.WriteByte(0x80) // empty array, disallowed.

	l := runLocate(t, buf.Bytes(), "/a")
	if errors.CodeOf(l.Err) != errors.TypeNotAllowed {
		t.Fatalf("Err = %v; want TypeNotAllowed", l.Err)
	}
}
