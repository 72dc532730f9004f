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

	"github.com/go-cft/cft/internal/cborio"
	"github.com/go-cft/cft/internal/value"
)

// runRewrite streams src through a fresh Decoder into a Rewrite visitor
// configured by req and returns the rewritten bytes.
func runRewrite(t *testing.T, src []byte, req RewriteRequest) ([]byte, *Rewrite) {
	t.Helper()
	var out bytes.Buffer
	r := NewRewrite(&out, req, 16)
	d := cborio.NewDecoder()
	off := 0
	for off < len(src) {
		n, err := d.Step(src[off:], r)
		if err != nil {
			if err == r.Err {
				return out.Bytes(), r
			}
			t.Fatalf("Step() = %v", err)
		}
		off += n
	}
	return out.Bytes(), r
}

func TestRewriteSetReplacesNestedScalar(t *testing.T) {
	src := encodeFixture(t) // {"a":1,"b":{"c":"x"}}
	out, r := runRewrite(t, src, RewriteRequest{
		Target: "/b/c",
		Mode:   ModeSet,
		Value:  value.NewText("y"),
	})
	if r.Err != nil {
		t.Fatalf("Err = %v", r.Err)
	}
	if !r.Found {
		t.Fatalf("Found = false; want true")
	}

	l := runLocate(t, out, "/b/c")
	if l.Err != nil || !l.Found {
		t.Fatalf("re-locate /b/c: Err=%v Found=%v", l.Err, l.Found)
	}
	got, _ := l.Value.AsText()
	if got != "y" {
		t.Fatalf("re-locate /b/c = %q; want y", got)
	}

	la := runLocate(t, out, "/a")
	if la.Err != nil || !la.Found {
		t.Fatalf("re-locate /a: Err=%v Found=%v", la.Err, la.Found)
	}
	if n, _ := la.Value.Uint8(); n != 1 {
		t.Fatalf("re-locate /a = %d; want 1", n)
	}
}

func TestRewriteInsertAtRoot(t *testing.T) {
	var buf bytes.Buffer
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("encode fixture: %v", err)
		}
	}
	must(cborio.EncodeMapHeader(&buf, 1))
	must(cborio.EncodeTextString(&buf, "a"))
	must(cborio.EncodeUint(&buf, cborio.Width8, 1))

	out, r := runRewrite(t, buf.Bytes(), RewriteRequest{
		Target:          "/c",
		Mode:            ModeInsert,
		Value:           value.NewUint8(5),
		InsertionAnchor: "/",
	})
	if r.Err != nil {
		t.Fatalf("Err = %v", r.Err)
	}

	lc := runLocate(t, out, "/c")
	if lc.Err != nil || !lc.Found {
		t.Fatalf("re-locate /c: Err=%v Found=%v", lc.Err, lc.Found)
	}
	if n, _ := lc.Value.Uint8(); n != 5 {
		t.Fatalf("re-locate /c = %d; want 5", n)
	}

	la := runLocate(t, out, "/a")
	if la.Err != nil || !la.Found {
		t.Fatalf("re-locate /a: Err=%v Found=%v", la.Err, la.Found)
	}
	if n, _ := la.Value.Uint8(); n != 1 {
		t.Fatalf("re-locate /a = %d; want 1", n)
	}
}

func TestRewriteInsertSynthesizesIntermediateMaps(t *testing.T) {
	var buf bytes.Buffer
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("encode fixture: %v", err)
		}
	}
	must(cborio.EncodeMapHeader(&buf, 1))
	must(cborio.EncodeTextString(&buf, "a"))
	must(cborio.EncodeUint(&buf, cborio.Width8, 1))

	out, r := runRewrite(t, buf.Bytes(), RewriteRequest{
		Target:          "/b/c/d",
		Mode:            ModeInsert,
		Value:           value.NewText("leaf"),
		InsertionAnchor: "/",
	})
	if r.Err != nil {
		t.Fatalf("Err = %v", r.Err)
	}

	l := runLocate(t, out, "/b/c/d")
	if l.Err != nil || !l.Found {
		t.Fatalf("re-locate /b/c/d: Err=%v Found=%v", l.Err, l.Found)
	}
	got, _ := l.Value.AsText()
	if got != "leaf" {
		t.Fatalf("re-locate /b/c/d = %q; want leaf", got)
	}

	la := runLocate(t, out, "/a")
	if la.Err != nil || !la.Found {
		t.Fatalf("re-locate /a: Err=%v Found=%v", la.Err, la.Found)
	}
}

func TestRewriteInsertIntoExistingNestedMap(t *testing.T) {
	src := encodeFixture(t) // {"a":1,"b":{"c":"x"}}
	out, r := runRewrite(t, src, RewriteRequest{
		Target:          "/b/d",
		Mode:            ModeInsert,
		Value:           value.NewUint8(9),
		InsertionAnchor: "/b/",
	})
	if r.Err != nil {
		t.Fatalf("Err = %v", r.Err)
	}

	ld := runLocate(t, out, "/b/d")
	if ld.Err != nil || !ld.Found {
		t.Fatalf("re-locate /b/d: Err=%v Found=%v", ld.Err, ld.Found)
	}
	if n, _ := ld.Value.Uint8(); n != 9 {
		t.Fatalf("re-locate /b/d = %d; want 9", n)
	}

	lc := runLocate(t, out, "/b/c")
	if lc.Err != nil || !lc.Found {
		t.Fatalf("re-locate /b/c: Err=%v Found=%v", lc.Err, lc.Found)
	}
	got, _ := lc.Value.AsText()
	if got != "x" {
		t.Fatalf("re-locate /b/c = %q; want x", got)
	}
}

func TestRewriteEraseScalar(t *testing.T) {
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
	must(cborio.EncodeUint(&buf, cborio.Width8, 2))

	out, r := runRewrite(t, buf.Bytes(), RewriteRequest{Target: "/a", Mode: ModeErase})
	if r.Err != nil {
		t.Fatalf("Err = %v", r.Err)
	}
	if !r.Found {
		t.Fatalf("Found = false; want true")
	}

	lb := runLocate(t, out, "/b")
	if lb.Err != nil || !lb.Found {
		t.Fatalf("re-locate /b: Err=%v Found=%v", lb.Err, lb.Found)
	}
	if n, _ := lb.Value.Uint8(); n != 2 {
		t.Fatalf("re-locate /b = %d; want 2", n)
	}

	la := runLocate(t, out, "/a")
	if la.Found {
		t.Fatalf("re-locate /a: Found = true; want false (erased)")
	}
	if la.InsertionAnchor != "/" {
		t.Fatalf("re-locate /a: InsertionAnchor = %q; want /", la.InsertionAnchor)
	}
}

func TestRewriteEraseMapSubtree(t *testing.T) {
	src := encodeFixture(t) // {"a":1,"b":{"c":"x"}}
	out, r := runRewrite(t, src, RewriteRequest{Target: "/b", Mode: ModeErase})
	if r.Err != nil {
		t.Fatalf("Err = %v", r.Err)
	}

	la := runLocate(t, out, "/a")
	if la.Err != nil || !la.Found {
		t.Fatalf("re-locate /a: Err=%v Found=%v", la.Err, la.Found)
	}

	lb := runLocate(t, out, "/b")
	if lb.Found {
		t.Fatalf("re-locate /b: Found = true; want false (subtree erased)")
	}
}
