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

import (
	"testing"

	"github.com/go-cft/cft/cft/errors"
)

func TestUintRoundTrip(t *testing.T) {
	v := NewUint8(42)
	got, err := v.Uint8()
	if err != nil || got != 42 {
		t.Fatalf("Uint8() = %v, %v; want 42, nil", got, err)
	}
	if _, err := v.Uint16(); err != nil {
		t.Errorf("Uint8 value should widen to Uint16: %v", err)
	}
}

func TestUintWidthMismatch(t *testing.T) {
	v := NewUint32(70000)
	if _, err := v.Uint8(); errors.CodeOf(err) != errors.WrongDataType {
		t.Errorf("Uint8() on a uint32 value should fail with WrongDataType, got %v", err)
	}
}

func TestSignedIntRoundTrip(t *testing.T) {
	v := NewInt8(-5)
	if v.Kind != KindNegInt {
		t.Fatalf("NewInt8(-5).Kind = %v; want KindNegInt", v.Kind)
	}
	got, err := v.Int8()
	if err != nil || got != -5 {
		t.Fatalf("Int8() = %v, %v; want -5, nil", got, err)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	v := NewFloat32(3.5)
	got, err := v.Float32()
	if err != nil || got != 3.5 {
		t.Fatalf("Float32() = %v, %v; want 3.5, nil", got, err)
	}
	if _, err := v.Float64(); err != nil {
		t.Errorf("Float32 value should widen to Float64: %v", err)
	}
}

func TestTextAndBytes(t *testing.T) {
	tv := NewText("hello")
	s, err := tv.AsText()
	if err != nil || s != "hello" {
		t.Fatalf("AsText() = %q, %v", s, err)
	}
	if _, err := tv.AsBytes(); errors.CodeOf(err) != errors.WrongDataType {
		t.Errorf("AsBytes() on a text value should fail with WrongDataType")
	}

	bv := NewBytes([]byte{1, 2, 3})
	b, err := bv.AsBytes()
	if err != nil || len(b) != 3 {
		t.Fatalf("AsBytes() = %v, %v", b, err)
	}
}
