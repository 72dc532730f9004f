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

package value

import (
	"fmt"

	"github.com/go-cft/cft/cft/errors"
)

// Kind identifies which arm of the scalar tagged union a Value holds. This
// single Kind-plus-Width representation is what lets one typed handler
// replace the 24-plus near-identical per-width encode/decode callbacks the
// source library used.
type Kind int

const (
	KindInvalid Kind = iota
	KindUint
	KindNegInt // magnitude stored as (true negative value) - 1, per CBOR's negint encoding.
	KindFloat
	KindBool
	KindNull
	KindUndefined
	KindSimple
	KindBytes
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindNegInt:
		return "negint"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindSimple:
		return "simple"
	case KindBytes:
		return "bytes"
	case KindText:
		return "text"
	default:
		return "invalid"
	}
}

// Width is the bit width of the CBOR encoding actually used for an integer
// or float value. It is carried on the Value so a single accessor family
// can reject widths the caller did not ask for.
type Width int

const (
	Width0  Width = 0 // booleans, null, undefined, simple, bytes, text: width is not meaningful.
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// Value is the tagged union of scalar CBOR values this library reads and
// writes: unsigned/negative integers and floats of a given width, a bool,
// null, undefined, a simple control code, or a length-prefixed byte/text
// string. Maps are never represented as a Value; they are containers
// handled entirely by the streaming visitors.
type Value struct {
	Kind   Kind
	Width  Width
	U      uint64 // Uint: the value itself. NegInt: magnitude minus one.
	F      float64
	Bool   bool
	Bytes  []byte
	Text   string
	Simple byte
}

// NewUint8 constructs an 8-bit unsigned integer value.
func NewUint8(v uint8) Value { return Value{Kind: KindUint, Width: Width8, U: uint64(v)} }

// NewUint16 constructs a 16-bit unsigned integer value.
func NewUint16(v uint16) Value { return Value{Kind: KindUint, Width: Width16, U: uint64(v)} }

// NewUint32 constructs a 32-bit unsigned integer value.
func NewUint32(v uint32) Value { return Value{Kind: KindUint, Width: Width32, U: uint64(v)} }

// NewUint64 constructs a 64-bit unsigned integer value.
func NewUint64(v uint64) Value { return Value{Kind: KindUint, Width: Width64, U: v} }

// NewInt8 constructs a signed 8-bit integer value, encoding negative
// values as CBOR negints (magnitude minus one).
func NewInt8(v int8) Value { return newSignedInt(int64(v), Width8) }

// NewInt16 constructs a signed 16-bit integer value.
func NewInt16(v int16) Value { return newSignedInt(int64(v), Width16) }

// NewInt32 constructs a signed 32-bit integer value.
func NewInt32(v int32) Value { return newSignedInt(int64(v), Width32) }

// NewInt64 constructs a signed 64-bit integer value.
func NewInt64(v int64) Value { return newSignedInt(v, Width64) }

func newSignedInt(v int64, w Width) Value {
	if v >= 0 {
		return Value{Kind: KindUint, Width: w, U: uint64(v)}
	}
	return Value{Kind: KindNegInt, Width: w, U: uint64(-(v + 1))}
}

// NewFloat32 constructs a 32-bit float value.
func NewFloat32(v float32) Value { return Value{Kind: KindFloat, Width: Width32, F: float64(v)} }

// NewFloat64 constructs a 64-bit float value.
func NewFloat64(v float64) Value { return Value{Kind: KindFloat, Width: Width64, F: v} }

// NewBool constructs a boolean value.
func NewBool(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// NewNull constructs a CBOR null value.
func NewNull() Value { return Value{Kind: KindNull} }

// NewUndefined constructs a CBOR undefined value.
func NewUndefined() Value { return Value{Kind: KindUndefined} }

// NewSimple constructs a simple-value scalar with the given control code.
func NewSimple(code byte) Value { return Value{Kind: KindSimple, Simple: code} }

// NewBytes constructs a byte-string value.
func NewBytes(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }

// NewText constructs a text-string value.
func NewText(s string) Value { return Value{Kind: KindText, Text: s} }

func wrongType(v Value, want string) error {
	return errors.Newf(errors.WrongDataType,
		"value has kind %s width %d, cannot be read as %s", v.Kind, v.Width, want)
}

// Uint8 returns v as a uint8, failing if v is not an unsigned integer
// encoded in 8 bits or fewer.
func (v Value) Uint8() (uint8, error) {
	if v.Kind != KindUint || v.Width > Width8 {
		return 0, wrongType(v, "uint8")
	}
	return uint8(v.U), nil
}

// Uint16 returns v as a uint16.
func (v Value) Uint16() (uint16, error) {
	if v.Kind != KindUint || v.Width > Width16 {
		return 0, wrongType(v, "uint16")
	}
	return uint16(v.U), nil
}

// Uint32 returns v as a uint32.
func (v Value) Uint32() (uint32, error) {
	if v.Kind != KindUint || v.Width > Width32 {
		return 0, wrongType(v, "uint32")
	}
	return uint32(v.U), nil
}

// Uint64 returns v as a uint64.
func (v Value) Uint64() (uint64, error) {
	if v.Kind != KindUint {
		return 0, wrongType(v, "uint64")
	}
	return v.U, nil
}

func (v Value) signed() (int64, bool) {
	switch v.Kind {
	case KindUint:
		if v.U > 1<<63-1 {
			return 0, false
		}
		return int64(v.U), true
	case KindNegInt:
		if v.U > 1<<63-1 {
			return 0, false
		}
		return -(int64(v.U) + 1), true
	default:
		return 0, false
	}
}

// Int8 returns v as an int8.
func (v Value) Int8() (int8, error) {
	n, ok := v.signed()
	if !ok || v.Width > Width8 || n < -128 || n > 127 {
		return 0, wrongType(v, "int8")
	}
	return int8(n), nil
}

// Int16 returns v as an int16.
func (v Value) Int16() (int16, error) {
	n, ok := v.signed()
	if !ok || v.Width > Width16 || n < -32768 || n > 32767 {
		return 0, wrongType(v, "int16")
	}
	return int16(n), nil
}

// Int32 returns v as an int32.
func (v Value) Int32() (int32, error) {
	n, ok := v.signed()
	if !ok || v.Width > Width32 || n < -2147483648 || n > 2147483647 {
		return 0, wrongType(v, "int32")
	}
	return int32(n), nil
}

// Int64 returns v as an int64.
func (v Value) Int64() (int64, error) {
	n, ok := v.signed()
	if !ok {
		return 0, wrongType(v, "int64")
	}
	return n, nil
}

// Float32 returns v as a float32.
func (v Value) Float32() (float32, error) {
	if v.Kind != KindFloat || v.Width > Width32 {
		return 0, wrongType(v, "float32")
	}
	return float32(v.F), nil
}

// Float64 returns v as a float64.
func (v Value) Float64() (float64, error) {
	if v.Kind != KindFloat {
		return 0, wrongType(v, "float64")
	}
	return v.F, nil
}

// AsBool returns v as a bool.
func (v Value) AsBool() (bool, error) {
	if v.Kind != KindBool {
		return false, wrongType(v, "bool")
	}
	return v.Bool, nil
}

// AsBytes returns v as a byte slice.
func (v Value) AsBytes() ([]byte, error) {
	if v.Kind != KindBytes {
		return nil, wrongType(v, "bytes")
	}
	return v.Bytes, nil
}

// AsText returns v as a string.
func (v Value) AsText() (string, error) {
	if v.Kind != KindText {
		return "", wrongType(v, "text")
	}
	return v.Text, nil
}

// IsNull reports whether v is the CBOR null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsUndefined reports whether v is the CBOR undefined value.
func (v Value) IsUndefined() bool { return v.Kind == KindUndefined }

func (v Value) String() string {
	switch v.Kind {
	case KindUint:
		return fmt.Sprintf("%d", v.U)
	case KindNegInt:
		return fmt.Sprintf("%d", -(int64(v.U) + 1))
	case KindFloat:
		return fmt.Sprintf("%g", v.F)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindSimple:
		return fmt.Sprintf("simple(%d)", v.Simple)
	case KindBytes:
		return fmt.Sprintf("h'%x'", v.Bytes)
	case KindText:
		return v.Text
	default:
		return "<invalid>"
	}
}
