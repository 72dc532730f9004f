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

import "github.com/go-cft/cft/internal/value"

// Value is the tagged union of scalar CBOR values this library reads and
// writes: unsigned/negative integers and floats of a given width, a bool,
// null, undefined, a simple control code, or a length-prefixed byte/text
// string. Maps are never represented as a Value; they are containers
// handled entirely by the streaming visitors.
//
// Value and its Kind/Width companions live in internal/value so that both
// this package and internal/visitor can share one definition without an
// import cycle; every method documented on internal/value.Value (Uint8,
// Int64, AsText, ...) is available here too, since Value is a type alias.
type Value = value.Value

// Kind identifies which arm of the scalar tagged union a Value holds.
type Kind = value.Kind

// Width is the bit width of the CBOR encoding actually used for an integer
// or float value.
type Width = value.Width

const (
	KindInvalid   = value.KindInvalid
	KindUint      = value.KindUint
	KindNegInt    = value.KindNegInt
	KindFloat     = value.KindFloat
	KindBool      = value.KindBool
	KindNull      = value.KindNull
	KindUndefined = value.KindUndefined
	KindSimple    = value.KindSimple
	KindBytes     = value.KindBytes
	KindText      = value.KindText
)

const (
	Width0  = value.Width0
	Width8  = value.Width8
	Width16 = value.Width16
	Width32 = value.Width32
	Width64 = value.Width64
)

// NewUint8 constructs an 8-bit unsigned integer value.
func NewUint8(v uint8) Value { return value.NewUint8(v) }

// NewUint16 constructs a 16-bit unsigned integer value.
func NewUint16(v uint16) Value { return value.NewUint16(v) }

// NewUint32 constructs a 32-bit unsigned integer value.
func NewUint32(v uint32) Value { return value.NewUint32(v) }

// NewUint64 constructs a 64-bit unsigned integer value.
func NewUint64(v uint64) Value { return value.NewUint64(v) }

// NewInt8 constructs a signed 8-bit integer value, encoding negative
// values as CBOR negints (magnitude minus one).
func NewInt8(v int8) Value { return value.NewInt8(v) }

// NewInt16 constructs a signed 16-bit integer value.
func NewInt16(v int16) Value { return value.NewInt16(v) }

// NewInt32 constructs a signed 32-bit integer value.
func NewInt32(v int32) Value { return value.NewInt32(v) }

// NewInt64 constructs a signed 64-bit integer value.
func NewInt64(v int64) Value { return value.NewInt64(v) }

// NewFloat32 constructs a 32-bit float value.
func NewFloat32(v float32) Value { return value.NewFloat32(v) }

// NewFloat64 constructs a 64-bit float value.
func NewFloat64(v float64) Value { return value.NewFloat64(v) }

// NewBool constructs a boolean value.
func NewBool(v bool) Value { return value.NewBool(v) }

// NewNull constructs a CBOR null value.
func NewNull() Value { return value.NewNull() }

// NewUndefined constructs a CBOR undefined value.
func NewUndefined() Value { return value.NewUndefined() }

// NewSimple constructs a simple-value scalar with the given control code.
func NewSimple(code byte) Value { return value.NewSimple(code) }

// NewBytes constructs a byte-string value.
func NewBytes(b []byte) Value { return value.NewBytes(b) }

// NewText constructs a text-string value.
func NewText(s string) Value { return value.NewText(s) }
