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

// Package cborio is the hard boundary the rest of this module treats as an
// external collaborator (see spec section 1): it knows how CBOR major
// types are laid out on the wire, and nothing else does. It offers two
// things the streaming driver and visitors depend on through a narrow
// interface: a pull-style Decoder that parses exactly one item per call
// out of a caller-supplied window and reports ErrShortBuffer when the
// window doesn't yet hold a whole item, and a set of scalar Encode*
// functions used by the rewrite pass to emit replacement/inserted bytes.
//
// No third-party CBOR library in the retrieval pack exposes this bounded-
// window, one-item-at-a-time shape (they unmarshal whole documents), so
// this package is deliberately minimal and built on encoding/binary and
// math alone; everything above it talks to CBOR only through Visitor and
// the Encode* functions.
package cborio

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrShortBuffer is returned by Decoder.Step when buf does not yet contain
// a complete item; the caller should refill its window and retry without
// advancing past what Step already reported consumed (zero, in this
// case).
var ErrShortBuffer = errors.New("cborio: buffer does not contain a complete item")

// ErrTypeNotAllowed is returned for any major type this restricted reader
// of CBOR does not support: arrays, tags, and indefinite-length items.
var ErrTypeNotAllowed = errors.New("cborio: CBOR type not allowed")

// ErrMalformed is returned for wire data that isn't syntactically valid
// CBOR (reserved additional-info values and the like). An item cut short
// after its claimed length is reported as ErrShortBuffer instead, since
// Step cannot tell it apart from a window that needs refilling.
var ErrMalformed = errors.New("cborio: malformed CBOR data")

// Width is the number of bits used to encode an integer or float's
// argument on the wire. It lets a single typed Value carry enough
// information for round-trip re-encoding without 24 separate handlers.
type Width int

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

const (
	majorUint    = 0
	majorNegInt  = 1
	majorBytes   = 2
	majorText    = 3
	majorArray   = 4
	majorMap     = 5
	majorTag     = 6
	majorSimple7 = 7
)

const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simple1Byte     = 24
	simpleBreak     = 31
)

// Visitor receives one callback per CBOR data item the Decoder parses.
// Implementations drive a stack.Stack; see internal/visitor.
type Visitor interface {
	MapStart(size uint64) error
	Uint(w Width, v uint64) error
	NegInt(w Width, magnitudeMinusOne uint64) error
	Float(w Width, v float64) error
	Bool(v bool) error
	Null() error
	Undefined() error
	Simple(code byte) error
	TextString(s string) error
	ByteString(b []byte) error

	// Disallowed major types/headers. A correct Visitor always returns an
	// error from these; the visitors in internal/visitor return a
	// TypeNotAllowed *errors.Error.
	ArrayStart(size uint64, indefinite bool) error
	Tag(tag uint64) error
	IndefiniteStringStart(major byte) error
	Break() error
}

// Decoder parses a sequence of top-level CBOR data items out of windows
// handed to it by the streaming driver.
type Decoder struct{}

// NewDecoder returns a ready-to-use Decoder. Decoder carries no state
// across Step calls; all position tracking lives in the streaming driver.
func NewDecoder() *Decoder { return &Decoder{} }

// Step parses exactly one CBOR data item from the front of buf and
// dispatches it to v. It returns the number of bytes consumed. If buf
// does not contain a complete item, Step returns (0, ErrShortBuffer) and
// the caller must grow its window (read more bytes) before calling Step
// again with a buffer that includes everything passed before.
func (d *Decoder) Step(buf []byte, v Visitor) (int, error) {
	if len(buf) == 0 {
		return 0, ErrShortBuffer
	}

	first := buf[0]
	major := first >> 5
	info := first & 0x1f

	arg, argLen, indefinite, err := readArgument(buf, info)
	if err != nil {
		return 0, err
	}
	if argLen < 0 {
		return 0, ErrShortBuffer
	}
	headerLen := 1 + argLen

	switch major {
	case majorUint:
		if headerLen > len(buf) {
			return 0, ErrShortBuffer
		}
		return headerLen, v.Uint(widthOf(info, argLen), arg)

	case majorNegInt:
		if headerLen > len(buf) {
			return 0, ErrShortBuffer
		}
		return headerLen, v.NegInt(widthOf(info, argLen), arg)

	case majorBytes:
		if indefinite {
			return 0, errOrShort(headerLen, buf, v.IndefiniteStringStart(major))
		}
		total := headerLen + int(arg)
		if total > len(buf) {
			return 0, ErrShortBuffer
		}
		return total, v.ByteString(append([]byte(nil), buf[headerLen:total]...))

	case majorText:
		if indefinite {
			return 0, errOrShort(headerLen, buf, v.IndefiniteStringStart(major))
		}
		total := headerLen + int(arg)
		if total > len(buf) {
			return 0, ErrShortBuffer
		}
		return total, v.TextString(string(buf[headerLen:total]))

	case majorArray:
		if headerLen > len(buf) {
			return 0, ErrShortBuffer
		}
		return headerLen, v.ArrayStart(arg, indefinite)

	case majorMap:
		if indefinite {
			return 0, v.IndefiniteStringStart(major)
		}
		if headerLen > len(buf) {
			return 0, ErrShortBuffer
		}
		return headerLen, v.MapStart(arg)

	case majorTag:
		if headerLen > len(buf) {
			return 0, ErrShortBuffer
		}
		return headerLen, v.Tag(arg)

	case majorSimple7:
		return d.stepSimple(buf, info, arg, argLen, v)

	default:
		return 0, ErrMalformed
	}
}

func errOrShort(headerLen int, buf []byte, err error) error {
	if headerLen > len(buf) {
		return ErrShortBuffer
	}
	return err
}

func (d *Decoder) stepSimple(buf []byte, info byte, arg uint64, argLen int, v Visitor) (int, error) {
	headerLen := 1 + argLen
	if info == simpleBreak {
		return 1, v.Break()
	}
	switch {
	case info < simpleFalse:
		// Direct simple value 0-19.
		return 1, v.Simple(info)
	case info == simpleFalse:
		return 1, v.Bool(false)
	case info == simpleTrue:
		return 1, v.Bool(true)
	case info == simpleNull:
		return 1, v.Null()
	case info == simpleUndefined:
		return 1, v.Undefined()
	case info == simple1Byte:
		if headerLen > len(buf) {
			return 0, ErrShortBuffer
		}
		return headerLen, v.Simple(byte(arg))
	case info == 25:
		if headerLen > len(buf) {
			return 0, ErrShortBuffer
		}
		return headerLen, v.Float(Width16, float16ToFloat64(uint16(arg)))
	case info == 26:
		if headerLen > len(buf) {
			return 0, ErrShortBuffer
		}
		return headerLen, v.Float(Width32, float64(math.Float32frombits(uint32(arg))))
	case info == 27:
		if headerLen > len(buf) {
			return 0, ErrShortBuffer
		}
		return headerLen, v.Float(Width64, math.Float64frombits(arg))
	default:
		return 0, ErrMalformed
	}
}

// readArgument decodes the additional-info argument that follows the
// initial byte. It returns the argument value, the number of extra bytes
// the argument occupies (0 for values 0-23), whether info==31 (the
// indefinite-length marker), and an error for reserved info values.
//
// argLen is returned as -1 (with arg==0, ok to ignore) when buf does not
// contain enough bytes to know the argument yet; callers must check
// len(buf) against 1+argLen themselves since this function only looks at
// buf[0] plus whatever extra bytes are already available.
func readArgument(buf []byte, info byte) (arg uint64, argLen int, indefinite bool, err error) {
	switch {
	case info < 24:
		return uint64(info), 0, false, nil
	case info == 24:
		if len(buf) < 2 {
			return 0, -1, false, nil
		}
		return uint64(buf[1]), 1, false, nil
	case info == 25:
		if len(buf) < 3 {
			return 0, -1, false, nil
		}
		return uint64(binary.BigEndian.Uint16(buf[1:3])), 2, false, nil
	case info == 26:
		if len(buf) < 5 {
			return 0, -1, false, nil
		}
		return uint64(binary.BigEndian.Uint32(buf[1:5])), 4, false, nil
	case info == 27:
		if len(buf) < 9 {
			return 0, -1, false, nil
		}
		return binary.BigEndian.Uint64(buf[1:9]), 8, false, nil
	case info >= 28 && info <= 30:
		return 0, 0, false, ErrMalformed
	case info == 31:
		return 0, 0, true, nil
	default:
		return 0, 0, false, ErrMalformed
	}
}

func widthOf(info byte, argLen int) Width {
	switch {
	case info < 24 || argLen <= 1:
		return Width8
	case argLen == 2:
		return Width16
	case argLen == 4:
		return Width32
	default:
		return Width64
	}
}

// float16ToFloat64 decodes an IEEE 754 half-precision float, used only for
// CBOR's optional 2-byte float encoding (major 7, additional info 25).
func float16ToFloat64(h uint16) float64 {
	sign := uint32(h>>15) & 0x1
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff

	var f32 uint32
	switch exp {
	case 0:
		if frac == 0 {
			f32 = sign << 31
		} else {
			// Subnormal: normalize by shifting until the leading bit is set.
			e := -1
			for frac&0x400 == 0 {
				frac <<= 1
				e++
			}
			frac &= 0x3ff
			exp32 := uint32(127 - 15 - e)
			f32 = (sign << 31) | (exp32 << 23) | (frac << 13)
		}
	case 0x1f:
		f32 = (sign << 31) | (0xff << 23) | (frac << 13)
	default:
		exp32 := exp - 15 + 127
		f32 = (sign << 31) | (exp32 << 23) | (frac << 13)
	}
	return float64(math.Float32frombits(f32))
}
