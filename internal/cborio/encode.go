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

package cborio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-cft/cft/internal/value"
)

func encodeHeader(w io.Writer, major byte, arg uint64) error {
	switch {
	case arg < 24:
		_, err := w.Write([]byte{major<<5 | byte(arg)})
		return err
	case arg <= 0xff:
		_, err := w.Write([]byte{major<<5 | 24, byte(arg)})
		return err
	case arg <= 0xffff:
		buf := make([]byte, 3)
		buf[0] = major<<5 | 25
		binary.BigEndian.PutUint16(buf[1:], uint16(arg))
		_, err := w.Write(buf)
		return err
	case arg <= 0xffffffff:
		buf := make([]byte, 5)
		buf[0] = major<<5 | 26
		binary.BigEndian.PutUint32(buf[1:], uint32(arg))
		_, err := w.Write(buf)
		return err
	default:
		buf := make([]byte, 9)
		buf[0] = major<<5 | 27
		binary.BigEndian.PutUint64(buf[1:], arg)
		_, err := w.Write(buf)
		return err
	}
}

// headerForWidth forces the header to be encoded using exactly the given
// width's extra-byte count, even when the value would fit in fewer bytes.
// This is what SET must do to avoid the source library's narrowing bug
// (spec's open question): re-encoding a value at a width narrower than
// its declared Width would shrink the item and corrupt every byte offset
// after it.
func headerForWidth(w io.Writer, major byte, width Width, arg uint64) error {
	var info byte
	var extra int
	switch width {
	case Width8:
		if arg < 24 {
			_, err := w.Write([]byte{major<<5 | byte(arg)})
			return err
		}
		info, extra = 24, 1
	case Width16:
		info, extra = 25, 2
	case Width32:
		info, extra = 26, 4
	case Width64:
		info, extra = 27, 8
	default:
		return fmt.Errorf("cborio: invalid integer width %d", width)
	}
	buf := make([]byte, 1+extra)
	buf[0] = major<<5 | info
	switch extra {
	case 1:
		buf[1] = byte(arg)
	case 2:
		binary.BigEndian.PutUint16(buf[1:], uint16(arg))
	case 4:
		binary.BigEndian.PutUint32(buf[1:], uint32(arg))
	case 8:
		binary.BigEndian.PutUint64(buf[1:], arg)
	}
	_, err := w.Write(buf)
	return err
}

// EncodeMapHeader writes a definite-length map header for the given pair
// count.
func EncodeMapHeader(w io.Writer, size uint64) error {
	return encodeHeader(w, majorMap, size)
}

// EncodeTextString writes a definite-length text string (used for both
// keys and string-valued scalars).
func EncodeTextString(w io.Writer, s string) error {
	if err := encodeHeader(w, majorText, uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// EncodeByteString writes a definite-length byte string.
func EncodeByteString(w io.Writer, b []byte) error {
	if err := encodeHeader(w, majorBytes, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// EncodeUint writes an unsigned integer at exactly the given width.
func EncodeUint(w io.Writer, width Width, v uint64) error {
	return headerForWidth(w, majorUint, width, v)
}

// EncodeNegInt writes a negative integer (given as CBOR's magnitude-minus-
// one encoding) at exactly the given width.
func EncodeNegInt(w io.Writer, width Width, magnitudeMinusOne uint64) error {
	return headerForWidth(w, majorNegInt, width, magnitudeMinusOne)
}

// EncodeFloat writes a float at exactly the given width (16, 32, or 64
// bits). Width16 is supported only for verbatim pass-through of a value
// that was itself decoded from a 16-bit float: float64ToFloat16 exactly
// inverts float16ToFloat64 for any bit pattern that function can produce,
// but is not a general IEEE round-to-nearest narrowing conversion.
func EncodeFloat(w io.Writer, width Width, v float64) error {
	switch width {
	case Width16:
		buf := make([]byte, 3)
		buf[0] = majorSimple7<<5 | 25
		binary.BigEndian.PutUint16(buf[1:], float64ToFloat16(v))
		_, err := w.Write(buf)
		return err
	case Width32:
		buf := make([]byte, 5)
		buf[0] = majorSimple7<<5 | 26
		binary.BigEndian.PutUint32(buf[1:], math.Float32bits(float32(v)))
		_, err := w.Write(buf)
		return err
	case Width64:
		buf := make([]byte, 9)
		buf[0] = majorSimple7<<5 | 27
		binary.BigEndian.PutUint64(buf[1:], math.Float64bits(v))
		_, err := w.Write(buf)
		return err
	default:
		return fmt.Errorf("cborio: invalid float width %d", width)
	}
}

// float64ToFloat16 narrows f to its IEEE 754 half-precision bit pattern.
// It is the exact inverse of float16ToFloat64 for any value that function
// can produce (zero, normal, subnormal, infinity, or NaN), which is the
// only case the rewrite pass needs: reproducing a source float16 value
// byte-for-byte when it is not the value being edited.
func float64ToFloat16(f float64) uint16 {
	bits32 := math.Float32bits(float32(f))
	sign := uint16((bits32 >> 16) & 0x8000)
	exp32 := int32((bits32 >> 23) & 0xff)
	frac32 := bits32 & 0x7fffff

	if exp32 == 0xff {
		if frac32 == 0 {
			return sign | 0x7c00
		}
		return sign | 0x7c00 | uint16(frac32>>13)
	}
	if exp32 == 0 && frac32 == 0 {
		return sign
	}

	exp16 := exp32 - 127 + 15
	if exp16 >= 0x1f {
		return sign | 0x7c00
	}
	if exp16 <= 0 {
		shift := uint(1 - exp16)
		mant := (frac32 | 0x800000) >> (shift + 13)
		return sign | uint16(mant)
	}
	return sign | uint16(exp16)<<10 | uint16(frac32>>13)
}

// EncodeBool writes a boolean simple value.
func EncodeBool(w io.Writer, v bool) error {
	b := byte(simpleFalse)
	if v {
		b = simpleTrue
	}
	_, err := w.Write([]byte{majorSimple7<<5 | b})
	return err
}

// EncodeNull writes the CBOR null simple value.
func EncodeNull(w io.Writer) error {
	_, err := w.Write([]byte{majorSimple7<<5 | simpleNull})
	return err
}

// EncodeUndefined writes the CBOR undefined simple value.
func EncodeUndefined(w io.Writer) error {
	_, err := w.Write([]byte{majorSimple7<<5 | simpleUndefined})
	return err
}

// EncodeSimple writes an arbitrary simple-value control code.
func EncodeSimple(w io.Writer, code byte) error {
	if code < 24 {
		_, err := w.Write([]byte{majorSimple7<<5 | code})
		return err
	}
	_, err := w.Write([]byte{majorSimple7<<5 | simple1Byte, code})
	return err
}

// EncodeValue writes v's CBOR encoding to w, dispatching on v.Kind. This
// single typed function is what replaces the source library's per-width
// encode callbacks (spec design note 3).
func EncodeValue(w io.Writer, v value.Value) error {
	switch v.Kind {
	case value.KindUint:
		return EncodeUint(w, Width(v.Width), v.U)
	case value.KindNegInt:
		return EncodeNegInt(w, Width(v.Width), v.U)
	case value.KindFloat:
		return EncodeFloat(w, Width(v.Width), v.F)
	case value.KindBool:
		return EncodeBool(w, v.Bool)
	case value.KindNull:
		return EncodeNull(w)
	case value.KindUndefined:
		return EncodeUndefined(w)
	case value.KindSimple:
		return EncodeSimple(w, v.Simple)
	case value.KindBytes:
		return EncodeByteString(w, v.Bytes)
	case value.KindText:
		return EncodeTextString(w, v.Text)
	default:
		return fmt.Errorf("cborio: cannot encode value of kind %v", v.Kind)
	}
}
