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
	"io"
	"strings"

	"github.com/go-cft/cft/cft/errors"
	"github.com/go-cft/cft/internal/cborio"
	"github.com/go-cft/cft/internal/pathutil"
	"github.com/go-cft/cft/internal/stack"
	"github.com/go-cft/cft/internal/value"
)

// Rewrite implements cborio.Visitor for the encode pass: it replays a
// second decode of the source document and, event for event, emits the
// equivalent bytes to w — except at the points its Mode dictates a
// surgical edit. Every value that is not itself the target is re-emitted
// at the exact width the decoder reported, so untouched bytes round-trip
// unchanged even though the visitor never sees the source's raw bytes.
type Rewrite struct {
	Target          string
	Mode            Mode
	NewValue        value.Value
	InsertionAnchor string

	w     io.Writer
	stack *stack.Stack

	// Found records whether a scalar SET/ERASE target pair was actually
	// encountered during this pass. It stays false when an ERASE target
	// is a map. cft.Context does not read it.
	Found bool
	Err   error
}

// NewRewrite constructs a Rewrite visitor that writes to w.
func NewRewrite(w io.Writer, req RewriteRequest, maxLevel int) *Rewrite {
	return &Rewrite{
		Target:          req.Target,
		Mode:            req.Mode,
		NewValue:        req.Value,
		InsertionAnchor: req.InsertionAnchor,
		w:               w,
		stack:           stack.New(maxLevel),
	}
}

// SetTrace turns on one diagnostic line per container-stack push and pop.
func (r *Rewrite) SetTrace(w io.Writer) { r.stack.SetTrace(w) }

func (r *Rewrite) fail(err error) error {
	r.Err = err
	return err
}

// MapStart implements cborio.Visitor.
func (r *Rewrite) MapStart(size uint64) error {
	var frame stack.Frame

	top := r.stack.Top()
	if top == nil {
		frame = stack.Frame{DeclaredSize: int(size), MapPath: pathutil.RootPointer}
	} else {
		candidate := pathutil.Join(top.MapPath, top.CurrentKey)
		frame = stack.Frame{DeclaredSize: int(size), MapPath: candidate + "/"}
		if top.Ignore {
			frame.Ignore = true
		}
		if r.Mode == ModeErase && candidate == r.Target {
			// The whole value being erased is itself a map: drop the
			// entire subtree, header included.
			frame.Ignore = true
		}
	}

	if err := r.writeMapHeader(frame, size); err != nil {
		return r.fail(err)
	}
	if err := r.stack.Push(frame); err != nil {
		return r.fail(errors.Newf(errors.MalformedData, "%v", err))
	}

	if r.Mode == ModeInsert && !frame.Ignore && frame.MapPath == r.InsertionAnchor {
		if err := r.writeInsertChain(); err != nil {
			return r.fail(err)
		}
	}

	// An empty map value never sees a key or value event of its own, so
	// nothing would otherwise complete the pair that holds it.
	if size == 0 {
		r.completePair()
	}
	return nil
}

// writeMapHeader emits the map header for frame, adjusting its declared
// size by one for the two operations that change a map's pair count:
// INSERT growing the anchor map, ERASE shrinking the target's parent. A
// frame inside an already-suppressed (erased) subtree writes nothing.
func (r *Rewrite) writeMapHeader(frame stack.Frame, origSize uint64) error {
	if frame.Ignore {
		return nil
	}
	writeSize := origSize
	switch r.Mode {
	case ModeInsert:
		if frame.MapPath == r.InsertionAnchor {
			writeSize++
		}
	case ModeErase:
		if frame.MapPath == pathutil.Parent(r.Target) {
			writeSize--
		}
	}
	return cborio.EncodeMapHeader(r.w, writeSize)
}

// writeInsertChain synthesizes the missing path below the insertion
// anchor: an intermediate single-pair map header for every segment but
// the last, and the supplied value for the final segment. It is written
// immediately after the anchor map's own header, ahead of that map's
// original pairs, so the new leaf becomes the map's first pair.
func (r *Rewrite) writeInsertChain() error {
	rel := strings.TrimPrefix(r.Target, r.InsertionAnchor)
	segs := strings.Split(rel, "/")
	for i, seg := range segs {
		if err := cborio.EncodeTextString(r.w, seg); err != nil {
			return err
		}
		if i == len(segs)-1 {
			if err := cborio.EncodeValue(r.w, r.NewValue); err != nil {
				return err
			}
			continue
		}
		if err := cborio.EncodeMapHeader(r.w, 1); err != nil {
			return err
		}
	}
	return nil
}

// TextString implements cborio.Visitor.
func (r *Rewrite) TextString(s string) error {
	top := r.stack.Top()
	if top == nil {
		return r.fail(errors.Newf(errors.MalformedData, "text string outside any map"))
	}

	if top.CurrentKey == "" {
		full := pathutil.Join(top.MapPath, s)
		suppress := top.Ignore || (r.Mode == ModeErase && full == r.Target)
		if !suppress {
			if err := cborio.EncodeTextString(r.w, s); err != nil {
				return r.fail(err)
			}
		}
		top.CurrentKey = s
		return nil
	}

	return r.value(func() error { return cborio.EncodeTextString(r.w, s) })
}

// ByteString implements cborio.Visitor.
func (r *Rewrite) ByteString(b []byte) error {
	return r.value(func() error { return cborio.EncodeByteString(r.w, b) })
}

// Uint implements cborio.Visitor.
func (r *Rewrite) Uint(w cborio.Width, v uint64) error {
	return r.value(func() error { return cborio.EncodeUint(r.w, w, v) })
}

// NegInt implements cborio.Visitor.
func (r *Rewrite) NegInt(w cborio.Width, v uint64) error {
	return r.value(func() error { return cborio.EncodeNegInt(r.w, w, v) })
}

// Float implements cborio.Visitor.
func (r *Rewrite) Float(w cborio.Width, v float64) error {
	return r.value(func() error { return cborio.EncodeFloat(r.w, w, v) })
}

// Bool implements cborio.Visitor.
func (r *Rewrite) Bool(v bool) error {
	return r.value(func() error { return cborio.EncodeBool(r.w, v) })
}

// Null implements cborio.Visitor.
func (r *Rewrite) Null() error {
	return r.value(func() error { return cborio.EncodeNull(r.w) })
}

// Undefined implements cborio.Visitor.
func (r *Rewrite) Undefined() error {
	return r.value(func() error { return cborio.EncodeUndefined(r.w) })
}

// Simple implements cborio.Visitor.
func (r *Rewrite) Simple(code byte) error {
	return r.value(func() error { return cborio.EncodeSimple(r.w, code) })
}

// value is the common handler for every scalar value event: it decides,
// based on Mode and whether this pair is the target, whether to emit the
// source value verbatim (via encode), the operation's replacement value,
// or nothing at all, then completes the pair.
func (r *Rewrite) value(encode func() error) error {
	top := r.stack.Top()
	if top == nil || top.CurrentKey == "" {
		return r.fail(errors.Newf(errors.MalformedData, "value with no preceding key"))
	}

	full := pathutil.Join(top.MapPath, top.CurrentKey)

	switch {
	case top.Ignore:
		// Inside a suppressed subtree: write nothing.
	case r.Mode == ModeSet && full == r.Target:
		if err := cborio.EncodeValue(r.w, r.NewValue); err != nil {
			return r.fail(err)
		}
		r.Found = true
	case r.Mode == ModeErase && full == r.Target:
		// The key was already suppressed in TextString; suppress the
		// value too.
		r.Found = true
	default:
		if err := encode(); err != nil {
			return r.fail(err)
		}
	}

	r.completePair()
	return nil
}

// completePair finishes the pair occupying the current top-of-stack
// frame and, if that completes the frame, pops it and recurses into the
// new top so a map whose last pair is itself a map still correctly
// completes every ancestor (see Locate.completePair for why this must
// recurse rather than stop at one level).
func (r *Rewrite) completePair() {
	top := r.stack.Top()
	if top == nil {
		return
	}
	top.CurrentKey = ""
	top.PairIndex++
	if !top.Full() {
		return
	}
	r.stack.Pop()
	if r.stack.Top() != nil {
		r.completePair()
	}
}

// Disallowed CBOR shapes; see Locate for rationale.

// ArrayStart implements cborio.Visitor.
func (r *Rewrite) ArrayStart(size uint64, indefinite bool) error {
	return r.fail(errors.Newf(errors.TypeNotAllowed, "arrays are not supported"))
}

// Tag implements cborio.Visitor.
func (r *Rewrite) Tag(tag uint64) error {
	return r.fail(errors.Newf(errors.TypeNotAllowed, "CBOR tags are not supported"))
}

// IndefiniteStringStart implements cborio.Visitor.
func (r *Rewrite) IndefiniteStringStart(major byte) error {
	return r.fail(errors.Newf(errors.TypeNotAllowed, "indefinite-length items are not supported"))
}

// Break implements cborio.Visitor.
func (r *Rewrite) Break() error {
	return r.fail(errors.Newf(errors.TypeNotAllowed, "indefinite-length break codes are not supported"))
}
