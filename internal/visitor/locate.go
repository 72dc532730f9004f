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

	"github.com/go-cft/cft/cft/errors"
	"github.com/go-cft/cft/internal/cborio"
	"github.com/go-cft/cft/internal/pathutil"
	"github.com/go-cft/cft/internal/stack"
	"github.com/go-cft/cft/internal/value"
)

// Locate implements cborio.Visitor for the decode ("locate") pass: it
// walks a document once, determines whether Target exists, captures its
// value if so, and otherwise records the deepest existing ancestor map
// (the insertion anchor) so a follow-up rewrite pass knows where to
// synthesize missing structure.
type Locate struct {
	Target string

	stack *stack.Stack

	Found           bool
	Value           value.Value
	InsertionAnchor string
	Err             error
}

// NewLocate constructs a Locate visitor bounded to maxLevel nested maps.
func NewLocate(target string, maxLevel int) *Locate {
	return &Locate{Target: target, stack: stack.New(maxLevel)}
}

// SetTrace turns on one diagnostic line per container-stack push and pop.
func (l *Locate) SetTrace(w io.Writer) { l.stack.SetTrace(w) }

// Done reports whether the locate pass has reached a terminal state:
// found the target, recorded the insertion anchor (meaning the target
// provably does not exist), or latched an error.
func (l *Locate) Done() bool {
	return l.Found || l.InsertionAnchor != "" || l.Err != nil
}

func (l *Locate) fail(err error) error {
	l.Err = err
	return err
}

// MapStart implements cborio.Visitor.
func (l *Locate) MapStart(size uint64) error {
	top := l.stack.Top()
	if top == nil {
		if err := l.stack.Push(stack.Frame{DeclaredSize: int(size), MapPath: pathutil.RootPointer}); err != nil {
			return l.fail(errors.Newf(errors.MalformedData, "%v", err))
		}
		if size == 0 {
			l.completePair()
		}
		return nil
	}

	candidate := pathutil.Join(top.MapPath, top.CurrentKey)
	if candidate == l.Target {
		return l.fail(errors.Newf(errors.PointerIsMap, "pointer %q refers to a map, not a scalar", l.Target).WithPath(l.Target))
	}

	frame := stack.Frame{
		DeclaredSize:   int(size),
		MapPath:        candidate + "/",
		OnTargetPrefix: false,
	}
	if top.Ignore || !top.OnTargetPrefix {
		frame.Ignore = true
	}
	if err := l.stack.Push(frame); err != nil {
		return l.fail(errors.Newf(errors.MalformedData, "%v", err))
	}
	// An empty map value never sees a key or value event of its own, so
	// nothing would otherwise complete the pair that holds it.
	if size == 0 {
		l.completePair()
	}
	return nil
}

// TextString implements cborio.Visitor. Text strings are ambiguous
// between key and value position; the frame's CurrentKey tells them
// apart.
func (l *Locate) TextString(s string) error {
	top := l.stack.Top()
	if top == nil {
		return l.fail(errors.Newf(errors.MalformedData, "text string outside any map"))
	}
	if top.CurrentKey == "" {
		top.CurrentKey = s
		top.OnTargetPrefix = pathutil.IsPrefixOf(pathutil.Join(top.MapPath, top.CurrentKey), l.Target)
		return nil
	}
	return l.value(value.NewText(s))
}

// ByteString implements cborio.Visitor.
func (l *Locate) ByteString(b []byte) error { return l.value(value.NewBytes(b)) }

// Uint implements cborio.Visitor.
func (l *Locate) Uint(w cborio.Width, v uint64) error {
	return l.value(value.Value{Kind: value.KindUint, Width: value.Width(w), U: v})
}

// NegInt implements cborio.Visitor.
func (l *Locate) NegInt(w cborio.Width, v uint64) error {
	return l.value(value.Value{Kind: value.KindNegInt, Width: value.Width(w), U: v})
}

// Float implements cborio.Visitor.
func (l *Locate) Float(w cborio.Width, v float64) error {
	return l.value(value.Value{Kind: value.KindFloat, Width: value.Width(w), F: v})
}

// Bool implements cborio.Visitor.
func (l *Locate) Bool(v bool) error { return l.value(value.NewBool(v)) }

// Null implements cborio.Visitor.
func (l *Locate) Null() error { return l.value(value.NewNull()) }

// Undefined implements cborio.Visitor.
func (l *Locate) Undefined() error { return l.value(value.NewUndefined()) }

// Simple implements cborio.Visitor.
func (l *Locate) Simple(code byte) error { return l.value(value.NewSimple(code)) }

// value is the common handler for every scalar value event, regardless of
// kind: compute the full path, detect a value-with-no-key or a
// target-descends-past-a-leaf error, capture the value if it is the one
// being sought, and complete the pair.
func (l *Locate) value(v value.Value) error {
	top := l.stack.Top()
	if top == nil || top.CurrentKey == "" {
		return l.fail(errors.Newf(errors.MalformedData, "value with no preceding key"))
	}

	full := pathutil.Join(top.MapPath, top.CurrentKey)
	if top.OnTargetPrefix && full != l.Target {
		return l.fail(errors.Newf(errors.WrongDataType,
			"pointer %q descends into a non-map value at %q", l.Target, full).WithPath(full))
	}

	// Record a match before completing the pair: completing the root's
	// own last pair recurses all the way through completePair and may
	// otherwise mistake an about-to-succeed lookup for a failed one.
	if top.OnTargetPrefix && !top.Ignore && full == l.Target {
		l.Value = v
		l.Found = true
	}

	l.completePair()
	return nil
}

// completePair finishes the pair occupying the current top-of-stack frame:
// its value has just been fully read, whether that value was a scalar
// (called directly from value()) or a nested map (called again here once
// that map's own last pair completes and it pops off the stack). If this
// completion fills the frame, it pops and recurses into the new top so a
// map whose LAST pair is itself a map still correctly completes every
// ancestor up the chain, rather than leaving them permanently short one
// pair the way the source library's current_index bookkeeping does.
func (l *Locate) completePair() {
	top := l.stack.Top()
	if top == nil {
		return
	}

	savedOnTargetPrefix := top.OnTargetPrefix
	savedMapPath := top.MapPath
	top.CurrentKey = ""
	top.PairIndex++

	if !top.Full() {
		return
	}

	l.stack.Pop()
	newTop := l.stack.Top()
	if newTop != nil {
		if newTop.OnTargetPrefix && !savedOnTargetPrefix {
			// The frame that just closed (savedMapPath) is the deepest
			// existing ancestor map on the target's path: its parent was
			// being searched but its own key wasn't on that path.
			l.InsertionAnchor = savedMapPath
		}
		l.completePair()
		return
	}

	// The document's top-level map just closed without the target ever
	// being found or a deeper anchor ever being recorded: the root map
	// itself is the insertion point.
	if !l.Found && l.InsertionAnchor == "" {
		l.InsertionAnchor = pathutil.RootPointer
	}
}

// Disallowed CBOR shapes. Spec section 4.3: array start, tag, any
// indefinite-length start, and indefinite break all fail the operation
// immediately with TypeNotAllowed.

// ArrayStart implements cborio.Visitor.
func (l *Locate) ArrayStart(size uint64, indefinite bool) error {
	return l.fail(errors.Newf(errors.TypeNotAllowed, "arrays are not supported"))
}

// Tag implements cborio.Visitor.
func (l *Locate) Tag(tag uint64) error {
	return l.fail(errors.Newf(errors.TypeNotAllowed, "CBOR tags are not supported"))
}

// IndefiniteStringStart implements cborio.Visitor.
func (l *Locate) IndefiniteStringStart(major byte) error {
	return l.fail(errors.Newf(errors.TypeNotAllowed, "indefinite-length items are not supported"))
}

// Break implements cborio.Visitor.
func (l *Locate) Break() error {
	return l.fail(errors.Newf(errors.TypeNotAllowed, "indefinite-length break codes are not supported"))
}
