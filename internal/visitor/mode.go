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

// Package visitor implements the decode (locate) and encode (rewrite)
// visitors described by the streaming engine: the stateful callbacks that
// drive a stack.Stack as CBOR events arrive and either capture a target
// value or re-emit the document with surgical edits.
package visitor

import "github.com/go-cft/cft/internal/value"

// Mode is the tagged operation variant every rewrite pass is parameterized
// on. The source library tracked this as three independent booleans
// (insert/set/erase) on a long-lived context; here it is a single value
// threaded explicitly through each call, so no state leaks between
// operations run against the same Context.
type Mode int

const (
	ModeSet Mode = iota
	ModeInsert
	ModeErase
)

func (m Mode) String() string {
	switch m {
	case ModeSet:
		return "set"
	case ModeInsert:
		return "insert"
	case ModeErase:
		return "erase"
	default:
		return "unknown"
	}
}

// RewriteRequest bundles everything the rewrite pass needs beyond the
// source bytes: which path is being targeted, under which mode, and (for
// SET/INSERT) the replacement value.
type RewriteRequest struct {
	Target string
	Mode   Mode
	Value  value.Value

	// InsertionAnchor is the deepest existing ancestor map of Target, as
	// computed by a prior locate pass. Only meaningful in ModeInsert.
	InsertionAnchor string
}
