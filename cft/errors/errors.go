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

// Package errors defines the wire-stable error taxonomy shared by every
// component of the CFT streaming engine.
//
// The pivotal type is Code: an enum whose identifiers and relative order
// are preserved for wire compatibility with earlier implementations of
// this library. Error wraps a Code with a human-readable Message and an
// optional path into the document where the error occurred.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies one of the error conditions a CFT operation can report.
// The identifiers are preserved across implementations; do not renumber.
type Code int

const (
	OK Code = iota
	PointerNotFound
	WrongDataType
	InsufficientBuffer
	InsufficientInitBytesBuffer
	InsufficientPathBuffer
	AllocError
	TypeNotAllowed
	MalformedData
	PointerIsMap
	CreateTempFileError
	OpenFileError
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case PointerNotFound:
		return "PointerNotFound"
	case WrongDataType:
		return "WrongDataType"
	case InsufficientBuffer:
		return "InsufficientBuffer"
	case InsufficientInitBytesBuffer:
		return "InsufficientInitBytesBuffer"
	case InsufficientPathBuffer:
		return "InsufficientPathBuffer"
	case AllocError:
		return "AllocError"
	case TypeNotAllowed:
		return "TypeNotAllowed"
	case MalformedData:
		return "MalformedData"
	case PointerIsMap:
		return "PointerIsMap"
	case CreateTempFileError:
		return "CreateTempFileError"
	case OpenFileError:
		return "OpenFileError"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// MaxMessageLen bounds the human-readable text carried by an Error,
// mirroring the source's MAX_ERR_MSG_LEN.
const MaxMessageLen = 128

// Message is a deferred, printf-style error message, following
// cue/errors.Message: formatting is deferred so callers can localize or
// truncate before rendering.
type Message struct {
	format string
	args   []interface{}
}

// NewMessagef creates a deferred error message.
func NewMessagef(format string, args ...interface{}) Message {
	return Message{format: format, args: args}
}

// Msg returns the raw format string and arguments.
func (m Message) Msg() (string, []interface{}) {
	return m.format, m.args
}

func (m Message) Error() string {
	s := fmt.Sprintf(m.format, m.args...)
	if len(s) > MaxMessageLen {
		s = s[:MaxMessageLen]
	}
	return s
}

// Error is the error type returned by every CFT operation. It carries a
// wire-stable Code plus an optional Path identifying where in the document
// the error occurred.
type Error struct {
	code Code
	msg  Message
	path string
}

// Newf creates an Error with the given code and message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{code: code, msg: NewMessagef(format, args...)}
}

// WithPath attaches the document path associated with an error.
func (e *Error) WithPath(path string) *Error {
	e.path = path
	return e
}

// Code returns the wire-stable error code.
func (e *Error) Code() Code {
	if e == nil {
		return OK
	}
	return e.code
}

// Path returns the document pointer associated with the error, if any.
func (e *Error) Path() string {
	if e == nil {
		return ""
	}
	return e.path
}

// Msg returns the unformatted message and its arguments.
func (e *Error) Msg() (string, []interface{}) {
	return e.msg.Msg()
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.code, e.msg.Error(), e.path)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg.Error())
}

// CodeOf reports the Code carried by err, or OK if err is nil, or
// AllocError if err does not carry a recognizable CFT code (this should
// not happen for errors originating in this module).
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return AllocError
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
