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

// Package stream holds the streaming driver: the loop that pulls CBOR
// items out of a bounded read window and feeds them to a visitor one at a
// time (spec section 4.5).
//
// The source library's driver re-seeks the input file after every decoder
// call. This one instead keeps a single fixed-size buffer and compacts it
// in place: unconsumed bytes slide to the front and the tail is topped up
// from the reader, so a large document costs one forward pass over the
// file rather than one seek per item (design note 5).
package stream

import (
	"io"

	"github.com/go-cft/cft/cft/errors"
	"github.com/go-cft/cft/internal/cborio"
)

// Driver pulls CBOR items from r through a fixed-size window and
// dispatches them to a cborio.Visitor via a Decoder.
type Driver struct {
	r      io.Reader
	dec    *cborio.Decoder
	buf    []byte
	filled int
}

// New returns a Driver that reads from r through a window of windowSize
// bytes. windowSize must be at least as large as the largest single CBOR
// item header plus the longest key or value string the caller intends to
// accept (spec section 4.5); cft.MaxScanBufLen is the library default.
func New(r io.Reader, windowSize int) *Driver {
	return &Driver{r: r, dec: cborio.NewDecoder(), buf: make([]byte, windowSize)}
}

// Run feeds v with one event per CBOR item until done reports true, the
// source is exhausted at an item boundary, or an error occurs. done may
// be nil, in which case Run stops only at end of file or on error; the
// rewrite pass uses this to force a full re-encode of the document.
//
// Run returns the first error encountered: the error the visitor itself
// latched, a *errors.Error of Run's own (MalformedData for a malformed
// item header or input that ends mid-document, InsufficientBuffer for an
// item larger than the window), or a read error from r as-is.
// cborio.ErrShortBuffer is never returned; Run absorbs it by refilling.
func (d *Driver) Run(v cborio.Visitor, done func() bool) error {
	for {
		if done != nil && done() {
			return nil
		}
		if d.filled == 0 {
			if err := d.refill(); err != nil {
				if err == io.EOF {
					// With no done callback (the rewrite pass), running out
					// of input at a clean item boundary is exactly how a
					// fully re-encoded document finishes. With one (the
					// locate pass), done always goes true at that same
					// boundary before a refill is ever attempted, so
					// reaching EOF here instead means the source ran out
					// mid-document.
					if done == nil {
						return nil
					}
					return errors.Newf(errors.MalformedData, "unexpected end of file")
				}
				return err
			}
		}

		n, err := d.dec.Step(d.buf[:d.filled], v)
		if err != nil {
			if err == cborio.ErrMalformed {
				return errors.Newf(errors.MalformedData, "%v", err)
			}
			if err != cborio.ErrShortBuffer {
				return err
			}
			if rerr := d.refill(); rerr != nil {
				if rerr == io.EOF {
					return errors.Newf(errors.MalformedData, "unexpected end of file mid-item")
				}
				return rerr
			}
			continue
		}

		copy(d.buf, d.buf[n:d.filled])
		d.filled -= n
	}
}

// refill reads more bytes into the tail of the window. It returns io.EOF
// only when the reader has nothing left at all; any other read error is
// returned as-is.
func (d *Driver) refill() error {
	if d.filled == len(d.buf) {
		return errors.Newf(errors.InsufficientBuffer,
			"CBOR item exceeds the %d-byte streaming window", len(d.buf))
	}
	for {
		n, err := d.r.Read(d.buf[d.filled:])
		d.filled += n
		if n > 0 {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
