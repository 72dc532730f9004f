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
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/go-cft/cft/cft/errors"
	"github.com/go-cft/cft/internal/cborio"
	"github.com/go-cft/cft/internal/pathutil"
	"github.com/go-cft/cft/internal/stream"
	"github.com/go-cft/cft/internal/visitor"
)

// Context is the operation façade (spec section 4.6): the single-owner
// handle for one CBOR document on disk through which GetScalar, SetScalar,
// Insert, and Erase are driven. A Context does not synchronize concurrent
// use; callers must serialize access to the same file (spec section 5).
type Context struct {
	path      string
	maxLevel  int
	window    int
	initBytes int
	trace     io.Writer
}

// Option configures a Context at Init time.
type Option func(*Context)

// WithTrace turns on one diagnostic line per container-stack push and pop
// for every pass this Context runs, the Go equivalent of the source
// library's compile-time ENABLE_LOG switch.
func WithTrace(w io.Writer) Option {
	return func(c *Context) { c.trace = w }
}

// Init opens path, confirms its top-level item is a definite-length map
// within the configured init-byte sniff window, and returns a ready-to-use
// Context. It does not keep the file open between operations; each
// GetScalar/SetScalar/Insert/Erase call opens and closes its own file
// handles, matching the source library's per-operation fopen/fclose
// pattern (spec section 4.6/5).
func Init(path string, opts ...Option) (*Context, error) {
	c := &Context{
		path:      path,
		maxLevel:  MaxLevel,
		window:    MaxScanBufLen,
		initBytes: MaxInitBytesLen,
	}
	for _, opt := range opts {
		opt(c)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Newf(errors.OpenFileError, "fail to open path %q: %v", path, err)
	}
	defer f.Close()

	sniff := make([]byte, c.initBytes)
	n, err := io.ReadFull(f, sniff)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, errors.Newf(errors.OpenFileError, "fail to read path %q: %v", path, err)
	}
	sniff = sniff[:n]

	// A throwaway Locate visitor's MapStart is the one piece of logic that
	// already knows what a valid top-level map header looks like; reuse
	// it here instead of duplicating major-type sniffing.
	l := visitor.NewLocate(pathutil.RootPointer, c.maxLevel)
	if _, err := cborio.NewDecoder().Step(sniff, l); err != nil {
		if err == cborio.ErrShortBuffer {
			return nil, errors.Newf(errors.InsufficientInitBytesBuffer,
				"top-level map header in %q does not fit in the %d-byte init window", path, c.initBytes)
		}
		return nil, err
	}

	return c, nil
}

// locate runs one decode pass for target: the document is opened, the
// target's existence and value (or, failing that, its insertion anchor)
// are computed, and the file is closed again before returning.
func (c *Context) locate(target string) (*visitor.Locate, error) {
	if err := c.checkPointer(target); err != nil {
		return nil, err
	}

	f, err := os.Open(c.path)
	if err != nil {
		return nil, errors.Newf(errors.OpenFileError, "fail to open path %q: %v", c.path, err)
	}
	defer f.Close()

	l := visitor.NewLocate(target, c.maxLevel)
	if c.trace != nil {
		l.SetTrace(c.trace)
	}
	d := stream.New(f, c.window)
	if err := d.Run(l, l.Done); err != nil {
		return nil, err
	}
	return l, nil
}

// checkPointer validates target the way the rest of the façade expects:
// syntactically well-formed and within the configured pointer buffer.
func (c *Context) checkPointer(target string) error {
	if target == pathutil.RootPointer {
		return errors.Newf(errors.PointerIsMap, "pointer %q refers to a map, not a scalar", target).WithPath(target)
	}
	if !pathutil.IsValidPointer(target) {
		return errors.Newf(errors.MalformedData, "%q is not a valid pointer", target).WithPath(target)
	}
	if len(target) > MaxPointerLen {
		return errors.Newf(errors.InsufficientPathBuffer,
			"pointer %q exceeds the %d-byte pointer buffer", target, MaxPointerLen).WithPath(target)
	}
	return nil
}

// GetScalar returns the scalar value stored at target.
func (c *Context) GetScalar(target string) (Value, error) {
	l, err := c.locate(target)
	if err != nil {
		return Value{}, err
	}
	if !l.Found {
		return Value{}, errors.Newf(errors.PointerNotFound,
			"%q does not exist, but %q exists", target, l.InsertionAnchor).WithPath(target)
	}
	return l.Value, nil
}

// setOrInsert is the shared body behind SetScalar and Insert: a single
// locate pass tells it whether target already exists, which determines
// the rewrite pass's mode. This is also what makes SET fall through to
// INSERT and INSERT behave as SET when the target already exists (spec
// section 4.6/7), without a second locate pass.
func (c *Context) setOrInsert(target string, newValue Value, old *Value) error {
	l, err := c.locate(target)
	if err != nil {
		return err
	}
	if l.Found {
		if old != nil {
			*old = l.Value
		}
		return c.rewrite(visitor.RewriteRequest{Target: target, Mode: visitor.ModeSet, Value: newValue})
	}
	return c.rewrite(visitor.RewriteRequest{
		Target:          target,
		Mode:            visitor.ModeInsert,
		Value:           newValue,
		InsertionAnchor: l.InsertionAnchor,
	})
}

// SetScalar overwrites the scalar at target with newValue. If old is
// non-nil, the value being overwritten is copied into it first. If target
// does not yet exist, SetScalar falls through to Insert semantics,
// creating any missing intermediate maps.
func (c *Context) SetScalar(target string, newValue Value, old *Value) error {
	return c.setOrInsert(target, newValue, old)
}

// Insert creates target with newValue, synthesizing any missing
// intermediate maps as single-entry maps. If target already exists,
// Insert behaves as SetScalar.
func (c *Context) Insert(target string, newValue Value) error {
	return c.setOrInsert(target, newValue, nil)
}

// Erase removes target from its parent map. If target names a nested map,
// the whole subtree is removed.
func (c *Context) Erase(target string) error {
	l, err := c.locate(target)
	if err != nil {
		// The locate pass reports a map-valued target as PointerIsMap; for
		// ERASE that still means the target exists.
		if target == pathutil.RootPointer || errors.CodeOf(err) != errors.PointerIsMap {
			return err
		}
		return c.rewrite(visitor.RewriteRequest{Target: target, Mode: visitor.ModeErase})
	}
	if !l.Found {
		return errors.Newf(errors.PointerNotFound, "%q does not exist", target).WithPath(target)
	}
	return c.rewrite(visitor.RewriteRequest{Target: target, Mode: visitor.ModeErase})
}

// rewrite runs one encode pass for req: the source file streams through a
// Rewrite visitor into a temporary file in the same directory, which
// atomically replaces the source on success. On any error the temporary
// file is removed and the source is left untouched (spec section 4.4/7).
func (c *Context) rewrite(req visitor.RewriteRequest) (err error) {
	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".cft-*.tmp")
	if err != nil {
		return errors.Newf(errors.CreateTempFileError, "fail to create temp file in %q: %v", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	src, err := os.Open(c.path)
	if err != nil {
		return errors.Newf(errors.OpenFileError, "fail to open path %q: %v", c.path, err)
	}
	defer src.Close()

	w := bufio.NewWriter(tmp)
	rw := visitor.NewRewrite(w, req, c.maxLevel)
	if c.trace != nil {
		rw.SetTrace(c.trace)
	}

	d := stream.New(src, c.window)
	if err = d.Run(rw, nil); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return errors.Newf(errors.CreateTempFileError, "fail to flush temp file %q: %v", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return errors.Newf(errors.CreateTempFileError, "fail to close temp file %q: %v", tmpName, err)
	}
	if err = os.Rename(tmpName, c.path); err != nil {
		return errors.Newf(errors.CreateTempFileError, "fail to rename temp file %q to %q: %v", tmpName, c.path, err)
	}
	return nil
}
