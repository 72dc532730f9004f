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

import "github.com/go-cft/cft/internal/pathutil"

// Compile-time limits. These mirror the source library's #define bounds
// (MAX_LEVEL, MAX_POINTER_LEN, ...): the spec fixes nesting depth and
// buffer sizes at build time rather than making them runtime-configurable.
const (
	// MaxLevel is the deepest map nesting the container stack can track.
	MaxLevel = 16

	// MaxPointerLen is the longest absolute path this library accepts.
	MaxPointerLen = 256

	// MaxDataLen is the nominal size of a single scalar value. No operation
	// checks it; the effective limit on one item is the streaming window,
	// MaxScanBufLen.
	MaxDataLen = 1024

	// MaxScanBufLen is the size of the streaming driver's read window.
	MaxScanBufLen = 1024

	// MaxInitBytesLen bounds the header sniff performed by Init.
	MaxInitBytesLen = 8
)

// RootPointer is the path denoting the top-level map.
const RootPointer = pathutil.RootPointer
