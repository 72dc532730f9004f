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

// Parent returns the longest prefix of p that ends in "/": the path of the
// map that directly contains p. Parent("/") is "/".
func Parent(p string) string { return pathutil.Parent(p) }

// LastSegment returns the substring of p after its final "/".
func LastSegment(p string) string { return pathutil.LastSegment(p) }

// IsPrefixOf reports whether a is a prefix of b at a segment boundary:
// either a ends in "/", or the character in b immediately following a is
// "/" or end-of-string. This is what lets the decode visitor decide
// whether descending into a given key is worth doing, without matching
// "/ab" against a target of "/abc".
func IsPrefixOf(a, b string) bool { return pathutil.IsPrefixOf(a, b) }

// Join concatenates a map path and a key, ensuring exactly one "/"
// separator. It is never used to produce a trailing "/"; mapPath is
// expected to already end in one.
func Join(mapPath, key string) string { return pathutil.Join(mapPath, key) }

// IsValidPointer reports whether p is a syntactically valid leaf target:
// it begins with "/", is non-empty, does not end in "/" (a trailing slash
// denotes a map, which is never a valid target for GET/SET/INSERT/ERASE),
// and every segment is non-empty.
func IsValidPointer(p string) bool { return pathutil.IsValidPointer(p) }

// Segments splits a leaf or map path into its non-empty name segments.
func Segments(p string) []string { return pathutil.Segments(p) }
