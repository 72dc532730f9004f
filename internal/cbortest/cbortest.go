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

// Package cbortest turns human-writable YAML fixtures into the restricted
// CBOR documents this module operates on. There is no CBOR diagnostic
// notation library in the example pack, so tests write fixtures as YAML
// mappings and this package walks the decoded tree through the module's
// own encoder, the same role cuelang.org/go/internal/encoding/yaml plays
// for that project's test fixtures.
package cbortest

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/go-cft/cft/internal/cborio"
)

// Encode decodes a YAML document (which must be a mapping at its top
// level, per this module's definite-length-map-only subset) and returns
// the equivalent CBOR bytes. Every scalar is encoded as the narrowest
// width its YAML representation implies: integers that fit in a byte as
// Width8, a YAML float as Width64, true/false/null as their CBOR simple
// values.
func Encode(doc string) ([]byte, error) {
	var n yaml.Node
	if err := yaml.Unmarshal([]byte(doc), &n); err != nil {
		return nil, fmt.Errorf("cbortest: parse YAML: %w", err)
	}
	if len(n.Content) != 1 {
		return nil, fmt.Errorf("cbortest: empty YAML document")
	}

	var buf bytes.Buffer
	if err := encodeNode(&buf, n.Content[0]); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustEncode is Encode for callers, such as table-driven test fixtures,
// that are confident doc is well-formed and would rather fail loudly than
// thread an error back through a test table.
func MustEncode(doc string) []byte {
	b, err := Encode(doc)
	if err != nil {
		panic(err)
	}
	return b
}

func encodeNode(w *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return fmt.Errorf("cbortest: empty YAML document")
		}
		return encodeNode(w, n.Content[0])
	case yaml.MappingNode:
		return encodeMapping(w, n)
	case yaml.ScalarNode:
		return encodeScalar(w, n)
	case yaml.AliasNode:
		return encodeNode(w, n.Alias)
	default:
		return fmt.Errorf("cbortest: %s is not representable in this module's CBOR subset (only maps and scalars are)", kindName(n.Kind))
	}
}

func encodeMapping(w *bytes.Buffer, n *yaml.Node) error {
	if len(n.Content)%2 != 0 {
		return fmt.Errorf("cbortest: malformed mapping node")
	}
	size := len(n.Content) / 2
	if err := cborio.EncodeMapHeader(w, uint64(size)); err != nil {
		return err
	}
	for i := 0; i < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Tag != "!!str" {
			return fmt.Errorf("cbortest: map keys must be strings, got %s", kindName(key.Kind))
		}
		if err := cborio.EncodeTextString(w, key.Value); err != nil {
			return err
		}
		if err := encodeNode(w, val); err != nil {
			return err
		}
	}
	return nil
}

func encodeScalar(w *bytes.Buffer, n *yaml.Node) error {
	switch n.Tag {
	case "!!str":
		return cborio.EncodeTextString(w, n.Value)
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("cbortest: decode bool: %w", err)
		}
		return cborio.EncodeBool(w, v)
	case "!!null":
		return cborio.EncodeNull(w)
	case "!!int":
		var v int64
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("cbortest: decode int: %w", err)
		}
		if v < 0 {
			return cborio.EncodeNegInt(w, widthForMagnitude(uint64(-v-1)), uint64(-v-1))
		}
		return cborio.EncodeUint(w, widthForMagnitude(uint64(v)), uint64(v))
	case "!!float":
		var v float64
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("cbortest: decode float: %w", err)
		}
		return cborio.EncodeFloat(w, cborio.Width64, v)
	case "!!binary":
		var v []byte
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("cbortest: decode binary: %w", err)
		}
		return cborio.EncodeByteString(w, v)
	default:
		return fmt.Errorf("cbortest: unsupported YAML scalar tag %q", n.Tag)
	}
}

func widthForMagnitude(v uint64) cborio.Width {
	switch {
	case v <= 0xff:
		return cborio.Width8
	case v <= 0xffff:
		return cborio.Width16
	case v <= 0xffffffff:
		return cborio.Width32
	default:
		return cborio.Width64
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.DocumentNode:
		return "a document"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "an unrecognized node"
	}
}
