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

package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/go-cft/cft/cft"
)

// openContext opens path with the options implied by the command's
// global flags.
func openContext(c *Command, path string) (*cft.Context, error) {
	var opts []cft.Option
	if flagTrace.Bool(c) {
		opts = append(opts, cft.WithTrace(c.Stderr()))
	}
	return cft.Init(path, opts...)
}

// parseValue turns a CLI value argument into a cft.Value according to
// typeName (the --type flag), the way cue's flagName-driven flag parsing
// hands typed values down to its own commands.
func parseValue(typeName, raw string) (cft.Value, error) {
	switch typeName {
	case "text":
		return cft.NewText(raw), nil
	case "bytes":
		b, err := hex.DecodeString(raw)
		if err != nil {
			return cft.Value{}, fmt.Errorf("invalid hex for --type bytes: %w", err)
		}
		return cft.NewBytes(b), nil
	case "bool":
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return cft.Value{}, fmt.Errorf("invalid bool: %w", err)
		}
		return cft.NewBool(v), nil
	case "null":
		return cft.NewNull(), nil
	case "uint8":
		v, err := strconv.ParseUint(raw, 10, 8)
		return cft.NewUint8(uint8(v)), wrapParseErr(err, typeName)
	case "uint16":
		v, err := strconv.ParseUint(raw, 10, 16)
		return cft.NewUint16(uint16(v)), wrapParseErr(err, typeName)
	case "uint32":
		v, err := strconv.ParseUint(raw, 10, 32)
		return cft.NewUint32(uint32(v)), wrapParseErr(err, typeName)
	case "uint64":
		v, err := strconv.ParseUint(raw, 10, 64)
		return cft.NewUint64(v), wrapParseErr(err, typeName)
	case "int8":
		v, err := strconv.ParseInt(raw, 10, 8)
		return cft.NewInt8(int8(v)), wrapParseErr(err, typeName)
	case "int16":
		v, err := strconv.ParseInt(raw, 10, 16)
		return cft.NewInt16(int16(v)), wrapParseErr(err, typeName)
	case "int32":
		v, err := strconv.ParseInt(raw, 10, 32)
		return cft.NewInt32(int32(v)), wrapParseErr(err, typeName)
	case "int64":
		v, err := strconv.ParseInt(raw, 10, 64)
		return cft.NewInt64(v), wrapParseErr(err, typeName)
	case "float32":
		v, err := strconv.ParseFloat(raw, 32)
		return cft.NewFloat32(float32(v)), wrapParseErr(err, typeName)
	case "float64":
		v, err := strconv.ParseFloat(raw, 64)
		return cft.NewFloat64(v), wrapParseErr(err, typeName)
	default:
		return cft.Value{}, fmt.Errorf("unknown --type %q", typeName)
	}
}

func wrapParseErr(err error, typeName string) error {
	if err != nil {
		return fmt.Errorf("invalid %s value: %w", typeName, err)
	}
	return nil
}
