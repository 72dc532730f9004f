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
	"fmt"

	"github.com/spf13/pflag"
)

// Common flags, following cmd/cue/cmd's flagName-constant pattern: every
// flag lives behind a typed constant so a command can't reference a flag
// it forgot to register.
const (
	flagType  flagName = "type"
	flagTrace flagName = "trace"
)

func addGlobalFlags(f *pflag.FlagSet) {
	f.Bool(string(flagTrace), false, "print one line per container-stack push/pop to stderr")
}

func addValueFlags(f *pflag.FlagSet) {
	f.String(string(flagType), "text",
		"type of the value argument: text, bytes, bool, null, uint8, uint16, uint32, uint64, int8, int16, int32, int64, float32, float64")
}

type flagName string

// ensureAdded detects a flag used in a command without first being added
// to its flag set. Flag names are declared globally, so this is an easy
// mistake to make when wiring up a new subcommand.
func (f flagName) ensureAdded(cmd *Command) {
	if cmd.Flags().Lookup(string(f)) == nil {
		panic(fmt.Sprintf("cmd %q uses flag %q without adding it", cmd.Name(), f))
	}
}

func (f flagName) Bool(cmd *Command) bool {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetBool(string(f))
	return v
}

func (f flagName) String(cmd *Command) string {
	f.ensureAdded(cmd)
	v, _ := cmd.Flags().GetString(string(f))
	return v
}
