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

	"github.com/spf13/cobra"
)

func newSetCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <file> <pointer> <value>",
		Short: "overwrite the scalar at pointer, inserting it if missing",
		Long: `set overwrites the scalar value stored at pointer.

If pointer does not yet exist, set falls through to insert semantics,
creating any missing intermediate maps as single-entry maps.`,
		Args: cobra.ExactArgs(3),
		RunE: mkRunE(c, func(c *Command, args []string) error {
			newValue, err := parseValue(flagType.String(c), args[2])
			if err != nil {
				fmt.Fprintln(c.Stderr(), err)
				return nil
			}
			ctx, err := openContext(c, args[0])
			if err != nil {
				fmt.Fprintln(c.Stderr(), err)
				return nil
			}
			if err := ctx.SetScalar(args[1], newValue, nil); err != nil {
				fmt.Fprintln(c.Stderr(), err)
			}
			return nil
		}),
	}
	addValueFlags(cmd.Flags())
	return cmd
}
