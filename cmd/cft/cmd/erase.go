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

func newEraseCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "erase <file> <pointer>",
		Short: "remove pointer from its parent map",
		Args:  cobra.ExactArgs(2),
		RunE: mkRunE(c, func(c *Command, args []string) error {
			ctx, err := openContext(c, args[0])
			if err != nil {
				fmt.Fprintln(c.Stderr(), err)
				return nil
			}
			if err := ctx.Erase(args[1]); err != nil {
				fmt.Fprintln(c.Stderr(), err)
			}
			return nil
		}),
	}
	return cmd
}
