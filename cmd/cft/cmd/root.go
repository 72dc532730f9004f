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

// Package cmd implements the cft command-line tool: thin drivers over
// cft.Context's GetScalar/SetScalar/Insert/Erase, following the
// Command/New/Main split of cmd/cue/cmd.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// runFunction is the signature every subcommand's RunE closes over.
type runFunction func(cmd *Command, args []string) error

func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cc *cobra.Command, args []string) error {
		c.Command = cc
		return f(c, args)
	}
}

// New creates the top-level command, wiring every cft subcommand.
func New(args []string) (*Command, error) {
	root := &cobra.Command{
		Use:   "cft",
		Short: "cft reads and edits CBOR configuration file trees",

		// Errors are printed by Main, not by cobra, and help text should
		// not drown out the actual failure.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	c := &Command{Command: root, root: root}
	addGlobalFlags(root.PersistentFlags())

	for _, sub := range []*cobra.Command{
		newGetCmd(c),
		newSetCmd(c),
		newInsertCmd(c),
		newEraseCmd(c),
	} {
		root.AddCommand(sub)
	}

	root.SetArgs(args)
	return c, nil
}

// Main runs the cft tool and returns the code to pass to os.Exit.
func Main() int {
	c, _ := New(os.Args[1:])
	if err := c.Run(); err != nil {
		if err != errPrintedError {
			fmt.Fprintf(os.Stderr, "cft: %v\n", err)
		}
		return 1
	}
	return 0
}

// Command wraps the active *cobra.Command the way cmd/cue/cmd.Command
// does, so subcommands can share helpers like Stderr without each one
// reaching for a package-level cobra.Command.
type Command struct {
	*cobra.Command

	root   *cobra.Command
	hasErr bool
}

type errWriter Command

func (w *errWriter) Write(b []byte) (int, error) {
	c := (*Command)(w)
	c.hasErr = len(b) > 0
	return c.Command.OutOrStderr().Write(b)
}

// Stderr returns a writer for error messages; writing to it marks the
// command as having failed, so Run returns a non-zero exit code even if
// the RunE function itself returns nil.
func (c *Command) Stderr() io.Writer {
	return (*errWriter)(c)
}

func (c *Command) SetOutput(w io.Writer) {
	c.root.SetOut(w)
	c.root.SetErr(w)
}

// errPrintedError marks an error that has already been written to
// stderr, so Main does not print it a second time.
var errPrintedError = fmt.Errorf("cft: terminating because of errors")

func (c *Command) Run() (err error) {
	if err := c.root.Execute(); err != nil {
		return err
	}
	if c.hasErr {
		return errPrintedError
	}
	return nil
}
