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
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/go-cft/cft/internal/cbortest"
)

// TestScript exercises the cft binary end to end, the way cmd/cue/cmd's
// TestScript drives the cue binary through testscript. Each seed scenario
// from the library's test suite gets its own txtar script under
// testdata/script.
func TestScript(t *testing.T) {
	p := testscript.Params{
		Dir: "testdata/script",
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			// cbor-from-yaml writes the CBOR encoding of a YAML fixture file
			// to a destination file, so scripts can stay human-readable
			// instead of embedding raw CBOR bytes in a txtar archive.
			"cbor-from-yaml": func(ts *testscript.TestScript, neg bool, args []string) {
				if neg || len(args) != 2 {
					ts.Fatalf("usage: cbor-from-yaml src.yaml dst.cbor")
				}
				doc := ts.ReadFile(args[0])
				b, err := cbortest.Encode(doc)
				ts.Check(err)
				ts.Check(os.WriteFile(ts.MkAbs(args[1]), b, 0o644))
			},
		},
	}
	testscript.Run(t, p)
}

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"cft": Main,
	}))
}
