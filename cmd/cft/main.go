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

// Command cft reads and edits CBOR configuration file trees from the
// shell: get, set, insert, and erase map directly onto cft.Context's
// operations.
package main

import (
	"os"

	"github.com/go-cft/cft/cmd/cft/cmd"
)

func main() {
	os.Exit(cmd.Main())
}
