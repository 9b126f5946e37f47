// Copyright © 2023 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package invariant panics on conditions that indicate a bug in this
// module rather than bad caller input, e.g. "no king on the board" or
// "move re-validates to false" — the same plain panic("...: message")
// texture as pkg/board/piece.New/pkg/board/square.New, just named so
// the distinction between "caller gave us garbage" (returned as an
// error) and "our own state machine is broken" (panics) reads clearly
// at the call site.
package invariant

import "fmt"

// Check panics with a "pkg: msg" message if ok is false.
func Check(ok bool, pkg, msg string) {
	if !ok {
		panic(fmt.Sprintf("%s: %s", pkg, msg))
	}
}

// Checkf is Check with a formatted message.
func Checkf(ok bool, pkg, format string, args ...any) {
	if !ok {
		panic(fmt.Sprintf("%s: %s", pkg, fmt.Sprintf(format, args...)))
	}
}
