// Copyright 2025 walteh LLC
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

package identity

import (
	"fmt"
	"strings"
)

// ConfigFragment renders the per-context .gitconfig fragment: a [user] block
// with name and email (only when non-empty) and, only when a signing key is
// set, the key line plus a [commit] block carrying the gpgsign flag.
//
// This is a one-way renderer. Fragments are regenerated from the context on
// every change and never parsed back.
func (c Context) ConfigFragment() string {
	var b strings.Builder

	b.WriteString("[user]\n")
	if name := c.UserName(); name != "" {
		fmt.Fprintf(&b, "\tname = %s\n", name)
	}
	if email := c.UserEmail(); email != "" {
		fmt.Fprintf(&b, "\temail = %s\n", email)
	}

	if key := c.SigningKey(); key != "" {
		fmt.Fprintf(&b, "\tsigningkey = %s\n", key)
		b.WriteString("\n[commit]\n")
		fmt.Fprintf(&b, "\tgpgsign = %t\n", c.AutoSign())
	}

	return b.String()
}
