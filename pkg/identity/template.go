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
	"maps"
	"slices"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gitctx/pkg/errkind"
)

// Template is a built-in preset a new context can be created from. GitConfig
// keys left blank are placeholders the user fills in afterwards.
type Template struct {
	Description string
	GitConfig   map[string]string
	URLPatterns []string
}

// templates is the fixed catalog of built-in presets, keyed by template name.
var templates = map[string]Template{
	"work": {
		Description: "Work identity for company repositories",
		GitConfig: map[string]string{
			"user.name":      "",
			"user.email":     "",
			"commit.gpgsign": "false",
		},
		URLPatterns: []string{},
	},
	"personal": {
		Description: "Personal identity for your own repositories",
		GitConfig: map[string]string{
			"user.name":  "",
			"user.email": "",
		},
		URLPatterns: []string{},
	},
	"opensource": {
		Description: "Open source identity with signed commits",
		GitConfig: map[string]string{
			"user.name":       "",
			"user.email":      "",
			"user.signingkey": "",
			"commit.gpgsign":  "true",
		},
		URLPatterns: []string{"github.com/*/*"},
	},
}

// TemplateNames returns the catalog's template names in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LookupTemplate returns the named built-in template.
func LookupTemplate(name string) (Template, error) {
	tpl, ok := templates[name]
	if !ok {
		return Template{}, errors.Errorf("template %q: %w", name, errkind.ErrNotFound)
	}
	return tpl, nil
}

// FromTemplate creates a new context under the caller-supplied name from a
// built-in template: the template's description, gitConfig defaults and URL
// patterns are copied, path patterns start empty.
func FromTemplate(name, templateName string) (Context, error) {
	tpl, err := LookupTemplate(templateName)
	if err != nil {
		return Context{}, err
	}

	return New(name, tpl.Description, nil, maps.Clone(tpl.GitConfig), slices.Clone(tpl.URLPatterns)), nil
}
