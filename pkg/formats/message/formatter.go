// Copyright 2026 The processing-go Authors
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

package message

import "strings"

// formatter renders structured header values as display strings, shared by
// the text and HTML visitors.
type formatter struct{}

// formatAddress renders "Name <email>", "Name", or "<email>"; returns false
// when the address is empty.
func (formatter) formatAddress(a Address) (string, bool) {
	switch {
	case a.Name != "" && a.Email != "":
		return a.Name + " <" + a.Email + ">", true
	case a.Name != "":
		return a.Name, true
	case a.Email != "":
		return "<" + a.Email + ">", true
	}
	return "", false
}

func (f formatter) formatAddressList(addrs []Address) (string, bool) {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if s, ok := f.formatAddress(a); ok {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ", "), true
}

func (f formatter) formatGroup(g Group) (string, bool) {
	addrs, ok := f.formatAddressList(g.Addresses)
	switch {
	case g.Name != "" && ok:
		return g.Name + " <" + addrs + ">", true
	case g.Name != "":
		return g.Name, true
	case ok:
		return "<" + addrs + ">", true
	}
	return "", false
}

func (f formatter) formatGroupList(groups []Group) (string, bool) {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		if s, ok := f.formatGroup(g); ok {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ", "), true
}

func (formatter) formatTextList(texts []string) (string, bool) {
	if len(texts) == 0 {
		return "", false
	}
	return strings.Join(texts, ", "), true
}

// dateTimeLayout renders dates the way the archive's readers expect them:
// ISO 8601 with a numeric zone offset.
const dateTimeLayout = "2006-01-02T15:04:05-07:00"
