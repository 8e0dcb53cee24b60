// Copyright 2026 cloudygreybeard
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

package environment

import (
	"net/url"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// labelLength is the number of characters shown in badges and title prefixes.
const labelLength = 4

var upper = cases.Upper(language.Und)

// Domain returns the hostname of an absolute URL.
//
// Comparison downstream is exact: no case folding, no punycode. Anything
// that does not parse as a URL with a host yields "".
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Hostname()
}

// Match returns the first record whose URL hostname equals the hostname of
// rawURL, along with its index. Duplicate hostnames are never de-duplicated;
// list order decides.
func Match(rawURL string, records []Record) (Record, int, bool) {
	domain := Domain(rawURL)
	if domain == "" {
		return Record{}, -1, false
	}
	for i, r := range records {
		if Domain(r.URL) == domain {
			return r, i, true
		}
	}
	return Record{}, -1, false
}

// SameDomain reports whether two URLs share a non-empty hostname.
func SameDomain(a, b string) bool {
	d := Domain(a)
	return d != "" && d == Domain(b)
}

// BadgeText returns the badge label for an environment name: the first four
// characters, case preserved.
func BadgeText(name string) string {
	return head(name, labelLength)
}

// TitlePrefix returns the page-title label for an environment name: the first
// four characters, upper-cased.
func TitlePrefix(name string) string {
	return upper.String(head(name, labelLength))
}

func head(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
