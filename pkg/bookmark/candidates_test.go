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

package bookmark

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

func TestCandidates(t *testing.T) {
	bookmarks := []Bookmark{
		{Title: "Dev | ServiceNow", URL: "https://dev.service-now.com/now/nav/ui/home", FolderPath: []string{"Work", "SN"}},
		{Title: "Dev again", URL: "https://dev.service-now.com/incident_list.do"},
		{Title: "Registered", URL: "https://prod.service-now.com/"},
		{Title: "Other", URL: "https://www.example.com/"},
		{Title: "Script", URL: "javascript:alert(1)//service-now.com"},
		{Title: "", URL: "http://acmetest.servicenow.com:8080/x"},
	}
	registered := []environment.Record{
		environment.NewRecord("Prod", "https://prod.service-now.com/", "#f00", ""),
	}

	res, err := Candidates(bookmarks, registered, CandidateOptions{
		AllowList:     environment.DefaultAllowList,
		Color:         func(n int) string { return fmt.Sprintf("#%d", n) },
		GroupByFolder: true,
	})
	require.NoError(t, err)
	require.Len(t, res.Candidates, 2)

	dev := res.Candidates[0].Record
	assert.Equal(t, "Dev", dev.Name)
	assert.Equal(t, "https://dev.service-now.com/", dev.URL)
	assert.Equal(t, "#1", dev.Color)
	assert.Equal(t, "SN", dev.Group)

	acme := res.Candidates[1].Record
	assert.Equal(t, "acmetest", acme.Name)
	assert.Equal(t, "http://acmetest.servicenow.com:8080/", acme.URL)
	assert.Equal(t, "#2", acme.Color)
	assert.Equal(t, "", acme.Group)

	assert.Equal(t, 4, res.Skipped)
	assert.Equal(t, []string{"prod.service-now.com is already registered as Prod"}, res.Warnings)
	assert.Equal(t, []string{"SN"}, res.Groups())
}

func TestCandidates_Exclude(t *testing.T) {
	bookmarks := []Bookmark{
		{Title: "Old", URL: "https://old.service-now.com/", FolderPath: []string{"Archive", "2019"}},
		{Title: "Sandbox", URL: "https://sandbox.service-now.com/"},
		{Title: "Dev", URL: "https://dev.service-now.com/"},
	}

	res, err := Candidates(bookmarks, nil, CandidateOptions{
		AllowList: environment.DefaultAllowList,
		Exclude:   []string{"Archive/**", "https://sandbox.**"},
	})
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "Dev", res.Candidates[0].Record.Name)

	_, err = Candidates(bookmarks, nil, CandidateOptions{Exclude: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestCandidateName(t *testing.T) {
	assert.Equal(t, "Incidents", CandidateName("  Incidents - ServiceNow ", "x.service-now.com"))
	assert.Equal(t, "acme", CandidateName("ServiceNow", "acme.service-now.com"))
	assert.Equal(t, "acme", CandidateName("", "acme.service-now.com"))
}

func TestFolder(t *testing.T) {
	assert.Equal(t, "", Bookmark{}.Folder())
	assert.Equal(t, "B", Bookmark{FolderPath: []string{"A", "B"}}.Folder())
}
