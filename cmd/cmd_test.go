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

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudygreybeard/envswitch/pkg/config"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
	"github.com/cloudygreybeard/envswitch/pkg/listview"
	"github.com/cloudygreybeard/envswitch/pkg/switcher"
)

func TestParseNumber(t *testing.T) {
	i, err := parseNumber("3")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	for _, arg := range []string{"0", "-1", "x", ""} {
		_, err := parseNumber(arg)
		assert.ErrorIs(t, err, environment.ErrIndexOutOfRange, arg)
	}
}

func TestPrompter_Confirm(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	p := newPrompter(strings.NewReader("y\nno\n"), &out, false)
	ok, err := p.Confirm(ctx, "Delete?")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = p.Confirm(ctx, "Delete?")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "Delete? [y/N]: ")

	ok, err = p.Confirm(ctx, "Again?")
	require.NoError(t, err)
	assert.False(t, ok, "end of input declines")

	ok, err = newPrompter(strings.NewReader(""), &out, true).Confirm(ctx, "Sure?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPrompter_Prompt(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	p := newPrompter(strings.NewReader("\nProd"), &out, false)
	v, err := p.Prompt(ctx, "Name", "Dev")
	require.NoError(t, err)
	assert.Equal(t, "Dev", v)

	v, err = p.Prompt(ctx, "Name", "Dev")
	require.NoError(t, err)
	assert.Equal(t, "Prod", v)

	v, err = p.Prompt(ctx, "Name", "Dev")
	require.NoError(t, err)
	assert.Equal(t, "Dev", v)
}

func TestFormFromFlags(t *testing.T) {
	c := &cobra.Command{}
	c.Flags().String("color", "", "")
	c.Flags().String("group", "", "")
	c.Flags().String("memo", "", "")
	require.NoError(t, c.Flags().Set("memo", "read only"))

	got := formFromFlags(c, switcher.Form{Name: "Dev", URL: "https://dev.service-now.com/", Color: "#111", Group: "Work"})
	assert.Equal(t, switcher.Form{
		Name:  "Dev",
		URL:   "https://dev.service-now.com/",
		Color: "#111",
		Group: "Work",
		Memo:  "read only",
	}, got)
}

func TestPrintView(t *testing.T) {
	var out bytes.Buffer
	printView(&out, listview.View{})
	assert.Contains(t, out.String(), "No environments registered")

	dev := environment.NewRecord("Dev", "https://dev.service-now.com/", "#4caf50", "Work")
	dev.Memo = "sandbox"
	prod := environment.NewRecord("Prod", "https://prod.service-now.com/", "#f44336", "")
	prod.IsFavorite = true

	v := listview.Build([]environment.Record{dev, prod}, []string{"Work"}, "https://dev.service-now.com/x", time.Now())
	out.Reset()
	printView(&out, v)

	text := out.String()
	assert.Contains(t, text, "Work")
	assert.Contains(t, text, "Ungrouped")
	assert.Contains(t, text, "sandbox")
	assert.Contains(t, text, "current")
	assert.Contains(t, text, "★")
	assert.Less(t, strings.Index(text, "Dev"), strings.Index(text, "Prod"))
}

func TestJump_EmptyPositionsIgnored(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })
	cfg = config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "store.db")
	jumpCmd.SetContext(context.Background())

	for _, arg := range []string{"0", "7", "-2"} {
		assert.NoError(t, jumpCmd.RunE(jumpCmd, []string{arg}), arg)
	}

	err := jumpCmd.RunE(jumpCmd, []string{"x"})
	assert.ErrorContains(t, err, `invalid position "x"`)
}
