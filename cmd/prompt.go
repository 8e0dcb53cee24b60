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
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// prompter asks on the terminal: questions go to out, answers come from in.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	yes bool
}

func newPrompter(in io.Reader, out io.Writer, yes bool) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out, yes: yes}
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm implements switcher.Prompter. With --yes it accepts without
// asking; at end of input it declines.
func (p *prompter) Confirm(ctx context.Context, message string) (bool, error) {
	if p.yes {
		return true, nil
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", message)
	line, err := p.readLine()
	if err == io.EOF {
		fmt.Fprintln(p.out)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Prompt implements switcher.Prompter. An empty answer takes def.
func (p *prompter) Prompt(ctx context.Context, message, def string) (string, error) {
	if p.yes {
		return def, nil
	}
	fmt.Fprintf(p.out, "%s [%s]: ", message, def)
	line, err := p.readLine()
	if err == io.EOF {
		fmt.Fprintln(p.out)
		return def, nil
	}
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Alert implements switcher.Prompter.
func (p *prompter) Alert(ctx context.Context, message string) error {
	_, err := fmt.Fprintln(p.out, message)
	return err
}
