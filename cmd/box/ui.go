/*
Copyright The Helm Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// cliUI implements boxui.UI by writing to out and, when a choice is
// required, prompting on in.
type cliUI struct {
	out io.Writer
	in  *bufio.Reader
}

func newCLIUI(out io.Writer, in io.Reader) *cliUI {
	return &cliUI{out: out, in: bufio.NewReader(in)}
}

func (u *cliUI) Detail(format string, args ...interface{}) {
	fmt.Fprintf(u.out, "==> "+format+"\n", args...)
}

func (u *cliUI) Warn(format string, args ...interface{}) {
	fmt.Fprintf(u.out, "WARNING: "+format+"\n", args...)
}

func (u *cliUI) Ask(prompt string, options []string) (int, error) {
	fmt.Fprintln(u.out, prompt)
	for i, opt := range options {
		fmt.Fprintf(u.out, "%d) %s\n", i+1, opt)
	}
	fmt.Fprint(u.out, "Enter your choice: ")

	line, err := u.in.ReadString('\n')
	if err != nil {
		return 0, err
	}
	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("invalid choice %q", strings.TrimSpace(line))
	}
	return choice - 1, nil
}
