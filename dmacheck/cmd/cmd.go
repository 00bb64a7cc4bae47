// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package cmd implements the dmacheck console commands.
package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/usbarmory/dma-accessible/mem"
)

// Cmd represents a console command.
type Cmd struct {
	// Name is the command name, also matched as command line when Pattern
	// is not set
	Name string
	// Args is the number of Pattern sub-matches passed to Fn
	Args int
	// Pattern is the command line matching expression
	Pattern *regexp.Regexp
	// Syntax is the arguments syntax shown in help
	Syntax string
	// Help is the command description
	Help string
	// Fn is the command handler
	Fn func(*term.Terminal, []string) (string, error)
}

var cmds = make(map[string]*Cmd)

// Target is the region layout commands validate against.
var Target = mem.STM32H750

// Firmware holds the ELF image inspected by symbol commands.
var Firmware []byte

// Add registers a console command.
func Add(cmd Cmd) {
	cmds[cmd.Name] = &cmd
}

// Help returns the command list.
func Help(term *term.Terminal) string {
	var names []string

	help := new(bytes.Buffer)
	t := tabwriter.NewWriter(help, 16, 8, 0, '\t', tabwriter.TabIndent)

	for name := range cmds {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		_, _ = fmt.Fprintf(t, "%s\t%s\t # %s\n", cmds[name].Name, cmds[name].Syntax, cmds[name].Help)
	}

	_ = t.Flush()

	return help.String()
}

// Handle executes the command matching line, its output is written to term.
func Handle(term *term.Terminal, line string) (err error) {
	var match *Cmd
	var arg []string
	var res string

	line = strings.TrimSpace(line)

	if line == "" {
		return
	}

	for _, cmd := range cmds {
		if cmd.Pattern == nil {
			if cmd.Name == line {
				match = cmd
				break
			}

			continue
		}

		if m := cmd.Pattern.FindStringSubmatch(line); len(m) > 0 && (len(m)-1 == cmd.Args) {
			match = cmd
			arg = m[1:]
			break
		}
	}

	if match == nil {
		return errors.New("unknown command, type `help`")
	}

	if res, err = match.Fn(term, arg); len(res) > 0 {
		fmt.Fprintln(term, res)
	}

	return
}
