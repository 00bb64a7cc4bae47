// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/term"

	"github.com/usbarmory/dma-accessible/dmabuf"
	"github.com/usbarmory/dma-accessible/mem"
	"github.com/usbarmory/dma-accessible/util"
)

func init() {
	Add(Cmd{
		Name:    "sym",
		Args:    2,
		Pattern: regexp.MustCompile(`^sym (\S+) (\w+)$`),
		Syntax:  "<symbol> <region>",
		Help:    "validate linker placement of a firmware symbol",
		Fn:      symCmd,
	})
}

func symCmd(_ *term.Terminal, arg []string) (string, error) {
	if len(Firmware) == 0 {
		return "", errors.New("no firmware loaded")
	}

	r, err := mem.ParseRegion(arg[1])

	if err != nil {
		return "", err
	}

	s, sym, err := util.SymbolSpan(Firmware, arg[0])

	if err != nil {
		return "", fmt.Errorf("could not find %s, %v", arg[0], err)
	}

	if err = dmabuf.Validate(Target, s, r); err != nil {
		return "", fmt.Errorf("%s (%s), %w", sym.Name, util.Section(Firmware, sym), err)
	}

	return fmt.Sprintf("OK %s (%s) %s [%#.8x, %#.8x)", sym.Name, util.Section(Firmware, sym), r, s.Addr, s.Addr+uint(s.Count)), nil
}
