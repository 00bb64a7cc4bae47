// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/usbarmory/dma-accessible/dmabuf"
	"github.com/usbarmory/dma-accessible/mem"
)

func init() {
	Add(Cmd{
		Name: "regions",
		Help: "show DMA accessible regions",
		Fn:   regionsCmd,
	})

	Add(Cmd{
		Name:    "find",
		Args:    1,
		Pattern: regexp.MustCompile(`^find (?:0x)?([[:xdigit:]]+)$`),
		Syntax:  "<hex addr>",
		Help:    "show region holding an address",
		Fn:      findCmd,
	})

	Add(Cmd{
		Name:    "check",
		Args:    3,
		Pattern: regexp.MustCompile(`^check (\w+) (?:0x)?([[:xdigit:]]+) (\d+)$`),
		Syntax:  "<region> <hex addr> <size>",
		Help:    "validate buffer placement",
		Fn:      checkCmd,
	})
}

func parseAddr(s string) (uint, error) {
	addr, err := strconv.ParseUint(s, 16, strconv.IntSize)

	if err != nil {
		return 0, fmt.Errorf("invalid address, %v", err)
	}

	return uint(addr), nil
}

func regionsCmd(_ *term.Terminal, _ []string) (string, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", Target.Name)
	fmt.Fprintf(&buf, "| region  | start      | end        | size     |\n")
	fmt.Fprintf(&buf, "|---------|------------|------------|----------|\n")

	for _, r := range Target.List() {
		b := Target.Regions[r]
		fmt.Fprintf(&buf, "| %-7s | %#.8x | %#.8x | %8s |\n", r, b.Start, b.End, humanize.IBytes(uint64(b.Size())))
	}

	return buf.String(), nil
}

func findCmd(_ *term.Terminal, arg []string) (string, error) {
	addr, err := parseAddr(arg[0])

	if err != nil {
		return "", err
	}

	r, ok := Target.Find(addr)

	if !ok {
		return "", fmt.Errorf("%#.8x is not within any DMA accessible region", addr)
	}

	return fmt.Sprintf("%#.8x: %s %s", addr, r, Target.Regions[r]), nil
}

func checkCmd(_ *term.Terminal, arg []string) (string, error) {
	r, err := mem.ParseRegion(arg[0])

	if err != nil {
		return "", err
	}

	addr, err := parseAddr(arg[1])

	if err != nil {
		return "", err
	}

	size, err := strconv.ParseUint(arg[2], 10, strconv.IntSize-1)

	if err != nil {
		return "", fmt.Errorf("invalid size, %v", err)
	}

	s := dmabuf.Span{
		Addr:     addr,
		Count:    int(size),
		ElemSize: 1,
	}

	if err = dmabuf.Validate(Target, s, r); err != nil {
		return "", err
	}

	return fmt.Sprintf("OK %s [%#.8x, %#.8x)", r, addr, addr+uint(size)), nil
}
