// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// dmacheck validates the placement of DMA buffers against the DMA accessible
// memory regions of a target, either on linked firmware symbols or on raw
// address ranges.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	"golang.org/x/term"

	"github.com/usbarmory/dma-accessible/dmacheck/cmd"
	"github.com/usbarmory/dma-accessible/mem"
	"github.com/usbarmory/dma-accessible/util"
)

const usage = `Usage: dmacheck [OPTIONS] [COMMAND]
  -l <layout>   region layout YAML file (default: built-in stm32h750)
  -e <elf>      firmware ELF image, for symbol commands
  -s <address>  serve console over SSH on a loopback address (e.g. 127.0.0.1:2222)

When COMMAND is passed it is executed and dmacheck exits, otherwise an
interactive console is started (type "help" for the command list).
`

type Config struct {
	layout   string
	firmware string
	ssh      string
}

var conf *Config

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)

	conf = &Config{}

	flag.Usage = func() {
		fmt.Print(usage)
	}

	flag.StringVar(&conf.layout, "l", "", "region layout YAML file")
	flag.StringVar(&conf.firmware, "e", "", "firmware ELF image")
	flag.StringVar(&conf.ssh, "s", "", "SSH console address")
}

func loadLayout(path string) (*mem.Layout, error) {
	f, err := os.Open(path)

	if err != nil {
		return nil, err
	}
	defer f.Close()

	return mem.LoadLayout(f)
}

func main() {
	flag.Parse()

	if conf.layout != "" {
		l, err := loadLayout(conf.layout)

		if err != nil {
			log.Fatalf("could not load layout, %v", err)
		}

		cmd.Target = l
	}

	if conf.firmware != "" {
		fw, err := os.ReadFile(conf.firmware)

		if err != nil {
			log.Fatalf("could not load firmware, %v", err)
		}

		cmd.Firmware = fw
	}

	console := &util.Console{
		Banner:  fmt.Sprintf("dmacheck %s/%s (%s) • %s", runtime.GOOS, runtime.GOARCH, runtime.Version(), cmd.Target.Name),
		Help:    "type `help` for the command list",
		Handler: cmd.Handle,
	}

	switch {
	case flag.NArg() > 0:
		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}, "")

		if err := cmd.Handle(t, strings.Join(flag.Args(), " ")); err != nil && !errors.Is(err, io.EOF) {
			log.Fatal(err)
		}
	case conf.ssh != "":
		listener, err := util.Listen(conf.ssh)

		if err != nil {
			log.Fatalf("could not initialize SSH listener, %v", err)
		}

		if err = console.Start(listener); err != nil {
			log.Fatalf("could not initialize SSH server, %v", err)
		}

		// never returns
		select {}
	default:
		fd := int(os.Stdin.Fd())

		if term.IsTerminal(fd) {
			state, err := term.MakeRaw(fd)

			if err != nil {
				log.Fatalf("could not set raw terminal, %v", err)
			}
			defer term.Restore(fd, state)
		}

		console.Serve(struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout})
	}
}
