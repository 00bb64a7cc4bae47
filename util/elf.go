// Copyright 2022 The Armored Witness OS authors. All Rights Reserved.
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

package util

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"

	"github.com/usbarmory/dma-accessible/dmabuf"
)

// LookupSym returns the named symbol from an ELF executable.
func LookupSym(buf []byte, name string) (*elf.Symbol, error) {
	exe, err := elf.NewFile(bytes.NewReader(buf))

	if err != nil {
		return nil, err
	}

	syms, err := exe.Symbols()

	if err != nil {
		return nil, err
	}

	for _, sym := range syms {
		if sym.Name == name {
			return &sym, nil
		}
	}

	return nil, errors.New("symbol not found")
}

// SymbolSpan returns the byte span occupied by the named symbol, as placed by
// the linker.
func SymbolSpan(buf []byte, name string) (s dmabuf.Span, sym *elf.Symbol, err error) {
	if sym, err = LookupSym(buf, name); err != nil {
		return
	}

	if sym.Value+sym.Size < sym.Value || uint64(uint(sym.Value)) != sym.Value || sym.Size > uint64(^uint(0)>>1) {
		return s, sym, fmt.Errorf("symbol %s (%#x+%d) exceeds address width", name, sym.Value, sym.Size)
	}

	s = dmabuf.Span{
		Addr:     uint(sym.Value),
		Count:    int(sym.Size),
		ElemSize: 1,
	}

	return
}

// Section returns the name of the section holding sym.
func Section(buf []byte, sym *elf.Symbol) string {
	exe, err := elf.NewFile(bytes.NewReader(buf))

	if err != nil || int(sym.Section) >= len(exe.Sections) {
		return ""
	}

	return exe.Sections[sym.Section].Name
}
