// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package mem describes the DMA reachable memory windows of supported
// microcontroller targets.
package mem

import (
	"fmt"
	"strings"
)

// Region identifies a memory bank reachable by the DMA controller over the
// AXI bus.
type Region uint8

const (
	// Instruction Tightly Coupled Memory
	ITCM Region = iota
	// Data Tightly Coupled Memory
	DTCM
	// AXI SRAM (D1 domain)
	AXISRAM
	// AHB SRAM banks (D2 domain)
	SRAM1
	SRAM2
	SRAM3
	// AHB SRAM (D3 domain)
	SRAM4

	numRegions
)

var regionNames = [numRegions]string{
	ITCM:    "ITCM",
	DTCM:    "DTCM",
	AXISRAM: "AXISRAM",
	SRAM1:   "SRAM1",
	SRAM2:   "SRAM2",
	SRAM3:   "SRAM3",
	SRAM4:   "SRAM4",
}

// Regions returns all defined region identities.
func Regions() (r []Region) {
	for i := Region(0); i < numRegions; i++ {
		r = append(r, i)
	}

	return
}

func (r Region) Valid() bool {
	return r < numRegions
}

func (r Region) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Region(%d)", uint8(r))
	}

	return regionNames[r]
}

// ParseRegion returns the region identity matching name, case insensitive.
func ParseRegion(name string) (Region, error) {
	for i, n := range regionNames {
		if strings.EqualFold(n, name) {
			return Region(i), nil
		}
	}

	return 0, fmt.Errorf("invalid region %q", name)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Region) UnmarshalYAML(unmarshal func(interface{}) error) (err error) {
	var name string

	if err = unmarshal(&name); err != nil {
		return
	}

	*r, err = ParseRegion(name)

	return
}
