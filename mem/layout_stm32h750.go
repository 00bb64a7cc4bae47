// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

// STM32H750 memory map (RM0433, section 2.3.2).
const (
	ITCMStart = 0x00000000
	ITCMSize  = 0x00010000 // 64KB

	DTCMStart = 0x20000000
	DTCMSize  = 0x00010000 // 64KB

	AXISRAMStart = 0x24000000
	AXISRAMSize  = 0x00080000 // 512KB

	SRAM1Start = 0x30000000
	SRAM1Size  = 0x00020000 // 128KB

	SRAM2Start = 0x30020000
	SRAM2Size  = 0x00020000 // 128KB

	SRAM3Start = 0x30040000
	SRAM3Size  = 0x00008000 // 32KB

	SRAM4Start = 0x38000000
	SRAM4Size  = 0x00010000 // 64KB
)

// STM32H750 is the region layout of the STM32H750 family.
var STM32H750 = &Layout{
	Name: "stm32h750",
	Regions: map[Region]Bounds{
		ITCM:    {ITCMStart, ITCMStart + ITCMSize},
		DTCM:    {DTCMStart, DTCMStart + DTCMSize},
		AXISRAM: {AXISRAMStart, AXISRAMStart + AXISRAMSize},
		SRAM1:   {SRAM1Start, SRAM1Start + SRAM1Size},
		SRAM2:   {SRAM2Start, SRAM2Start + SRAM2Size},
		SRAM3:   {SRAM3Start, SRAM3Start + SRAM3Size},
		SRAM4:   {SRAM4Start, SRAM4Start + SRAM4Size},
	},
}

// BoundsOf returns the address range of region r on the STM32H750 layout,
// which defines every region identity.
func BoundsOf(r Region) Bounds {
	return STM32H750.Regions[r]
}
