// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago

package mem

import (
	"fmt"

	"github.com/usbarmory/tamago/dma"
)

// Allocator returns a DMA allocator spanning the whole of region r, buffers
// can then be carved at runtime with its Reserve and Alloc methods.
//
// The application must guarantee that the region is never used by the Go
// runtime (see runtime.ramStart and runtime.ramSize).
func (l *Layout) Allocator(r Region) (*dma.Region, error) {
	b, err := l.Bounds(r)

	if err != nil {
		return nil, err
	}

	if b.Size() == 0 {
		return nil, fmt.Errorf("%s: region %s is empty", l.Name, r)
	}

	return dma.NewRegion(b.Start, int(b.Size()), false)
}
