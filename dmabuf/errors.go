// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dmabuf

import (
	"errors"
	"fmt"

	"github.com/usbarmory/dma-accessible/mem"
)

var (
	// ErrOutOfRange is matched by errors returned for spans not fully
	// contained in their claimed region.
	ErrOutOfRange = errors.New("buffer out of region")
	// ErrAddressOverflow is matched by errors returned for spans whose end
	// address cannot be represented.
	ErrAddressOverflow = errors.New("buffer address overflow")
)

// OutOfRangeError reports a span which is not contained within the bounds
// of its claimed region.
type OutOfRangeError struct {
	// Region is the claimed region
	Region mem.Region
	// Bounds is the claimed region address range
	Bounds mem.Bounds

	// Start and End delimit the [Start, End) span address range
	Start uint
	End   uint

	// Addr is the offending span address (Start or End)
	Addr uint
	// Limit is the region bound violated by Addr
	Limit uint

	// Actual is the region holding Start, valid only when Found is true
	Actual mem.Region
	Found  bool
}

func (e *OutOfRangeError) Error() string {
	op := ">"

	if e.Addr < e.Limit {
		op = "<"
	}

	msg := fmt.Sprintf("%s: span [%#.8x, %#.8x) not within %s %s (%#.8x %s %#.8x)",
		ErrOutOfRange, e.Start, e.End, e.Region, e.Bounds, e.Addr, op, e.Limit)

	if e.Found && e.Actual != e.Region {
		msg += fmt.Sprintf(", start lies in %s", e.Actual)
	}

	return msg
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// AddressOverflowError reports a span whose size or end address overflows
// the address width.
type AddressOverflowError struct {
	Addr     uint
	Count    int
	ElemSize uint
}

func (e *AddressOverflowError) Error() string {
	return fmt.Sprintf("%s: base %#x count %d element size %d", ErrAddressOverflow, e.Addr, e.Count, e.ElemSize)
}

func (e *AddressOverflowError) Is(target error) bool {
	return target == ErrAddressOverflow
}
