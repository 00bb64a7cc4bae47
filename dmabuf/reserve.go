// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago

package dmabuf

import (
	"errors"
	"math"
	"unsafe"

	"github.com/usbarmory/tamago/dma"

	"github.com/usbarmory/dma-accessible/mem"
)

// Reserve allocates count elements from alloc, with the requested address
// alignment, and validates the allocation against region r of the STM32H750
// layout. The reservation is released on validation failure, otherwise it is
// up to the caller to release it (see dma.Region.Release) once the buffer is
// no longer in use.
func Reserve[T any](alloc *dma.Region, r mem.Region, count int, align int) (*Buffer[T], error) {
	return ReserveWithLayout[T](mem.STM32H750, alloc, r, count, align)
}

// ReserveWithLayout is like Reserve but validates against region r of layout
// l, typically the layout alloc has been obtained from (see
// mem.Layout.Allocator).
func ReserveWithLayout[T any](l *mem.Layout, alloc *dma.Region, r mem.Region, count int, align int) (*Buffer[T], error) {
	var t T

	if alloc == nil {
		return nil, errors.New("invalid allocator")
	}

	s := Span{Count: count, ElemSize: uint(unsafe.Sizeof(t))}
	size, err := s.Size()

	if err != nil {
		return nil, err
	}

	if size > math.MaxInt {
		return nil, &AddressOverflowError{Count: count, ElemSize: s.ElemSize}
	}

	if size == 0 {
		return NewWithLayout(l, []T{}, r)
	}

	addr, raw := alloc.Reserve(int(size), align)

	if len(raw) == 0 {
		return nil, errors.New("could not reserve DMA memory")
	}

	buf := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(raw))), count)
	b, err := NewWithLayout(l, buf, r)

	if err != nil {
		alloc.Release(addr)
		return nil, err
	}

	return b, nil
}
