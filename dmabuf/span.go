// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dmabuf

import (
	"math/bits"
	"unsafe"

	"github.com/usbarmory/dma-accessible/mem"
)

// Span represents a raw memory range of Count elements, each ElemSize bytes
// wide, starting at Addr.
type Span struct {
	Addr     uint
	Count    int
	ElemSize uint
}

// SpanOf returns the span backing buf, the slice memory is never accessed.
func SpanOf[T any](buf []T) Span {
	var t T

	return Span{
		Addr:     uint(uintptr(unsafe.Pointer(unsafe.SliceData(buf)))),
		Count:    len(buf),
		ElemSize: uint(unsafe.Sizeof(t)),
	}
}

// Size returns the span size in bytes.
func (s Span) Size() (uint, error) {
	if s.Count < 0 {
		return 0, &AddressOverflowError{Addr: s.Addr, Count: s.Count, ElemSize: s.ElemSize}
	}

	hi, size := bits.Mul(uint(s.Count), s.ElemSize)

	if hi != 0 {
		return 0, &AddressOverflowError{Addr: s.Addr, Count: s.Count, ElemSize: s.ElemSize}
	}

	return size, nil
}

// End returns the address following the last span byte.
func (s Span) End() (uint, error) {
	size, err := s.Size()

	if err != nil {
		return 0, err
	}

	end, carry := bits.Add(s.Addr, size, 0)

	if carry != 0 {
		return 0, &AddressOverflowError{Addr: s.Addr, Count: s.Count, ElemSize: s.ElemSize}
	}

	return end, nil
}

// Validate checks that span s lies entirely within region r of layout l.
//
// Empty spans are accepted at any address, as an empty range is contained
// in any region. Spans only partially within the region are rejected.
func Validate(l *mem.Layout, s Span, r mem.Region) error {
	b, err := l.Bounds(r)

	if err != nil {
		return err
	}

	end, err := s.End()

	if err != nil {
		return err
	}

	if end == s.Addr {
		return nil
	}

	if b.ContainsRange(s.Addr, end) {
		return nil
	}

	e := &OutOfRangeError{
		Region: r,
		Bounds: b,
		Start:  s.Addr,
		End:    end,
	}

	if s.Addr < b.Start {
		e.Addr, e.Limit = s.Addr, b.Start
	} else {
		e.Addr, e.Limit = end, b.End
	}

	e.Actual, e.Found = l.Find(s.Addr)

	return e
}
