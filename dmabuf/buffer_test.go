// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dmabuf

import (
	"errors"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usbarmory/dma-accessible/mem"
)

// placed returns a slice header at a fixed address, as a linker placed
// static buffer would be, its memory must never be accessed.
func placed[T any](addr uintptr, n int) []T {
	return unsafe.Slice((*T)(unsafe.Pointer(addr)), n)
}

func TestNewWithinRegion(t *testing.T) {
	buf, err := New(placed[byte](0x30000100, 16), mem.SRAM1)
	require.NoError(t, err)

	require.Equal(t, uint(0x30000100), buf.Addr())
	require.Equal(t, uintptr(0x30000100), uintptr(unsafe.Pointer(buf.Ptr())))
	require.Equal(t, 16, buf.Len())
	require.Equal(t, uint(16), buf.Size())
	require.False(t, buf.IsEmpty())
	require.Equal(t, mem.SRAM1, buf.Region())
	require.Len(t, buf.Slice(), 16)
}

func TestNewEndExceedsRegion(t *testing.T) {
	_, err := New(placed[byte](0x3001fff8, 16), mem.SRAM1)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrOutOfRange))

	var e *OutOfRangeError
	require.True(t, errors.As(err, &e))
	require.Equal(t, uint(0x3001fff8), e.Start)
	require.Equal(t, uint(0x30020008), e.End)
	require.Equal(t, uint(0x30020008), e.Addr)
	require.Equal(t, uint(0x30020000), e.Limit)
	require.Equal(t, mem.SRAM1, e.Region)
	require.Equal(t, mem.Bounds{Start: 0x30000000, End: 0x30020000}, e.Bounds)

	require.Contains(t, err.Error(), "0x30020008")
	require.Contains(t, err.Error(), "0x30020000")
}

func TestNewOutsideAllRegions(t *testing.T) {
	for _, r := range mem.Regions() {
		t.Run(r.String(), func(t *testing.T) {
			_, err := New(placed[byte](0x08000000, 32), r)
			require.True(t, errors.Is(err, ErrOutOfRange), "%v", err)

			var e *OutOfRangeError
			require.True(t, errors.As(err, &e))
			require.False(t, e.Found)
		})
	}
}

func TestNewStraddlesRegionStart(t *testing.T) {
	_, err := New(placed[byte](0x2ffffff0, 32), mem.SRAM1)

	var e *OutOfRangeError
	require.True(t, errors.As(err, &e))
	require.Equal(t, uint(0x2ffffff0), e.Addr)
	require.Equal(t, uint(0x30000000), e.Limit)
}

func TestNewWrongRegion(t *testing.T) {
	_, err := New(placed[byte](0x30000100, 16), mem.DTCM)

	var e *OutOfRangeError
	require.True(t, errors.As(err, &e))
	require.True(t, e.Found)
	require.Equal(t, mem.SRAM1, e.Actual)
	require.Contains(t, err.Error(), "start lies in SRAM1")
}

func TestNewElementSize(t *testing.T) {
	buf, err := New(placed[uint32](0x3001fff0, 4), mem.SRAM1)
	require.NoError(t, err)
	require.Equal(t, 4, buf.Len())
	require.Equal(t, uint(16), buf.Size())

	_, err = New(placed[uint32](0x3001fff0, 5), mem.SRAM1)
	require.True(t, errors.Is(err, ErrOutOfRange))
}

func TestNewEmpty(t *testing.T) {
	for _, r := range mem.Regions() {
		for _, addr := range []uintptr{0x08000000, 0x30000100, 0x90000000} {
			buf, err := New(placed[byte](addr, 0), r)
			require.NoError(t, err)
			require.Equal(t, 0, buf.Len())
			require.True(t, buf.IsEmpty())
			require.Nil(t, buf.Ptr())
		}
	}

	buf, err := New[uint16](nil, mem.SRAM1)
	require.NoError(t, err)
	require.True(t, buf.IsEmpty())
}

func TestNewWholeRegion(t *testing.T) {
	for _, r := range mem.Regions() {
		b := mem.BoundsOf(r)

		if b.Start == 0 {
			// nil based slices cannot be placed
			continue
		}

		t.Run(r.String(), func(t *testing.T) {
			_, err := New(placed[byte](uintptr(b.Start), int(b.Size())), r)
			require.NoError(t, err)

			_, err = New(placed[byte](uintptr(b.Start), int(b.Size())+1), r)
			require.True(t, errors.Is(err, ErrOutOfRange))

			_, err = New(placed[byte](uintptr(b.Start)-1, int(b.Size())), r)
			require.True(t, errors.Is(err, ErrOutOfRange))
		})
	}
}

func TestNewUnknownRegion(t *testing.T) {
	l := &mem.Layout{
		Name:    "test",
		Regions: map[mem.Region]mem.Bounds{mem.SRAM1: mem.BoundsOf(mem.SRAM1)},
	}

	_, err := NewWithLayout(l, placed[byte](0x20000000, 16), mem.DTCM)
	require.True(t, errors.Is(err, mem.ErrUnknownRegion))

	_, err = NewWithLayout(l, placed[byte](0x30000000, 16), mem.SRAM1)
	require.NoError(t, err)
}

func TestMustNew(t *testing.T) {
	require.NotPanics(t, func() {
		MustNew(placed[byte](0x30000100, 16), mem.SRAM1)
	})

	require.Panics(t, func() {
		MustNew(placed[byte](0x08000000, 16), mem.SRAM1)
	})
}

func TestMustNewWithLayout(t *testing.T) {
	l := &mem.Layout{
		Name:    "test",
		Regions: map[mem.Region]mem.Bounds{mem.SRAM1: {Start: 0x30000000, End: 0x30001000}},
	}

	var buf *Buffer[byte]

	require.NotPanics(t, func() {
		buf = MustNewWithLayout(l, placed[byte](0x30000f00, 256), mem.SRAM1)
	})
	require.Equal(t, mem.SRAM1, buf.Region())

	// valid on STM32H750, outside the narrower SRAM1 window of l
	require.Panics(t, func() {
		MustNewWithLayout(l, placed[byte](0x30001000, 16), mem.SRAM1)
	})

	require.Panics(t, func() {
		MustNewWithLayout(l, placed[byte](0x30020000, 16), mem.SRAM2)
	})
}

func TestBufferViews(t *testing.T) {
	backing := make([]uint16, 8)
	s := SpanOf(backing)
	end, err := s.End()
	require.NoError(t, err)

	l := &mem.Layout{
		Name:    "heap",
		Regions: map[mem.Region]mem.Bounds{mem.AXISRAM: {Start: s.Addr, End: end}},
	}

	buf, err := NewWithLayout(l, backing, mem.AXISRAM)
	require.NoError(t, err)

	for i := range buf.Slice() {
		buf.Slice()[i] = uint16(i * 3)
	}

	out := make([]uint16, 8)
	require.Equal(t, 8, buf.Read(out))
	require.Equal(t, []uint16{0, 3, 6, 9, 12, 15, 18, 21}, out)
	require.Equal(t, backing, out)

	require.Equal(t, &backing[0], buf.Ptr())
	require.Equal(t, s.Addr, buf.Addr())

	// sub-slices remain within the region
	_, err = NewWithLayout(l, backing[4:], mem.AXISRAM)
	require.NoError(t, err)
}

func TestValidateOverflow(t *testing.T) {
	for _, tc := range []struct {
		name string
		span Span
	}{
		{"end wraps", Span{Addr: math.MaxUint - 7, Count: 16, ElemSize: 1}},
		{"size wraps", Span{Addr: 0x30000000, Count: math.MaxInt, ElemSize: 16}},
		{"negative count", Span{Addr: 0x30000000, Count: -1, ElemSize: 1}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(mem.STM32H750, tc.span, mem.SRAM1)
			require.True(t, errors.Is(err, ErrAddressOverflow), "%v", err)
			assert.False(t, errors.Is(err, ErrOutOfRange))

			var e *AddressOverflowError
			require.True(t, errors.As(err, &e))
			require.Equal(t, tc.span.Addr, e.Addr)
			require.Equal(t, tc.span.Count, e.Count)
		})
	}
}

func TestValidateSpans(t *testing.T) {
	for _, tc := range []struct {
		name   string
		span   Span
		region mem.Region
		err    error
	}{
		{"ITCM start", Span{Addr: 0x0, Count: 64, ElemSize: 4}, mem.ITCM, nil},
		{"ITCM end", Span{Addr: 0xfff0, Count: 16, ElemSize: 1}, mem.ITCM, nil},
		{"ITCM past end", Span{Addr: 0xfff0, Count: 17, ElemSize: 1}, mem.ITCM, ErrOutOfRange},
		{"DTCM", Span{Addr: 0x20000400, Count: 256, ElemSize: 8}, mem.DTCM, nil},
		{"DTCM from ITCM", Span{Addr: 0x400, Count: 256, ElemSize: 1}, mem.DTCM, ErrOutOfRange},
		{"SRAM1 into SRAM2", Span{Addr: 0x3001ff00, Count: 512, ElemSize: 1}, mem.SRAM1, ErrOutOfRange},
		{"SRAM2 from SRAM1", Span{Addr: 0x3001ff00, Count: 512, ElemSize: 1}, mem.SRAM2, ErrOutOfRange},
		{"empty at end", Span{Addr: 0x30020000, Count: 0, ElemSize: 1}, mem.SRAM1, nil},
		{"zero size elements", Span{Addr: 0x08000000, Count: 8, ElemSize: 0}, mem.SRAM1, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(mem.STM32H750, tc.span, tc.region)

			if tc.err == nil {
				require.NoError(t, err)
				return
			}

			require.True(t, errors.Is(err, tc.err), "%v", err)
		})
	}
}
