// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package dmabuf implements buffers validated to reside within a DMA
// reachable memory region.
//
// The memory backing a buffer is expected to be placed at a fixed address by
// the linker (or reserved from a DMA allocator), validation only checks the
// resulting placement against the region bounds, it never trusts the claimed
// region.
package dmabuf

import (
	"unsafe"

	"github.com/usbarmory/dma-accessible/mem"
)

// Buffer is a view over memory validated, once and at construction, to lie
// entirely within a DMA reachable region. The buffer does not own the
// underlying memory.
//
// While a DMA transfer using the buffer is in flight the caller must
// guarantee that no other context accesses the same memory.
type Buffer[T any] struct {
	buf    []T
	region mem.Region
}

// New validates buf against region r of the STM32H750 layout.
func New[T any](buf []T, r mem.Region) (*Buffer[T], error) {
	return NewWithLayout(mem.STM32H750, buf, r)
}

// NewWithLayout validates buf against region r of layout l.
func NewWithLayout[T any](l *mem.Layout, buf []T, r mem.Region) (*Buffer[T], error) {
	if err := Validate(l, SpanOf(buf), r); err != nil {
		return nil, err
	}

	return &Buffer[T]{
		buf:    buf,
		region: r,
	}, nil
}

// MustNew is like New but panics if buf fails validation, it is meant for
// statically placed buffers whose misplacement is a build defect.
func MustNew[T any](buf []T, r mem.Region) *Buffer[T] {
	return MustNewWithLayout(mem.STM32H750, buf, r)
}

// MustNewWithLayout is like NewWithLayout but panics if buf fails
// validation.
func MustNewWithLayout[T any](l *mem.Layout, buf []T, r mem.Region) *Buffer[T] {
	b, err := NewWithLayout(l, buf, r)

	if err != nil {
		panic(err)
	}

	return b
}

// Region returns the region the buffer has been validated against.
func (b *Buffer[T]) Region() mem.Region {
	return b.region
}

// Slice returns a mutable view of the buffer.
func (b *Buffer[T]) Slice() []T {
	return b.buf
}

// Read copies the buffer contents into dst, returning the number of copied
// elements.
func (b *Buffer[T]) Read(dst []T) int {
	return copy(dst, b.buf)
}

// Ptr returns a pointer to the first buffer element, nil when empty.
func (b *Buffer[T]) Ptr() *T {
	if len(b.buf) == 0 {
		return nil
	}

	return &b.buf[0]
}

// Addr returns the buffer start address, to be used when programming
// transfer descriptors.
func (b *Buffer[T]) Addr() uint {
	return uint(uintptr(unsafe.Pointer(unsafe.SliceData(b.buf))))
}

// Len returns the number of buffer elements.
func (b *Buffer[T]) Len() int {
	return len(b.buf)
}

// Size returns the buffer size in bytes.
func (b *Buffer[T]) Size() uint {
	var t T
	return uint(len(b.buf)) * uint(unsafe.Sizeof(t))
}

// IsEmpty reports whether the buffer has no elements.
func (b *Buffer[T]) IsEmpty() bool {
	return len(b.buf) == 0
}
