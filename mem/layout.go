// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownRegion is matched by errors returned when a region is not part
// of a layout.
var ErrUnknownRegion = errors.New("unknown region")

// UnknownRegionError reports a region identity missing from a layout.
type UnknownRegionError struct {
	Layout string
	Region Region
}

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("%s: region %s not defined for %s", ErrUnknownRegion, e.Region, e.Layout)
}

func (e *UnknownRegionError) Is(target error) bool {
	return target == ErrUnknownRegion
}

// Bounds represents the [Start, End) byte address range of a region.
type Bounds struct {
	Start uint
	End   uint
}

func (b Bounds) Size() uint {
	return b.End - b.Start
}

// Contains reports whether addr lies within the bounds.
func (b Bounds) Contains(addr uint) bool {
	return addr >= b.Start && addr < b.End
}

// ContainsRange reports whether the [start, end) range lies entirely within
// the bounds.
func (b Bounds) ContainsRange(start uint, end uint) bool {
	return start <= end && start >= b.Start && end <= b.End
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%#.8x, %#.8x)", b.Start, b.End)
}

// Layout maps region identities to their address bounds for a target chip
// variant.
type Layout struct {
	// Name is the target name
	Name string
	// Regions holds the bounds of each region defined on the target
	Regions map[Region]Bounds
}

// Bounds returns the address range of region r.
func (l *Layout) Bounds(r Region) (Bounds, error) {
	b, ok := l.Regions[r]

	if !ok {
		return Bounds{}, &UnknownRegionError{Layout: l.Name, Region: r}
	}

	return b, nil
}

// Find returns the region containing addr, if any.
func (l *Layout) Find(addr uint) (Region, bool) {
	for r, b := range l.Regions {
		if b.Contains(addr) {
			return r, true
		}
	}

	return 0, false
}

// List returns the layout regions sorted by start address.
func (l *Layout) List() (regions []Region) {
	for r := range l.Regions {
		regions = append(regions, r)
	}

	sort.Slice(regions, func(i, j int) bool {
		bi, bj := l.Regions[regions[i]], l.Regions[regions[j]]

		if bi.Start == bj.Start {
			return regions[i] < regions[j]
		}

		return bi.Start < bj.Start
	})

	return
}

// Verify checks that all regions are well formed and pairwise non
// overlapping.
func (l *Layout) Verify() error {
	if len(l.Regions) == 0 {
		return fmt.Errorf("%s: empty layout", l.Name)
	}

	var prev *Region

	for _, r := range l.List() {
		b := l.Regions[r]

		if !r.Valid() {
			return fmt.Errorf("%s: invalid region %s", l.Name, r)
		}

		if b.Start > b.End {
			return fmt.Errorf("%s: %s start %#x exceeds end %#x", l.Name, r, b.Start, b.End)
		}

		if prev != nil && l.Regions[*prev].End > b.Start {
			return fmt.Errorf("%s: %s %s overlaps %s %s", l.Name, r, b, *prev, l.Regions[*prev])
		}

		p := r
		prev = &p
	}

	return nil
}
