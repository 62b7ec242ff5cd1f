// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package overlap counts intersections between two interval sets
// under one of two deterministic modes.
package overlap

import "github.com/kortschak/permshuffle/ivset"

// Mode selects how intersections between A and B are tallied. It is
// a finite tagged variant, dispatched by a switch on its value rather
// than an interface hierarchy.
type Mode int

const (
	// All counts every (a, b) intersecting pair: for each interval in
	// A, the number of B intervals it intersects.
	All Mode = iota
	// Any counts A intervals that intersect at least one B interval.
	Any
)

// String returns the CLI spelling of m.
func (m Mode) String() string {
	switch m {
	case All:
		return "all"
	case Any:
		return "any"
	default:
		return "unknown"
	}
}

// ParseMode parses the CLI spelling of a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "all":
		return All, true
	case "any":
		return Any, true
	default:
		return 0, false
	}
}

// Count returns the overlap statistic between a and b under mode m.
func (m Mode) Count(a, b *ivset.Index) uint64 {
	var total uint64
	switch m {
	case All:
		for _, iv := range a.All() {
			total += uint64(len(b.Find(iv.Start, iv.Stop)))
		}
	case Any:
		for _, iv := range a.All() {
			if len(b.Find(iv.Start, iv.Stop)) > 0 {
				total++
			}
		}
	}
	return total
}
