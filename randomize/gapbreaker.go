// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package randomize

import "math/rand/v2"

// gapMagic controls the maximum fragment size the gap breaker will
// produce, as 1/gapMagic of the remaining budget. Breaking the
// uncovered region into many small pieces, rather than one giant gap,
// reduces bias toward placing all intervals adjacent to one another,
// while remaining far cheaper than single-base fragments.
const gapMagic = 10000

// GapBreaker is a finite, single-pass generator of random-sized gap
// fragments summing to a fixed budget, used by the novl randomizer to
// interleave uncovered space with the intervals being placed.
type GapBreaker struct {
	remaining uint64
	rng       *rand.Rand
	cur       uint64
}

// NewGapBreaker returns a GapBreaker that will emit fragments summing
// to budget.
func NewGapBreaker(rng *rand.Rand, budget uint64) *GapBreaker {
	return &GapBreaker{remaining: budget, rng: rng}
}

// Next advances to the next fragment, reporting whether one exists.
func (b *GapBreaker) Next() bool {
	if b.remaining == 0 {
		return false
	}
	upper := b.remaining / gapMagic
	if upper < 2 {
		upper = 2
	}
	g := 1 + b.rng.Uint64N(upper-1)
	b.cur = g
	b.remaining -= g
	return true
}

// Len returns the length of the current fragment.
func (b *GapBreaker) Len() uint64 { return b.cur }
