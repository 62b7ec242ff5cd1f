// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ivset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSortsUnorderedInput(t *testing.T) {
	ix := New([]Interval{
		{Start: 10, Stop: 20},
		{Start: 0, Stop: 5},
		{Start: 5, Stop: 8},
	})
	assert.Equal(t, 3, ix.Len())
	got := ix.All()
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Start, got[i].Start)
	}
}

func TestFindRangeQuery(t *testing.T) {
	ix := New([]Interval{
		{Start: 0, Stop: 10},
		{Start: 20, Stop: 30},
		{Start: 25, Stop: 40},
	})
	hits := ix.Find(22, 26)
	assert.Len(t, hits, 2)

	assert.Empty(t, ix.Find(10, 20))
}

func TestFindZeroWidthContainment(t *testing.T) {
	ix := New([]Interval{{Start: 5, Stop: 10}})
	assert.Len(t, ix.Find(5, 5), 1)
	assert.Len(t, ix.Find(9, 9), 1)
	assert.Empty(t, ix.Find(10, 10))
	assert.Empty(t, ix.Find(4, 4))
}

func TestCovAccountsForOverlap(t *testing.T) {
	ix := New([]Interval{
		{Start: 0, Stop: 10},
		{Start: 5, Stop: 15},
		{Start: 100, Stop: 110},
	})
	assert.EqualValues(t, 25, ix.Cov())
}

func TestMergeOverlapsIsIdempotentAndPreservesCov(t *testing.T) {
	ix := New([]Interval{
		{Start: 0, Stop: 10},
		{Start: 10, Stop: 20}, // adjacent, must merge
		{Start: 15, Stop: 25}, // overlapping
		{Start: 100, Stop: 110},
	})
	before := ix.Cov()
	ix.MergeOverlaps()
	assert.Equal(t, before, ix.Cov())
	assert.Equal(t, 2, ix.Len())

	all := ix.All()
	assert.Equal(t, Interval{Start: 0, Stop: 25}, all[0])
	assert.Equal(t, Interval{Start: 100, Stop: 110}, all[1])

	ix.MergeOverlaps()
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, before, ix.Cov())
}

func TestMergeOverlapsNoOverlapIsNoop(t *testing.T) {
	ix := New([]Interval{
		{Start: 0, Stop: 5},
		{Start: 10, Stop: 15},
	})
	before := ix.Cov()
	ix.MergeOverlaps()
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, before, ix.Cov())
}
