// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overlap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kortschak/permshuffle/ivset"
)

func TestAllCountsPairs(t *testing.T) {
	a := ivset.New([]ivset.Interval{{Start: 0, Stop: 10}, {Start: 20, Stop: 30}})
	b := ivset.New([]ivset.Interval{{Start: 5, Stop: 8}, {Start: 6, Stop: 25}})
	// a[0]=[0,10) hits both b intervals; a[1]=[20,30) hits only the second.
	assert.EqualValues(t, 3, All.Count(a, b))
}

func TestAnyCountsMatchingAIntervals(t *testing.T) {
	a := ivset.New([]ivset.Interval{{Start: 0, Stop: 10}, {Start: 20, Stop: 30}, {Start: 1000, Stop: 1001}})
	b := ivset.New([]ivset.Interval{{Start: 5, Stop: 8}, {Start: 6, Stop: 25}})
	assert.EqualValues(t, 2, Any.Count(a, b))
}

func TestAnyNeverExceedsAll(t *testing.T) {
	a := ivset.New([]ivset.Interval{{Start: 0, Stop: 100}})
	b := ivset.New([]ivset.Interval{{Start: 0, Stop: 10}, {Start: 20, Stop: 30}, {Start: 40, Stop: 50}})
	assert.LessOrEqual(t, Any.Count(a, b), All.Count(a, b))
}

func TestAllSymmetricOnMergedInputs(t *testing.T) {
	a := ivset.New([]ivset.Interval{{Start: 0, Stop: 10}, {Start: 20, Stop: 30}})
	b := ivset.New([]ivset.Interval{{Start: 5, Stop: 25}})
	assert.Equal(t, All.Count(a, b), All.Count(b, a))
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("all")
	assert.True(t, ok)
	assert.Equal(t, All, m)

	m, ok = ParseMode("any")
	assert.True(t, ok)
	assert.Equal(t, Any, m)

	_, ok = ParseMode("bogus")
	assert.False(t, ok)
}
