// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package permtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kortschak/permshuffle/genome"
	"github.com/kortschak/permshuffle/ivset"
	"github.com/kortschak/permshuffle/overlap"
	"github.com/kortschak/permshuffle/randomize"
)

func TestDriverRunProducesNumPermsCounts(t *testing.T) {
	model, err := genome.Build([]genome.ChromLength{{Chrom: "c1", Length: 1000}}, nil)
	require.NoError(t, err)
	a := ivset.New([]ivset.Interval{{Start: 0, Stop: 10}, {Start: 100, Stop: 120}})
	b := ivset.New([]ivset.Interval{{Start: 5, Stop: 15}})

	seed := uint64(12345)
	d := Driver{
		Strategy: randomize.Shuffle,
		Counter:  overlap.All,
		Threads:  4,
		NumPerms: 101,
		Seed:     &seed,
	}
	perms, err := d.Run(a, b, model)
	require.NoError(t, err)
	assert.Len(t, perms, 101)
}

func TestDriverRunIsDeterministicForFixedSeedAndThreads(t *testing.T) {
	model, err := genome.Build([]genome.ChromLength{{Chrom: "c1", Length: 1000}}, nil)
	require.NoError(t, err)
	a := ivset.New([]ivset.Interval{{Start: 0, Stop: 10}, {Start: 100, Stop: 120}, {Start: 300, Stop: 310}})
	b := ivset.New([]ivset.Interval{{Start: 5, Stop: 15}, {Start: 305, Stop: 400}})

	seed := uint64(777)
	d := Driver{
		Strategy: randomize.Shuffle,
		Counter:  overlap.All,
		Threads:  3,
		NumPerms: 50,
		Seed:     &seed,
	}
	first, err := d.Run(a, b, model)
	require.NoError(t, err)
	second, err := d.Run(a, b, model)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDriverRunPropagatesRandomizationError(t *testing.T) {
	model, err := genome.Build([]genome.ChromLength{{Chrom: "c1", Length: 10}}, nil)
	require.NoError(t, err)
	a := ivset.New([]ivset.Interval{{Start: 0, Stop: 10}}) // spans the whole genome
	b := ivset.New([]ivset.Interval{{Start: 0, Stop: 5}})

	seed := uint64(1)
	d := Driver{
		Strategy: randomize.Shuffle,
		Counter:  overlap.All,
		Threads:  2,
		NumPerms: 10,
		Seed:     &seed,
	}
	_, err = d.Run(a, b, model)
	assert.ErrorIs(t, err, randomize.ErrIntervalExceedsSpan)
}

func TestDriverRunZeroPermsReturnsEmpty(t *testing.T) {
	model, err := genome.Build([]genome.ChromLength{{Chrom: "c1", Length: 1000}}, nil)
	require.NoError(t, err)
	a := ivset.New([]ivset.Interval{{Start: 0, Stop: 10}})
	b := ivset.New([]ivset.Interval{{Start: 5, Stop: 15}})

	d := Driver{Strategy: randomize.Shuffle, Counter: overlap.All, Threads: 4, NumPerms: 0}
	perms, err := d.Run(a, b, model)
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestShouldSwap(t *testing.T) {
	assert.True(t, ShouldSwap(100, 10, overlap.All, false))
	assert.False(t, ShouldSwap(10, 100, overlap.All, false))
	assert.False(t, ShouldSwap(100, 10, overlap.All, true))
	assert.False(t, ShouldSwap(100, 10, overlap.Any, false))
}
