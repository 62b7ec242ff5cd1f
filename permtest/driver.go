// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package permtest

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/kortschak/permshuffle/genome"
	"github.com/kortschak/permshuffle/ivset"
	"github.com/kortschak/permshuffle/overlap"
	"github.com/kortschak/permshuffle/randomize"
)

// Driver configures and runs the parallel permutation test. After
// setup, Strategy, Counter, and the interval sets passed to Run are
// shared read-only across all workers; each worker owns its own RNG
// and scratch space.
type Driver struct {
	Strategy randomize.Strategy
	Counter  overlap.Mode
	PerChrom bool
	Threads  int
	NumPerms int
	// Seed roots per-worker RNG seeding. When nil, each worker draws
	// an independent seed from a clock-based source and the run is
	// not reproducible.
	Seed *uint64
}

// Run spawns Driver.Threads workers that together produce
// Driver.NumPerms permutation counts of a randomized A against the
// fixed B, under the genome model. The returned distribution
// preserves aggregation order: worker 0's chunk, then worker 1's, and
// so on. A randomization precondition failure in any worker aborts
// the run and returns that error.
func (d Driver) Run(a, b *ivset.Index, model *genome.Model) ([]uint64, error) {
	threads := d.Threads
	if threads < 1 {
		threads = 1
	}
	n := d.NumPerms
	if n <= 0 {
		return nil, nil
	}
	chunk := (n + threads - 1) / threads

	chunks := make([][]uint64, threads)
	errs := make([]error, threads)
	var wg sync.WaitGroup
	for w := 0; w < threads; w++ {
		start := w * chunk
		stop := start + chunk
		if stop > n {
			stop = n
		}
		if start >= stop {
			continue
		}
		wg.Add(1)
		go func(worker, start, stop int) {
			defer wg.Done()
			s1, s2 := d.workerSeed(worker)
			rng := rand.New(rand.NewPCG(s1, s2))
			counts := make([]uint64, 0, stop-start)
			for j := start; j < stop; j++ {
				r, err := d.Strategy.Randomize(rng, a, model, d.PerChrom)
				if err != nil {
					errs[worker] = err
					return
				}
				counts = append(counts, d.Counter.Count(r, b))
			}
			chunks[worker] = counts
		}(w, start, stop)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make([]uint64, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out, nil
}

// workerSeed derives the two PCG seed halves for a worker. With a
// root seed set, derivation is seed_i = hash(seed, i), making the run
// reproducible for a fixed thread count; otherwise a clock-based seed
// is mixed with the worker index.
func (d Driver) workerSeed(worker int) (uint64, uint64) {
	var root uint64
	if d.Seed != nil {
		root = *d.Seed
	} else {
		root = uint64(time.Now().UnixNano())
	}
	return splitmix64(root, uint64(worker)*2), splitmix64(root, uint64(worker)*2+1)
}

// splitmix64 mixes seed and i into a well-distributed 64-bit value,
// enough to decorrelate independent per-worker RNG streams derived
// from a single root seed.
func splitmix64(seed, i uint64) uint64 {
	x := seed + i*0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

// ShouldSwap reports whether A and B should be swapped before
// running the test. The "All" counter is commutative and cheaper
// when scanning the smaller side, but the "Any" counter's meaning
// changes under swap, so swapping is always skipped when counter is
// Any, regardless of noSwap.
func ShouldSwap(aLen, bLen int, counter overlap.Mode, noSwap bool) bool {
	if noSwap || counter == overlap.Any {
		return false
	}
	return aLen > bLen
}
