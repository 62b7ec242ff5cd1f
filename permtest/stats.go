// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package permtest drives the parallel permutation test and
// summarizes its empirical distribution into a p-value, z-score, and
// alternate-hypothesis direction, plus an optional local z-score
// profile.
package permtest

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kortschak/permshuffle/ivset"
	"github.com/kortschak/permshuffle/overlap"
	"github.com/kortschak/permshuffle/randomize"
)

// Result holds the outcome of a permutation test.
type Result struct {
	Observed uint64
	NumPerms int
	Mean     float64
	StdDev   float64
	PVal     float64
	// ZScore is 0, with the edge case left to the caller to warn
	// about, when StdDev is zero (undefined); this includes the case
	// where Observed and Mean are both zero.
	ZScore float64
	// Alt is 'l' (less) or 'g' (greater).
	Alt   byte
	Perms []uint64
}

// Summarize computes a Result from an observed overlap count and its
// permutation distribution. The distribution's order is preserved in
// the returned Result.
func Summarize(observed uint64, perms []uint64) Result {
	n := len(perms)
	floats := make([]float64, n)
	for i, p := range perms {
		floats[i] = float64(p)
	}
	mean := stat.Mean(floats, nil)

	// Population variance (divide by n, not n-1): gonum's own
	// Variance/StdDev apply Bessel's correction, which is not the
	// statistic this test reports.
	var sumSq float64
	for _, x := range floats {
		d := x - mean
		sumSq += d * d
	}
	sd := math.Sqrt(sumSq / float64(n))

	fobs := float64(observed)
	alt := byte('g')
	if fobs < mean {
		alt = 'l'
	}
	var pCount int
	for _, p := range perms {
		if alt == 'l' {
			if p <= observed {
				pCount++
			}
		} else if p >= observed {
			pCount++
		}
	}
	pVal := (float64(pCount) + 1) / (float64(n) + 1)

	z := zscore(observed, mean, sd)

	return Result{
		Observed: observed,
		NumPerms: n,
		Mean:     mean,
		StdDev:   sd,
		PVal:     pVal,
		ZScore:   z,
		Alt:      alt,
		Perms:    perms,
	}
}

// zscore computes (x-mean)/sd, treating sd=0 as undefined and
// reporting 0 instead of NaN/±Inf. A zero-variance permutation
// distribution (every perm equal) is valid input (spec scenario S3)
// and must not produce a non-finite value that encoding/json refuses
// to write.
func zscore(x uint64, mean, sd float64) float64 {
	if sd == 0 {
		return 0
	}
	return (float64(x) - mean) / sd
}

// LocalZScoreUndefined reports whether z-score calculation for the
// main test hit the undefined (zero standard deviation) edge case, so
// callers can emit the warning spec.md §4.7/§7 calls for.
func (r Result) LocalZScoreUndefined() bool {
	return r.StdDev == 0
}

// LocalZScore is the z-score profile scanning shifts of A around the
// observed position.
type LocalZScore struct {
	Shifts []float64
	Window int64
	Step   uint64
}

// ScanLocalZScore computes the local z-score profile for a against b
// under counter, using the mean and standard deviation from the main
// permutation test, over shifts in [-window, window) stepped by step.
func ScanLocalZScore(a, b *ivset.Index, counter overlap.Mode, window int64, step uint64, mean, sd float64) LocalZScore {
	var shifts []float64
	for d := -window; d < window; d += int64(step) {
		shifted := randomize.Shift(a, d)
		x := counter.Count(shifted, b)
		shifts = append(shifts, zscore(x, mean, sd))
	}
	return LocalZScore{Shifts: shifts, Window: window, Step: step}
}
