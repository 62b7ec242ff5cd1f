// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ivset provides a sorted, queryable container of half-open
// genomic intervals. Construction from an unsorted sequence is
// infallible; queries never fail, returning no hits when there are
// none.
package ivset

import (
	"sort"

	"github.com/biogo/store/interval"
)

// Interval is a half-open range [Start, Stop) in linear genome
// coordinates. Aux carries an auxiliary value whose meaning is
// defined by the caller (the genome model stores a chromosome's
// post-mask length there).
type Interval struct {
	Start, Stop uint64
	Aux         uint64
}

// Len returns the number of bases covered by i.
func (i Interval) Len() uint64 { return i.Stop - i.Start }

// Overlaps reports whether i and o share any base.
func (i Interval) Overlaps(o Interval) bool {
	return i.Stop > o.Start && i.Start < o.Stop
}

// Index is a sorted collection of intervals supporting overlap
// queries, coverage, and in-place merging. The zero value is not
// usable; construct with New.
type Index struct {
	sorted []Interval
	tree   *interval.IntTree
	nextID uintptr
}

// entry adapts an Interval to biogo/store/interval's IntInterface so
// it can live in an *interval.IntTree.
type entry struct {
	id uintptr
	iv Interval
}

func (e entry) ID() uintptr { return e.id }

func (e entry) Range() interval.IntRange {
	return interval.IntRange{Start: int(e.iv.Start), End: int(e.iv.Stop)}
}

func (e entry) Overlap(b interval.IntRange) bool {
	return int(e.iv.Stop) > b.Start && int(e.iv.Start) < b.End
}

// New builds an Index from an unsorted sequence of intervals,
// normalizing it to sorted order. It never fails.
func New(ivs []Interval) *Index {
	ix := &Index{sorted: append([]Interval(nil), ivs...)}
	sort.Slice(ix.sorted, func(i, j int) bool { return ix.sorted[i].Start < ix.sorted[j].Start })
	ix.rebuildTree()
	return ix
}

func (ix *Index) rebuildTree() {
	t := &interval.IntTree{}
	for _, iv := range ix.sorted {
		e := entry{id: ix.nextID, iv: iv}
		ix.nextID++
		// Fast insertion; ranges are adjusted once after the bulk load,
		// matching the tree-building pattern used for overlap queries
		// elsewhere in this lineage.
		err := t.Insert(e, true)
		if err != nil {
			// Insert only fails on a duplicate ID, which nextID rules out.
			panic(err)
		}
	}
	t.AdjustRanges()
	ix.tree = t
}

// Len returns the number of intervals in ix.
func (ix *Index) Len() int { return len(ix.sorted) }

// All returns the intervals in ix in sorted order. The returned
// slice must not be mutated.
func (ix *Index) All() []Interval { return ix.sorted }

// Find returns every interval intersecting [lo, hi) in sorted order.
// A zero-width query (hi <= lo) is treated as a containment check at
// the point lo: any interval whose [start, stop) contains lo is
// returned.
func (ix *Index) Find(lo, hi uint64) []Interval {
	if ix.tree == nil || ix.tree.Len() == 0 {
		return nil
	}
	if hi <= lo {
		hi = lo + 1
	}
	q := entry{iv: Interval{Start: lo, Stop: hi}}
	hits := ix.tree.Get(q)
	if len(hits) == 0 {
		return nil
	}
	out := make([]Interval, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(entry).iv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Cov returns the total number of bases covered by the union of the
// intervals in ix, counting overlapping regions once.
func (ix *Index) Cov() uint64 {
	var cov uint64
	if len(ix.sorted) == 0 {
		return 0
	}
	curStart, curEnd := ix.sorted[0].Start, ix.sorted[0].Stop
	for _, iv := range ix.sorted[1:] {
		switch {
		case iv.Start > curEnd:
			cov += curEnd - curStart
			curStart, curEnd = iv.Start, iv.Stop
		case iv.Stop > curEnd:
			curEnd = iv.Stop
		}
	}
	cov += curEnd - curStart
	return cov
}

// MergeOverlaps rewrites ix so that no two intervals overlap or
// touch; adjacent and overlapping intervals are unioned. It is
// idempotent and preserves Cov.
func (ix *Index) MergeOverlaps() {
	if len(ix.sorted) == 0 {
		return
	}
	merged := make([]Interval, 0, len(ix.sorted))
	cur := ix.sorted[0]
	for _, iv := range ix.sorted[1:] {
		if iv.Start <= cur.Stop {
			if iv.Stop > cur.Stop {
				cur.Stop = iv.Stop
			}
			continue
		}
		merged = append(merged, cur)
		cur = iv
	}
	merged = append(merged, cur)
	ix.sorted = merged
	ix.rebuildTree()
}
