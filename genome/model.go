// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package genome

import (
	"fmt"

	"github.com/kortschak/permshuffle/ivset"
)

// Model holds a unified linear coordinate space built by laying
// chromosomes end to end in the order they were loaded, after
// subtracting any masked bases from each chromosome's length.
type Model struct {
	// Spans is the per-chromosome span index in linear coordinates;
	// each interval's Aux is that chromosome's post-mask length.
	Spans *ivset.Index
	// Shift maps a chromosome name to its linear offset.
	Shift map[string]uint64
	// Span is the total post-mask linear length of the genome.
	Span uint64
	// GapBudget is set by MakeGapBudget; nil until then.
	GapBudget map[uint64]uint64

	mask  map[string]*ivset.Index
	order []string
}

// Build constructs a Model from parsed genome records and an optional
// mask, given as chromosome-relative mask records keyed by
// chromosome.
func Build(genomeRecs []ChromLength, mask map[string][]Record) (*Model, error) {
	maskIdx := make(map[string]*ivset.Index, len(mask))
	for c, recs := range mask {
		ivs := make([]ivset.Interval, len(recs))
		for i, r := range recs {
			ivs[i] = ivset.Interval{Start: r.Start, Stop: r.End}
		}
		maskIdx[c] = ivset.New(ivs)
	}

	m := &Model{
		Shift: make(map[string]uint64, len(genomeRecs)),
		mask:  maskIdx,
	}
	var spans []ivset.Interval
	var cursor uint64
	for _, cl := range genomeRecs {
		var maskedLen uint64
		if mi, ok := maskIdx[cl.Chrom]; ok {
			maskedLen = mi.Cov()
		}
		if maskedLen > cl.Length {
			return nil, fmt.Errorf("genome: chromosome %s: mask covers %d bases but chromosome is only %d bases long", cl.Chrom, maskedLen, cl.Length)
		}
		effLen := cl.Length - maskedLen
		m.Shift[cl.Chrom] = cursor
		spans = append(spans, ivset.Interval{Start: cursor, Stop: cursor + effLen, Aux: effLen})
		cursor += effLen
		m.order = append(m.order, cl.Chrom)
	}
	m.Spans = ivset.New(spans)
	m.Span = cursor
	return m, nil
}

// Chroms returns the chromosome names in file load order.
func (m *Model) Chroms() []string {
	return append([]string(nil), m.order...)
}

// SpanFor returns the chromosome span containing [lo, hi), or
// ok=false if no single loaded chromosome span contains it.
func (m *Model) SpanFor(lo, hi uint64) (iv ivset.Interval, ok bool) {
	hits := m.Spans.Find(lo, hi)
	if len(hits) != 1 || hits[0].Start > lo || hits[0].Stop < hi {
		return ivset.Interval{}, false
	}
	return hits[0], true
}

// maskCoverBefore returns the total mask coverage of mi within
// [0, pos).
func maskCoverBefore(mi *ivset.Index, pos uint64) uint64 {
	hits := mi.Find(0, pos)
	if len(hits) == 0 {
		return 0
	}
	clipped := make([]ivset.Interval, len(hits))
	for i, h := range hits {
		stop := h.Stop
		if stop > pos {
			stop = pos
		}
		clipped[i] = ivset.Interval{Start: h.Start, Stop: stop}
	}
	return ivset.New(clipped).Cov()
}

// Project converts chromosome-relative records into the model's
// linear, post-mask coordinate space. Records on chromosomes absent
// from the genome are skipped, with onUnknown invoked once per such
// chromosome (onUnknown may be nil). Records that intersect any
// masked region on their chromosome are skipped and counted in the
// returned masked count.
func (m *Model) Project(recs []Record, onUnknown func(chrom string)) (out []ivset.Interval, masked int) {
	warned := make(map[string]bool)
	out = make([]ivset.Interval, 0, len(recs))
	for _, r := range recs {
		shift, ok := m.Shift[r.Chrom]
		if !ok {
			if !warned[r.Chrom] {
				warned[r.Chrom] = true
				if onUnknown != nil {
					onUnknown(r.Chrom)
				}
			}
			continue
		}
		mi, hasMask := m.mask[r.Chrom]
		if hasMask && len(mi.Find(r.Start, r.End)) > 0 {
			masked++
			continue
		}
		var leftShift uint64
		if hasMask {
			leftShift = maskCoverBefore(mi, r.Start)
		}
		out = append(out, ivset.Interval{
			Start: r.Start + shift - leftShift,
			Stop:  r.End + shift - leftShift,
		})
	}
	return out, masked
}

// MakeGapBudget computes the uncovered-base budget available to the
// non-overlapping randomizer for a, under the given scope. For
// genome-wide scope it stores a single entry keyed 0. For
// per-chromosome scope it stores one entry per chromosome span, keyed
// by that span's linear start coordinate, holding the number of bases
// in that chromosome not covered by a.
func (m *Model) MakeGapBudget(a *ivset.Index, perChrom bool) map[uint64]uint64 {
	budget := make(map[uint64]uint64)
	if !perChrom {
		budget[0] = m.Span - a.Cov()
		m.GapBudget = budget
		return budget
	}
	for _, span := range m.Spans.All() {
		hits := a.Find(span.Start, span.Stop)
		clipped := make([]ivset.Interval, len(hits))
		for i, h := range hits {
			start, stop := h.Start, h.Stop
			if start < span.Start {
				start = span.Start
			}
			if stop > span.Stop {
				stop = span.Stop
			}
			clipped[i] = ivset.Interval{Start: start, Stop: stop}
		}
		coverInSpan := ivset.New(clipped).Cov()
		budget[span.Start] = (span.Stop - span.Start) - coverInSpan
	}
	m.GapBudget = budget
	return budget
}
