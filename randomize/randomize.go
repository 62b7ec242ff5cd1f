// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package randomize implements the null-model randomization
// strategies: shuffle (overlaps allowed), circle (rotation), novl
// (non-overlapping shuffle via gap partitioning), and the
// deterministic shift used by the local z-score scan.
package randomize

import (
	"errors"
	"math/rand/v2"

	"github.com/kortschak/permshuffle/genome"
	"github.com/kortschak/permshuffle/ivset"
)

var (
	// ErrIntervalExceedsSpan is returned by Shuffle when an interval
	// is as long as, or longer than, its available placement span.
	ErrIntervalExceedsSpan = errors.New("randomize: interval exceeds available span")
	// ErrMissingGapBudget is returned by Novl when the genome model
	// was not given a gap budget via genome.Model.MakeGapBudget.
	ErrMissingGapBudget = errors.New("randomize: novl strategy requires a gap budget")
	// ErrNoMatchingSpan is returned in per-chromosome mode when an
	// interval does not lie within exactly one genome span.
	ErrNoMatchingSpan = errors.New("randomize: interval does not match any genome span")
)

// Strategy selects a randomization method. It is a finite tagged
// variant, dispatched by a switch on its value rather than an
// interface hierarchy.
type Strategy int

const (
	Shuffle Strategy = iota
	Circle
	Novl
)

// String returns the CLI spelling of s.
func (s Strategy) String() string {
	switch s {
	case Shuffle:
		return "shuffle"
	case Circle:
		return "circle"
	case Novl:
		return "novl"
	default:
		return "unknown"
	}
}

// ParseStrategy parses the CLI spelling of a Strategy.
func ParseStrategy(s string) (Strategy, bool) {
	switch s {
	case "shuffle":
		return Shuffle, true
	case "circle":
		return Circle, true
	case "novl":
		return Novl, true
	default:
		return 0, false
	}
}

// Randomize transforms intv into a freshly randomized interval set
// under the genome model, scoped genome-wide or per-chromosome.
func (s Strategy) Randomize(rng *rand.Rand, intv *ivset.Index, model *genome.Model, perChrom bool) (*ivset.Index, error) {
	switch s {
	case Shuffle:
		return shuffle(rng, intv, model, perChrom)
	case Circle:
		return circle(rng, intv, model, perChrom)
	case Novl:
		return novl(rng, intv, model, perChrom)
	default:
		panic("randomize: unknown strategy")
	}
}

// bounds returns the placement span for iv: the whole genome, or the
// single chromosome span containing it under per-chromosome scope.
func bounds(iv ivset.Interval, model *genome.Model, perChrom bool) (lower, upper uint64, err error) {
	if !perChrom {
		return 0, model.Span, nil
	}
	span, ok := model.SpanFor(iv.Start, iv.Stop)
	if !ok {
		return 0, 0, ErrNoMatchingSpan
	}
	return span.Start, span.Stop, nil
}

func shuffle(rng *rand.Rand, intv *ivset.Index, model *genome.Model, perChrom bool) (*ivset.Index, error) {
	out := make([]ivset.Interval, 0, intv.Len())
	for _, iv := range intv.All() {
		length := iv.Len()
		lower, upper, err := bounds(iv, model, perChrom)
		if err != nil {
			return nil, err
		}
		if upper <= lower || upper-lower <= length {
			return nil, ErrIntervalExceedsSpan
		}
		offset := lower + rng.Uint64N(upper-lower-length)
		out = append(out, ivset.Interval{Start: offset, Stop: offset + length})
	}
	return ivset.New(out), nil
}

func circle(rng *rand.Rand, intv *ivset.Index, model *genome.Model, perChrom bool) (*ivset.Index, error) {
	globalShift := rng.Uint64N(model.Span)
	out := make([]ivset.Interval, 0, intv.Len())
	for _, iv := range intv.All() {
		lower, upper, shift := uint64(0), model.Span, globalShift
		if perChrom {
			span, ok := model.SpanFor(iv.Start, iv.Stop)
			if !ok {
				return nil, ErrNoMatchingSpan
			}
			lower, upper = span.Start, span.Stop
			shift = globalShift % span.Aux
		}
		newStart := iv.Start + shift
		newEnd := iv.Stop + shift
		switch {
		case newStart >= upper:
			out = append(out, ivset.Interval{Start: newStart - upper + lower, Stop: newEnd - upper + lower})
		case newEnd > upper:
			out = append(out, ivset.Interval{Start: newStart, Stop: upper})
			out = append(out, ivset.Interval{Start: lower, Stop: newEnd - upper + lower})
		default:
			out = append(out, ivset.Interval{Start: newStart, Stop: newEnd})
		}
	}
	return ivset.New(out), nil
}

func novl(rng *rand.Rand, intv *ivset.Index, model *genome.Model, perChrom bool) (*ivset.Index, error) {
	if model.GapBudget == nil {
		return nil, ErrMissingGapBudget
	}
	var spans []ivset.Interval
	if perChrom {
		spans = model.Spans.All()
	} else {
		spans = []ivset.Interval{{Start: 0, Stop: model.Span}}
	}

	type item struct {
		isInterval bool
		length     uint64
	}

	out := make([]ivset.Interval, 0, intv.Len())
	for _, span := range spans {
		budget, ok := model.GapBudget[span.Start]
		if !ok {
			return nil, ErrMissingGapBudget
		}

		var items []item
		breaker := NewGapBreaker(rng, budget)
		for breaker.Next() {
			items = append(items, item{length: breaker.Len()})
		}
		for _, iv := range intv.Find(span.Start, span.Stop) {
			items = append(items, item{isInterval: true, length: iv.Len()})
		}
		rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })

		cur := span.Start
		for _, it := range items {
			if it.isInterval {
				out = append(out, ivset.Interval{Start: cur, Stop: cur + it.length})
			}
			cur += it.length
		}
	}
	return ivset.New(out), nil
}

// Shift deterministically shifts every interval in intv by delta.
// An interval that would fall entirely at or before zero is dropped;
// one that would straddle zero has its start clamped to zero. It is
// used solely by the local z-score scan.
func Shift(intv *ivset.Index, delta int64) *ivset.Index {
	out := make([]ivset.Interval, 0, intv.Len())
	for _, iv := range intv.All() {
		newStart := int64(iv.Start) + delta
		newStop := int64(iv.Stop) + delta
		if newStart < 0 && newStop <= 0 {
			continue
		}
		if newStart < 0 && newStop > 0 {
			newStart = 0
		}
		out = append(out, ivset.Interval{Start: uint64(newStart), Stop: uint64(newStop)})
	}
	return ivset.New(out)
}
