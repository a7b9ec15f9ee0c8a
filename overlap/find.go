// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package overlap

import (
	"runtime"

	"github.com/grailbio/base/errors"
	gi "github.com/grailbio/granges/interval"
)

// eachChunk splits [0, n) into contiguous chunks and calls fn on them
// concurrently.  Chunks are disjoint, so fn may write to per-element slots
// of shared slices without locking.
func eachChunk(n, parallelism int, fn func(lo, hi int) error) error {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	nChunk := parallelism * 4
	if nChunk > n {
		nChunk = n
	}
	if nChunk == 0 {
		return nil
	}
	return limit(parallelism).Each(nChunk, func(chunkIdx int) error {
		return fn((chunkIdx*n)/nChunk, ((chunkIdx+1)*n)/nChunk)
	})
}

// FindOverlaps returns every (query, subject) pair that overlaps under opts.
// It indexes subject once and queries it with every query element.
// opts.Select is ignored; use Selection or SelectHits to collapse hits.
func FindOverlaps(query, subject *gi.Collection, opts Opts) (*Hits, error) {
	idx, err := NewIndex(subject, opts.indexOpts())
	if err != nil {
		return nil, err
	}
	return FindOverlapsIndexed(query, subject, idx, opts)
}

// FindOverlapsIndexed is FindOverlaps with a prebuilt index over subject.  It
// fails with a Precondition error if idx was built from a collection with
// different geometry.
func FindOverlapsIndexed(query, subject *gi.Collection, idx *Index, opts Opts) (*Hits, error) {
	if err := idx.checkSubject(subject); err != nil {
		return nil, err
	}
	perQuery := make([][]int, query.Len())
	err := eachChunk(query.Len(), opts.Parallelism, func(lo, hi int) error {
		var err error
		for i := lo; i < hi; i++ {
			if perQuery[i], err = idx.query(query.At(i), &opts, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newHits(perQuery, subject.Len()), nil
}

// Selection returns, for every query element, the subject index chosen by
// opts.Select, or NoMatch.  SelectAll is rejected since it does not collapse
// hits; use FindOverlaps instead.
func Selection(query, subject *gi.Collection, opts Opts) ([]int, error) {
	if opts.Select == SelectAll {
		return nil, errors.E(errors.Invalid, "overlap.Selection: select mode must not be \"all\"")
	}
	h, err := FindOverlaps(query, subject, opts)
	if err != nil {
		return nil, err
	}
	return SelectHits(h, subject, opts.Select)
}

// SelectHits collapses h to at most one subject per query element; see
// SelectMode for the rules.  subject must be the collection h was computed
// against.
func SelectHits(h *Hits, subject *gi.Collection, mode SelectMode) ([]int, error) {
	switch mode {
	case SelectArbitrary, SelectFirst, SelectLast:
	default:
		return nil, errors.E(errors.Invalid, "overlap.SelectHits: cannot collapse hits with select mode", mode.String())
	}
	if subject.Len() != h.SubjectLen {
		return nil, &gi.LengthMismatchError{Name: "subject", Want: h.SubjectLen, Got: subject.Len()}
	}
	sel := make([]int, h.QueryLen)
	for q := range sel {
		sel[q] = NoMatch
		subjects := h.Subjects(q)
		if len(subjects) == 0 {
			continue
		}
		switch mode {
		case SelectArbitrary:
			sel[q] = subjects[0]
		case SelectFirst:
			best := subjects[0]
			for _, s := range subjects[1:] {
				// subjects is ascending, so strict comparison keeps the smallest index.
				if subject.At(s).Start < subject.At(best).Start {
					best = s
				}
			}
			sel[q] = best
		case SelectLast:
			best := subjects[0]
			for _, s := range subjects[1:] {
				if subject.At(s).End >= subject.At(best).End {
					best = s
				}
			}
			sel[q] = best
		}
	}
	return sel, nil
}

// CountOverlaps returns, for every query element, the number of subject
// elements overlapping it.
func CountOverlaps(query, subject *gi.Collection, opts Opts) ([]int, error) {
	h, err := FindOverlaps(query, subject, opts)
	if err != nil {
		return nil, err
	}
	counts := make([]int, h.QueryLen)
	for q := range counts {
		counts[q] = h.Count(q)
	}
	return counts, nil
}

// SubsetByOverlaps returns a new collection of the query elements that
// overlap at least one subject element (or, with opts.Invert, none), in
// query order.
func SubsetByOverlaps(query, subject *gi.Collection, opts Opts) (*gi.Collection, error) {
	h, err := FindOverlaps(query, subject, opts)
	if err != nil {
		return nil, err
	}
	return query.Filter(func(q int, _ gi.Interval) bool {
		return (h.Count(q) > 0) != opts.Invert
	}), nil
}
