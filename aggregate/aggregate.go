// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package aggregate derives per-query summaries from overlap.Hits and joins
// subject payload back onto the query.  Nothing here builds an index: every
// operation walks the hits once.
package aggregate

import (
	"math"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/granges/interval"
	"github.com/grailbio/granges/overlap"
)

// NoData is the MaxByGroup result for a query element without hits.  The
// other reductions have their own empty-group values; see their docs.
var NoData = math.Inf(-1)

// CountPerQuery returns, for each query index in [0, queryLen), the number of
// subjects paired with it.
func CountPerQuery(h *overlap.Hits, queryLen int) []int {
	counts := make([]int, queryLen)
	for q := 0; q < queryLen && q < h.QueryLen; q++ {
		counts[q] = h.Count(q)
	}
	return counts
}

// CountPerSubject returns, for each subject index, the number of query
// elements paired with it.
func CountPerSubject(h *overlap.Hits) []int {
	counts := make([]int, h.SubjectLen)
	for q := 0; q < h.QueryLen; q++ {
		for _, s := range h.Subjects(q) {
			counts[s]++
		}
	}
	return counts
}

// JoinField copies subject column field onto a new collection aligned with
// query.  With a collapsing mode (arbitrary, first, last) the result has one
// row per query element, holding the selected subject's value or nil.  With
// overlap.SelectAll the result has one row per hit, in hit order, plus one row
// with nil for every query element without hits, so each query element
// appears at least once.  The new column replaces any query column of the same
// name.
func JoinField(h *overlap.Hits, query, subject *interval.Collection, field string, mode overlap.SelectMode) (*interval.Collection, error) {
	col, ok := subject.Column(field)
	if !ok {
		return nil, errors.E(errors.Invalid, "aggregate.JoinField: subject has no column", field)
	}
	if query.Len() != h.QueryLen {
		return nil, &interval.LengthMismatchError{Name: "query", Want: h.QueryLen, Got: query.Len()}
	}
	if mode != overlap.SelectAll {
		sel, err := overlap.SelectHits(h, subject, mode)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(sel))
		for q, s := range sel {
			if s != overlap.NoMatch {
				values[q] = col[s]
			}
		}
		r := query.Subset(identity(query.Len()))
		if err := r.Annotate(field, values); err != nil {
			return nil, err
		}
		return r, nil
	}
	if subject.Len() != h.SubjectLen {
		return nil, &interval.LengthMismatchError{Name: "subject", Want: h.SubjectLen, Got: subject.Len()}
	}
	var (
		rows   []int
		values []interface{}
	)
	for q := 0; q < h.QueryLen; q++ {
		subjects := h.Subjects(q)
		if len(subjects) == 0 {
			rows = append(rows, q)
			values = append(values, nil)
			continue
		}
		for _, s := range subjects {
			rows = append(rows, q)
			values = append(values, col[s])
		}
	}
	r := query.Subset(rows)
	if err := r.Annotate(field, values); err != nil {
		return nil, err
	}
	return r, nil
}

func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// IntersectRanges returns [max(q.Start, s.Start), min(q.End, s.End)].  It
// fails with *interval.NoOverlapError when the result would be empty.
func IntersectRanges(q, s interval.Interval) (interval.Interval, error) {
	return interval.Intersect(q, s)
}

// IntersectHits returns the intersection of every hit pair, in hit order, as a
// new collection with integer columns "query" and "subject" naming the pair.
func IntersectHits(h *overlap.Hits, query, subject *interval.Collection) (*interval.Collection, error) {
	if query.Len() != h.QueryLen {
		return nil, &interval.LengthMismatchError{Name: "query", Want: h.QueryLen, Got: query.Len()}
	}
	if subject.Len() != h.SubjectLen {
		return nil, &interval.LengthMismatchError{Name: "subject", Want: h.SubjectLen, Got: subject.Len()}
	}
	var (
		ivs        []interval.Interval
		qIdx, sIdx []int
	)
	for q := 0; q < h.QueryLen; q++ {
		for _, s := range h.Subjects(q) {
			iv, err := interval.Intersect(query.At(q), subject.At(s))
			if err != nil {
				return nil, err
			}
			ivs = append(ivs, iv)
			qIdx = append(qIdx, q)
			sIdx = append(sIdx, s)
		}
	}
	r, err := interval.NewCollection(ivs)
	if err != nil {
		return nil, err
	}
	if err := r.AnnotateInts("query", qIdx); err != nil {
		return nil, err
	}
	if err := r.AnnotateInts("subject", sIdx); err != nil {
		return nil, err
	}
	return r, nil
}
