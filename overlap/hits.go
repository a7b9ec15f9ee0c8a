// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package overlap

import (
	"fmt"
	"sort"
	"sync"

	"github.com/grailbio/base/errors"
)

// NoMatch marks a query element without a selected hit.
const NoMatch = -1

// Hits is the bipartite pairing produced by FindOverlaps: pair i is
// (QueryHits[i], SubjectHits[i]).  Pairs are sorted by query index, then
// subject index.  Hits holds indices only; the collections stay the owners of
// the intervals.
//
// A Hits may also be written as a literal.  The per-query lookup table is
// built on first use, and rebuilt when QueryLen or the pair slices are
// replaced (see Reindex for in-place edits).  Building it sorts the pairs and
// drops those with an index outside [0, QueryLen) or [0, SubjectLen).
type Hits struct {
	QueryHits   []int
	SubjectHits []int
	// QueryLen and SubjectLen are the sizes of the two collections.
	QueryLen   int
	SubjectLen int

	mu sync.Mutex
	// offsets[q]:offsets[q+1] is the range of pairs for query element q.
	offsets []int
	// indexed is the QueryHits/SubjectHits state offsets was computed from.
	indexedQuery, indexedSubject []int
}

// newHits flattens per-query subject lists, each already ascending.
func newHits(perQuery [][]int, subjectLen int) *Hits {
	total := 0
	for _, s := range perQuery {
		total += len(s)
	}
	h := &Hits{
		QueryHits:   make([]int, 0, total),
		SubjectHits: make([]int, 0, total),
		QueryLen:    len(perQuery),
		SubjectLen:  subjectLen,
		offsets:     make([]int, len(perQuery)+1),
	}
	for q, s := range perQuery {
		for _, sub := range s {
			h.QueryHits = append(h.QueryHits, q)
			h.SubjectHits = append(h.SubjectHits, sub)
		}
		h.offsets[q+1] = len(h.QueryHits)
	}
	h.indexedQuery, h.indexedSubject = h.QueryHits, h.SubjectHits
	return h
}

// sameSlice reports whether a and b share their backing array and length.
func sameSlice(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// index returns the offsets table, rebuilding it if QueryLen or the pair
// slices were replaced since it was computed.
func (h *Hits) index() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.offsets) == h.QueryLen+1 && h.offsets[h.QueryLen] == len(h.QueryHits) &&
		sameSlice(h.indexedQuery, h.QueryHits) && sameSlice(h.indexedSubject, h.SubjectHits) {
		return h.offsets
	}
	h.reindexLocked()
	return h.offsets
}

// Reindex rebuilds the per-query lookup table from the pair slices.  Call it
// after editing QueryHits or SubjectHits in place; replacing the slices or
// changing QueryLen is noticed without it.
func (h *Hits) Reindex() {
	h.mu.Lock()
	h.reindexLocked()
	h.mu.Unlock()
}

// reindexLocked drops pairs with out-of-range indices, restores pair order
// and recomputes offsets.  The pair slices are compacted in place.
func (h *Hits) reindexLocked() {
	n := len(h.QueryHits)
	if len(h.SubjectHits) < n {
		n = len(h.SubjectHits)
	}
	kept := 0
	for i := 0; i < n; i++ {
		q, s := h.QueryHits[i], h.SubjectHits[i]
		if q < 0 || q >= h.QueryLen || s < 0 || s >= h.SubjectLen {
			continue
		}
		h.QueryHits[kept], h.SubjectHits[kept] = q, s
		kept++
	}
	h.QueryHits, h.SubjectHits = h.QueryHits[:kept], h.SubjectHits[:kept]
	if !h.pairsSorted() {
		sort.Sort(pairOrder{h})
	}
	h.offsets = make([]int, h.QueryLen+1)
	for _, q := range h.QueryHits {
		h.offsets[q+1]++
	}
	for q := 0; q < h.QueryLen; q++ {
		h.offsets[q+1] += h.offsets[q]
	}
	h.indexedQuery, h.indexedSubject = h.QueryHits, h.SubjectHits
}

func (h *Hits) pairsSorted() bool {
	for i := 1; i < len(h.QueryHits); i++ {
		q0, q1 := h.QueryHits[i-1], h.QueryHits[i]
		if q0 > q1 || (q0 == q1 && h.SubjectHits[i-1] > h.SubjectHits[i]) {
			return false
		}
	}
	return true
}

// pairOrder sorts the pair slices of a Hits together.
type pairOrder struct{ h *Hits }

func (p pairOrder) Len() int { return len(p.h.QueryHits) }
func (p pairOrder) Less(i, j int) bool {
	qi, qj := p.h.QueryHits[i], p.h.QueryHits[j]
	if qi != qj {
		return qi < qj
	}
	return p.h.SubjectHits[i] < p.h.SubjectHits[j]
}
func (p pairOrder) Swap(i, j int) {
	p.h.QueryHits[i], p.h.QueryHits[j] = p.h.QueryHits[j], p.h.QueryHits[i]
	p.h.SubjectHits[i], p.h.SubjectHits[j] = p.h.SubjectHits[j], p.h.SubjectHits[i]
}

// NewHits builds Hits from parallel pair slices, which may be in any order
// but must not contain duplicate pairs.  It is mostly useful for tests and
// for callers combining hit sets.
func NewHits(queryHits, subjectHits []int, queryLen, subjectLen int) (*Hits, error) {
	if len(queryHits) != len(subjectHits) {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("overlap.NewHits: %d query hits but %d subject hits", len(queryHits), len(subjectHits)))
	}
	perQuery := make([][]int, queryLen)
	for i, q := range queryHits {
		s := subjectHits[i]
		if q < 0 || q >= queryLen || s < 0 || s >= subjectLen {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("overlap.NewHits: pair (%d, %d) out of range", q, s))
		}
		perQuery[q] = append(perQuery[q], s)
	}
	for _, s := range perQuery {
		sort.Ints(s)
	}
	return newHits(perQuery, subjectLen), nil
}

// Len returns the number of pairs.
func (h *Hits) Len() int {
	h.index()
	return len(h.QueryHits)
}

// Subjects returns the subject indices paired with query element q, in
// ascending order.  The slice is shared with h and must not be modified.
func (h *Hits) Subjects(q int) []int {
	offsets := h.index()
	return h.SubjectHits[offsets[q]:offsets[q+1]]
}

// Count returns the number of subjects paired with query element q.
func (h *Hits) Count(q int) int {
	offsets := h.index()
	return offsets[q+1] - offsets[q]
}

// ByQuery returns, for every query element, its subject list (possibly
// empty).  This is the grouping view of the pairs.
func (h *Hits) ByQuery() [][]int {
	groups := make([][]int, h.QueryLen)
	for q := range groups {
		groups[q] = append([]int(nil), h.Subjects(q)...)
	}
	return groups
}

// Transpose swaps the query and subject roles.
func (h *Hits) Transpose() *Hits {
	h.index()
	perSubject := make([][]int, h.SubjectLen)
	for i, q := range h.QueryHits {
		s := h.SubjectHits[i]
		// Pairs are visited by increasing query index, so each list stays sorted.
		perSubject[s] = append(perSubject[s], q)
	}
	return newHits(perSubject, h.QueryLen)
}
