// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package overlap

import (
	"github.com/biogo/store/interval"

	gi "github.com/grailbio/granges/interval"
)

// treeEntry is a partition element stored in a biogo interval.IntTree.  The
// tree works on half-open ranges and rejects empty ones, so each closed
// interval [s, e] is stored widened to [s-1, e+1).  That keeps zero-width
// intervals non-empty; the widening only admits extra candidates, which
// partition.accept rejects with the exact closed test.
type treeEntry struct {
	start, end int
	// pos is the element's position in the partition's sorted arrays.
	pos uintptr
}

func (e treeEntry) Overlap(b interval.IntRange) bool {
	return e.end > b.Start && e.start < b.End
}
func (e treeEntry) ID() uintptr              { return e.pos }
func (e treeEntry) Range() interval.IntRange { return interval.IntRange{Start: e.start, End: e.end} }

// treeQuery is the half-open form [s, e+1) of a closed query [s, e].
type treeQuery struct {
	start, end int
}

func (q treeQuery) Overlap(b interval.IntRange) bool {
	return b.Start < q.end && q.start < b.End
}

// buildTree fills p.tree from the sorted arrays.
func (p *partition) buildTree() error {
	p.tree = &interval.IntTree{}
	for pos := range p.starts {
		e := treeEntry{
			start: int(p.starts[pos]) - 1,
			end:   int(p.ends[pos]) + 1,
			pos:   uintptr(pos),
		}
		if err := p.tree.Insert(e, true); err != nil {
			return err
		}
	}
	p.tree.AdjustRanges()
	return nil
}

// searchTree calls fn with every sorted position whose closed interval
// intersects [qStart, qEnd], in no particular order.
func (p *partition) searchTree(qStart, qEnd gi.PosType, fn func(pos int)) {
	if p.tree.Len() == 0 {
		return
	}
	q := treeQuery{start: int(qStart), end: int(qEnd) + 1}
	p.tree.DoMatching(func(e interval.IntInterface) (done bool) {
		pos := int(e.(treeEntry).pos)
		if p.starts[pos] <= qEnd && qStart <= p.ends[pos] {
			fn(pos)
		}
		return false
	}, q)
}
