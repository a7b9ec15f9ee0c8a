// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package overlap

import (
	"runtime"
	"sort"

	"github.com/biogo/store/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	gi "github.com/grailbio/granges/interval"
)

// partition holds the subject intervals of one sequence, sorted by (start,
// end, subject index).  Element pos of every array describes the same
// interval.
type partition struct {
	starts  []gi.PosType
	ends    []gi.PosType
	strands []gi.Strand
	ids     []int
	// byEnd lists positions ordered by (end, subject index).
	byEnd []int

	// Sorted backend.
	maxEnd []gi.PosType
	rootK  int
	// Tree backend.
	tree *interval.IntTree
}

// Index answers "which subject intervals overlap this interval" for one
// subject collection.  It is immutable once built and safe for concurrent
// queries.  An Index is never patched: build a new one when the subject
// changes.
type Index struct {
	backend     Backend
	parts       map[string]*partition
	n           int
	fingerprint uint64
}

// NewIndex partitions subject by sequence name and indexes each partition
// independently; partitions are built concurrently.
func NewIndex(subject *gi.Collection, opts IndexOpts) (*Index, error) {
	byName := subject.Partition()
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]*partition, len(names))
	err := limit(opts.Parallelism).Each(len(names), func(i int) error {
		p, err := newPartition(subject, byName[names[i]], opts.Backend)
		parts[i] = p
		return err
	})
	if err != nil {
		return nil, err
	}
	idx := &Index{
		backend:     opts.Backend,
		parts:       make(map[string]*partition, len(names)),
		n:           subject.Len(),
		fingerprint: subject.Fingerprint(),
	}
	for i, name := range names {
		idx.parts[name] = parts[i]
	}
	log.Debug.Printf("overlap.NewIndex: %d interval(s) in %d partition(s), backend %v", idx.n, len(parts), opts.Backend)
	return idx, nil
}

func limit(parallelism int) traverse.T {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	return traverse.Limit(parallelism)
}

func newPartition(subject *gi.Collection, ids []int, backend Backend) (*partition, error) {
	sorted := append([]int(nil), ids...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := subject.At(sorted[i]), subject.At(sorted[j])
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})
	n := len(sorted)
	p := &partition{
		starts:  make([]gi.PosType, n),
		ends:    make([]gi.PosType, n),
		strands: make([]gi.Strand, n),
		ids:     sorted,
		byEnd:   make([]int, n),
	}
	for pos, id := range sorted {
		iv := subject.At(id)
		p.starts[pos], p.ends[pos], p.strands[pos] = iv.Start, iv.End, iv.Strand
		p.byEnd[pos] = pos
	}
	sort.Slice(p.byEnd, func(i, j int) bool {
		a, b := p.byEnd[i], p.byEnd[j]
		if p.ends[a] != p.ends[b] {
			return p.ends[a] < p.ends[b]
		}
		return p.ids[a] < p.ids[b]
	})
	switch backend {
	case BackendSorted:
		p.buildImplicitTree()
	case BackendTree:
		if err := p.buildTree(); err != nil {
			return nil, errors.E(errors.Invalid, "overlap.NewIndex: tree backend", err)
		}
	default:
		return nil, errors.E(errors.Invalid, "overlap.NewIndex: unknown backend", backend.String())
	}
	return p, nil
}

// Len returns the size of the subject collection the index was built from.
func (idx *Index) Len() int { return idx.n }

// Backend returns the search structure used by the index.
func (idx *Index) Backend() Backend { return idx.backend }

// Matches returns whether subject has the same geometry as the collection
// the index was built from.  Queries through an index that does not match
// its subject are refused.
func (idx *Index) Matches(subject *gi.Collection) bool {
	return subject.Len() == idx.n && subject.Fingerprint() == idx.fingerprint
}

func (idx *Index) checkSubject(subject *gi.Collection) error {
	if !idx.Matches(subject) {
		return errors.E(errors.Precondition, "overlap: index was built from a different subject collection; rebuild it")
	}
	return nil
}

// search calls fn with every position of p intersecting [qStart, qEnd].
func (idx *Index) search(p *partition, qStart, qEnd gi.PosType, fn func(pos int)) {
	if idx.backend == BackendTree {
		p.searchTree(qStart, qEnd, fn)
		return
	}
	p.searchImplicit(qStart, qEnd, fn)
}

// accept applies the strand rule, opts.Type and opts.MinOverlap to a
// candidate at position pos, which is known to intersect q.
func (p *partition) accept(pos int, q gi.Interval, opts *Opts) bool {
	if !opts.IgnoreStrand && !q.Strand.Compatible(p.strands[pos]) {
		return false
	}
	s, e := p.starts[pos], p.ends[pos]
	if opts.MinOverlap > 1 {
		lo, hi := s, e
		if q.Start > lo {
			lo = q.Start
		}
		if q.End < hi {
			hi = q.End
		}
		if hi-lo+1 < opts.MinOverlap {
			return false
		}
	}
	switch opts.Type {
	case TypeStart:
		return s == q.Start
	case TypeEnd:
		return e == q.End
	case TypeWithin:
		return s <= q.Start && q.End <= e
	case TypeEqual:
		return s == q.Start && e == q.End
	}
	return true
}

// Query returns the subject indices, ascending, of every hit for q.  A
// sequence name the subject never mentions yields no hits.  q's strand must
// be valid.
func (idx *Index) Query(q gi.Interval, opts Opts) ([]int, error) {
	return idx.query(q, &opts, nil)
}

// query appends the hits for q to dst.
func (idx *Index) query(q gi.Interval, opts *Opts, dst []int) ([]int, error) {
	if !q.Strand.Valid() {
		return dst, &gi.InvalidStrandError{Symbol: q.Strand.String()}
	}
	p := idx.parts[q.SeqName]
	if p == nil {
		return dst, nil
	}
	n0 := len(dst)
	idx.search(p, q.Start, q.End, func(pos int) {
		if p.accept(pos, q, opts) {
			dst = append(dst, p.ids[pos])
		}
	})
	sort.Ints(dst[n0:])
	return dst, nil
}
