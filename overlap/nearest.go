// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package overlap

import (
	"sort"

	gi "github.com/grailbio/granges/interval"
)

// Neighbor is one result of DistanceToNearest.
type Neighbor struct {
	// Subject is the nearest subject index, or NoMatch.
	Subject int
	// Distance is interval.Distance to that subject (0 when overlapping or
	// adjacent), or -1 with NoMatch.
	Distance int64
}

// The nearest-neighbor operations below consider only subjects on the same
// sequence that are strand-compatible with the query (unless
// opts.IgnoreStrand).  Ties are always broken by smallest subject index.
// opts.Type and opts.MinOverlap are ignored.

// firstAfter returns the subject starting closest after q.End, or NoMatch.
func (p *partition) firstAfter(q gi.Interval, opts *Opts) int {
	n := len(p.starts)
	pos := sort.Search(n, func(i int) bool { return p.starts[i] > q.End })
	best := NoMatch
	var bestStart gi.PosType
	for ; pos < n; pos++ {
		if best != NoMatch && p.starts[pos] != bestStart {
			break
		}
		if !opts.IgnoreStrand && !q.Strand.Compatible(p.strands[pos]) {
			continue
		}
		if best == NoMatch || p.ids[pos] < best {
			best, bestStart = p.ids[pos], p.starts[pos]
		}
	}
	return best
}

// lastBefore returns the subject ending closest before q.Start, or NoMatch.
func (p *partition) lastBefore(q gi.Interval, opts *Opts) int {
	j := sort.Search(len(p.byEnd), func(i int) bool { return p.ends[p.byEnd[i]] >= q.Start })
	best := NoMatch
	var bestEnd gi.PosType
	for j--; j >= 0; j-- {
		pos := p.byEnd[j]
		if best != NoMatch && p.ends[pos] != bestEnd {
			break
		}
		if !opts.IgnoreStrand && !q.Strand.Compatible(p.strands[pos]) {
			continue
		}
		// byEnd is ascending by index within equal ends, so the last accepted
		// entry is the smallest index.
		best, bestEnd = p.ids[pos], p.ends[pos]
	}
	return best
}

// downstream reports whether "precede" looks toward larger coordinates for
// q: true unless q is on the minus strand and strand is honored.
func downstream(q gi.Interval, opts *Opts) bool {
	return opts.IgnoreStrand || q.Strand != gi.StrandMinus
}

func (idx *Index) eachQuery(query *gi.Collection, opts *Opts, fn func(i int, q gi.Interval, p *partition) error) error {
	return eachChunk(query.Len(), opts.Parallelism, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			q := query.At(i)
			if !q.Strand.Valid() {
				return &gi.InvalidStrandError{Symbol: q.Strand.String()}
			}
			if err := fn(i, q, idx.parts[q.SeqName]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Precede returns, for every query element, the non-overlapping subject it
// directly precedes: the nearest one downstream (toward larger coordinates
// on '+' and '*', smaller on '-').
func Precede(query, subject *gi.Collection, opts Opts) ([]int, error) {
	return flank(query, subject, &opts, true)
}

// Follow returns, for every query element, the non-overlapping subject it
// directly follows: the nearest one upstream.
func Follow(query, subject *gi.Collection, opts Opts) ([]int, error) {
	return flank(query, subject, &opts, false)
}

func flank(query, subject *gi.Collection, opts *Opts, precede bool) ([]int, error) {
	idx, err := NewIndex(subject, opts.indexOpts())
	if err != nil {
		return nil, err
	}
	result := make([]int, query.Len())
	err = idx.eachQuery(query, opts, func(i int, q gi.Interval, p *partition) error {
		result[i] = NoMatch
		if p == nil {
			return nil
		}
		if precede == downstream(q, opts) {
			result[i] = p.firstAfter(q, opts)
		} else {
			result[i] = p.lastBefore(q, opts)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DistanceToNearest returns, for every query element, the nearest subject and
// its distance.  Overlapping subjects are nearest (distance 0); otherwise the
// closer of the nearest subject on either side wins.
func DistanceToNearest(query, subject *gi.Collection, opts Opts) ([]Neighbor, error) {
	idx, err := NewIndex(subject, opts.indexOpts())
	if err != nil {
		return nil, err
	}
	anyOpts := opts
	anyOpts.Type, anyOpts.MinOverlap = TypeAny, 0
	result := make([]Neighbor, query.Len())
	err = idx.eachQuery(query, &anyOpts, func(i int, q gi.Interval, p *partition) error {
		result[i] = Neighbor{Subject: NoMatch, Distance: -1}
		if p == nil {
			return nil
		}
		hits, err := idx.query(q, &anyOpts, nil)
		if err != nil {
			return err
		}
		if len(hits) > 0 {
			result[i] = Neighbor{Subject: hits[0], Distance: 0}
			return nil
		}
		for _, s := range [2]int{p.lastBefore(q, &anyOpts), p.firstAfter(q, &anyOpts)} {
			if s == NoMatch {
				continue
			}
			d := gi.Distance(q, subject.At(s))
			cur := result[i]
			if cur.Subject == NoMatch || d < cur.Distance || (d == cur.Distance && s < cur.Subject) {
				result[i] = Neighbor{Subject: s, Distance: d}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Nearest returns, for every query element, the subject index reported by
// DistanceToNearest.
func Nearest(query, subject *gi.Collection, opts Opts) ([]int, error) {
	neighbors, err := DistanceToNearest(query, subject, opts)
	if err != nil {
		return nil, err
	}
	result := make([]int, len(neighbors))
	for i, nb := range neighbors {
		result[i] = nb.Subject
	}
	return result, nil
}
