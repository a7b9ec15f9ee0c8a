// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"sort"

	"github.com/grailbio/base/log"
)

// Union is the strand-ignoring union of a collection's intervals, kept as a
// sequence-keyed map of sorted endpoint arrays (see endpoint_index.go): the
// k'th merged interval of a sequence is [endpoints[2k], endpoints[2k+1]) in
// half-open form.  Overlapping and adjacent intervals are merged and
// zero-width ones dropped.
//
// Point queries keep a cursor to accelerate queries in nondecreasing position
// order, so a Union must not be queried from multiple goroutines; use Clone
// to give each goroutine its own search state.
type Union struct {
	// nameMap is a sequence-keyed map with disjoint-interval-set values.  A
	// sequence that only had zero-width intervals maps to an empty slice.
	nameMap map[string][]PosType
	// names lists the keys of nameMap in order of first appearance.
	names []string
	// lastChrIntervals points to the disjoint-interval-set for the most recently
	// queried sequence.
	lastChrIntervals []PosType
	// lastChrName is the name of the last queried sequence.  If it's nonempty,
	// it must be in sync with lastChrIntervals.
	lastChrName string
	// lastPosPlus1 is 1 plus the last spot-queried position.
	lastPosPlus1 PosType
	// lastIdx is searchPosType(lastChrIntervals, lastPosPlus1).  Cached to
	// accelerate sequential queries.
	lastIdx EndpointIndex
	// isSequential is true if all queries since the last sequence change have
	// been in order of nondecreasing position.
	isSequential bool
}

type halfOpen struct{ start, end PosType }

// NewUnion merges the intervals of c.  Input order does not matter.
func NewUnion(c *Collection) *Union {
	u := &Union{nameMap: map[string][]PosType{}}
	byName := map[string][]halfOpen{}
	for _, iv := range c.intervals {
		if _, found := byName[iv.SeqName]; !found {
			u.names = append(u.names, iv.SeqName)
			byName[iv.SeqName] = nil
		}
		if iv.Width() == 0 {
			continue
		}
		byName[iv.SeqName] = append(byName[iv.SeqName], halfOpen{iv.Start, iv.End + 1})
	}
	var totBases int64
	for _, name := range u.names {
		entries := byName[name]
		sort.Slice(entries, func(i, j int) bool { return entries[i].start < entries[j].start })
		chrIntervals := []PosType{}
		var prevStart, prevEnd PosType
		for i, e := range entries {
			if i == 0 {
				prevStart, prevEnd = e.start, e.end
				continue
			}
			if e.start > prevEnd {
				// New interval doesn't overlap or touch the previous one, so we can
				// save the previous one.
				chrIntervals = append(chrIntervals, prevStart, prevEnd)
				totBases += int64(prevEnd - prevStart)
				prevStart, prevEnd = e.start, e.end
			} else if e.end > prevEnd {
				prevEnd = e.end
			}
		}
		if len(entries) > 0 {
			chrIntervals = append(chrIntervals, prevStart, prevEnd)
			totBases += int64(prevEnd - prevStart)
		}
		u.nameMap[name] = chrIntervals
	}
	log.Debug.Printf("interval.NewUnion: %d sequence(s), %d base(s) covered", len(u.names), totBases)
	return u
}

// Reduce returns the merged, strand-less intervals of c, sorted by position
// within each sequence, sequences in order of first appearance in c.
func Reduce(c *Collection) *Collection {
	return NewUnion(c).Collection()
}

// SeqNames returns the sequences mentioned by the source collection, in order
// of first appearance.
func (u *Union) SeqNames() []string {
	return append([]string(nil), u.names...)
}

// Endpoints returns the half-open endpoint array for seqName, or nil if the
// sequence was not mentioned.  The slice must not be modified.
func (u *Union) Endpoints(seqName string) []PosType {
	return u.nameMap[seqName]
}

// Collection returns the merged intervals as a new collection with
// StrandUnknown.
func (u *Union) Collection() *Collection {
	c := &Collection{cols: map[string][]interface{}{}}
	for _, name := range u.names {
		us := NewUnionScanner(u.nameMap[name])
		var start, end PosType
		for us.Scan(&start, &end, PosTypeMax) {
			c.intervals = append(c.intervals, Interval{SeqName: name, Start: start, End: end - 1, Strand: StrandUnknown})
		}
	}
	return c
}

// ContainsPos checks whether the 1-based position pos on seqName is covered.
func (u *Union) ContainsPos(seqName string, pos PosType) bool {
	posPlus1 := pos + 1
	if seqName != u.lastChrName {
		u.lastChrName = seqName
		u.lastChrIntervals = u.nameMap[seqName]
		if u.lastChrIntervals == nil {
			return false
		}
		u.lastIdx = searchPosType(u.lastChrIntervals, posPlus1)
		u.lastPosPlus1 = posPlus1
		u.isSequential = true
		return u.lastIdx.Contained()
	}
	if u.lastChrIntervals == nil {
		return false
	}
	if u.isSequential {
		if posPlus1 >= u.lastPosPlus1 {
			u.lastIdx.Update(pos, u.lastChrIntervals)
			u.lastPosPlus1 = posPlus1
			return u.lastIdx.Contained()
		}
		u.isSequential = false
	}
	return NewEndpointIndex(pos, u.lastChrIntervals).Contained()
}

// Intersects checks whether iv overlaps the union, using the same
// closed-interval test as Interval.Overlaps.  Strand is ignored.
func (u *Union) Intersects(iv Interval) bool {
	endpoints := u.nameMap[iv.SeqName]
	if len(endpoints) == 0 {
		return false
	}
	if iv.Width() == 0 {
		// [s, s-1] overlaps a merged interval only if that interval covers both
		// s-1 and s; merged intervals never touch, so both lookups must land in
		// the same one.
		return NewEndpointIndex(iv.Start-1, endpoints).Contained() &&
			NewEndpointIndex(iv.Start, endpoints).Contained()
	}
	idxStart := NewEndpointIndex(iv.Start, endpoints)
	if idxStart.Contained() {
		return true
	}
	return !idxStart.Finished(endpoints) && endpoints[idxStart] <= iv.End
}

// Gaps returns the uncovered stretches of each sequence as a new collection
// with StrandUnknown.  With a non-nil seqinfo, every seqinfo sequence is
// reported in seqinfo order (sequences the union never mentions are one gap
// spanning the whole sequence) and gaps are clipped to the sequence length;
// with a nil seqinfo only the union's own sequences are reported, and only up
// to their last covered position.
func (u *Union) Gaps(seqinfo *SeqInfo) *Collection {
	c := &Collection{cols: map[string][]interface{}{}}
	addGaps := func(name string, endpoints []PosType, length PosType) {
		prev := PosType(1)
		for k := 0; k+1 < len(endpoints); k += 2 {
			if length > 0 && prev > length {
				return
			}
			if s := endpoints[k]; s > prev {
				end := s - 1
				if length > 0 && end > length {
					end = length
				}
				c.intervals = append(c.intervals, Interval{SeqName: name, Start: prev, End: end, Strand: StrandUnknown})
			}
			prev = endpoints[k+1]
		}
		if length > 0 && prev <= length {
			c.intervals = append(c.intervals, Interval{SeqName: name, Start: prev, End: length, Strand: StrandUnknown})
		}
	}
	if seqinfo == nil {
		for _, name := range u.names {
			addGaps(name, u.nameMap[name], 0)
		}
		return c
	}
	for i, name := range seqinfo.Names {
		addGaps(name, u.nameMap[name], seqinfo.Lengths[i])
	}
	return c
}

// Clone returns a new Union which shares the interval set, but has its own
// search state.
func (u *Union) Clone() *Union {
	return &Union{nameMap: u.nameMap, names: u.names}
}
