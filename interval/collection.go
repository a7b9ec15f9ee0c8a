// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"encoding/binary"
	"sort"

	farm "github.com/dgryski/go-farm"
)

// Record is the construction input for FromRecords: an interval plus an
// arbitrary set of named payload fields.
type Record struct {
	Interval
	Fields map[string]interface{}
}

// Collection is an ordered set of Intervals with a column table of payload
// fields aligned with interval order.  Insertion order is preserved.
//
// Coordinates are fixed once a Collection is built.  Methods that select or
// reorder elements (Filter, Subset, SortedBy, Sorted) return a new Collection
// with its own copies of the intervals and columns; Annotate is the only
// in-place mutation and never changes the number of elements.
//
// A Collection is not safe for concurrent mutation, but any number of
// goroutines may read one that is no longer being annotated.
type Collection struct {
	intervals []Interval
	colNames  []string
	cols      map[string][]interface{}
}

// NewCollection validates and copies intervals into a new Collection.  If any
// interval is invalid, no collection is returned.
func NewCollection(intervals []Interval) (*Collection, error) {
	c := &Collection{
		intervals: make([]Interval, len(intervals)),
		cols:      map[string][]interface{}{},
	}
	for i, iv := range intervals {
		if err := iv.Validate(); err != nil {
			return nil, err
		}
		c.intervals[i] = iv
	}
	return c, nil
}

// FromRecords builds a Collection from records.  Every field name seen in any
// record becomes a column, in order of first appearance (fields within one
// record are taken in sorted name order); records missing a field get nil.
func FromRecords(records []Record) (*Collection, error) {
	intervals := make([]Interval, len(records))
	for i := range records {
		intervals[i] = records[i].Interval
	}
	c, err := NewCollection(intervals)
	if err != nil {
		return nil, err
	}
	var keys []string
	for i, rec := range records {
		keys = keys[:0]
		for k := range rec.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			col, ok := c.cols[k]
			if !ok {
				col = make([]interface{}, len(records))
				c.cols[k] = col
				c.colNames = append(c.colNames, k)
			}
			col[i] = rec.Fields[k]
		}
	}
	return c, nil
}

// Len returns the number of intervals.
func (c *Collection) Len() int { return len(c.intervals) }

// At returns the i'th interval.
func (c *Collection) At(i int) Interval { return c.intervals[i] }

// Intervals returns a copy of the intervals in order.
func (c *Collection) Intervals() []Interval {
	return append([]Interval(nil), c.intervals...)
}

// ColumnNames returns the payload column names in the order they were added.
func (c *Collection) ColumnNames() []string {
	return append([]string(nil), c.colNames...)
}

// Column returns the named payload column.  The returned slice is owned by
// the collection and must not be modified.
func (c *Collection) Column(name string) ([]interface{}, bool) {
	col, ok := c.cols[name]
	return col, ok
}

// Field returns the value of column name for element i.
func (c *Collection) Field(name string, i int) (interface{}, bool) {
	col, ok := c.cols[name]
	if !ok {
		return nil, false
	}
	return col[i], true
}

// Annotate attaches (or replaces) column name in place.  values must have
// exactly Len() entries, otherwise *LengthMismatchError is returned and the
// collection is left unchanged.
func (c *Collection) Annotate(name string, values []interface{}) error {
	if len(values) != len(c.intervals) {
		return &LengthMismatchError{Name: name, Want: len(c.intervals), Got: len(values)}
	}
	if _, ok := c.cols[name]; !ok {
		c.colNames = append(c.colNames, name)
	}
	c.cols[name] = append([]interface{}(nil), values...)
	return nil
}

// AnnotateInts is Annotate for an int vector, e.g. overlap counts.
func (c *Collection) AnnotateInts(name string, values []int) error {
	v := make([]interface{}, len(values))
	for i, x := range values {
		v[i] = x
	}
	return c.Annotate(name, v)
}

// AnnotateFloats is Annotate for a float64 vector.
func (c *Collection) AnnotateFloats(name string, values []float64) error {
	v := make([]interface{}, len(values))
	for i, x := range values {
		v[i] = x
	}
	return c.Annotate(name, v)
}

// AnnotateStrings is Annotate for a string vector.
func (c *Collection) AnnotateStrings(name string, values []string) error {
	v := make([]interface{}, len(values))
	for i, x := range values {
		v[i] = x
	}
	return c.Annotate(name, v)
}

// Subset returns a new collection holding the given elements, in the given
// order.  Indices may repeat.
func (c *Collection) Subset(indices []int) *Collection {
	r := &Collection{
		intervals: make([]Interval, len(indices)),
		colNames:  append([]string(nil), c.colNames...),
		cols:      make(map[string][]interface{}, len(c.cols)),
	}
	for i, idx := range indices {
		r.intervals[i] = c.intervals[idx]
	}
	for name, col := range c.cols {
		rcol := make([]interface{}, len(indices))
		for i, idx := range indices {
			rcol[i] = col[idx]
		}
		r.cols[name] = rcol
	}
	return r
}

// Filter returns a new collection with the elements for which pred returns
// true, in their original order.  The result may be empty.
func (c *Collection) Filter(pred func(i int, iv Interval) bool) *Collection {
	var keep []int
	for i, iv := range c.intervals {
		if pred(i, iv) {
			keep = append(keep, i)
		}
	}
	return c.Subset(keep)
}

// SortedBy returns a new collection ordered by less.  The sort is stable, so
// ties keep their original order.
func (c *Collection) SortedBy(less func(a, b Interval) bool) *Collection {
	order := make([]int, len(c.intervals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return less(c.intervals[order[i]], c.intervals[order[j]])
	})
	return c.Subset(order)
}

// Sorted orders by sequence (in seqinfo order when seqinfo is non-nil and
// knows the name, otherwise by name after all known sequences), then start,
// end and strand.
func (c *Collection) Sorted(seqinfo *SeqInfo) *Collection {
	rank := func(name string) int {
		if seqinfo != nil {
			if id, ok := seqinfo.ID(name); ok {
				return id
			}
		}
		return PosTypeMax
	}
	return c.SortedBy(func(a, b Interval) bool {
		if a.SeqName != b.SeqName {
			ra, rb := rank(a.SeqName), rank(b.SeqName)
			if ra != rb {
				return ra < rb
			}
			return a.SeqName < b.SeqName
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.Strand < b.Strand
	})
}

// SeqNames returns the distinct sequence names in order of first appearance.
func (c *Collection) SeqNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, iv := range c.intervals {
		if !seen[iv.SeqName] {
			seen[iv.SeqName] = true
			names = append(names, iv.SeqName)
		}
	}
	return names
}

// Partition groups element indices by sequence name.  Each index list is
// ascending.
func (c *Collection) Partition() map[string][]int {
	parts := map[string][]int{}
	for i, iv := range c.intervals {
		parts[iv.SeqName] = append(parts[iv.SeqName], i)
	}
	return parts
}

// Fingerprint returns a hash of the collection's geometry (sequence names,
// coordinates and strands, in order).  Payload columns are not included,
// since annotating a collection does not invalidate indexes built over it.
func (c *Collection) Fingerprint() uint64 {
	var buf []byte
	var tmp [9]byte
	for _, iv := range c.intervals {
		buf = append(buf, iv.SeqName...)
		buf = append(buf, 0)
		binary.LittleEndian.PutUint32(tmp[0:4], uint32(iv.Start))
		binary.LittleEndian.PutUint32(tmp[4:8], uint32(iv.End))
		tmp[8] = byte(iv.Strand)
		buf = append(buf, tmp[:]...)
	}
	return farm.Fingerprint64(buf)
}
