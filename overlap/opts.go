// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package overlap

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/granges/interval"
)

// SelectMode controls how the hits of one query element are collapsed.
type SelectMode int

const (
	// SelectAll keeps every hit.
	SelectAll SelectMode = iota
	// SelectArbitrary picks one hit per query element: the one with the
	// smallest subject index.  The choice depends only on the inputs, so
	// repeated calls agree.
	SelectArbitrary
	// SelectFirst picks the hit with the smallest subject start, breaking ties
	// by smallest subject index.
	SelectFirst
	// SelectLast picks the hit with the largest subject end, breaking ties by
	// largest subject index.
	SelectLast
)

var selectModeNames = [...]string{"all", "arbitrary", "first", "last"}

func (m SelectMode) String() string {
	if m < 0 || int(m) >= len(selectModeNames) {
		return fmt.Sprintf("SelectMode(%d)", int(m))
	}
	return selectModeNames[m]
}

// ParseSelectMode converts "all", "arbitrary", "first" or "last" to a
// SelectMode.
func ParseSelectMode(s string) (SelectMode, error) {
	for i, name := range selectModeNames {
		if s == name {
			return SelectMode(i), nil
		}
	}
	return 0, errors.E(errors.Invalid, fmt.Sprintf("overlap.ParseSelectMode: unknown select mode %q", s))
}

// Type refines which overlapping pairs count as hits.  Every type other than
// TypeAny is a subset of TypeAny.
type Type int

const (
	// TypeAny accepts every pair satisfying the closed-interval intersection
	// test.
	TypeAny Type = iota
	// TypeStart additionally requires equal starts.
	TypeStart
	// TypeEnd additionally requires equal ends.
	TypeEnd
	// TypeWithin additionally requires the query to lie within the subject.
	TypeWithin
	// TypeEqual additionally requires equal starts and ends.
	TypeEqual
)

var typeNames = [...]string{"any", "start", "end", "within", "equal"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType converts "any", "start", "end", "within" or "equal" to a Type.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if s == name {
			return Type(i), nil
		}
	}
	return 0, errors.E(errors.Invalid, fmt.Sprintf("overlap.ParseType: unknown overlap type %q", s))
}

// Backend selects the per-sequence search structure of an Index.
type Backend int

const (
	// BackendSorted is an implicit augmented interval tree laid over the
	// start-sorted interval array.
	BackendSorted Backend = iota
	// BackendTree is a biogo/store left-leaning red-black interval tree.
	BackendTree
)

func (b Backend) String() string {
	switch b {
	case BackendSorted:
		return "sorted"
	case BackendTree:
		return "tree"
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// IndexOpts configures NewIndex.
type IndexOpts struct {
	Backend Backend
	// Parallelism bounds the number of sequences indexed concurrently; 0 means
	// runtime.NumCPU().
	Parallelism int
}

// Opts configures the overlap queries of this package.
type Opts struct {
	// IgnoreStrand makes every strand compatible with every other.  When
	// false, strands must be equal or one of them must be '*'.
	IgnoreStrand bool
	// Select is the selection applied by Selection.  FindOverlaps always
	// returns every hit.
	Select SelectMode
	// Type restricts which overlapping pairs are hits.
	Type Type
	// MinOverlap is the minimum number of shared positions; 0 and 1 accept
	// any pair passing the intersection test.
	MinOverlap interval.PosType
	// Invert makes SubsetByOverlaps keep the query elements without hits.
	Invert bool
	// Parallelism bounds the number of concurrent index builds and query
	// chunks; 0 means runtime.NumCPU().
	Parallelism int
	// Backend is used when an operation builds its own Index.
	Backend Backend
}

// DefaultOpts is strand-aware, selects every hit, and uses the sorted
// backend.
var DefaultOpts = Opts{
	IgnoreStrand: false,
	Select:       SelectAll,
	Type:         TypeAny,
	MinOverlap:   0,
	Invert:       false,
	Parallelism:  0,
	Backend:      BackendSorted,
}

func (o *Opts) indexOpts() IndexOpts {
	return IndexOpts{Backend: o.Backend, Parallelism: o.Parallelism}
}
