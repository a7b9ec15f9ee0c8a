// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"fmt"
	"math"
)

// PosType is the type used to represent interval coordinates.  int32 should be
// wide enough for some time to come, since that's what BAM is limited to.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// OneBasedClosed documents the coordinate convention of Interval: Start and
// End are both 1-based and inclusive, so [10, 20] covers 11 positions and
// [10, 9] is a zero-width interval sitting between positions 9 and 10.  Every
// comparison in this package and in package overlap assumes it.
const OneBasedClosed = true

// Strand is the strand of an interval.
type Strand byte

const (
	// StrandPlus is the forward strand.
	StrandPlus Strand = '+'
	// StrandMinus is the reverse strand.
	StrandMinus Strand = '-'
	// StrandUnknown means unknown or either strand.  It is compatible with
	// both of the other strands.
	StrandUnknown Strand = '*'
)

// ParseStrand converts "+", "-" or "*" to a Strand.
func ParseStrand(s string) (Strand, error) {
	if len(s) == 1 {
		if st := Strand(s[0]); st.Valid() {
			return st, nil
		}
	}
	return 0, &InvalidStrandError{Symbol: s}
}

// Valid returns whether s is one of the three strand symbols.
func (s Strand) Valid() bool {
	return s == StrandPlus || s == StrandMinus || s == StrandUnknown
}

// Compatible returns whether two strands may match when strand is not
// ignored: they are equal, or either one is StrandUnknown.
func (s Strand) Compatible(other Strand) bool {
	return s == other || s == StrandUnknown || other == StrandUnknown
}

func (s Strand) String() string {
	return string(rune(s))
}

// Interval is a single genomic range.  Coordinates follow OneBasedClosed.
// Payload fields are not stored here; they live in the owning Collection's
// column table.
type Interval struct {
	SeqName string
	Start   PosType
	End     PosType
	Strand  Strand
}

// New returns a validated Interval.  It fails with *InvalidRangeError when
// seqName is empty, start < 1, end < start-1, or end >= PosTypeMax, and with
// *InvalidStrandError when strand is not one of '+', '-', '*'.
func New(seqName string, start, end PosType, strand Strand) (Interval, error) {
	iv := Interval{SeqName: seqName, Start: start, End: end, Strand: strand}
	return iv, iv.Validate()
}

// Validate checks the invariants enforced by New.
func (iv Interval) Validate() error {
	switch {
	case iv.SeqName == "":
		return &InvalidRangeError{Interval: iv, Reason: "empty sequence name"}
	case iv.Start < 1:
		return &InvalidRangeError{Interval: iv, Reason: "start must be >= 1"}
	case iv.End < iv.Start-1:
		return &InvalidRangeError{Interval: iv, Reason: "end must be >= start-1"}
	case iv.End >= PosTypeMax:
		return &InvalidRangeError{Interval: iv, Reason: "end out of range"}
	}
	if !iv.Strand.Valid() {
		return &InvalidStrandError{Symbol: string(rune(iv.Strand))}
	}
	return nil
}

// Width returns the number of positions covered; zero for zero-width
// intervals.
func (iv Interval) Width() PosType {
	return iv.End - iv.Start + 1
}

// Overlaps returns whether iv and other share a sequence name, satisfy the
// closed-interval intersection test
//   iv.Start <= other.End && other.Start <= iv.End
// and have compatible strands (unless ignoreStrand).  It is symmetric.
func (iv Interval) Overlaps(other Interval, ignoreStrand bool) bool {
	if iv.SeqName != other.SeqName {
		return false
	}
	if iv.Start > other.End || other.Start > iv.End {
		return false
	}
	return ignoreStrand || iv.Strand.Compatible(other.Strand)
}

// Contains returns whether other lies within iv on the same sequence.  Strand
// is not considered.
func (iv Interval) Contains(other Interval) bool {
	return iv.SeqName == other.SeqName && iv.Start <= other.Start && other.End <= iv.End
}

// String formats iv as "seqname:start-end:strand".
func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d:%c", iv.SeqName, iv.Start, iv.End, iv.Strand)
}

// Intersect returns the interval [max(a.Start, b.Start), min(a.End, b.End)].
// The result keeps the shared strand, or StrandUnknown if the strands differ.
// It fails with *NoOverlapError unless a and b overlap (strand ignored), so
// callers iterating over overlap hits never see that error.  The result is
// zero-width when a zero-width input sits at the edge of, or inside, the
// other.
func Intersect(a, b Interval) (Interval, error) {
	if !a.Overlaps(b, true) {
		return Interval{}, &NoOverlapError{A: a, B: b}
	}
	r := Interval{SeqName: a.SeqName, Start: a.Start, End: a.End, Strand: a.Strand}
	if b.Start > r.Start {
		r.Start = b.Start
	}
	if b.End < r.End {
		r.End = b.End
	}
	if a.Strand != b.Strand {
		r.Strand = StrandUnknown
	}
	return r, nil
}

// Distance returns the number of positions strictly between a and b, or 0 if
// they overlap or are adjacent.  It returns -1 if they lie on different
// sequences.  Strand is not considered.
func Distance(a, b Interval) int64 {
	if a.SeqName != b.SeqName {
		return -1
	}
	gap := int64(b.Start) - int64(a.End)
	if g := int64(a.Start) - int64(b.End); g > gap {
		gap = g
	}
	if gap <= 1 {
		return 0
	}
	return gap - 1
}
