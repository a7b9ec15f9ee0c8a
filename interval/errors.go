// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import "fmt"

// InvalidRangeError is returned when an interval's coordinates or sequence
// name violate the OneBasedClosed invariants.
type InvalidRangeError struct {
	Interval Interval
	Reason   string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("interval: invalid range %s:%d-%d: %s",
		e.Interval.SeqName, e.Interval.Start, e.Interval.End, e.Reason)
}

// InvalidStrandError is returned for a strand symbol other than '+', '-' or
// '*'.
type InvalidStrandError struct {
	Symbol string
}

func (e *InvalidStrandError) Error() string {
	return fmt.Sprintf("interval: invalid strand %q", e.Symbol)
}

// LengthMismatchError is returned when a per-element vector does not have
// one value per collection element.
type LengthMismatchError struct {
	Name      string
	Want, Got int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("interval: %s: got %d values, want %d", e.Name, e.Got, e.Want)
}

// NoOverlapError is returned by Intersect when its arguments do not overlap.
type NoOverlapError struct {
	A, B Interval
}

func (e *NoOverlapError) Error() string {
	return fmt.Sprintf("interval: %v and %v do not overlap", e.A, e.B)
}
