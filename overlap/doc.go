// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package overlap pairs a query interval.Collection against a subject
// interval.Collection.
//
// An Index is built once over the subject, one partition per sequence name,
// and is immutable afterwards.  FindOverlaps queries it with every query
// element and returns the resulting Hits (index pairs only).  Selection,
// CountOverlaps and SubsetByOverlaps are convenience wrappers, and Nearest,
// Precede, Follow and DistanceToNearest answer nearest-neighbor questions
// from the same per-sequence arrays.
//
// Two intervals overlap when they are on the same sequence, their closed
// ranges intersect (qStart <= sEnd && sStart <= qEnd), and their strands are
// compatible: equal, or either one '*', unless Opts.IgnoreStrand is set.
// Absence of overlap is never an error.
package overlap
