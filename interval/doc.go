// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package interval defines genomic intervals and ordered collections of them.

  An Interval is a (sequence name, start, end, strand) tuple in 1-based closed
  coordinates (see OneBasedClosed).  A Collection owns a list of Intervals plus
  a table of named payload columns aligned with it; it is the input and output
  type of the overlap and aggregate packages.

  Union, Reduce and Gaps provide interval-union operations in a manner
  optimized for sets of genomic coordinates: overlapping intervals are merged,
  not tracked separately.  Use package overlap when individual pairs matter.

  It assumes every position fits in a PosType, which is currently defined as
  int32 since that's what BAM files are limited to.
*/
package interval
