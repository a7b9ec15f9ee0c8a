// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRegion parses a region string of one of the forms
//   [contig ID]:[1-based first pos]-[last pos]
//   [contig ID]:[1-based pos]
//   [contig ID]
// each optionally followed by ":+", ":-" or ":*", returning the corresponding
// Interval.  Strand defaults to StrandUnknown.  The interval
// [1, PosTypeMax - 1] is returned if there is no positional restriction.
func ParseRegion(region string) (result Interval, err error) {
	result.Strand = StrandUnknown
	if n := len(region); n >= 2 && region[n-2] == ':' {
		if st := Strand(region[n-1]); st.Valid() {
			result.Strand = st
			region = region[:n-2]
		}
	}
	if len(region) == 0 {
		err = fmt.Errorf("interval.ParseRegion: empty region string")
		return
	}
	colonPos := strings.IndexByte(region, ':')
	if colonPos == -1 {
		result.SeqName = region
		result.Start = 1
		result.End = PosTypeMax - 1
		return
	}
	if colonPos == 0 {
		err = fmt.Errorf("interval.ParseRegion: empty contig ID")
		return
	}
	result.SeqName = region[0:colonPos]
	rangeStr := region[colonPos+1:]
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos1 int64
		if pos1, err = strconv.ParseInt(rangeStr, 10, 32); err != nil {
			return
		}
		if pos1 <= 0 || pos1 >= PosTypeMax {
			err = fmt.Errorf("interval.ParseRegion: position %v in region string out of range", rangeStr)
			return
		}
		result.Start = PosType(pos1)
		result.End = PosType(pos1)
		return
	}
	start1Str := rangeStr[:dashPos]
	endStr := rangeStr[dashPos+1:]
	var start1, end1 int
	if start1, err = strconv.Atoi(start1Str); err != nil {
		return
	}
	if start1 <= 0 {
		err = fmt.Errorf("interval.ParseRegion: position %v in region string out of range", start1Str)
		return
	}
	if end1, err = strconv.Atoi(endStr); err != nil {
		return
	}
	// end1 == start1-1 is a zero-width region, which is legal.
	if end1 < start1-1 || end1 >= PosTypeMax {
		err = fmt.Errorf("interval.ParseRegion: invalid range string %v", rangeStr)
		return
	}
	result.Start = PosType(start1)
	result.End = PosType(end1)
	return
}

// MustParseRegion is ParseRegion for literals known to be valid.  It panics
// on error.
func MustParseRegion(region string) Interval {
	iv, err := ParseRegion(region)
	if err != nil {
		panic(err)
	}
	return iv
}
