// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"fmt"
	"regexp"

	"github.com/grailbio/hts/sam"
)

// SeqInfo describes the sequences of a genome assembly: their canonical order
// and lengths.
type SeqInfo struct {
	Names   []string
	Lengths []PosType
	ids     map[string]int
}

// NewSeqInfo returns a SeqInfo with the given names and lengths, which must
// have the same length.  Names must be unique.
func NewSeqInfo(names []string, lengths []PosType) (*SeqInfo, error) {
	if len(names) != len(lengths) {
		return nil, &LengthMismatchError{Name: "seqinfo lengths", Want: len(names), Got: len(lengths)}
	}
	s := &SeqInfo{
		Names:   append([]string(nil), names...),
		Lengths: append([]PosType(nil), lengths...),
		ids:     make(map[string]int, len(names)),
	}
	for i, name := range names {
		if _, found := s.ids[name]; found {
			return nil, fmt.Errorf("interval.NewSeqInfo: duplicate sequence %v", name)
		}
		s.ids[name] = i
	}
	return s, nil
}

// SeqInfoFromSAMHeader returns the sequences of a SAM/BAM header, in
// reference-ID order.
func SeqInfoFromSAMHeader(header *sam.Header) (*SeqInfo, error) {
	refs := header.Refs()
	names := make([]string, len(refs))
	lengths := make([]PosType, len(refs))
	for refID, ref := range refs {
		if refID != ref.ID() {
			panic("internal error: sam.header ref.ID != array position")
		}
		names[refID] = ref.Name()
		lengths[refID] = PosType(ref.Len())
	}
	return NewSeqInfo(names, lengths)
}

// ID returns the position of name in s.Names.
func (s *SeqInfo) ID(name string) (int, bool) {
	id, ok := s.ids[name]
	return id, ok
}

// Length returns the length of the named sequence, or 0 if it is unknown.
func (s *SeqInfo) Length(name string) PosType {
	if id, ok := s.ids[name]; ok {
		return s.Lengths[id]
	}
	return 0
}

var standardChromRE = regexp.MustCompile(`^(chr)?([1-9][0-9]?|X|Y|M|MT)$`)

// IsStandardChromosome returns whether name is an autosome, a sex chromosome
// or the mitochondrial genome, with or without a "chr" prefix.  Unplaced,
// random, alt and decoy contigs are not standard.
func IsStandardChromosome(name string) bool {
	return standardChromRE.MatchString(name)
}

// KeepStandardChromosomes returns a new collection holding only the elements
// on standard chromosomes.
func KeepStandardChromosomes(c *Collection) *Collection {
	return c.Filter(func(_ int, iv Interval) bool {
		return IsStandardChromosome(iv.SeqName)
	})
}

// KeepSeqNames returns a new collection holding only the elements on the
// named sequences.
func KeepSeqNames(c *Collection, names ...string) *Collection {
	keep := make(map[string]bool, len(names))
	for _, name := range names {
		keep[name] = true
	}
	return c.Filter(func(_ int, iv Interval) bool {
		return keep[iv.SeqName]
	})
}
