// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package overlap

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/grailbio/granges/interval"
	"pgregory.net/rapid"
)

func drawCollection(t *rapid.T, label string) *interval.Collection {
	n := rapid.IntRange(0, 40).Draw(t, label+".n")
	ivs := make([]interval.Interval, n)
	for i := range ivs {
		start := rapid.Int32Range(1, 300).Draw(t, label+".start")
		end := rapid.Int32Range(start-1, start+60).Draw(t, label+".end")
		ivs[i] = interval.Interval{
			SeqName: rapid.SampledFrom([]string{"chr1", "chr2", "chr3"}).Draw(t, label+".seq"),
			Start:   interval.PosType(start),
			End:     interval.PosType(end),
			Strand:  rapid.SampledFrom([]interval.Strand{'+', '-', '*'}).Draw(t, label+".strand"),
		}
	}
	c, err := interval.NewCollection(ivs)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func drawOpts(t *rapid.T) Opts {
	return Opts{
		IgnoreStrand: rapid.Bool().Draw(t, "ignoreStrand"),
		Type:         Type(rapid.IntRange(int(TypeAny), int(TypeEqual)).Draw(t, "type")),
		MinOverlap:   interval.PosType(rapid.IntRange(0, 5).Draw(t, "minOverlap")),
		Parallelism:  rapid.IntRange(0, 4).Draw(t, "parallelism"),
		Backend:      Backend(rapid.IntRange(int(BackendSorted), int(BackendTree)).Draw(t, "backend")),
	}
}

// bruteForce pairs every query with every subject.
func bruteForce(query, subject *interval.Collection, opts Opts) [][]int {
	result := make([][]int, query.Len())
	for i := 0; i < query.Len(); i++ {
		q := query.At(i)
		for j := 0; j < subject.Len(); j++ {
			s := subject.At(j)
			if !q.Overlaps(s, opts.IgnoreStrand) {
				continue
			}
			lo, hi := q.Start, q.End
			if s.Start > lo {
				lo = s.Start
			}
			if s.End < hi {
				hi = s.End
			}
			if opts.MinOverlap > 1 && hi-lo+1 < opts.MinOverlap {
				continue
			}
			ok := true
			switch opts.Type {
			case TypeStart:
				ok = s.Start == q.Start
			case TypeEnd:
				ok = s.End == q.End
			case TypeWithin:
				ok = s.Start <= q.Start && q.End <= s.End
			case TypeEqual:
				ok = s.Start == q.Start && s.End == q.End
			}
			if ok {
				result[i] = append(result[i], j)
			}
		}
	}
	return result
}

func TestFindOverlapsMatchesBruteForce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		query, subject := drawCollection(t, "query"), drawCollection(t, "subject")
		opts := drawOpts(t)
		h, err := FindOverlaps(query, subject, opts)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(bruteForce(query, subject, opts), h.ByQuery(), cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("hits mismatch (-want +got):\n%s", diff)
		}
	})
}

// randomCollection draws n intervals on two sequences, mostly short with a
// tail of long ones so the index has deep subtrees, plus some zero-width.
func randomCollection(t *testing.T, r *rand.Rand, n int) *interval.Collection {
	ivs := make([]interval.Interval, n)
	for i := range ivs {
		start := interval.PosType(1 + r.Intn(200000))
		var width interval.PosType
		switch p := r.Intn(100); {
		case p < 5:
			width = 0
		case p < 90:
			width = interval.PosType(1 + r.Intn(500))
		default:
			width = interval.PosType(1 + r.Intn(20000))
		}
		ivs[i] = interval.Interval{
			SeqName: []string{"chr1", "chr2"}[r.Intn(2)],
			Start:   start,
			End:     start + width - 1,
			Strand:  []interval.Strand{'+', '-', '*'}[r.Intn(3)],
		}
	}
	c, err := interval.NewCollection(ivs)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestLargeCollectionMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(20181))
	subject := randomCollection(t, r, 3000)
	query := randomCollection(t, r, 400)
	for _, backend := range []Backend{BackendSorted, BackendTree} {
		for _, opts := range []Opts{
			{},
			{IgnoreStrand: true, Parallelism: 4},
			{Type: TypeWithin, MinOverlap: 10},
			{Type: TypeStart, IgnoreStrand: true},
		} {
			opts.Backend = backend
			h, err := FindOverlaps(query, subject, opts)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(bruteForce(query, subject, opts), h.ByQuery(), cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("%v %+v: hits mismatch (-want +got):\n%s", backend, opts, diff)
			}
		}
	}
}

func TestBackendsAgree(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		query, subject := drawCollection(t, "query"), drawCollection(t, "subject")
		opts := drawOpts(t)
		opts.Backend = BackendSorted
		a, err := FindOverlaps(query, subject, opts)
		if err != nil {
			t.Fatal(err)
		}
		opts.Backend = BackendTree
		b, err := FindOverlaps(query, subject, opts)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(a.SubjectHits, b.SubjectHits); diff != "" {
			t.Fatalf("backends disagree (-sorted +tree):\n%s", diff)
		}
		if diff := cmp.Diff(a.QueryHits, b.QueryHits); diff != "" {
			t.Fatalf("backends disagree (-sorted +tree):\n%s", diff)
		}
	})
}

func TestOverlapSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a, b := drawCollection(t, "a"), drawCollection(t, "b")
		opts := DefaultOpts
		opts.IgnoreStrand = rapid.Bool().Draw(t, "ignoreStrand")
		ab, err := FindOverlaps(a, b, opts)
		if err != nil {
			t.Fatal(err)
		}
		ba, err := FindOverlaps(b, a, opts)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(ab.ByQuery(), ba.Transpose().ByQuery(), cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("overlap is not symmetric (-ab +ba):\n%s", diff)
		}
	})
}

func TestCountsAndSelections(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		query, subject := drawCollection(t, "query"), drawCollection(t, "subject")
		opts := drawOpts(t)
		h, err := FindOverlaps(query, subject, opts)
		if err != nil {
			t.Fatal(err)
		}
		counts, err := CountOverlaps(query, subject, opts)
		if err != nil {
			t.Fatal(err)
		}
		if len(counts) != query.Len() {
			t.Fatalf("got %d counts for %d query elements", len(counts), query.Len())
		}
		perQuery := make([]int, query.Len())
		for _, q := range h.QueryHits {
			perQuery[q]++
		}
		if diff := cmp.Diff(perQuery, counts); diff != "" {
			t.Fatalf("counts mismatch (-hits +counts):\n%s", diff)
		}
		for _, mode := range []SelectMode{SelectArbitrary, SelectFirst, SelectLast} {
			opts.Select = mode
			sel, err := Selection(query, subject, opts)
			if err != nil {
				t.Fatal(err)
			}
			for q, s := range sel {
				subjects := h.Subjects(q)
				if s == NoMatch {
					if len(subjects) != 0 {
						t.Fatalf("%v: query %d has hits but no selection", mode, q)
					}
					continue
				}
				found := false
				for _, x := range subjects {
					found = found || x == s
					switch mode {
					case SelectFirst:
						if sx, ss := subject.At(x).Start, subject.At(s).Start; sx < ss || (sx == ss && x < s) {
							t.Fatalf("first: query %d picked %d over %d", q, s, x)
						}
					case SelectLast:
						if ex, es := subject.At(x).End, subject.At(s).End; ex > es || (ex == es && x > s) {
							t.Fatalf("last: query %d picked %d over %d", q, s, x)
						}
					case SelectArbitrary:
						if x < s {
							t.Fatalf("arbitrary: query %d picked %d over %d", q, s, x)
						}
					}
				}
				if !found {
					t.Fatalf("%v: query %d selected %d, which is not a hit", mode, q, s)
				}
			}
		}
	})
}

func TestRebuildIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		query, subject := drawCollection(t, "query"), drawCollection(t, "subject")
		opts := drawOpts(t)
		first, err := FindOverlaps(query, subject, opts)
		if err != nil {
			t.Fatal(err)
		}
		idx, err := NewIndex(subject, opts.indexOpts())
		if err != nil {
			t.Fatal(err)
		}
		second, err := FindOverlapsIndexed(query, subject, idx, opts)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first.ByQuery(), second.ByQuery(), cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("rebuilt index disagrees (-first +second):\n%s", diff)
		}
	})
}
