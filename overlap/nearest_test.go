// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package overlap

import (
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/grailbio/granges/interval"
)

func nearestFixture(t *testing.T) (query, subject *interval.Collection) {
	subject = collection(t,
		"chr1:10-20:+",
		"chr1:30-40:-",
		"chr1:50-60:+",
		"chr1:30-40:+")
	query = collection(t,
		"chr1:25-26:+",
		"chr1:25-26:-",
		"chr1:15-16:*",
		"chr2:1-2:+",
		"chr1:45-45:*")
	return
}

func TestNearest(t *testing.T) {
	query, subject := nearestFixture(t)
	for _, b := range backends {
		opts := optsFor(b)
		nb, err := DistanceToNearest(query, subject, opts)
		assert.NoError(t, err)
		expect.EQ(t, nb, []Neighbor{
			{Subject: 3, Distance: 3},
			{Subject: 1, Distance: 3},
			{Subject: 0, Distance: 0},
			{Subject: NoMatch, Distance: -1},
			{Subject: 1, Distance: 4},
		})
		nearest, err := Nearest(query, subject, opts)
		assert.NoError(t, err)
		expect.EQ(t, nearest, []int{3, 1, 0, NoMatch, 1})

		opts.IgnoreStrand = true
		nearest, err = Nearest(query, subject, opts)
		assert.NoError(t, err)
		expect.EQ(t, nearest, []int{1, 1, 0, NoMatch, 1})
	}
}

func TestPrecedeFollow(t *testing.T) {
	query, subject := nearestFixture(t)
	for _, b := range backends {
		opts := optsFor(b)
		precede, err := Precede(query, subject, opts)
		assert.NoError(t, err)
		// The '-' query looks toward smaller coordinates, where only a '+'
		// subject lies.
		expect.EQ(t, precede, []int{3, NoMatch, 1, NoMatch, 2})
		follow, err := Follow(query, subject, opts)
		assert.NoError(t, err)
		expect.EQ(t, follow, []int{0, 1, NoMatch, NoMatch, 1})

		opts.IgnoreStrand = true
		precede, err = Precede(query, subject, opts)
		assert.NoError(t, err)
		expect.EQ(t, precede, []int{1, 1, 1, NoMatch, 2})
		follow, err = Follow(query, subject, opts)
		assert.NoError(t, err)
		expect.EQ(t, follow, []int{0, 0, NoMatch, NoMatch, 1})
	}
}

func TestDistanceToNearestProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		query, subject := drawCollection(t, "query"), drawCollection(t, "subject")
		opts := DefaultOpts
		opts.IgnoreStrand = rapid.Bool().Draw(t, "ignoreStrand")
		nb, err := DistanceToNearest(query, subject, opts)
		if err != nil {
			t.Fatal(err)
		}
		for i, n := range nb {
			q := query.At(i)
			best, bestDist := NoMatch, int64(-1)
			for j := 0; j < subject.Len(); j++ {
				s := subject.At(j)
				if s.SeqName != q.SeqName || !(opts.IgnoreStrand || q.Strand.Compatible(s.Strand)) {
					continue
				}
				d := interval.Distance(q, s)
				if q.Overlaps(s, true) {
					d = 0
				}
				if best == NoMatch || d < bestDist {
					best, bestDist = j, d
				}
			}
			if n.Distance != bestDist {
				t.Fatalf("query %v: distance %d, want %d (subject %d)", q, n.Distance, bestDist, best)
			}
		}
	})
}

func TestNearestEmptySubject(t *testing.T) {
	query := collection(t, "chr1:1-10")
	subject, err := interval.NewCollection(nil)
	require.NoError(t, err)
	nearest, err := Nearest(query, subject, DefaultOpts)
	require.NoError(t, err)
	expect.EQ(t, nearest, []int{NoMatch})
}
