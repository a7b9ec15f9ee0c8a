// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package table

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	gerrors "github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/granges/interval"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
)

const sample = `# peaks
seqname	start	end	strand	name	score
chr1	10	20	+	p1	3.5
chr1	30	40	.	p2	1
chr2	5	4	-	p3	NA
`

func TestRead(t *testing.T) {
	c, err := Read(strings.NewReader(sample), DefaultReadOpts)
	assert.NoError(t, err)
	expect.EQ(t, c.Intervals(), []interval.Interval{
		{SeqName: "chr1", Start: 10, End: 20, Strand: interval.StrandPlus},
		{SeqName: "chr1", Start: 30, End: 40, Strand: interval.StrandUnknown},
		{SeqName: "chr2", Start: 5, End: 4, Strand: interval.StrandMinus},
	})
	expect.EQ(t, c.ColumnNames(), []string{"name", "score"})
	col, _ := c.Column("score")
	expect.EQ(t, col, []interface{}{"3.5", "1", "NA"})
}

func TestReadZeroBased(t *testing.T) {
	c, err := Read(strings.NewReader("chrom\tstart\tend\nchr1\t9\t20\nchr1\t4\t4\n"), ReadOpts{ZeroBasedHalfOpen: true})
	assert.NoError(t, err)
	expect.EQ(t, c.Intervals(), []interval.Interval{
		{SeqName: "chr1", Start: 10, End: 20, Strand: interval.StrandUnknown},
		{SeqName: "chr1", Start: 5, End: 4, Strand: interval.StrandUnknown},
	})
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(err error) bool
	}{
		{"missing header", "", func(err error) bool { return gerrors.Is(gerrors.Invalid, err) }},
		{"bad header", "name\tstart\tend\n", func(err error) bool { return gerrors.Is(gerrors.Invalid, errors.Cause(err)) }},
		{"duplicate column", "seqname\tstart\tend\tx\tx\n", func(err error) bool { return gerrors.Is(gerrors.Invalid, errors.Cause(err)) }},
		{"short row", "seqname\tstart\tend\nchr1\t1\n", func(err error) bool { return gerrors.Is(gerrors.Invalid, errors.Cause(err)) }},
		{"bad start", "seqname\tstart\tend\nchr1\tx\t5\n", func(err error) bool { return gerrors.Is(gerrors.Invalid, errors.Cause(err)) }},
		{"bad range", "seqname\tstart\tend\nchr1\t10\t5\n", func(err error) bool {
			_, ok := errors.Cause(err).(*interval.InvalidRangeError)
			return ok
		}},
		{"bad strand", "seqname\tstart\tend\tstrand\nchr1\t1\t5\tx\n", func(err error) bool {
			_, ok := errors.Cause(err).(*interval.InvalidStrandError)
			return ok
		}},
	}
	for _, tt := range tests {
		c, err := Read(strings.NewReader(tt.input), DefaultReadOpts)
		expect.True(t, c == nil, tt.name)
		expect.True(t, err != nil && tt.check(err), "%s: %v", tt.name, err)
	}
}

func TestWrite(t *testing.T) {
	c, err := Read(strings.NewReader(sample), DefaultReadOpts)
	assert.NoError(t, err)
	assert.NoError(t, c.AnnotateInts("hits", []int{1, 0, 2}))
	assert.NoError(t, c.Annotate("best", []interface{}{"x", nil, "z"}))
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, c))
	expect.EQ(t, buf.String(), `seqname	start	end	strand	name	score	hits	best
chr1	10	20	+	p1	3.5	1	x
chr1	30	40	*	p2	1	0	NA
chr2	5	4	-	p3	NA	2	z
`)
}

func TestWriteRejectsSeparators(t *testing.T) {
	newCollection := func(seq string) *interval.Collection {
		c, err := interval.NewCollection([]interval.Interval{{SeqName: seq, Start: 1, End: 2, Strand: '+'}})
		assert.NoError(t, err)
		return c
	}
	c := newCollection("chr1")
	assert.NoError(t, c.AnnotateStrings("name", []string{"a\tb"}))
	c2 := newCollection("chr1")
	assert.NoError(t, c2.AnnotateStrings("note", []string{"line\nbreak"}))
	c3 := newCollection("chr1")
	assert.NoError(t, c3.AnnotateInts("bad\tname", []int{1}))
	c4 := newCollection("chr1\r")
	for _, c := range []*interval.Collection{c, c2, c3, c4} {
		var buf bytes.Buffer
		err := Write(&buf, c)
		expect.True(t, gerrors.Is(gerrors.Invalid, err), err)
		expect.EQ(t, buf.Len(), 0)
	}

	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tempDir)
	err := WriteToPath(vcontext.Background(), filepath.Join(tempDir, "bad.tsv"), c)
	expect.True(t, gerrors.Is(gerrors.Invalid, errors.Cause(err)), err)
}

func TestPathRoundTrip(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tempDir)
	ctx := vcontext.Background()

	c, err := Read(strings.NewReader(sample), DefaultReadOpts)
	assert.NoError(t, err)
	for _, name := range []string{"peaks.tsv", "peaks.tsv.gz"} {
		path := filepath.Join(tempDir, name)
		assert.NoError(t, WriteToPath(ctx, path, c))
		got, err := ReadFromPath(ctx, path, DefaultReadOpts)
		assert.NoError(t, err)
		expect.EQ(t, got.Intervals(), c.Intervals())
		expect.EQ(t, got.ColumnNames(), c.ColumnNames())
		expect.EQ(t, got.Fingerprint(), c.Fingerprint())
		for _, col := range c.ColumnNames() {
			want, _ := c.Column(col)
			have, _ := got.Column(col)
			expect.EQ(t, have, want, col)
		}
	}

	_, err = ReadFromPath(ctx, filepath.Join(tempDir, "missing.tsv"), DefaultReadOpts)
	expect.NotNil(t, err)
}
