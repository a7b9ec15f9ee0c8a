// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package table reads and writes interval collections as tab-separated
// tables.  The first non-comment row is a header:
//
//   seqname  start  end  [strand]  [extra...]
//
// Coordinates are 1-based and closed unless ReadOpts.ZeroBasedHalfOpen is
// set.  A strand of "." is read as "*".  Extra columns become string payload
// columns named after their header.  Lines starting with '#' are comments.
//
// Paths ending in ".gz" are gzip-compressed.
package table

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	gerrors "github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/granges/interval"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// ReadOpts controls Read.
type ReadOpts struct {
	// ZeroBasedHalfOpen reads start as 0-based, end as exclusive (BED
	// convention), and converts to 1-based closed coordinates.
	ZeroBasedHalfOpen bool
}

// DefaultReadOpts reads 1-based closed coordinates.
var DefaultReadOpts = ReadOpts{}

var seqNameHeaders = map[string]bool{"seqname": true, "seqnames": true, "chrom": true, "chr": true}

// header describes the column layout of a table.
type header struct {
	hasStrand bool
	extra     []string
}

func parseHeader(row []string) (header, error) {
	var h header
	if len(row) < 3 || !seqNameHeaders[strings.ToLower(row[0])] ||
		strings.ToLower(row[1]) != "start" || strings.ToLower(row[2]) != "end" {
		return h, gerrors.E(gerrors.Invalid, fmt.Sprintf("table: header must begin with seqname, start, end; got %q", row))
	}
	rest := row[3:]
	if len(rest) > 0 && strings.ToLower(rest[0]) == "strand" {
		h.hasStrand = true
		rest = rest[1:]
	}
	seen := map[string]bool{}
	for _, name := range rest {
		if name == "" || seen[name] {
			return h, gerrors.E(gerrors.Invalid, fmt.Sprintf("table: empty or duplicate column name %q", name))
		}
		seen[name] = true
		h.extra = append(h.extra, name)
	}
	return h, nil
}

func (h header) nCol() int {
	n := 3 + len(h.extra)
	if h.hasStrand {
		n++
	}
	return n
}

func parsePos(s string) (interval.PosType, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return interval.PosType(v), err
}

// parseRow converts one data row.  Column values are appended to cols.
func (h header) parseRow(row []string, opts ReadOpts, cols [][]interface{}) (interval.Interval, [][]interface{}, error) {
	var iv interval.Interval
	if len(row) != h.nCol() {
		return iv, cols, gerrors.E(gerrors.Invalid, fmt.Sprintf("table: got %d columns, want %d", len(row), h.nCol()))
	}
	iv.SeqName = row[0]
	var err error
	if iv.Start, err = parsePos(row[1]); err != nil {
		return iv, cols, gerrors.E(gerrors.Invalid, "table: bad start", err)
	}
	if iv.End, err = parsePos(row[2]); err != nil {
		return iv, cols, gerrors.E(gerrors.Invalid, "table: bad end", err)
	}
	if opts.ZeroBasedHalfOpen {
		iv.Start++
	}
	iv.Strand = interval.StrandUnknown
	rest := row[3:]
	if h.hasStrand {
		if rest[0] != "." {
			if iv.Strand, err = interval.ParseStrand(rest[0]); err != nil {
				return iv, cols, err
			}
		}
		rest = rest[1:]
	}
	if err = iv.Validate(); err != nil {
		return iv, cols, err
	}
	for i, v := range rest {
		cols[i] = append(cols[i], v)
	}
	return iv, cols, nil
}

// Read parses a table into a new collection.  The whole table must be valid;
// on error no collection is returned, and the error names the offending line.
func Read(r io.Reader, opts ReadOpts) (*interval.Collection, error) {
	tr := tsv.NewReader(r)
	tr.Comment = '#'
	tr.FieldsPerRecord = -1
	tr.LazyQuotes = true

	var (
		h         header
		gotHeader bool
		ivs       []interval.Interval
		cols      [][]interface{}
	)
	for {
		row, err := tr.Reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv errors carry their own line number.
			return nil, errors.Wrap(err, "table")
		}
		line, _ := tr.Reader.FieldPos(0)
		if !gotHeader {
			if h, err = parseHeader(row); err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			cols = make([][]interface{}, len(h.extra))
			gotHeader = true
			continue
		}
		var iv interval.Interval
		if iv, cols, err = h.parseRow(row, opts, cols); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		ivs = append(ivs, iv)
	}
	if !gotHeader {
		return nil, gerrors.E(gerrors.Invalid, "table: missing header row")
	}
	c, err := interval.NewCollection(ivs)
	if err != nil {
		return nil, err
	}
	for i, name := range h.extra {
		if err := c.Annotate(name, cols[i]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ReadFromPath is a wrapper for Read that takes a path instead of an
// io.Reader.  Any path understood by grailbio/base/file works.
func ReadFromPath(ctx context.Context, path string, opts ReadOpts) (c *interval.Collection, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, infile, &err)
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return nil, errors.Wrapf(err, "table: %s", path)
		}
		defer gz.Close()
		reader = gz
	}
	if c, err = Read(reader, opts); err != nil {
		return nil, errors.Wrapf(err, "table: %s", path)
	}
	log.Printf("table: read %d interval(s) from %s", c.Len(), path)
	return c, nil
}

// Write emits c as a table with a strand column.  Payload columns are
// written in ColumnNames order with %v formatting; nil is written as "NA".
// Coordinates are always 1-based closed.  Values, column names and seqnames
// containing a tab or line break are rejected with an Invalid error, and
// nothing is written.
func Write(w io.Writer, c *interval.Collection) error {
	names := c.ColumnNames()
	cols := make([][]interface{}, len(names))
	for i, name := range names {
		if err := checkField("column name", name); err != nil {
			return err
		}
		cols[i], _ = c.Column(name)
	}
	// Validate everything before the first byte goes out.
	for i := 0; i < c.Len(); i++ {
		if err := checkField("seqname", c.At(i).SeqName); err != nil {
			return err
		}
		for j, col := range cols {
			if v := col[i]; v != nil {
				if err := checkField(names[j], fmt.Sprint(v)); err != nil {
					return err
				}
			}
		}
	}
	tw := tsv.NewWriter(w)
	tw.WriteString("seqname")
	tw.WriteString("start")
	tw.WriteString("end")
	tw.WriteString("strand")
	for _, name := range names {
		tw.WriteString(name)
	}
	if err := tw.EndLine(); err != nil {
		return err
	}
	for i := 0; i < c.Len(); i++ {
		iv := c.At(i)
		tw.WriteString(iv.SeqName)
		tw.WriteUint32(uint32(iv.Start))
		tw.WriteUint32(uint32(iv.End))
		tw.WriteByte(byte(iv.Strand))
		for _, col := range cols {
			if v := col[i]; v != nil {
				tw.WriteString(fmt.Sprint(v))
			} else {
				tw.WriteString("NA")
			}
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// checkField rejects values that would split a row or a line.
func checkField(what, v string) error {
	if strings.ContainsAny(v, "\t\n\r") {
		return gerrors.E(gerrors.Invalid, fmt.Sprintf("table: %s %q contains a tab or line break", what, v))
	}
	return nil
}

// WriteToPath is a wrapper for Write that takes a path.  The file is
// gzip-compressed if the path says so.
func WriteToPath(ctx context.Context, path string, c *interval.Collection) (err error) {
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := out.Writer(ctx)
	var gz *gzip.Writer
	if fileio.DetermineType(path) == fileio.Gzip {
		gz = gzip.NewWriter(w)
		w = gz
	}
	if err = Write(w, c); err != nil {
		return errors.Wrapf(err, "table: %s", path)
	}
	if gz != nil {
		if err = gz.Close(); err != nil {
			return errors.Wrapf(err, "table: %s", path)
		}
	}
	log.Debug.Printf("table: wrote %d interval(s) to %s", c.Len(), path)
	return nil
}
