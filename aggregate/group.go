// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package aggregate

import (
	"math"

	"github.com/grailbio/granges/interval"
	"github.com/grailbio/granges/overlap"
)

// reduceByGroup folds values over the subjects of every query element,
// starting each group at empty.
func reduceByGroup(h *overlap.Hits, values []float64, empty float64, fn func(acc, v float64) float64) ([]float64, error) {
	if len(values) != h.SubjectLen {
		return nil, &interval.LengthMismatchError{Name: "subject values", Want: h.SubjectLen, Got: len(values)}
	}
	result := make([]float64, h.QueryLen)
	for q := range result {
		acc := empty
		for _, s := range h.Subjects(q) {
			acc = fn(acc, values[s])
		}
		result[q] = acc
	}
	return result, nil
}

// MaxByGroup returns, for each query element, the maximum of values over its
// subjects, or NoData (negative infinity) if it has none.  values is indexed
// by subject and must have h.SubjectLen entries.
func MaxByGroup(h *overlap.Hits, values []float64) ([]float64, error) {
	return reduceByGroup(h, values, NoData, math.Max)
}

// MinByGroup is MaxByGroup for the minimum; empty groups yield +Inf.
func MinByGroup(h *overlap.Hits, values []float64) ([]float64, error) {
	return reduceByGroup(h, values, math.Inf(1), math.Min)
}

// SumByGroup is MaxByGroup for the sum; empty groups yield 0.
func SumByGroup(h *overlap.Hits, values []float64) ([]float64, error) {
	return reduceByGroup(h, values, 0, func(acc, v float64) float64 { return acc + v })
}

// MeanByGroup is MaxByGroup for the arithmetic mean; empty groups yield NaN.
func MeanByGroup(h *overlap.Hits, values []float64) ([]float64, error) {
	sums, err := SumByGroup(h, values)
	if err != nil {
		return nil, err
	}
	for q := range sums {
		if n := h.Count(q); n > 0 {
			sums[q] /= float64(n)
		} else {
			sums[q] = math.NaN()
		}
	}
	return sums, nil
}
