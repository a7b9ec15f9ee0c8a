// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package overlap

import (
	"github.com/grailbio/granges/interval"
)

// The sorted backend lays an implicit binary tree over the partition's
// start-sorted arrays, following the cgranges layout
// (https://github.com/lh3/cgranges):
//
// - Leaves are the even positions; a node at level k has its k low bits set,
//   so level-1 nodes are 1, 5, 9, ..., level-2 nodes 3, 11, 19, ..., and the
//   root is at (1<<rootK)-1.
// - The children of node x at level k are x - (1<<(k-1)) and x + (1<<(k-1)).
//   A child index may be >= n when the array length is not a power of two.
// - maxEnd[x] is the largest end in the subtree rooted at x.
//
// Because positions are sorted by start, an in-order walk visits intervals by
// increasing start, so a subtree can be skipped when its maxEnd is before the
// query, and everything right of a node can be skipped once that node starts
// after the query.

// buildImplicitTree computes maxEnd and rootK.  It requires p.starts and
// p.ends to be sorted by start.
func (p *partition) buildImplicitTree() {
	n := len(p.starts)
	p.maxEnd = make([]interval.PosType, n)
	if n == 0 {
		p.rootK = -1
		return
	}
	var lastI int
	var last interval.PosType
	for i := 0; i < n; i += 2 {
		lastI, last = i, p.ends[i]
		p.maxEnd[i] = p.ends[i]
	}
	// lastI tracks the rightmost node at the current level, and last the
	// maximum end of its subtree; it stands in for right children beyond n.
	k := 1
	for ; 1<<uint(k) <= n; k++ {
		x := 1 << uint(k-1)
		i0 := (x << 1) - 1
		step := x << 2
		for i := i0; i < n; i += step {
			el := p.maxEnd[i-x]
			er := last
			if i+x < n {
				er = p.maxEnd[i+x]
			}
			e := p.ends[i]
			if el > e {
				e = el
			}
			if er > e {
				e = er
			}
			p.maxEnd[i] = e
		}
		// Move lastI to its parent: right children have bit k set.
		if (lastI>>uint(k))&1 != 0 {
			lastI -= x
		} else {
			lastI += x
		}
		if lastI < n && p.maxEnd[lastI] > last {
			last = p.maxEnd[lastI]
		}
	}
	p.rootK = k - 1
}

type treeFrame struct {
	k, x int
	// leftDone is set once the left child of x has been pushed or pruned.
	leftDone bool
}

// searchImplicit calls fn with every sorted position whose closed interval
// intersects [qStart, qEnd], in increasing position order.
func (p *partition) searchImplicit(qStart, qEnd interval.PosType, fn func(pos int)) {
	n := len(p.starts)
	if n == 0 {
		return
	}
	var stackBuf [64]treeFrame
	stack := append(stackBuf[:0], treeFrame{k: p.rootK, x: (1 << uint(p.rootK)) - 1})
	for len(stack) > 0 {
		z := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch {
		case z.k <= 3:
			// Small subtree: a linear scan beats further descent.
			i0 := z.x >> uint(z.k) << uint(z.k)
			i1 := i0 + (1 << uint(z.k+1)) - 1
			if i1 > n {
				i1 = n
			}
			for i := i0; i < i1 && p.starts[i] <= qEnd; i++ {
				if qStart <= p.ends[i] {
					fn(i)
				}
			}
		case !z.leftDone:
			y := z.x - (1 << uint(z.k-1))
			stack = append(stack, treeFrame{k: z.k, x: z.x, leftDone: true})
			if y >= n || p.maxEnd[y] >= qStart {
				stack = append(stack, treeFrame{k: z.k - 1, x: y})
			}
		case z.x < n && p.starts[z.x] <= qEnd:
			if qStart <= p.ends[z.x] {
				fn(z.x)
			}
			stack = append(stack, treeFrame{k: z.k - 1, x: z.x + (1 << uint(z.k-1))})
		}
	}
}
