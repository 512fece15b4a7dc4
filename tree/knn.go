package tree

import (
	"container/heap"
	"math"

	"github.com/golang/geo/r2"
)

type candidate struct {
	idx  int
	dist float64
}

// candidateHeap is a max-heap on distance, so the worst kept candidate is on top.
type candidateHeap []candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return h[i].dist > h[j].dist }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x interface{}) {
	*h = append(*h, x.(candidate))
}

func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// FindKNN returns the k nodes whose points are closest to target, nearest first.
// Subtrees are skipped only when the triangle inequality rules out a closer
// point than the current k-th best.
func (t *VPTree) FindKNN(target r2.Point, k int) []*VPNode {
	if k <= 0 || t.root == none {
		return nil
	}

	best := make(candidateHeap, 0, k)
	maxDist := math.Inf(1)

	type visit struct {
		idx int
		// parent distance and threshold used to re-check the prune condition
		// at the moment the subtree is reached
		parentDist, threshold float64
		inside                bool
		unconditional         bool
	}
	stack := []visit{{idx: t.root, unconditional: true}}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !v.unconditional {
			if v.inside && v.parentDist-maxDist > v.threshold {
				continue
			}
			if !v.inside && v.parentDist+maxDist < v.threshold {
				continue
			}
		}

		n := &t.nodes[v.idx]
		dist := n.point.DistTo(target)
		if dist < maxDist {
			if best.Len() == k {
				heap.Pop(&best)
			}
			heap.Push(&best, candidate{idx: v.idx, dist: dist})
			if best.Len() == k {
				maxDist = best[0].dist
			}
		}
		if n.left == none && n.right == none {
			continue
		}

		left := visit{idx: n.left, parentDist: dist, threshold: n.threshold, inside: true}
		right := visit{idx: n.right, parentDist: dist, threshold: n.threshold}
		// the side pushed last is searched first
		var first, second visit
		if dist < n.threshold {
			first, second = left, right
		} else {
			first, second = right, left
		}
		if second.idx != none {
			stack = append(stack, second)
		}
		if first.idx != none {
			stack = append(stack, first)
		}
	}

	out := make([]*VPNode, best.Len())
	for i := len(out) - 1; i >= 0; i-- {
		c := heap.Pop(&best).(candidate)
		out[i] = &t.nodes[c.idx]
	}
	return out
}
