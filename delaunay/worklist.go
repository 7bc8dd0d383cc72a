package delaunay

import (
	"container/heap"

	"github.com/tjim/conform/quadedge"
)

// worklist holds canonical edges awaiting evaluation. An edge is held at most
// once; pushing a held edge only updates its priority.
type worklist interface {
	push(e quadedge.Edge, priority float64)
	pop() quadedge.Edge
	len() int
}

// fifo pops edges in insertion order and ignores priorities.
type fifo struct {
	queue  []quadedge.Edge
	head   int
	queued []bool // by quad
}

func newFIFO(numEdges int) *fifo {
	return &fifo{queued: make([]bool, numEdges)}
}

func (q *fifo) push(e quadedge.Edge, _ float64) {
	if q.queued[e.Quad()] {
		return
	}
	q.queued[e.Quad()] = true
	q.queue = append(q.queue, e)
}

func (q *fifo) pop() quadedge.Edge {
	e := q.queue[q.head]
	q.head++
	if q.head == len(q.queue) {
		q.queue, q.head = q.queue[:0], 0
	}
	q.queued[e.Quad()] = false
	return e
}

func (q *fifo) len() int {
	return len(q.queue) - q.head
}

type candidate struct {
	edge     quadedge.Edge
	priority float64
}

// worstFirst pops the edge with the lowest priority first, ties broken by
// insertion order.
type worstFirst struct {
	items []candidate
	seq   []int // insertion stamp, parallel to items
	index []int // heap position by quad, -1 when absent
	stamp int
}

func newWorstFirst(numEdges int) *worstFirst {
	w := &worstFirst{index: make([]int, numEdges)}
	for i := range w.index {
		w.index[i] = -1
	}
	return w
}

func (w *worstFirst) push(e quadedge.Edge, priority float64) {
	if i := w.index[e.Quad()]; i >= 0 {
		w.items[i].priority = priority
		heap.Fix(w, i)
		return
	}
	w.stamp++
	heap.Push(w, candidate{edge: e, priority: priority})
}

func (w *worstFirst) pop() quadedge.Edge {
	return heap.Pop(w).(candidate).edge
}

func (w *worstFirst) len() int {
	return len(w.items)
}

// heap.Interface

func (w *worstFirst) Len() int { return len(w.items) }

func (w *worstFirst) Less(i, j int) bool {
	if w.items[i].priority != w.items[j].priority {
		return w.items[i].priority < w.items[j].priority
	}
	return w.seq[i] < w.seq[j]
}

func (w *worstFirst) Swap(i, j int) {
	w.items[i], w.items[j] = w.items[j], w.items[i]
	w.seq[i], w.seq[j] = w.seq[j], w.seq[i]
	w.index[w.items[i].edge.Quad()] = i
	w.index[w.items[j].edge.Quad()] = j
}

func (w *worstFirst) Push(x interface{}) {
	c := x.(candidate)
	w.index[c.edge.Quad()] = len(w.items)
	w.items = append(w.items, c)
	w.seq = append(w.seq, w.stamp)
}

func (w *worstFirst) Pop() interface{} {
	n := len(w.items) - 1
	c := w.items[n]
	w.items, w.seq = w.items[:n], w.seq[:n]
	w.index[c.edge.Quad()] = -1
	return c
}
