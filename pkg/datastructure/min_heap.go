package datastructure

import "errors"

var (
	ErrHeapEmpty = errors.New("heap is empty")
)

type PriorityQueueNode[T any] struct {
	Rank float64
	Item T

	seq uint64 // insertion order, breaks rank ties
}

// MinHeap is a binary min heap ordered by Rank. nodes with equal Rank come out in insertion order.
type MinHeap[T any] struct {
	heap    []PriorityQueueNode[T]
	nextSeq uint64
}

func NewMinHeap[T any]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
	}
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) Insert(node PriorityQueueNode[T]) {
	node.seq = h.nextSeq
	h.nextSeq++
	h.heap = append(h.heap, node)
	h.heapifyUp(len(h.heap) - 1)
}

func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if len(h.heap) == 0 {
		return PriorityQueueNode[T]{}, ErrHeapEmpty
	}
	return h.heap[0], nil
}

func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if len(h.heap) == 0 {
		return PriorityQueueNode[T]{}, ErrHeapEmpty
	}
	root := h.heap[0]
	last := len(h.heap) - 1
	h.heap[0] = h.heap[last]
	h.heap = h.heap[:last]
	if last > 0 {
		h.heapifyDown(0)
	}
	return root, nil
}

func (h *MinHeap[T]) less(i, j int) bool {
	if h.heap[i].Rank != h.heap[j].Rank {
		return h.heap[i].Rank < h.heap[j].Rank
	}
	return h.heap[i].seq < h.heap[j].seq
}

func (h *MinHeap[T]) heapifyUp(index int) {
	for index > 0 {
		parent := (index - 1) / 2
		if !h.less(index, parent) {
			return
		}
		h.heap[index], h.heap[parent] = h.heap[parent], h.heap[index]
		index = parent
	}
}

func (h *MinHeap[T]) heapifyDown(index int) {
	n := len(h.heap)
	for {
		smallest := index
		left, right := 2*index+1, 2*index+2
		if left < n && h.less(left, smallest) {
			smallest = left
		}
		if right < n && h.less(right, smallest) {
			smallest = right
		}
		if smallest == index {
			return
		}
		h.heap[index], h.heap[smallest] = h.heap[smallest], h.heap[index]
		index = smallest
	}
}
