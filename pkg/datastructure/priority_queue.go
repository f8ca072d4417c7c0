package datastructure

import "errors"

var (
	ErrHeapEmpty      = errors.New("priority queue is empty")
	ErrItemNotFound   = errors.New("item not found in priority queue")
	ErrRankNotSmaller = errors.New("new rank is not smaller than current rank")
)

type PriorityQueueNode[T comparable] struct {
	Rank float64
	Item T
}

// MinHeap is a binary heap with a position index so DecreaseKey is O(log n).
// Dijkstra keys it by tentative distance.
type MinHeap[T comparable] struct {
	heap []PriorityQueueNode[T]
	pos  map[T]int
}

func NewMinHeap[T comparable]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
		pos:  make(map[T]int),
	}
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) Insert(node PriorityQueueNode[T]) {
	h.heap = append(h.heap, node)
	h.pos[node.Item] = len(h.heap) - 1
	h.up(len(h.heap) - 1)
}

func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if len(h.heap) == 0 {
		return PriorityQueueNode[T]{}, ErrHeapEmpty
	}

	min := h.heap[0]
	last := len(h.heap) - 1

	h.swap(0, last)
	h.heap = h.heap[:last]
	delete(h.pos, min.Item)

	if len(h.heap) > 0 {
		h.down(0)
	}
	return min, nil
}

// DecreaseKey lowers the rank of an item already in the heap.
func (h *MinHeap[T]) DecreaseKey(node PriorityQueueNode[T]) error {
	i, ok := h.pos[node.Item]
	if !ok {
		return ErrItemNotFound
	}
	if node.Rank > h.heap[i].Rank {
		return ErrRankNotSmaller
	}

	h.heap[i].Rank = node.Rank
	h.up(i)
	return nil
}

func (h *MinHeap[T]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.heap[parent].Rank <= h.heap[i].Rank {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *MinHeap[T]) down(i int) {
	n := len(h.heap)
	for {
		left := 2*i + 1
		right := 2*i + 2
		smallest := i

		if left < n && h.heap[left].Rank < h.heap[smallest].Rank {
			smallest = left
		}
		if right < n && h.heap[right].Rank < h.heap[smallest].Rank {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.swap(i, smallest)
		i = smallest
	}
}

func (h *MinHeap[T]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.pos[h.heap[i].Item] = i
	h.pos[h.heap[j].Item] = j
}
