package scheduler

import (
	"container/heap"
	"sort"

	"github.com/viant/ossim/model/process"
)

// entry is one process held by an ordering. seq is the insertion sequence
// of the process within the session and breaks ties between equal keys.
type entry struct {
	pcb   *process.PCB
	seq   uint64
	index int
}

type lessFunc func(a, b *entry) bool

type entryHeap struct {
	items []*entry
	less  lessFunc
}

func (h *entryHeap) Len() int           { return len(h.items) }
func (h *entryHeap) Less(i, j int) bool { return h.less(h.items[i], h.items[j]) }
func (h *entryHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(h.items)
	h.items = append(h.items, e)
}

func (h *entryHeap) Pop() any {
	old := h.items
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	h.items = old[:n-1]
	return e
}

// ordering is a priority queue of processes keyed by a discipline-specific
// comparator, with O(log n) removal by process id.
type ordering struct {
	heap *entryHeap
	byID map[string]*entry
}

func newOrdering(less lessFunc) *ordering {
	return &ordering{heap: &entryHeap{less: less}, byID: map[string]*entry{}}
}

func (o *ordering) push(e *entry) {
	heap.Push(o.heap, e)
	o.byID[e.pcb.ID] = e
}

// pop removes and returns the head, or nil when empty.
func (o *ordering) pop() *entry {
	if o.heap.Len() == 0 {
		return nil
	}
	e := heap.Pop(o.heap).(*entry)
	delete(o.byID, e.pcb.ID)
	return e
}

// peek returns the head without removing it, or nil when empty.
func (o *ordering) peek() *entry {
	if o.heap.Len() == 0 {
		return nil
	}
	return o.heap.items[0]
}

func (o *ordering) remove(id string) *entry {
	e, ok := o.byID[id]
	if !ok {
		return nil
	}
	heap.Remove(o.heap, e.index)
	delete(o.byID, id)
	return e
}

// fix restores heap order after the key of id changed.
func (o *ordering) fix(id string) {
	if e, ok := o.byID[id]; ok {
		heap.Fix(o.heap, e.index)
	}
}

func (o *ordering) len() int { return o.heap.Len() }

func (o *ordering) clear() {
	o.heap.items = nil
	o.byID = map[string]*entry{}
}

// sorted returns the entries in comparator order without disturbing the heap.
func (o *ordering) sorted() []*entry {
	ret := make([]*entry, len(o.heap.items))
	copy(ret, o.heap.items)
	sort.Slice(ret, func(i, j int) bool { return o.heap.less(ret[i], ret[j]) })
	return ret
}

// byArrival orders by arrival time, then insertion.
func byArrival(a, b *entry) bool {
	if a.pcb.ArrivalTime != b.pcb.ArrivalTime {
		return a.pcb.ArrivalTime < b.pcb.ArrivalTime
	}
	return a.seq < b.seq
}

// byPriority orders by descending priority, then insertion.
func byPriority(a, b *entry) bool {
	if a.pcb.Priority != b.pcb.Priority {
		return a.pcb.Priority > b.pcb.Priority
	}
	return a.seq < b.seq
}
