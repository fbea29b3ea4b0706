package simulation

import "container/heap"

// EventType represents the type of simulation event
type EventType int

const (
	EventDepleted EventType = iota
	EventStorageFull
	EventBreakthrough
	EventStarved
)

// String returns a string representation of the event type
func (et EventType) String() string {
	switch et {
	case EventDepleted:
		return "Depleted"
	case EventStorageFull:
		return "StorageFull"
	case EventBreakthrough:
		return "Breakthrough"
	case EventStarved:
		return "Starved"
	default:
		return "Unknown"
	}
}

// Priority returns the processing priority for this event type
// Lower priority = reported first when events have same time
func (et EventType) Priority() int {
	switch et {
	case EventDepleted:
		return 0 // First: the stock that ran out
	case EventStorageFull:
		return 1
	case EventBreakthrough:
		return 2
	case EventStarved:
		return 10 // Last: the consequence
	default:
		return 99
	}
}

// Event is something that happened to the colony during a run
type Event struct {
	Time     float64 // Seconds from simulation start
	Type     EventType
	Resource string // Resource key, or base name for breakthroughs
	Step     int
	Sequence int64 // Insertion order for stable sorting
}

// eventHeap implements heap.Interface for min-heap of Events
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	if h[i].Type.Priority() != h[j].Type.Priority() {
		return h[i].Type.Priority() < h[j].Type.Priority()
	}
	return h[i].Sequence < h[j].Sequence
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// EventQueue is a priority queue for events using a min-heap.
// Events are sorted by (Time, Priority, Sequence) for deterministic ordering.
// Sequence numbers are per queue, so independent runs never interfere.
type EventQueue struct {
	h        eventHeap
	sequence int64
}

// NewEventQueue creates a new empty event queue
func NewEventQueue() *EventQueue {
	q := &EventQueue{
		h: make(eventHeap, 0),
	}
	heap.Init(&q.h)
	return q
}

// Push adds an event to the queue with automatic sequence assignment
func (q *EventQueue) Push(e Event) {
	q.sequence++
	e.Sequence = q.sequence
	heap.Push(&q.h, e)
}

// Pop removes and returns the minimum event
func (q *EventQueue) Pop() Event {
	if len(q.h) == 0 {
		return Event{Time: -1}
	}
	return heap.Pop(&q.h).(Event)
}

// Empty returns true if the queue has no events
func (q *EventQueue) Empty() bool {
	return len(q.h) == 0
}

// Len returns the number of events in the queue
func (q *EventQueue) Len() int {
	return len(q.h)
}

// Drain pops every event in order
func (q *EventQueue) Drain() []Event {
	result := make([]Event, 0, len(q.h))
	for !q.Empty() {
		result = append(result, q.Pop())
	}
	return result
}
