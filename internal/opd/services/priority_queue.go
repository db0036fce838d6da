package services

import (
	"container/heap"
	"sync"

	"github.com/google/uuid"

	"github.com/swasthyaflow/backend/internal/opd/models"
)

// PriorityDispatchQueue lets staff pull the next patient by clinical
// priority instead of arrival order. Lower priority values dequeue first
// ("more urgent"); equal priorities dequeue FIFO via a strictly increasing
// insertion counter.
//
// The queue is an explicitly constructed component with its own lock. It
// does not reorder or consult the FIFO ledger; reconciliation with the
// ledger is the dispatch service's decision.
type PriorityDispatchQueue struct {
	mu    sync.Mutex
	items ticketHeap
	order uint64
}

func NewPriorityDispatchQueue() *PriorityDispatchQueue {
	return &PriorityDispatchQueue{}
}

// AddPatient inserts a patient keyed by (priority, insertion order) and
// returns the stored ticket.
func (q *PriorityDispatchQueue) AddPatient(patientID string, departmentID int64, priority int) models.PriorityTicket {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.order++
	ticket := models.PriorityTicket{
		TicketID:     uuid.NewString(),
		PatientID:    patientID,
		DepartmentID: departmentID,
		Priority:     priority,
		Order:        q.order,
	}
	heap.Push(&q.items, ticket)
	return ticket
}

// GetNextPatient removes and returns the most urgent ticket. The second
// return value is false when the queue is empty; that is an expected
// result, not an error.
func (q *PriorityDispatchQueue) GetNextPatient() (models.PriorityTicket, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Len() == 0 {
		return models.PriorityTicket{}, false
	}
	return heap.Pop(&q.items).(models.PriorityTicket), true
}

// Len returns the number of queued tickets.
func (q *PriorityDispatchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

type ticketHeap []models.PriorityTicket

func (h ticketHeap) Len() int { return len(h) }

func (h ticketHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].Order < h[j].Order
}

func (h ticketHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *ticketHeap) Push(x any) {
	*h = append(*h, x.(models.PriorityTicket))
}

func (h *ticketHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
