package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueueOrdersByPriorityThenInsertion(t *testing.T) {
	q := NewPriorityDispatchQueue()
	q.AddPatient("A", 1, 2)
	q.AddPatient("B", 1, 1)
	q.AddPatient("C", 1, 1)
	require.Equal(t, 3, q.Len())

	var got []string
	for {
		ticket, ok := q.GetNextPatient()
		if !ok {
			break
		}
		got = append(got, ticket.PatientID)
	}
	assert.Equal(t, []string{"B", "C", "A"}, got)
	assert.Zero(t, q.Len())
}

func TestPriorityQueueEmpty(t *testing.T) {
	q := NewPriorityDispatchQueue()
	_, ok := q.GetNextPatient()
	assert.False(t, ok)
}

func TestPriorityQueueTicketFields(t *testing.T) {
	q := NewPriorityDispatchQueue()
	ticket := q.AddPatient("P-9", 4, 3)
	assert.NotEmpty(t, ticket.TicketID)
	assert.Equal(t, "P-9", ticket.PatientID)
	assert.Equal(t, int64(4), ticket.DepartmentID)
	assert.Equal(t, 3, ticket.Priority)
}
