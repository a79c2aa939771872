package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordTransitions(t *testing.T) {
	assert.True(t, RecordTransitions.Allowed(StatusActive, StatusCompleted))
	assert.True(t, RecordTransitions.Allowed(StatusActive, StatusArchived))
	assert.True(t, RecordTransitions.Allowed(StatusCompleted, StatusArchived))
	assert.False(t, RecordTransitions.Allowed(StatusArchived, StatusActive))
	assert.False(t, RecordTransitions.Allowed(StatusCompleted, StatusActive))
}

func TestAppointmentTransitions(t *testing.T) {
	assert.True(t, AppointmentTransitions.Allowed(StatusScheduled, StatusConfirmed))
	assert.True(t, AppointmentTransitions.Allowed(StatusConfirmed, StatusCompleted))
	assert.True(t, AppointmentTransitions.Allowed(StatusScheduled, StatusCancelled))
	assert.False(t, AppointmentTransitions.Allowed(StatusCancelled, StatusScheduled))
	assert.False(t, AppointmentTransitions.Allowed(StatusCompleted, StatusCancelled))
	assert.False(t, AppointmentTransitions.Allowed(StatusScheduled, StatusCompleted))
}

func TestOrderTransitions(t *testing.T) {
	assert.True(t, OrderTransitions.Allowed(StatusPending, StatusPaid))
	assert.True(t, OrderTransitions.Allowed(StatusPaid, StatusShipped))
	assert.True(t, OrderTransitions.Allowed(StatusShipped, StatusDelivered))
	assert.False(t, OrderTransitions.Allowed(StatusDelivered, StatusPending))
	assert.False(t, OrderTransitions.Allowed(StatusPending, StatusShipped))
}

func TestSelfTransitionIsIdempotent(t *testing.T) {
	for _, table := range []Transitions{RecordTransitions, AppointmentTransitions, PrescriptionTransitions, OrderTransitions} {
		for status := range table {
			assert.True(t, table.Allowed(status, status), "setting %s to itself should be allowed", status)
		}
	}
}

func TestUnknownStatusRejected(t *testing.T) {
	assert.False(t, RecordTransitions.Valid("UNKNOWN"))
	assert.False(t, RecordTransitions.Allowed(StatusActive, "UNKNOWN"))
	assert.False(t, RecordTransitions.Allowed("UNKNOWN", StatusActive))
}
