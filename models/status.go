package models

// Statuses
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusArchived  = "ARCHIVED"
	StatusScheduled = "SCHEDULED"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusShipped   = "SHIPPED"
	StatusDelivered = "DELIVERED"
)

// Transitions maps each status to the set of statuses it may move to.
// A status with an empty target list is terminal.
type Transitions map[string][]string

// Valid reports whether the status belongs to the resource's closed set.
func (t Transitions) Valid(status string) bool {
	_, ok := t[status]
	return ok
}

// Allowed reports whether the transition from -> to is in the table.
// Setting a status to itself is always allowed so that repeated updates
// with the same body stay idempotent.
func (t Transitions) Allowed(from, to string) bool {
	if !t.Valid(from) || !t.Valid(to) {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Per-resource transition tables. Any transition not listed here is rejected
// at the route-handler boundary with a 400.
var (
	RecordTransitions = Transitions{
		StatusActive:    {StatusCompleted, StatusArchived},
		StatusCompleted: {StatusArchived},
		StatusArchived:  {},
	}

	AppointmentTransitions = Transitions{
		StatusScheduled: {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	PrescriptionTransitions = Transitions{
		StatusActive:    {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	OrderTransitions = Transitions{
		StatusPending:   {StatusPaid, StatusCancelled},
		StatusPaid:      {StatusShipped, StatusCancelled},
		StatusShipped:   {StatusDelivered},
		StatusDelivered: {},
		StatusCancelled: {},
	}
)
