package domain

import (
	"time"
)

type EventType string

const (
	EventQuerySubmitted       EventType = "query.submitted"
	EventAppointmentRequested EventType = "appointment.requested"
	EventBookingVerified      EventType = "booking.verified"
)

type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}
