package user

import "time"

type EventType string

const (
	EventCreated      EventType = "user.created"
	EventUpdated      EventType = "user.updated"
	EventDeleted      EventType = "user.deleted"
	EventAdminGranted EventType = "user.admin_granted"
	EventAdminRevoked EventType = "user.admin_revoked"
)

var EventTypes = []EventType{EventCreated, EventUpdated, EventDeleted, EventAdminGranted, EventAdminRevoked}

// Event describes a committed change to a user. Actor is uuid.Nil for
// self-service registration.
type Event struct {
	Type       EventType
	User       User
	Actor      UUID
	OccurredAt time.Time
}
