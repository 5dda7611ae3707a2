package enrollment

import (
	"time"

	"github.com/zaqqye/enrollment_backend/internal/models"
)

type EventType string

const (
	EventEnrolled EventType = "enrolled"
	EventUpdated  EventType = "updated"
	EventRemoved  EventType = "removed"
)

// Event describes a committed change to the roster.
type Event struct {
	Type    EventType      `json:"type"`
	Student models.Student `json:"student"`
	At      time.Time      `json:"at"`
}

// Notifier receives events after the change is committed.
type Notifier interface {
	Publish(Event)
}
