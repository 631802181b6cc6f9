package model

import "time"

type EventType string

const (
	EventProcessing EventType = "processing"
	EventSuccess    EventType = "success"
	EventWarning    EventType = "warning"
	EventError      EventType = "error"
	EventComplete   EventType = "complete"
)

// ProgressEvent is a status notification about one Job's processing.
// IDs are ULIDs, so lexicographic order matches emission order.
type ProgressEvent struct {
	ID        string    `json:"-"`
	JobID     string    `json:"-"`
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
