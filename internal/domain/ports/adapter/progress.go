package adapter

import "resume-screener/internal/domain/model"

// ProgressPublisher is the pipeline's view of the event bus. Publishing must
// never block pipeline progress; events with no subscriber are dropped.
type ProgressPublisher interface {
	Publish(jobID string, typ model.EventType, message string)
	// Close tears down all subscriptions for the job after its terminal
	// event has been delivered.
	Close(jobID string)
}
