package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers processing of personal identification numbers.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine activity useful for debugging.
	CategoryOperations EventCategory = "operations"
)

// AuditEvent names an action worth recording.
type AuditEvent string

const (
	// EventNumberDecoded records a number that parsed and was reported on.
	EventNumberDecoded AuditEvent = "number_decoded"
	// EventNumberRejected records input refused by parsing or policy.
	EventNumberRejected AuditEvent = "number_rejected"
	// EventBatchDecoded records the completion of a batch.
	EventBatchDecoded AuditEvent = "batch_decoded"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventNumberDecoded:  CategoryCompliance,
	EventNumberRejected: CategoryCompliance,
	EventBatchDecoded:   CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted from the decoder to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
//
// Subject must already be redacted: raw identification numbers never enter
// the audit trail.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Action    AuditEvent    `json:"action"`
	Subject   string        `json:"subject,omitempty"`
	Decision  string        `json:"decision"`
	Reason    string        `json:"reason,omitempty"`
	RequestID string        `json:"request_id"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListAll(ctx context.Context) ([]Event, error)
}
