package domain

import "time"

// ActivityType captures what kind of action an audit entry records.
type ActivityType string

const (
	ActivityPhaseChange       ActivityType = "phase_change"
	ActivitySubstatusChange   ActivityType = "substatus_change"
	ActivityPaymentReceived   ActivityType = "payment_received"
	ActivityNoteAdded         ActivityType = "note_added"
	ActivityTestRide          ActivityType = "test_ride"
	ActivityDeliveryScheduled ActivityType = "delivery_scheduled"
	ActivityCustomerContact   ActivityType = "customer_contact"
)

// ActivityLog is an immutable audit trail entry. Entries are prepended to a
// deal's activity list so the newest entry comes first.
type ActivityLog struct {
	ID          string
	DealID      string
	Type        ActivityType
	Description string
	CreatedAt   time.Time
	CreatedBy   string
	Metadata    map[string]any
}
