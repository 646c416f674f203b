package events

import (
	"time"

	"github.com/spec-kit/deal-service/internal/domain"
)

// EventType enumerates outbound event identifiers.
type EventType string

const (
	EventDealCreated       EventType = "deal_created"
	EventPhaseChanged      EventType = "phase_changed"
	EventSubstatusChanged  EventType = "substatus_changed"
	EventDepositReceived   EventType = "deposit_received"
	EventFullyPaid         EventType = "fully_paid"
	EventDeliveryScheduled EventType = "delivery_scheduled"
)

// CustomerContext is the denormalized customer snapshot carried by an event.
type CustomerContext struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	PreferredChannel string `json:"preferredChannel"`
}

// MotorcycleContext identifies the unit the deal is about.
type MotorcycleContext struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Color string `json:"color"`
}

// PaymentContext summarizes the payment state at emission time.
type PaymentContext struct {
	TotalPrice      float64 `json:"totalPrice"`
	DepositAmount   float64 `json:"depositAmount"`
	DepositPaid     bool    `json:"depositPaid"`
	RemainingAmount float64 `json:"remainingAmount"`
	FullyPaid       bool    `json:"fullyPaid"`
}

// EventContext is a point-in-time copy of deal state captured when the event
// is recorded. Later deal mutations never alter an already-emitted event.
type EventContext struct {
	Customer         CustomerContext   `json:"customer"`
	Motorcycle       MotorcycleContext `json:"motorcycle"`
	Payment          PaymentContext    `json:"payment"`
	CurrentPhase     domain.Phase      `json:"currentPhase"`
	CurrentSubstatus domain.Substatus  `json:"currentSubstatus"`
}

// Event is the structured record of a deal state transition, shaped for
// external automation consumers.
type Event struct {
	Type       EventType      `json:"type"`
	DealID     string         `json:"dealId"`
	DealNumber string         `json:"dealNumber"`
	Timestamp  time.Time      `json:"timestamp"`
	Payload    map[string]any `json:"payload"`
	Context    EventContext   `json:"context"`
}

// BuildContext captures the denormalized snapshot for a deal by value.
func BuildContext(deal domain.Deal) EventContext {
	return EventContext{
		Customer: CustomerContext{
			ID:               deal.Customer.ID,
			Name:             deal.Customer.FullName(),
			Email:            deal.Customer.Email,
			Phone:            deal.Customer.Phone,
			PreferredChannel: string(deal.Customer.PreferredChannel),
		},
		Motorcycle: MotorcycleContext{
			Brand: deal.Motorcycle.Brand,
			Model: deal.Motorcycle.Model,
			Year:  deal.Motorcycle.Year,
			Color: deal.Motorcycle.Color,
		},
		Payment: PaymentContext{
			TotalPrice:      deal.Payment.TotalPrice,
			DepositAmount:   deal.Payment.DepositAmount,
			DepositPaid:     deal.Payment.DepositPaid,
			RemainingAmount: deal.Payment.RemainingAmount,
			FullyPaid:       deal.Payment.FullyPaid,
		},
		CurrentPhase:     deal.Phase,
		CurrentSubstatus: deal.Substatus,
	}
}
