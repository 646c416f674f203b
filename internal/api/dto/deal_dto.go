package dto

import (
	"time"

	"github.com/spec-kit/deal-service/internal/domain"
)

// CustomerPayload mirrors the embedded customer snapshot.
type CustomerPayload struct {
	ID               string                `json:"id"`
	FirstName        string                `json:"first_name"`
	LastName         string                `json:"last_name"`
	Email            string                `json:"email"`
	Phone            string                `json:"phone"`
	WhatsAppOptIn    bool                  `json:"whatsapp_opt_in"`
	PreferredChannel domain.ContactChannel `json:"preferred_channel"`
}

// MotorcyclePayload mirrors the embedded motorcycle snapshot.
type MotorcyclePayload struct {
	ID            string `json:"id"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Year          int    `json:"year"`
	Color         string `json:"color"`
	VIN           string `json:"vin"`
	StockLocation string `json:"stock_location"`
	IsNewUnit     bool   `json:"is_new_unit"`
}

// PaymentPayload carries the money side of a deal.
type PaymentPayload struct {
	TotalPrice         float64    `json:"total_price"`
	DepositAmount      float64    `json:"deposit_amount"`
	DepositPaid        bool       `json:"deposit_paid"`
	DepositPaidAt      *time.Time `json:"deposit_paid_at,omitempty"`
	RemainingAmount    float64    `json:"remaining_amount"`
	FinancingRequested bool       `json:"financing_requested"`
	FinancingApproved  bool       `json:"financing_approved"`
	FullyPaid          bool       `json:"fully_paid"`
	FullyPaidAt        *time.Time `json:"fully_paid_at,omitempty"`
}

// CreateDealRequest payload.
type CreateDealRequest struct {
	Customer     CustomerPayload   `json:"customer"`
	Motorcycle   MotorcyclePayload `json:"motorcycle"`
	Payment      PaymentPayload    `json:"payment"`
	AssignedTo   string            `json:"assigned_to"`
	TestRideDate *time.Time        `json:"test_ride_date,omitempty"`
}

// ChangePhaseRequest payload. Substatus is optional; when omitted the deal
// resets to the first substatus of the new phase.
type ChangePhaseRequest struct {
	Phase     domain.Phase     `json:"phase"`
	Substatus domain.Substatus `json:"substatus"`
}

// ChangeSubstatusRequest payload.
type ChangeSubstatusRequest struct {
	Substatus domain.Substatus `json:"substatus"`
}

// AddActivityRequest payload.
type AddActivityRequest struct {
	Type        domain.ActivityType `json:"type"`
	Description string              `json:"description"`
	Metadata    map[string]any      `json:"metadata,omitempty"`
}

// ScheduleRequest payload for delivery and test-ride dates.
type ScheduleRequest struct {
	Date time.Time `json:"date"`
}

// ActivityResponse mirrors an audit trail entry.
type ActivityResponse struct {
	ID          string              `json:"id"`
	DealID      string              `json:"deal_id"`
	Type        domain.ActivityType `json:"type"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"created_at"`
	CreatedBy   string              `json:"created_by"`
	Metadata    map[string]any      `json:"metadata,omitempty"`
}

// DealSummary response.
type DealSummary struct {
	ID             string            `json:"id"`
	DealNumber     string            `json:"deal_number"`
	Customer       CustomerPayload   `json:"customer"`
	Motorcycle     MotorcyclePayload `json:"motorcycle"`
	Phase          domain.Phase      `json:"phase"`
	Substatus      domain.Substatus  `json:"substatus"`
	Payment        PaymentPayload    `json:"payment"`
	TestRideDate   *time.Time        `json:"test_ride_date,omitempty"`
	DeliveryDate   *time.Time        `json:"delivery_date,omitempty"`
	AssignedTo     string            `json:"assigned_to"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	LastActivityAt time.Time         `json:"last_activity_at"`
}

// DealDetailResponse adds the activity trail to the summary.
type DealDetailResponse struct {
	DealSummary
	Activities []ActivityResponse `json:"activities"`
}
