package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/deal-service/internal/domain"
	"github.com/spec-kit/deal-service/internal/events"
)

// DealStore owns the authoritative in-memory deal collection. Every mutation
// funnels through its operations so that activity logging and event emission
// are never bypassed. Mutations are atomic per deal: the deal value is copied,
// transformed, then swapped back under the lock, so readers only ever observe
// complete states.
//
// Unknown deal identifiers are silently ignored on every mutation; callers
// racing against a vanished deal must not crash.
type DealStore struct {
	mu       sync.RWMutex
	deals    map[string]domain.Deal
	order    []string
	recorder *events.Recorder
	logger   *zap.Logger

	// Now is the store's clock; overridable in tests.
	Now func() time.Time
}

// New constructs an empty store. The recorder may be nil (no events emitted).
func New(recorder *events.Recorder, logger *zap.Logger) *DealStore {
	return &DealStore{
		deals:    make(map[string]domain.Deal),
		recorder: recorder,
		logger:   logger,
		Now:      time.Now,
	}
}

// Seed loads the initial deal collection. Deals with a substatus outside
// their phase's catalog are reset to the phase's first substatus; missing
// timestamps fall back to CreatedAt.
func (s *DealStore) Seed(deals []domain.Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, deal := range deals {
		if deal.ID == "" {
			deal.ID = uuid.NewString()
		}
		if !domain.ValidSubstatus(deal.Phase, deal.Substatus) {
			deal.Substatus = domain.DefaultSubstatus(deal.Phase)
		}
		if deal.UpdatedAt.IsZero() {
			deal.UpdatedAt = deal.CreatedAt
		}
		if deal.LastActivityAt.IsZero() {
			deal.LastActivityAt = deal.CreatedAt
		}
		if _, exists := s.deals[deal.ID]; !exists {
			s.order = append(s.order, deal.ID)
		}
		s.deals[deal.ID] = deal
	}
	s.logger.Info("deal store seeded", zap.Int("deals", len(deals)))
}

// List returns the deals in insertion order.
func (s *DealStore) List() []domain.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Deal, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.deals[id])
	}
	return out
}

// Get returns a single deal by identifier.
func (s *DealStore) Get(dealID string) (domain.Deal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deal, ok := s.deals[dealID]
	return deal, ok
}

// CreateDealInput carries the caller-supplied parts of a new deal.
type CreateDealInput struct {
	Customer     domain.Customer
	Motorcycle   domain.Motorcycle
	Payment      domain.Payment
	AssignedTo   string
	TestRideDate *time.Time
}

// CreateDeal registers a new deal in the lead/sales phase and emits a
// deal_created event.
func (s *DealStore) CreateDeal(input CreateDealInput, actor string) domain.Deal {
	now := s.Now()
	payment := input.Payment
	switch {
	case payment.FullyPaid:
		payment.RemainingAmount = 0
	case payment.DepositPaid:
		payment.RemainingAmount = payment.TotalPrice - payment.DepositAmount
	default:
		payment.RemainingAmount = payment.TotalPrice
	}

	deal := domain.Deal{
		ID:             uuid.NewString(),
		DealNumber:     generateDealNumber(),
		Customer:       input.Customer,
		Motorcycle:     input.Motorcycle,
		Phase:          domain.PhaseLeadSales,
		Substatus:      domain.DefaultSubstatus(domain.PhaseLeadSales),
		Payment:        payment,
		TestRideDate:   input.TestRideDate,
		AssignedTo:     input.AssignedTo,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastActivityAt: now,
	}
	s.appendActivity(&deal, domain.ActivityNoteAdded, "Deal created", actor, now, nil)

	s.mu.Lock()
	s.deals[deal.ID] = deal
	s.order = append(s.order, deal.ID)
	s.mu.Unlock()

	s.record(events.EventDealCreated, deal, map[string]any{
		"dealNumber": deal.DealNumber,
		"phase":      deal.Phase,
		"substatus":  deal.Substatus,
	})
	return deal
}

// ChangePhase moves a deal to a new phase. A missing or foreign substatus is
// reset to the first entry of the new phase's catalog.
func (s *DealStore) ChangePhase(dealID string, newPhase domain.Phase, newSubstatus domain.Substatus, actor string) {
	s.mu.Lock()
	deal, ok := s.deals[dealID]
	if !ok {
		s.mu.Unlock()
		return
	}
	now := s.Now()
	oldPhase, oldSubstatus := deal.Phase, deal.Substatus
	if !domain.ValidSubstatus(newPhase, newSubstatus) {
		newSubstatus = domain.DefaultSubstatus(newPhase)
	}
	deal.Phase = newPhase
	deal.Substatus = newSubstatus
	s.appendActivity(&deal, domain.ActivityPhaseChange,
		fmt.Sprintf("Phase changed to %s", newPhase), actor, now, nil)
	s.stamp(&deal, now)
	s.deals[dealID] = deal
	s.mu.Unlock()

	s.record(events.EventPhaseChanged, deal, map[string]any{
		"oldPhase":     oldPhase,
		"newPhase":     newPhase,
		"oldSubstatus": oldSubstatus,
		"newSubstatus": newSubstatus,
	})
}

// ChangeSubstatus updates the substatus within the current phase. Callers are
// responsible for validating the substatus against the deal's phase; the
// store records whatever is submitted.
func (s *DealStore) ChangeSubstatus(dealID string, newSubstatus domain.Substatus, actor string) {
	s.mu.Lock()
	deal, ok := s.deals[dealID]
	if !ok {
		s.mu.Unlock()
		return
	}
	now := s.Now()
	oldSubstatus := deal.Substatus
	deal.Substatus = newSubstatus
	s.appendActivity(&deal, domain.ActivitySubstatusChange,
		fmt.Sprintf("Status changed to %s", newSubstatus), actor, now, nil)
	s.stamp(&deal, now)
	s.deals[dealID] = deal
	s.mu.Unlock()

	s.record(events.EventSubstatusChanged, deal, map[string]any{
		"oldSubstatus": oldSubstatus,
		"newSubstatus": newSubstatus,
	})
}

// ActivityInput carries the caller-supplied parts of an activity entry.
type ActivityInput struct {
	Type        domain.ActivityType
	Description string
	Metadata    map[string]any
}

// AddActivity appends a caller-supplied activity to a deal. No domain event
// is emitted; free-text notes are audit-only.
func (s *DealStore) AddActivity(dealID string, input ActivityInput, actor string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal, ok := s.deals[dealID]
	if !ok {
		return
	}
	now := s.Now()
	activityType := input.Type
	if activityType == "" {
		activityType = domain.ActivityNoteAdded
	}
	s.appendActivity(&deal, activityType, input.Description, actor, now, input.Metadata)
	s.stamp(&deal, now)
	s.deals[dealID] = deal
}

// MarkDepositPaid records the deposit milestone. RemainingAmount becomes
// TotalPrice minus DepositAmount exactly.
func (s *DealStore) MarkDepositPaid(dealID, actor string) {
	s.mu.Lock()
	deal, ok := s.deals[dealID]
	if !ok {
		s.mu.Unlock()
		return
	}
	now := s.Now()
	deal.Payment.DepositPaid = true
	deal.Payment.DepositPaidAt = &now
	deal.Payment.RemainingAmount = deal.Payment.TotalPrice - deal.Payment.DepositAmount
	s.appendActivity(&deal, domain.ActivityPaymentReceived,
		fmt.Sprintf("Deposit of €%.2f received", deal.Payment.DepositAmount), actor, now, nil)
	s.stamp(&deal, now)
	s.deals[dealID] = deal
	s.mu.Unlock()

	s.record(events.EventDepositReceived, deal, map[string]any{
		"type":   "deposit",
		"amount": deal.Payment.DepositAmount,
		"paidAt": now.UTC(),
	})
}

// MarkFullyPaid records full payment. RemainingAmount is zeroed and the
// fully-paid flag never reverts.
func (s *DealStore) MarkFullyPaid(dealID, actor string) {
	s.mu.Lock()
	deal, ok := s.deals[dealID]
	if !ok {
		s.mu.Unlock()
		return
	}
	now := s.Now()
	if !deal.Payment.FullyPaid {
		deal.Payment.FullyPaid = true
		deal.Payment.FullyPaidAt = &now
	}
	deal.Payment.RemainingAmount = 0
	s.appendActivity(&deal, domain.ActivityPaymentReceived,
		"Full payment received", actor, now, nil)
	s.stamp(&deal, now)
	s.deals[dealID] = deal
	s.mu.Unlock()

	s.record(events.EventFullyPaid, deal, map[string]any{
		"type":   "full",
		"amount": deal.Payment.TotalPrice,
		"paidAt": now.UTC(),
	})
}

// SetDeliveryDate schedules or reschedules delivery. The previous date is
// carried in the event payload.
func (s *DealStore) SetDeliveryDate(dealID string, date time.Time, actor string) {
	s.mu.Lock()
	deal, ok := s.deals[dealID]
	if !ok {
		s.mu.Unlock()
		return
	}
	now := s.Now()
	var previous *time.Time
	if deal.DeliveryDate != nil {
		prev := *deal.DeliveryDate
		previous = &prev
	}
	deal.DeliveryDate = &date
	s.appendActivity(&deal, domain.ActivityDeliveryScheduled,
		fmt.Sprintf("Delivery scheduled for %s", date.Format("2006-01-02")), actor, now, nil)
	s.stamp(&deal, now)
	s.deals[dealID] = deal
	s.mu.Unlock()

	payload := map[string]any{"deliveryDate": date}
	if previous != nil {
		payload["previousDate"] = *previous
	}
	s.record(events.EventDeliveryScheduled, deal, payload)
}

// ScheduleTestRide sets the test-ride date and records a test_ride activity.
// No domain event is defined for test rides.
func (s *DealStore) ScheduleTestRide(dealID string, date time.Time, actor string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deal, ok := s.deals[dealID]
	if !ok {
		return
	}
	now := s.Now()
	deal.TestRideDate = &date
	s.appendActivity(&deal, domain.ActivityTestRide,
		fmt.Sprintf("Test ride scheduled for %s", date.Format("2006-01-02")), actor, now, nil)
	s.stamp(&deal, now)
	s.deals[dealID] = deal
}

// appendActivity prepends an audit entry so the newest activity comes first.
// A fresh slice is allocated on every append; snapshots handed out earlier
// are never mutated in place.
func (s *DealStore) appendActivity(deal *domain.Deal, activityType domain.ActivityType, description, actor string, now time.Time, metadata map[string]any) {
	entry := domain.ActivityLog{
		ID:          uuid.NewString(),
		DealID:      deal.ID,
		Type:        activityType,
		Description: description,
		CreatedAt:   now,
		CreatedBy:   actor,
		Metadata:    metadata,
	}
	activities := make([]domain.ActivityLog, 0, len(deal.Activities)+1)
	activities = append(activities, entry)
	activities = append(activities, deal.Activities...)
	deal.Activities = activities
}

// stamp bumps UpdatedAt and keeps LastActivityAt monotonically non-decreasing.
func (s *DealStore) stamp(deal *domain.Deal, now time.Time) {
	deal.UpdatedAt = now
	if !now.Before(deal.LastActivityAt) {
		deal.LastActivityAt = now
	}
}

func (s *DealStore) record(eventType events.EventType, deal domain.Deal, payload map[string]any) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(eventType, deal, payload)
}

func generateDealNumber() string {
	return "DEAL-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
