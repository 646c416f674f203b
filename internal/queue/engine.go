// Package queue derives the prioritized worklist ("smart queue") from the
// current deal collection and wall-clock time. Evaluation is a pure function:
// the engine holds no state and recomputes the full list on every call.
package queue

import (
	"fmt"
	"sort"
	"time"

	"github.com/spec-kit/deal-service/internal/domain"
)

// Priority ranks queue items.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
)

// RuleType identifies which rule produced a queue item.
type RuleType string

const (
	RuleOfferFollowup    RuleType = "offer_followup"
	RuleDepositOverdue   RuleType = "deposit_overdue"
	RuleTestRideToday    RuleType = "test_ride_today"
	RuleDeliveryUpcoming RuleType = "delivery_upcoming"
	RuleUnitInStock      RuleType = "unit_in_stock"
	RuleUnitReady        RuleType = "unit_ready"
	RuleNoActivity       RuleType = "no_activity"
	RuleFirstFollowup    RuleType = "first_followup"
)

// Item is a derived, ephemeral queue entry. Its identifier is deterministic
// over (deal, rule) so the same condition always yields the same identity
// across recomputations.
type Item struct {
	ID          string     `json:"id"`
	DealID      string     `json:"dealId"`
	RuleType    RuleType   `json:"ruleType"`
	Priority    Priority   `json:"priority"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

var ruleSuffixes = map[RuleType]string{
	RuleOfferFollowup:    "offer",
	RuleDepositOverdue:   "deposit",
	RuleTestRideToday:    "testride",
	RuleDeliveryUpcoming: "delivery",
	RuleUnitInStock:      "stock",
	RuleUnitReady:        "ready",
	RuleNoActivity:       "inactive",
	RuleFirstFollowup:    "followup",
}

func itemID(dealID string, rule RuleType) string {
	return "queue-" + dealID + "-" + ruleSuffixes[rule]
}

type rule func(deal domain.Deal, now time.Time) *Item

var rules = []rule{
	checkOfferFollowup,
	checkDepositOverdue,
	checkTestRideToday,
	checkDeliveryUpcoming,
	checkUnitInStock,
	checkUnitReady,
	checkNoActivity,
	checkFirstFollowup,
}

// Evaluate checks every rule against every deal and returns the ranked list:
// urgent items first, then normal. Within a priority the order tracks deal
// iteration order and is not guaranteed stable across recomputations.
func Evaluate(deals []domain.Deal, now time.Time) []Item {
	items := []Item{}
	for _, deal := range deals {
		for _, check := range rules {
			if item := check(deal, now); item != nil {
				items = append(items, *item)
			}
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority == PriorityUrgent
		}
		return items[j].CreatedAt.Before(items[i].CreatedAt)
	})
	return items
}

// UrgentCount counts the urgent items in an evaluated list.
func UrgentCount(items []Item) int {
	count := 0
	for _, item := range items {
		if item.Priority == PriorityUrgent {
			count++
		}
	}
	return count
}

// daysSince returns whole days elapsed from t to now, truncated.
func daysSince(now, t time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}

// daysUntil returns whole days from now until t, truncated.
func daysUntil(t, now time.Time) int {
	return int(t.Sub(now).Hours() / 24)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func checkOfferFollowup(deal domain.Deal, now time.Time) *Item {
	if deal.Phase != domain.PhaseLeadSales || deal.Substatus != domain.SubstatusQuoteSent {
		return nil
	}
	days := daysSince(now, deal.LastActivityAt)
	if days < 2 {
		return nil
	}
	return &Item{
		ID:          itemID(deal.ID, RuleOfferFollowup),
		DealID:      deal.ID,
		RuleType:    RuleOfferFollowup,
		Priority:    PriorityNormal,
		Title:       "Follow up on quote",
		Description: fmt.Sprintf("%s - %d days since quote", deal.Customer.FullName(), days),
		CreatedAt:   now,
	}
}

func checkDepositOverdue(deal domain.Deal, now time.Time) *Item {
	if deal.Phase != domain.PhasePayment || deal.Substatus != domain.SubstatusDepositPending {
		return nil
	}
	if deal.Payment.DepositPaid {
		return nil
	}
	if daysSince(now, deal.CreatedAt) < 3 {
		return nil
	}
	return &Item{
		ID:          itemID(deal.ID, RuleDepositOverdue),
		DealID:      deal.ID,
		RuleType:    RuleDepositOverdue,
		Priority:    PriorityUrgent,
		Title:       "Deposit outstanding",
		Description: fmt.Sprintf("%s - €%.2f outstanding", deal.Customer.FullName(), deal.Payment.DepositAmount),
		CreatedAt:   now,
	}
}

func checkTestRideToday(deal domain.Deal, now time.Time) *Item {
	if deal.TestRideDate == nil || !sameDay(*deal.TestRideDate, now) {
		return nil
	}
	due := *deal.TestRideDate
	return &Item{
		ID:          itemID(deal.ID, RuleTestRideToday),
		DealID:      deal.ID,
		RuleType:    RuleTestRideToday,
		Priority:    PriorityUrgent,
		Title:       "Test ride today",
		Description: fmt.Sprintf("%s - %s %s", deal.Customer.FullName(), deal.Motorcycle.Brand, deal.Motorcycle.Model),
		DueDate:     &due,
		CreatedAt:   now,
	}
}

func checkDeliveryUpcoming(deal domain.Deal, now time.Time) *Item {
	if deal.DeliveryDate == nil || deal.Phase == domain.PhaseAftercare {
		return nil
	}
	days := daysUntil(*deal.DeliveryDate, now)
	if days < 0 || days > 7 {
		return nil
	}
	priority := PriorityNormal
	if days <= 2 {
		priority = PriorityUrgent
	}
	due := *deal.DeliveryDate
	return &Item{
		ID:          itemID(deal.ID, RuleDeliveryUpcoming),
		DealID:      deal.ID,
		RuleType:    RuleDeliveryUpcoming,
		Priority:    priority,
		Title:       "Delivery upcoming",
		Description: fmt.Sprintf("%s - in %d day(s)", deal.Customer.FullName(), days),
		DueDate:     &due,
		CreatedAt:   now,
	}
}

func checkUnitInStock(deal domain.Deal, now time.Time) *Item {
	if deal.Phase != domain.PhaseLogistics {
		return nil
	}
	if deal.Substatus != domain.SubstatusReceivedWarehouse && deal.Substatus != domain.SubstatusReadyForWorkshop {
		return nil
	}
	return &Item{
		ID:          itemID(deal.ID, RuleUnitInStock),
		DealID:      deal.ID,
		RuleType:    RuleUnitInStock,
		Priority:    PriorityNormal,
		Title:       "Unit in stock",
		Description: fmt.Sprintf("%s %s - ready for workshop", deal.Motorcycle.Brand, deal.Motorcycle.Model),
		CreatedAt:   now,
	}
}

func checkUnitReady(deal domain.Deal, now time.Time) *Item {
	if deal.Phase != domain.PhaseWorkshop || deal.Substatus != domain.SubstatusReadyForDelivery {
		return nil
	}
	if deal.DeliveryDate != nil {
		return nil
	}
	return &Item{
		ID:          itemID(deal.ID, RuleUnitReady),
		DealID:      deal.ID,
		RuleType:    RuleUnitReady,
		Priority:    PriorityUrgent,
		Title:       "Unit ready, no delivery date",
		Description: fmt.Sprintf("%s - schedule delivery", deal.Customer.FullName()),
		CreatedAt:   now,
	}
}

func checkNoActivity(deal domain.Deal, now time.Time) *Item {
	if deal.Phase == domain.PhaseAftercare {
		return nil
	}
	days := daysSince(now, deal.LastActivityAt)
	if days < 3 {
		return nil
	}
	return &Item{
		ID:          itemID(deal.ID, RuleNoActivity),
		DealID:      deal.ID,
		RuleType:    RuleNoActivity,
		Priority:    PriorityNormal,
		Title:       "No recent activity",
		Description: fmt.Sprintf("%s - %d days inactive", deal.Customer.FullName(), days),
		CreatedAt:   now,
	}
}

func checkFirstFollowup(deal domain.Deal, now time.Time) *Item {
	if deal.Phase != domain.PhaseAftercare || deal.Substatus != domain.SubstatusFollowupPlanned {
		return nil
	}
	if deal.DeliveryDate == nil {
		return nil
	}
	if daysSince(now, *deal.DeliveryDate) < 7 {
		return nil
	}
	followUp := deal.DeliveryDate.Add(7 * 24 * time.Hour)
	priority := PriorityNormal
	if followUp.Before(now) {
		priority = PriorityUrgent
	}
	return &Item{
		ID:          itemID(deal.ID, RuleFirstFollowup),
		DealID:      deal.ID,
		RuleType:    RuleFirstFollowup,
		Priority:    priority,
		Title:       "First follow-up after delivery",
		Description: fmt.Sprintf("%s - check in on the experience", deal.Customer.FullName()),
		DueDate:     &followUp,
		CreatedAt:   now,
	}
}
