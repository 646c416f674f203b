package queue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/deal-service/internal/domain"
	"github.com/spec-kit/deal-service/internal/queue"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func makeDeal(id string, phase domain.Phase, substatus domain.Substatus) domain.Deal {
	return domain.Deal{
		ID:             id,
		DealNumber:     "DEAL-" + id,
		Customer:       domain.Customer{FirstName: "Jan", LastName: "Jansen"},
		Motorcycle:     domain.Motorcycle{Brand: "Ducati", Model: "Monster"},
		Phase:          phase,
		Substatus:      substatus,
		Payment:        domain.Payment{TotalPrice: 15000, DepositAmount: 1500, RemainingAmount: 15000},
		CreatedAt:      now.AddDate(0, 0, -1),
		UpdatedAt:      now.AddDate(0, 0, -1),
		LastActivityAt: now.Add(-time.Hour),
	}
}

func itemsOfType(items []queue.Item, rule queue.RuleType) []queue.Item {
	var out []queue.Item
	for _, item := range items {
		if item.RuleType == rule {
			out = append(out, item)
		}
	}
	return out
}

func TestDepositOverdue(t *testing.T) {
	deal := makeDeal("d1", domain.PhasePayment, domain.SubstatusDepositPending)
	deal.CreatedAt = now.AddDate(0, 0, -4)

	items := queue.Evaluate([]domain.Deal{deal}, now)

	matches := itemsOfType(items, queue.RuleDepositOverdue)
	require.Len(t, matches, 1)
	assert.Equal(t, queue.PriorityUrgent, matches[0].Priority)
	assert.Equal(t, "queue-d1-deposit", matches[0].ID)
	assert.Equal(t, "d1", matches[0].DealID)
}

func TestDepositOverdueNotTriggeredWhenPaid(t *testing.T) {
	deal := makeDeal("d1", domain.PhasePayment, domain.SubstatusDepositPending)
	deal.CreatedAt = now.AddDate(0, 0, -4)
	deal.Payment.DepositPaid = true

	items := queue.Evaluate([]domain.Deal{deal}, now)
	assert.Empty(t, itemsOfType(items, queue.RuleDepositOverdue))
}

func TestDeliveryUpcomingWithinTwoDaysIsUrgent(t *testing.T) {
	deal := makeDeal("d1", domain.PhaseWorkshop, domain.SubstatusQualityCheck)
	delivery := now.AddDate(0, 0, 2)
	deal.DeliveryDate = &delivery

	items := queue.Evaluate([]domain.Deal{deal}, now)

	matches := itemsOfType(items, queue.RuleDeliveryUpcoming)
	require.Len(t, matches, 1)
	assert.Equal(t, queue.PriorityUrgent, matches[0].Priority)
	require.NotNil(t, matches[0].DueDate)
	assert.Equal(t, delivery, *matches[0].DueDate)
}

func TestDeliveryUpcomingLaterIsNormal(t *testing.T) {
	deal := makeDeal("d1", domain.PhaseWorkshop, domain.SubstatusQualityCheck)
	delivery := now.AddDate(0, 0, 5)
	deal.DeliveryDate = &delivery

	items := queue.Evaluate([]domain.Deal{deal}, now)

	matches := itemsOfType(items, queue.RuleDeliveryUpcoming)
	require.Len(t, matches, 1)
	assert.Equal(t, queue.PriorityNormal, matches[0].Priority)
}

func TestDeliveryUpcomingSkipsAftercareAndFarDates(t *testing.T) {
	aftercare := makeDeal("d1", domain.PhaseAftercare, domain.SubstatusFollowupDone)
	delivery := now.AddDate(0, 0, 2)
	aftercare.DeliveryDate = &delivery

	far := makeDeal("d2", domain.PhaseWorkshop, domain.SubstatusQualityCheck)
	farDate := now.AddDate(0, 0, 9)
	far.DeliveryDate = &farDate

	past := makeDeal("d3", domain.PhaseDelivery, domain.SubstatusDelivered)
	pastDate := now.AddDate(0, 0, -2)
	past.DeliveryDate = &pastDate

	items := queue.Evaluate([]domain.Deal{aftercare, far, past}, now)
	assert.Empty(t, itemsOfType(items, queue.RuleDeliveryUpcoming))
}

func TestFirstFollowupOverdueIsUrgent(t *testing.T) {
	deal := makeDeal("d1", domain.PhaseAftercare, domain.SubstatusFollowupPlanned)
	delivery := now.AddDate(0, 0, -10)
	deal.DeliveryDate = &delivery

	items := queue.Evaluate([]domain.Deal{deal}, now)

	matches := itemsOfType(items, queue.RuleFirstFollowup)
	require.Len(t, matches, 1)
	assert.Equal(t, queue.PriorityUrgent, matches[0].Priority)
	require.NotNil(t, matches[0].DueDate)
	assert.Equal(t, delivery.Add(7*24*time.Hour), *matches[0].DueDate)
}

func TestFirstFollowupNeedsSevenDays(t *testing.T) {
	deal := makeDeal("d1", domain.PhaseAftercare, domain.SubstatusFollowupPlanned)
	delivery := now.AddDate(0, 0, -5)
	deal.DeliveryDate = &delivery

	items := queue.Evaluate([]domain.Deal{deal}, now)
	assert.Empty(t, itemsOfType(items, queue.RuleFirstFollowup))
}

func TestOfferFollowupThreshold(t *testing.T) {
	fresh := makeDeal("d1", domain.PhaseLeadSales, domain.SubstatusQuoteSent)
	fresh.LastActivityAt = now.AddDate(0, 0, -1)

	stale := makeDeal("d2", domain.PhaseLeadSales, domain.SubstatusQuoteSent)
	stale.LastActivityAt = now.AddDate(0, 0, -3)

	items := queue.Evaluate([]domain.Deal{fresh, stale}, now)

	matches := itemsOfType(items, queue.RuleOfferFollowup)
	require.Len(t, matches, 1)
	assert.Equal(t, "d2", matches[0].DealID)
	assert.Equal(t, queue.PriorityNormal, matches[0].Priority)
}

func TestTestRideToday(t *testing.T) {
	today := makeDeal("d1", domain.PhaseLeadSales, domain.SubstatusTestRidePlanned)
	rideAt := time.Date(now.Year(), now.Month(), now.Day(), 16, 30, 0, 0, time.UTC)
	today.TestRideDate = &rideAt

	tomorrow := makeDeal("d2", domain.PhaseLeadSales, domain.SubstatusTestRidePlanned)
	tomorrowRide := now.AddDate(0, 0, 1)
	tomorrow.TestRideDate = &tomorrowRide

	items := queue.Evaluate([]domain.Deal{today, tomorrow}, now)

	matches := itemsOfType(items, queue.RuleTestRideToday)
	require.Len(t, matches, 1)
	assert.Equal(t, "d1", matches[0].DealID)
	assert.Equal(t, queue.PriorityUrgent, matches[0].Priority)
}

func TestUnitInStock(t *testing.T) {
	warehouse := makeDeal("d1", domain.PhaseLogistics, domain.SubstatusReceivedWarehouse)
	ready := makeDeal("d2", domain.PhaseLogistics, domain.SubstatusReadyForWorkshop)
	transit := makeDeal("d3", domain.PhaseLogistics, domain.SubstatusInTransit)

	items := queue.Evaluate([]domain.Deal{warehouse, ready, transit}, now)

	matches := itemsOfType(items, queue.RuleUnitInStock)
	require.Len(t, matches, 2)
	assert.Equal(t, queue.PriorityNormal, matches[0].Priority)
}

func TestUnitReadyWithoutDeliveryDate(t *testing.T) {
	unplanned := makeDeal("d1", domain.PhaseWorkshop, domain.SubstatusReadyForDelivery)

	planned := makeDeal("d2", domain.PhaseWorkshop, domain.SubstatusReadyForDelivery)
	delivery := now.AddDate(0, 0, 10)
	planned.DeliveryDate = &delivery

	items := queue.Evaluate([]domain.Deal{unplanned, planned}, now)

	matches := itemsOfType(items, queue.RuleUnitReady)
	require.Len(t, matches, 1)
	assert.Equal(t, "d1", matches[0].DealID)
	assert.Equal(t, queue.PriorityUrgent, matches[0].Priority)
}

func TestNoActivitySkipsAftercare(t *testing.T) {
	quiet := makeDeal("d1", domain.PhaseLogistics, domain.SubstatusInTransit)
	quiet.LastActivityAt = now.AddDate(0, 0, -4)

	aftercare := makeDeal("d2", domain.PhaseAftercare, domain.SubstatusFollowupDone)
	aftercare.LastActivityAt = now.AddDate(0, 0, -30)

	items := queue.Evaluate([]domain.Deal{quiet, aftercare}, now)

	matches := itemsOfType(items, queue.RuleNoActivity)
	require.Len(t, matches, 1)
	assert.Equal(t, "d1", matches[0].DealID)
}

func TestOneDealCanProduceSeveralItems(t *testing.T) {
	deal := makeDeal("d1", domain.PhaseLeadSales, domain.SubstatusQuoteSent)
	deal.LastActivityAt = now.AddDate(0, 0, -5)

	items := queue.Evaluate([]domain.Deal{deal}, now)

	assert.Len(t, itemsOfType(items, queue.RuleOfferFollowup), 1)
	assert.Len(t, itemsOfType(items, queue.RuleNoActivity), 1)
}

func TestRankingPutsUrgentFirst(t *testing.T) {
	overdue := makeDeal("d1", domain.PhasePayment, domain.SubstatusDepositPending)
	overdue.CreatedAt = now.AddDate(0, 0, -4)

	quote := makeDeal("d2", domain.PhaseLeadSales, domain.SubstatusQuoteSent)
	quote.LastActivityAt = now.AddDate(0, 0, -2)

	items := queue.Evaluate([]domain.Deal{quote, overdue}, now)

	require.NotEmpty(t, items)
	seenNormal := false
	for _, item := range items {
		if item.Priority == queue.PriorityNormal {
			seenNormal = true
		}
		if seenNormal {
			assert.Equal(t, queue.PriorityNormal, item.Priority)
		}
	}
	assert.Equal(t, queue.PriorityUrgent, items[0].Priority)
	assert.Equal(t, queue.RuleDepositOverdue, items[0].RuleType)
}

func TestItemIdentityIsStableAcrossRecomputations(t *testing.T) {
	deal := makeDeal("d1", domain.PhasePayment, domain.SubstatusDepositPending)
	deal.CreatedAt = now.AddDate(0, 0, -4)
	deals := []domain.Deal{deal}

	first := queue.Evaluate(deals, now)
	second := queue.Evaluate(deals, now)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].RuleType, second[i].RuleType)
		assert.Equal(t, first[i].DealID, second[i].DealID)
	}
}

func TestCountsOnEmptyCollection(t *testing.T) {
	items := queue.Evaluate(nil, now)
	assert.Empty(t, items)
	assert.Zero(t, queue.UrgentCount(items))
}

func TestUrgentCountMatchesRankedList(t *testing.T) {
	overdue := makeDeal("d1", domain.PhasePayment, domain.SubstatusDepositPending)
	overdue.CreatedAt = now.AddDate(0, 0, -4)

	ready := makeDeal("d2", domain.PhaseWorkshop, domain.SubstatusReadyForDelivery)

	quote := makeDeal("d3", domain.PhaseLeadSales, domain.SubstatusQuoteSent)
	quote.LastActivityAt = now.AddDate(0, 0, -2)

	items := queue.Evaluate([]domain.Deal{overdue, ready, quote}, now)

	expected := 0
	for _, item := range items {
		if item.Priority == queue.PriorityUrgent {
			expected++
		}
	}
	assert.Equal(t, expected, queue.UrgentCount(items))
	assert.Equal(t, 2, queue.UrgentCount(items))
}
