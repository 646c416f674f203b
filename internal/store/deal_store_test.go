package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/deal-service/internal/domain"
	"github.com/spec-kit/deal-service/internal/events"
	"github.com/spec-kit/deal-service/internal/store"
)

type testEnv struct {
	store    *store.DealStore
	recorder *events.Recorder
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	env := &testEnv{
		recorder: events.NewRecorder(nil, logger),
		now:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	env.store = store.New(env.recorder, logger)
	env.store.Now = func() time.Time { return env.now }
	env.recorder.Now = func() time.Time { return env.now }
	return env
}

func (env *testEnv) advance(d time.Duration) {
	env.now = env.now.Add(d)
}

func (env *testEnv) seedDeal(phase domain.Phase, substatus domain.Substatus, payment domain.Payment) domain.Deal {
	deal := domain.Deal{
		ID:         "deal-1",
		DealNumber: "DEAL-TEST0001",
		Customer: domain.Customer{
			ID:               "cust-1",
			FirstName:        "Jan",
			LastName:         "Jansen",
			Email:            "jan@example.com",
			Phone:            "+31600000000",
			PreferredChannel: domain.ChannelEmail,
		},
		Motorcycle: domain.Motorcycle{Brand: "Ducati", Model: "Monster", Year: 2025, Color: "Red"},
		Phase:      phase,
		Substatus:  substatus,
		Payment:    payment,
		CreatedAt:  env.now,
	}
	env.store.Seed([]domain.Deal{deal})
	seeded, _ := env.store.Get(deal.ID)
	return seeded
}

func lastEvent(t *testing.T, env *testEnv) events.Event {
	t.Helper()
	history := env.recorder.History()
	require.NotEmpty(t, history)
	return history[len(history)-1]
}

func TestChangePhaseSetsPhaseAndLogsActivity(t *testing.T) {
	env := newTestEnv(t)
	env.seedDeal(domain.PhaseLeadSales, domain.SubstatusDealClosed, domain.Payment{TotalPrice: 10000})
	env.advance(time.Hour)

	env.store.ChangePhase("deal-1", domain.PhasePayment, domain.SubstatusDepositPending, "tester")

	deal, ok := env.store.Get("deal-1")
	require.True(t, ok)
	assert.Equal(t, domain.PhasePayment, deal.Phase)
	assert.Equal(t, domain.SubstatusDepositPending, deal.Substatus)
	assert.Equal(t, env.now, deal.UpdatedAt)
	assert.Equal(t, env.now, deal.LastActivityAt)

	require.NotEmpty(t, deal.Activities)
	newest := deal.Activities[0]
	assert.Equal(t, domain.ActivityPhaseChange, newest.Type)
	assert.Equal(t, "tester", newest.CreatedBy)
	assert.Equal(t, "deal-1", newest.DealID)

	event := lastEvent(t, env)
	assert.Equal(t, events.EventPhaseChanged, event.Type)
	assert.Equal(t, domain.PhaseLeadSales, event.Payload["oldPhase"])
	assert.Equal(t, domain.PhasePayment, event.Payload["newPhase"])
	assert.Equal(t, domain.SubstatusDepositPending, event.Payload["newSubstatus"])
	assert.Equal(t, domain.PhasePayment, event.Context.CurrentPhase)
}

func TestChangePhaseResetsForeignSubstatus(t *testing.T) {
	env := newTestEnv(t)
	env.seedDeal(domain.PhaseLeadSales, domain.SubstatusQuoteSent, domain.Payment{TotalPrice: 10000})

	// no substatus supplied
	env.store.ChangePhase("deal-1", domain.PhasePayment, "", "tester")
	deal, _ := env.store.Get("deal-1")
	assert.Equal(t, domain.SubstatusDepositPending, deal.Substatus)

	// substatus from another phase's catalog
	env.store.ChangePhase("deal-1", domain.PhaseLogistics, domain.SubstatusQuoteSent, "tester")
	deal, _ = env.store.Get("deal-1")
	assert.Equal(t, domain.PhaseLogistics, deal.Phase)
	assert.Equal(t, domain.SubstatusOrderPlaced, deal.Substatus)
}

func TestChangeSubstatusRecordsWhateverIsSubmitted(t *testing.T) {
	env := newTestEnv(t)
	env.seedDeal(domain.PhasePayment, domain.SubstatusDepositPending, domain.Payment{TotalPrice: 10000})

	env.store.ChangeSubstatus("deal-1", domain.SubstatusDepositReceived, "tester")

	deal, _ := env.store.Get("deal-1")
	assert.Equal(t, domain.SubstatusDepositReceived, deal.Substatus)
	assert.Equal(t, domain.ActivitySubstatusChange, deal.Activities[0].Type)

	event := lastEvent(t, env)
	assert.Equal(t, events.EventSubstatusChanged, event.Type)
	assert.Equal(t, domain.SubstatusDepositPending, event.Payload["oldSubstatus"])
}

func TestMutationsIgnoreUnknownDeal(t *testing.T) {
	env := newTestEnv(t)
	env.seedDeal(domain.PhaseLeadSales, domain.SubstatusNewLead, domain.Payment{TotalPrice: 5000})
	before, _ := env.store.Get("deal-1")

	env.store.ChangePhase("ghost", domain.PhasePayment, "", "tester")
	env.store.ChangeSubstatus("ghost", domain.SubstatusDepositPending, "tester")
	env.store.AddActivity("ghost", store.ActivityInput{Description: "note"}, "tester")
	env.store.MarkDepositPaid("ghost", "tester")
	env.store.MarkFullyPaid("ghost", "tester")
	env.store.SetDeliveryDate("ghost", env.now, "tester")
	env.store.ScheduleTestRide("ghost", env.now, "tester")

	assert.Empty(t, env.recorder.History())
	after, _ := env.store.Get("deal-1")
	assert.Equal(t, before, after)
	assert.Len(t, env.store.List(), 1)
}

func TestMarkDepositPaid(t *testing.T) {
	cases := []struct {
		name    string
		total   float64
		deposit float64
	}{
		{"typical", 28500, 2850},
		{"deposit equals total", 1000, 1000},
		{"zero deposit", 1000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.seedDeal(domain.PhasePayment, domain.SubstatusDepositPending, domain.Payment{
				TotalPrice:      tc.total,
				DepositAmount:   tc.deposit,
				RemainingAmount: tc.total,
			})
			env.advance(time.Minute)

			env.store.MarkDepositPaid("deal-1", "tester")

			deal, _ := env.store.Get("deal-1")
			assert.True(t, deal.Payment.DepositPaid)
			require.NotNil(t, deal.Payment.DepositPaidAt)
			assert.Equal(t, env.now, *deal.Payment.DepositPaidAt)
			assert.Equal(t, tc.total-tc.deposit, deal.Payment.RemainingAmount)
			assert.Equal(t, domain.ActivityPaymentReceived, deal.Activities[0].Type)

			event := lastEvent(t, env)
			assert.Equal(t, events.EventDepositReceived, event.Type)
			assert.Equal(t, tc.deposit, event.Payload["amount"])
		})
	}
}

func TestMarkFullyPaidIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.seedDeal(domain.PhasePayment, domain.SubstatusDepositReceived, domain.Payment{
		TotalPrice:      10000,
		DepositAmount:   1000,
		DepositPaid:     true,
		RemainingAmount: 9000,
	})

	env.store.MarkFullyPaid("deal-1", "tester")
	deal, _ := env.store.Get("deal-1")
	require.NotNil(t, deal.Payment.FullyPaidAt)
	firstPaidAt := *deal.Payment.FullyPaidAt

	env.advance(time.Hour)
	env.store.MarkFullyPaid("deal-1", "tester")

	deal, _ = env.store.Get("deal-1")
	assert.True(t, deal.Payment.FullyPaid)
	assert.Zero(t, deal.Payment.RemainingAmount)
	assert.Equal(t, firstPaidAt, *deal.Payment.FullyPaidAt)

	event := lastEvent(t, env)
	assert.Equal(t, events.EventFullyPaid, event.Type)
}

func TestEveryMutationBumpsTimestamps(t *testing.T) {
	env := newTestEnv(t)
	env.seedDeal(domain.PhaseLeadSales, domain.SubstatusNewLead, domain.Payment{TotalPrice: 5000})

	previous, _ := env.store.Get("deal-1")
	mutations := []func(){
		func() { env.store.ChangePhase("deal-1", domain.PhasePayment, "", "tester") },
		func() { env.store.ChangeSubstatus("deal-1", domain.SubstatusDepositReceived, "tester") },
		func() { env.store.AddActivity("deal-1", store.ActivityInput{Description: "called customer"}, "tester") },
		func() { env.store.MarkDepositPaid("deal-1", "tester") },
		func() { env.store.MarkFullyPaid("deal-1", "tester") },
		func() { env.store.SetDeliveryDate("deal-1", env.now.AddDate(0, 0, 5), "tester") },
		func() { env.store.ScheduleTestRide("deal-1", env.now.AddDate(0, 0, 1), "tester") },
	}

	for _, mutate := range mutations {
		env.advance(time.Minute)
		mutate()
		current, _ := env.store.Get("deal-1")
		assert.True(t, current.LastActivityAt.After(previous.LastActivityAt))
		assert.True(t, !current.UpdatedAt.Before(previous.UpdatedAt))
		assert.True(t, !current.UpdatedAt.Before(current.CreatedAt))
		previous = current
	}
}

func TestAddActivityEmitsNoEvent(t *testing.T) {
	env := newTestEnv(t)
	env.seedDeal(domain.PhaseLeadSales, domain.SubstatusNewLead, domain.Payment{TotalPrice: 5000})

	env.store.AddActivity("deal-1", store.ActivityInput{Description: "left voicemail"}, "tester")

	assert.Empty(t, env.recorder.History())
	deal, _ := env.store.Get("deal-1")
	require.Len(t, deal.Activities, 1)
	assert.Equal(t, domain.ActivityNoteAdded, deal.Activities[0].Type)
	assert.Equal(t, "left voicemail", deal.Activities[0].Description)
}

func TestSetDeliveryDateCarriesPreviousDate(t *testing.T) {
	env := newTestEnv(t)
	env.seedDeal(domain.PhaseWorkshop, domain.SubstatusReadyForDelivery, domain.Payment{TotalPrice: 5000})

	first := env.now.AddDate(0, 0, 3)
	env.store.SetDeliveryDate("deal-1", first, "tester")
	event := lastEvent(t, env)
	assert.Equal(t, events.EventDeliveryScheduled, event.Type)
	assert.Equal(t, first, event.Payload["deliveryDate"])
	_, hasPrevious := event.Payload["previousDate"]
	assert.False(t, hasPrevious)

	second := env.now.AddDate(0, 0, 5)
	env.store.SetDeliveryDate("deal-1", second, "tester")
	event = lastEvent(t, env)
	assert.Equal(t, second, event.Payload["deliveryDate"])
	assert.Equal(t, first, event.Payload["previousDate"])

	deal, _ := env.store.Get("deal-1")
	require.NotNil(t, deal.DeliveryDate)
	assert.Equal(t, second, *deal.DeliveryDate)
}

func TestScheduleTestRide(t *testing.T) {
	env := newTestEnv(t)
	env.seedDeal(domain.PhaseLeadSales, domain.SubstatusContactMade, domain.Payment{TotalPrice: 5000})

	date := env.now.AddDate(0, 0, 2)
	env.store.ScheduleTestRide("deal-1", date, "tester")

	deal, _ := env.store.Get("deal-1")
	require.NotNil(t, deal.TestRideDate)
	assert.Equal(t, date, *deal.TestRideDate)
	assert.Equal(t, domain.ActivityTestRide, deal.Activities[0].Type)
	assert.Empty(t, env.recorder.History())
}

func TestCreateDealDefaults(t *testing.T) {
	env := newTestEnv(t)

	deal := env.store.CreateDeal(store.CreateDealInput{
		Customer:   domain.Customer{FirstName: "Sanne", LastName: "de Vries"},
		Motorcycle: domain.Motorcycle{Brand: "BMW", Model: "R 1300 GS"},
		Payment:    domain.Payment{TotalPrice: 24900, DepositAmount: 2490},
		AssignedTo: "user-sales-1",
	}, "tester")

	assert.NotEmpty(t, deal.ID)
	assert.Regexp(t, `^DEAL-[0-9A-F]{8}$`, deal.DealNumber)
	assert.Equal(t, domain.PhaseLeadSales, deal.Phase)
	assert.Equal(t, domain.SubstatusNewLead, deal.Substatus)
	assert.Equal(t, 24900.0, deal.Payment.RemainingAmount)
	assert.Equal(t, env.now, deal.CreatedAt)
	assert.Equal(t, env.now, deal.LastActivityAt)
	require.Len(t, deal.Activities, 1)

	stored, ok := env.store.Get(deal.ID)
	require.True(t, ok)
	assert.Equal(t, deal, stored)

	event := lastEvent(t, env)
	assert.Equal(t, events.EventDealCreated, event.Type)
	assert.Equal(t, deal.DealNumber, event.Payload["dealNumber"])
}

func TestSeedResetsForeignSubstatus(t *testing.T) {
	env := newTestEnv(t)
	env.store.Seed([]domain.Deal{{
		ID:        "deal-x",
		Phase:     domain.PhaseWorkshop,
		Substatus: domain.SubstatusQuoteSent,
		CreatedAt: env.now,
	}})

	deal, ok := env.store.Get("deal-x")
	require.True(t, ok)
	assert.Equal(t, domain.SubstatusAwaitingUnit, deal.Substatus)
	assert.Equal(t, env.now, deal.UpdatedAt)
	assert.Equal(t, env.now, deal.LastActivityAt)
}

func TestListReturnsInsertionOrder(t *testing.T) {
	env := newTestEnv(t)
	env.store.Seed([]domain.Deal{
		{ID: "a", Phase: domain.PhaseLeadSales, Substatus: domain.SubstatusNewLead, CreatedAt: env.now},
		{ID: "b", Phase: domain.PhasePayment, Substatus: domain.SubstatusDepositPending, CreatedAt: env.now},
	})

	deals := env.store.List()
	require.Len(t, deals, 2)
	assert.Equal(t, "a", deals[0].ID)
	assert.Equal(t, "b", deals[1].ID)
}
