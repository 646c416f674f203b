package domain

// Phase is the top-level lifecycle stage of a deal.
type Phase string

const (
	PhaseLeadSales Phase = "lead_sales"
	PhasePayment   Phase = "payment"
	PhaseLogistics Phase = "logistics"
	PhaseWorkshop  Phase = "workshop"
	PhaseDelivery  Phase = "delivery"
	PhaseAftercare Phase = "aftercare"
)

// Phases lists every phase in business-process order.
var Phases = []Phase{
	PhaseLeadSales,
	PhasePayment,
	PhaseLogistics,
	PhaseWorkshop,
	PhaseDelivery,
	PhaseAftercare,
}

// Substatus is the fine-grained state within a phase.
type Substatus string

const (
	SubstatusNewLead         Substatus = "new_lead"
	SubstatusContactMade     Substatus = "contact_made"
	SubstatusTestRidePlanned Substatus = "test_ride_planned"
	SubstatusQuoteSent       Substatus = "quote_sent"
	SubstatusDealClosed      Substatus = "deal_closed"

	SubstatusDepositPending     Substatus = "deposit_pending"
	SubstatusDepositReceived    Substatus = "deposit_received"
	SubstatusFinancingRequested Substatus = "financing_requested"
	SubstatusFinancingApproved  Substatus = "financing_approved"
	SubstatusFullyPaid          Substatus = "fully_paid"

	SubstatusOrderPlaced       Substatus = "order_placed"
	SubstatusInTransit         Substatus = "in_transit"
	SubstatusReceivedWarehouse Substatus = "received_warehouse"
	SubstatusReadyForWorkshop  Substatus = "ready_for_workshop"

	SubstatusAwaitingUnit     Substatus = "awaiting_unit"
	SubstatusPrepStarted      Substatus = "prep_started"
	SubstatusAccessoryFitting Substatus = "accessory_fitting"
	SubstatusQualityCheck     Substatus = "quality_check"
	SubstatusReadyForDelivery Substatus = "ready_for_delivery"

	SubstatusPlanningDelivery  Substatus = "planning_delivery"
	SubstatusCustomerContacted Substatus = "customer_contacted"
	SubstatusDeliveryConfirmed Substatus = "delivery_confirmed"
	SubstatusDelivered         Substatus = "delivered"

	SubstatusFollowupPlanned Substatus = "followup_planned"
	SubstatusFollowupDone    Substatus = "followup_done"
	SubstatusReviewRequested Substatus = "review_requested"
	SubstatusCompleted       Substatus = "completed"
)

// SubstatusCatalog maps each phase to its closed, ordered substatus list.
var SubstatusCatalog = map[Phase][]Substatus{
	PhaseLeadSales: {
		SubstatusNewLead,
		SubstatusContactMade,
		SubstatusTestRidePlanned,
		SubstatusQuoteSent,
		SubstatusDealClosed,
	},
	PhasePayment: {
		SubstatusDepositPending,
		SubstatusDepositReceived,
		SubstatusFinancingRequested,
		SubstatusFinancingApproved,
		SubstatusFullyPaid,
	},
	PhaseLogistics: {
		SubstatusOrderPlaced,
		SubstatusInTransit,
		SubstatusReceivedWarehouse,
		SubstatusReadyForWorkshop,
	},
	PhaseWorkshop: {
		SubstatusAwaitingUnit,
		SubstatusPrepStarted,
		SubstatusAccessoryFitting,
		SubstatusQualityCheck,
		SubstatusReadyForDelivery,
	},
	PhaseDelivery: {
		SubstatusPlanningDelivery,
		SubstatusCustomerContacted,
		SubstatusDeliveryConfirmed,
		SubstatusDelivered,
	},
	PhaseAftercare: {
		SubstatusFollowupPlanned,
		SubstatusFollowupDone,
		SubstatusReviewRequested,
		SubstatusCompleted,
	},
}

// ValidPhase reports whether p belongs to the phase catalog.
func ValidPhase(p Phase) bool {
	_, ok := SubstatusCatalog[p]
	return ok
}

// ValidSubstatus reports whether s belongs to the substatus set of phase p.
func ValidSubstatus(p Phase, s Substatus) bool {
	for _, candidate := range SubstatusCatalog[p] {
		if candidate == s {
			return true
		}
	}
	return false
}

// DefaultSubstatus returns the first substatus of the phase's catalog.
func DefaultSubstatus(p Phase) Substatus {
	options := SubstatusCatalog[p]
	if len(options) == 0 {
		return ""
	}
	return options[0]
}
