// Package seed supplies the initial deal collection. Loading real data is an
// external concern; the service either reads a JSON fixture or falls back to
// a built-in sample set.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spec-kit/deal-service/internal/domain"
)

// LoadFile reads a deal collection from a JSON fixture. Field names are
// matched case-insensitively, so camelCase fixtures work as-is.
func LoadFile(path string) ([]domain.Deal, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var deals []domain.Deal
	if err := json.Unmarshal(raw, &deals); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return deals, nil
}

// Default returns the built-in sample collection, with timestamps placed
// relative to now so the smart queue has material to work with.
func Default(now time.Time) []domain.Deal {
	tenDaysAgo := now.AddDate(0, 0, -10)
	fiveDaysAgo := now.AddDate(0, 0, -5)
	threeDaysAgo := now.AddDate(0, 0, -3)
	yesterday := now.AddDate(0, 0, -1)
	delivered := now.AddDate(0, 0, -10)

	return []domain.Deal{
		{
			ID:         "deal-1001",
			DealNumber: "DEAL-2025-001",
			Customer: domain.Customer{
				ID:               "cust-1",
				FirstName:        "Jan",
				LastName:         "Jansen",
				Email:            "jan.jansen@example.com",
				Phone:            "+31612345678",
				PreferredChannel: domain.ChannelWhatsApp,
				WhatsAppOptIn:    true,
				CreatedAt:        tenDaysAgo,
			},
			Motorcycle: domain.Motorcycle{
				ID:        "moto-1",
				Brand:     "Ducati",
				Model:     "Panigale V4",
				Year:      2025,
				Color:     "Red",
				IsNewUnit: true,
			},
			Phase:     domain.PhaseLeadSales,
			Substatus: domain.SubstatusQuoteSent,
			Payment: domain.Payment{
				TotalPrice:      28500,
				DepositAmount:   2850,
				RemainingAmount: 28500,
			},
			AssignedTo:     "user-sales-1",
			CreatedAt:      tenDaysAgo,
			UpdatedAt:      threeDaysAgo,
			LastActivityAt: threeDaysAgo,
		},
		{
			ID:         "deal-1002",
			DealNumber: "DEAL-2025-002",
			Customer: domain.Customer{
				ID:               "cust-2",
				FirstName:        "Sanne",
				LastName:         "de Vries",
				Email:            "sanne.devries@example.com",
				Phone:            "+31687654321",
				PreferredChannel: domain.ChannelEmail,
				CreatedAt:        fiveDaysAgo,
			},
			Motorcycle: domain.Motorcycle{
				ID:        "moto-2",
				Brand:     "BMW",
				Model:     "R 1300 GS",
				Year:      2025,
				Color:     "Black",
				IsNewUnit: true,
			},
			Phase:     domain.PhasePayment,
			Substatus: domain.SubstatusDepositPending,
			Payment: domain.Payment{
				TotalPrice:      24900,
				DepositAmount:   2490,
				RemainingAmount: 24900,
			},
			AssignedTo:     "user-admin-1",
			CreatedAt:      fiveDaysAgo,
			UpdatedAt:      yesterday,
			LastActivityAt: yesterday,
		},
		{
			ID:         "deal-1003",
			DealNumber: "DEAL-2025-003",
			Customer: domain.Customer{
				ID:               "cust-3",
				FirstName:        "Pieter",
				LastName:         "Bakker",
				Email:            "pieter.bakker@example.com",
				Phone:            "+31611122233",
				PreferredChannel: domain.ChannelPhone,
				CreatedAt:        tenDaysAgo,
			},
			Motorcycle: domain.Motorcycle{
				ID:            "moto-3",
				Brand:         "Triumph",
				Model:         "Street Triple RS",
				Year:          2024,
				Color:         "Silver",
				StockLocation: "Warehouse A",
				IsNewUnit:     true,
			},
			Phase:     domain.PhaseWorkshop,
			Substatus: domain.SubstatusReadyForDelivery,
			Payment: domain.Payment{
				TotalPrice:      13950,
				DepositAmount:   1395,
				DepositPaid:     true,
				DepositPaidAt:   &fiveDaysAgo,
				RemainingAmount: 12555,
			},
			AssignedTo:     "user-workshop-1",
			CreatedAt:      tenDaysAgo,
			UpdatedAt:      yesterday,
			LastActivityAt: yesterday,
		},
		{
			ID:         "deal-1004",
			DealNumber: "DEAL-2025-004",
			Customer: domain.Customer{
				ID:               "cust-4",
				FirstName:        "Lisa",
				LastName:         "Visser",
				Email:            "lisa.visser@example.com",
				Phone:            "+31644455566",
				PreferredChannel: domain.ChannelWhatsApp,
				WhatsAppOptIn:    true,
				CreatedAt:        now.AddDate(0, 0, -30),
			},
			Motorcycle: domain.Motorcycle{
				ID:        "moto-4",
				Brand:     "Yamaha",
				Model:     "MT-09",
				Year:      2024,
				Color:     "Blue",
				IsNewUnit: false,
			},
			Phase:        domain.PhaseAftercare,
			Substatus:    domain.SubstatusFollowupPlanned,
			DeliveryDate: &delivered,
			Payment: domain.Payment{
				TotalPrice:      10400,
				DepositAmount:   1040,
				DepositPaid:     true,
				DepositPaidAt:   &tenDaysAgo,
				FullyPaid:       true,
				FullyPaidAt:     &delivered,
				RemainingAmount: 0,
			},
			AssignedTo:     "user-sales-1",
			CreatedAt:      now.AddDate(0, 0, -30),
			UpdatedAt:      delivered,
			LastActivityAt: delivered,
		},
	}
}
