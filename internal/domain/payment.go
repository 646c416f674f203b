package domain

import "time"

// Payment tracks the money side of a deal. Once DepositPaid is set,
// RemainingAmount equals TotalPrice minus DepositAmount; once FullyPaid is
// set, RemainingAmount is zero and never reverts.
type Payment struct {
	TotalPrice         float64
	DepositAmount      float64
	DepositPaid        bool
	DepositPaidAt      *time.Time
	RemainingAmount    float64
	FinancingRequested bool
	FinancingApproved  bool
	FullyPaid          bool
	FullyPaidAt        *time.Time
}
