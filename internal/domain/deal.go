package domain

import "time"

// Deal is the aggregate root for a sales transaction moving through the
// dealership lifecycle.
type Deal struct {
	ID             string
	DealNumber     string
	Customer       Customer
	Motorcycle     Motorcycle
	Phase          Phase
	Substatus      Substatus
	Payment        Payment
	TestRideDate   *time.Time
	DeliveryDate   *time.Time
	AssignedTo     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastActivityAt time.Time
	Activities     []ActivityLog
}
