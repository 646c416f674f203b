package domain

import "time"

// ContactChannel enumerates how a customer prefers to be reached.
type ContactChannel string

const (
	ChannelEmail    ContactChannel = "email"
	ChannelPhone    ContactChannel = "phone"
	ChannelWhatsApp ContactChannel = "whatsapp"
)

// Address is an optional postal address.
type Address struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// Customer snapshot embedded in a deal.
type Customer struct {
	ID               string
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	WhatsAppOptIn    bool
	PreferredChannel ContactChannel
	Address          *Address
	CreatedAt        time.Time
	Notes            string
}

// FullName joins first and last name for display and event context.
func (c Customer) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
