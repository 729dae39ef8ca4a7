package models

import "time"

// Event envelope published to Kafka after a successful store write.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	Payment  *Payment  `json:"payment,omitempty"`
	Customer *Customer `json:"customer,omitempty"`
	Account  *Account  `json:"account,omitempty"`
}

const (
	EventPaymentCharged     = "payment.charged"
	EventCustomerRegistered = "customer.registered"
	EventAccountCreated     = "account.created"
)
