package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/KonarzewskiP/software-testing/internal/models"
)

// CardPaymentCharger is the outbound port to the card-charging gateway. The
// adapter normalizes every provider failure into a *ChargeProviderError so
// that provider-specific types never cross this boundary.
type CardPaymentCharger interface {
	ChargeCard(ctx context.Context, source string, amount decimal.Decimal, currency models.Currency, description string) (*models.CardPaymentCharge, error)
}

// PhoneNumberValidator reports whether a phone number is well formed.
type PhoneNumberValidator interface {
	IsValid(phoneNumber string) bool
}

// EventPublisher emits domain events after a successful store write. A
// publish failure must never fail the operation that triggered it.
type EventPublisher interface {
	PublishPaymentCharged(payment *models.Payment) error
	PublishCustomerRegistered(customer *models.Customer) error
	PublishAccountCreated(account *models.Account) error
}
