package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/KonarzewskiP/software-testing/internal/models"
)

// The services surface a closed set of typed failures so callers can
// discriminate programmatically instead of string-matching messages.

// CustomerNotFoundError: the caller supplied an unknown customer id.
type CustomerNotFoundError struct {
	CustomerID uuid.UUID
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer with id [%s] not found", e.CustomerID)
}

// CurrencyNotSupportedError: the requested currency is outside the
// chargeable allow-list.
type CurrencyNotSupportedError struct {
	Currency models.Currency
}

func (e *CurrencyNotSupportedError) Error() string {
	return fmt.Sprintf("currency [%s] not supported", e.Currency)
}

// CardNotDebitedError: the gateway processed the charge but declined to
// debit the card. A business rejection, not a fault.
type CardNotDebitedError struct {
	CustomerID uuid.UUID
}

func (e *CardNotDebitedError) Error() string {
	return fmt.Sprintf("card not debited for customer %s", e.CustomerID)
}

// ChargeProviderError: the gateway itself failed. Transient by nature and
// distinct from a business decline.
type ChargeProviderError struct {
	Err error
}

func (e *ChargeProviderError) Error() string {
	return fmt.Sprintf("cannot make charge: %v", e.Err)
}

func (e *ChargeProviderError) Unwrap() error {
	return e.Err
}

// InvalidPhoneNumberError: the phone number is malformed.
type InvalidPhoneNumberError struct {
	PhoneNumber string
}

func (e *InvalidPhoneNumberError) Error() string {
	return fmt.Sprintf("phone number %s is not valid", e.PhoneNumber)
}

// PhoneNumberTakenError: the phone number is owned by a different customer.
type PhoneNumberTakenError struct {
	PhoneNumber string
}

func (e *PhoneNumberTakenError) Error() string {
	return fmt.Sprintf("phone number [%s] is taken", e.PhoneNumber)
}
