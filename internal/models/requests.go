package models

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inbound request shapes. Field-level constraints are checked here, by the
// request-mapping layer, before anything reaches a service.

// PaymentRequest wraps the payment to charge. The customer id on the embedded
// payment is denormalized input; the service overrides it with the id the
// caller charges against.
type PaymentRequest struct {
	Payment Payment `json:"payment"`
}

func (r *PaymentRequest) Validate() error {
	if !r.Payment.Amount.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	if !r.Payment.Currency.IsValid() {
		return errors.New("currency is not recognised")
	}
	if r.Payment.Source == "" {
		return errors.New("card source must not be blank")
	}
	return nil
}

// CustomerRegistrationRequest wraps a candidate customer. The id may be unset;
// the store assigns one on save.
type CustomerRegistrationRequest struct {
	Customer Customer `json:"customer"`
}

func (r *CustomerRegistrationRequest) Validate() error {
	if r.Customer.Name == "" {
		return errors.New("name must not be blank")
	}
	if r.Customer.PhoneNumber == "" {
		return errors.New("phone number must not be blank")
	}
	return nil
}

// AccountCreateRequest asks to open an account for an existing customer. The
// account currency may be any member of the enumeration, independent of the
// chargeable allow-list.
type AccountCreateRequest struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Currency   Currency        `json:"currency"`
	BankName   string          `json:"bank_name"`
	Deposit    decimal.Decimal `json:"deposit"`
	BranchID   int64           `json:"branch_id"`
}

func (r *AccountCreateRequest) Validate() error {
	if r.CustomerID == uuid.Nil {
		return errors.New("customer id must not be empty")
	}
	if !r.Currency.IsValid() {
		return errors.New("currency is not recognised")
	}
	if r.BankName == "" {
		return errors.New("bank name must not be blank")
	}
	if r.Deposit.IsNegative() {
		return errors.New("deposit must be zero or greater")
	}
	if r.BranchID <= 0 {
		return errors.New("branch id must be set")
	}
	return nil
}
