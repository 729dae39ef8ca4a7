package models

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Customer is registered once and never mutated by the payment path. The
// phone number is unique across all customers; the store enforces it.
type Customer struct {
	bun.BaseModel `bun:"table:customers" json:"-"`

	ID          uuid.UUID `json:"id" bun:"id,pk"`
	Name        string    `json:"name" bun:"name,notnull"`
	PhoneNumber string    `json:"phone_number" bun:"phone_number,notnull,unique"`
}
