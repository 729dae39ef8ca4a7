package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Payment records a successful card charge. It is created exactly once, at
// the moment a charge succeeds, and never updated afterwards. The id is
// assigned by the store.
type Payment struct {
	bun.BaseModel `bun:"table:payments" json:"-"`

	ID          uuid.UUID       `json:"id" bun:"id,pk"`
	CustomerID  uuid.UUID       `json:"customer_id" bun:"customer_id,notnull"`
	Amount      decimal.Decimal `json:"amount" bun:"amount,notnull"`
	Currency    Currency        `json:"currency" bun:"currency,notnull"`
	Source      string          `json:"source" bun:"source,notnull"`
	Description string          `json:"description" bun:"description"`
	CreatedAt   time.Time       `json:"created_at" bun:"created_at"`
}

// CardPaymentCharge is the outcome of a single gateway attempt. Policy logic
// only reads CardDebited; TransactionID is gateway metadata carried along
// for traceability.
type CardPaymentCharge struct {
	CardDebited   bool   `json:"card_debited"`
	TransactionID string `json:"transaction_id,omitempty"`
}
