package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Account is opened for an existing customer with the requested deposit as
// its opening balance. Balance bookkeeping beyond creation lives elsewhere.
type Account struct {
	bun.BaseModel `bun:"table:accounts" json:"-"`

	ID         uuid.UUID       `json:"id" bun:"id,pk"`
	CustomerID uuid.UUID       `json:"customer_id" bun:"customer_id,notnull"`
	Currency   Currency        `json:"currency" bun:"currency,notnull"`
	BankName   string          `json:"bank_name" bun:"bank_name,notnull"`
	Balance    decimal.Decimal `json:"balance" bun:"balance,notnull"`
	BranchID   int64           `json:"branch_id" bun:"branch_id,notnull"`
	CreatedAt  time.Time       `json:"created_at" bun:"created_at"`
}
