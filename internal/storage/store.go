package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/KonarzewskiP/software-testing/internal/models"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrPhoneNumberTaken is the store-level uniqueness verdict. The
	// registration service's own lookup is only a fast path; a concurrent
	// duplicate that races past it is still rejected here.
	ErrPhoneNumberTaken = errors.New("phone number already taken")
)

type CustomerStore interface {
	FindCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindCustomerByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Customer, error)
	// SaveCustomer persists the customer, assigning an id when the candidate
	// has none, and returns the persisted form.
	SaveCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
}

type PaymentStore interface {
	// SavePayment persists the payment, assigning its id, and returns the
	// persisted form.
	SavePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	// ListPaymentsByCustomer returns the customer's payments, newest first.
	// A non-positive limit means no cap.
	ListPaymentsByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Payment, error)
}

type AccountStore interface {
	SaveAccount(ctx context.Context, account *models.Account) (*models.Account, error)
}

type Store interface {
	CustomerStore
	PaymentStore
	AccountStore

	HealthCheck() error
	Close() error
}
