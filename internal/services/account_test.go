package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KonarzewskiP/software-testing/internal/logger"
	"github.com/KonarzewskiP/software-testing/internal/models"
)

type fakeAccountStore struct {
	saveCalls int
	saved     []*models.Account
}

func (s *fakeAccountStore) SaveAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	s.saveCalls++
	saved := *account
	saved.ID = uuid.New()
	s.saved = append(s.saved, &saved)
	return &saved, nil
}

func TestCreateAccount(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Name: "Zoe", PhoneNumber: "+447000000000"}
	customers := newFakeCustomerStore(customer)
	accounts := &fakeAccountStore{}
	publisher := &fakePublisher{}

	underTest := NewAccountService(customers, accounts, publisher, logger.NewLogger())

	req := &models.AccountCreateRequest{
		CustomerID: customer.ID,
		Currency:   models.GBP,
		BankName:   "Halifax",
		Deposit:    decimal.RequireFromString("10.00"),
		BranchID:   1,
	}

	err := underTest.CreateAccount(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, 1, accounts.saveCalls)
	saved := accounts.saved[0]
	assert.Equal(t, customer.ID, saved.CustomerID)
	assert.Equal(t, models.GBP, saved.Currency)
	assert.Equal(t, "Halifax", saved.BankName)
	assert.True(t, saved.Balance.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, int64(1), saved.BranchID)

	require.Len(t, publisher.accountEvents, 1)
}

func TestCreateAccountWhenCustomerNotFound(t *testing.T) {
	customers := newFakeCustomerStore()
	accounts := &fakeAccountStore{}

	underTest := NewAccountService(customers, accounts, &fakePublisher{}, logger.NewLogger())

	customerID := uuid.New()
	req := &models.AccountCreateRequest{
		CustomerID: customerID,
		Currency:   models.GBP,
		BankName:   "Halifax",
		Deposit:    decimal.Zero,
		BranchID:   1,
	}

	err := underTest.CreateAccount(context.Background(), req)

	var notFound *CustomerNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, customerID, notFound.CustomerID)
	assert.Zero(t, accounts.saveCalls)
}
