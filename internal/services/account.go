package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/KonarzewskiP/software-testing/internal/logger"
	"github.com/KonarzewskiP/software-testing/internal/models"
	"github.com/KonarzewskiP/software-testing/internal/storage"
)

// AccountService opens accounts for existing customers. The requested
// deposit becomes the opening balance; any currency from the enumeration is
// acceptable here, unlike the charge path.
type AccountService struct {
	customers storage.CustomerStore
	accounts  storage.AccountStore
	producer  EventPublisher
	log       *logger.Logger
}

func NewAccountService(
	customers storage.CustomerStore,
	accounts storage.AccountStore,
	producer EventPublisher,
	log *logger.Logger,
) *AccountService {
	return &AccountService{
		customers: customers,
		accounts:  accounts,
		producer:  producer,
		log:       log,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req *models.AccountCreateRequest) error {
	_, err := s.customers.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, storage.ErrCustomerNotFound) {
			return &CustomerNotFoundError{CustomerID: req.CustomerID}
		}
		return fmt.Errorf("failed to look up customer: %w", err)
	}

	account := models.Account{
		CustomerID: req.CustomerID,
		Currency:   req.Currency,
		BankName:   req.BankName,
		Balance:    req.Deposit,
		BranchID:   req.BranchID,
	}

	saved, err := s.accounts.SaveAccount(ctx, &account)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	s.log.LogDatabase("SAVE", "accounts", fmt.Sprintf("Account %s opened for customer %s at %s with balance %s %s",
		saved.ID, saved.CustomerID, saved.BankName, saved.Balance, saved.Currency))

	s.publishAccountCreated(saved)
	return nil
}

func (s *AccountService) publishAccountCreated(account *models.Account) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishAccountCreated(account); err != nil {
		s.log.Error("KAFKA", fmt.Sprintf("Failed to publish created event for account %s: %v", account.ID, err))
	}
}
