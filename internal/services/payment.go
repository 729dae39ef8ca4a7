package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/KonarzewskiP/software-testing/internal/logger"
	"github.com/KonarzewskiP/software-testing/internal/models"
	"github.com/KonarzewskiP/software-testing/internal/storage"
)

// PaymentService orchestrates a single charge-and-record transaction for one
// customer. It talks to the gateway and the stores only through their ports.
type PaymentService struct {
	customers          storage.CustomerStore
	payments           storage.PaymentStore
	charger            CardPaymentCharger
	producer           EventPublisher
	log                *logger.Logger
	acceptedCurrencies []models.Currency
}

func NewPaymentService(
	customers storage.CustomerStore,
	payments storage.PaymentStore,
	charger CardPaymentCharger,
	producer EventPublisher,
	log *logger.Logger,
	acceptedCurrencies []models.Currency,
) *PaymentService {
	return &PaymentService{
		customers:          customers,
		payments:           payments,
		charger:            charger,
		producer:           producer,
		log:                log,
		acceptedCurrencies: acceptedCurrencies,
	}
}

// ChargeCard validates the request against the customer store and the
// currency allow-list, invokes the gateway exactly once, and persists the
// payment only when the card was actually debited. The persisted payment
// belongs to customerID regardless of the customer id on the request.
func (s *PaymentService) ChargeCard(ctx context.Context, customerID uuid.UUID, req *models.PaymentRequest) error {
	s.log.LogPayment("INIT", customerID.String(), fmt.Sprintf("Charging %s %s", req.Payment.Amount, req.Payment.Currency))

	_, err := s.customers.FindCustomerByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, storage.ErrCustomerNotFound) {
			s.log.LogPayment("NOT_FOUND", customerID.String(), "Customer unknown, charge rejected")
			return &CustomerNotFoundError{CustomerID: customerID}
		}
		return fmt.Errorf("failed to look up customer: %w", err)
	}

	if !s.isCurrencyAccepted(req.Payment.Currency) {
		s.log.LogPayment("REJECTED", customerID.String(), fmt.Sprintf("Currency %s outside allow-list", req.Payment.Currency))
		return &CurrencyNotSupportedError{Currency: req.Payment.Currency}
	}

	charge, err := s.charger.ChargeCard(ctx, req.Payment.Source, req.Payment.Amount, req.Payment.Currency, req.Payment.Description)
	if err != nil {
		var providerErr *ChargeProviderError
		if !errors.As(err, &providerErr) {
			err = &ChargeProviderError{Err: err}
		}
		s.log.Error("PAYMENT", fmt.Sprintf("Gateway failure for customer %s: %v", customerID, err))
		return err
	}

	if !charge.CardDebited {
		s.log.LogPayment("DECLINED", customerID.String(), "Gateway did not debit the card")
		return &CardNotDebitedError{CustomerID: customerID}
	}

	payment := req.Payment
	payment.CustomerID = customerID

	saved, err := s.payments.SavePayment(ctx, &payment)
	if err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}

	s.log.LogPayment("SUCCESS", saved.ID.String(), fmt.Sprintf("Charged %s %s for customer %s (txn %s)",
		saved.Amount, saved.Currency, customerID, charge.TransactionID))

	s.publishPaymentCharged(saved)
	return nil
}

// PaymentsForCustomer lists recorded payments, newest first.
func (s *PaymentService) PaymentsForCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	payments, err := s.payments.ListPaymentsByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (s *PaymentService) isCurrencyAccepted(currency models.Currency) bool {
	for _, accepted := range s.acceptedCurrencies {
		if currency == accepted {
			return true
		}
	}
	return false
}

func (s *PaymentService) publishPaymentCharged(payment *models.Payment) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishPaymentCharged(payment); err != nil {
		// The charge already succeeded and is persisted; the event is best
		// effort.
		s.log.Error("KAFKA", fmt.Sprintf("Failed to publish charged event for payment %s: %v", payment.ID, err))
	}
}
