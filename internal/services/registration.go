package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/KonarzewskiP/software-testing/internal/logger"
	"github.com/KonarzewskiP/software-testing/internal/models"
	"github.com/KonarzewskiP/software-testing/internal/storage"
)

// CustomerRegistrationService admits a new customer only if their phone
// number is well formed and not already owned by a different customer.
type CustomerRegistrationService struct {
	customers storage.CustomerStore
	validator PhoneNumberValidator
	producer  EventPublisher
	log       *logger.Logger
}

func NewCustomerRegistrationService(
	customers storage.CustomerStore,
	validator PhoneNumberValidator,
	producer EventPublisher,
	log *logger.Logger,
) *CustomerRegistrationService {
	return &CustomerRegistrationService{
		customers: customers,
		validator: validator,
		producer:  producer,
		log:       log,
	}
}

// RegisterNewCustomer validates the phone format, then checks ownership of
// the number. Re-registering the same customer is a no-op; a number owned by
// a different customer fails with PhoneNumberTakenError. The lookup is only
// a fast path: the store's uniqueness constraint is authoritative and a
// conflict on save surfaces as the same failure.
func (s *CustomerRegistrationService) RegisterNewCustomer(ctx context.Context, req *models.CustomerRegistrationRequest) error {
	candidate := req.Customer
	phoneNumber := candidate.PhoneNumber

	if !s.validator.IsValid(phoneNumber) {
		s.log.LogCustomer("REJECTED", candidate.ID.String(), fmt.Sprintf("Phone number %s is not valid", phoneNumber))
		return &InvalidPhoneNumberError{PhoneNumber: phoneNumber}
	}

	existing, err := s.customers.FindCustomerByPhoneNumber(ctx, phoneNumber)
	switch {
	case err == nil:
		if existing.ID == candidate.ID {
			s.log.LogCustomer("NOOP", existing.ID.String(), "Customer already registered with this phone number")
			return nil
		}
		return &PhoneNumberTakenError{PhoneNumber: phoneNumber}
	case errors.Is(err, storage.ErrCustomerNotFound):
		// Number is free as far as we can see; the save below settles it.
	default:
		return fmt.Errorf("failed to look up customer by phone number: %w", err)
	}

	saved, err := s.customers.SaveCustomer(ctx, &candidate)
	if err != nil {
		if errors.Is(err, storage.ErrPhoneNumberTaken) {
			return &PhoneNumberTakenError{PhoneNumber: phoneNumber}
		}
		return fmt.Errorf("failed to save customer: %w", err)
	}

	s.log.LogCustomer("REGISTERED", saved.ID.String(), fmt.Sprintf("Customer %s registered with phone number %s", saved.Name, phoneNumber))

	s.publishCustomerRegistered(saved)
	return nil
}

func (s *CustomerRegistrationService) publishCustomerRegistered(customer *models.Customer) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishCustomerRegistered(customer); err != nil {
		s.log.Error("KAFKA", fmt.Sprintf("Failed to publish registered event for customer %s: %v", customer.ID, err))
	}
}
