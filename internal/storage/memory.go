package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KonarzewskiP/software-testing/internal/models"
)

// InMemoryStore backs local development and tests. Phone uniqueness is
// checked under the write lock, so it gives the same guarantee as the MySQL
// unique index.
type InMemoryStore struct {
	mutex     sync.RWMutex
	customers map[uuid.UUID]*models.Customer
	payments  map[uuid.UUID]*models.Payment
	accounts  map[uuid.UUID]*models.Account
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		customers: make(map[uuid.UUID]*models.Customer),
		payments:  make(map[uuid.UUID]*models.Payment),
		accounts:  make(map[uuid.UUID]*models.Account),
	}
}

func (s *InMemoryStore) FindCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	customer, exists := s.customers[id]
	if !exists {
		return nil, ErrCustomerNotFound
	}
	copied := *customer
	return &copied, nil
}

func (s *InMemoryStore) FindCustomerByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Customer, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, customer := range s.customers {
		if customer.PhoneNumber == phoneNumber {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (s *InMemoryStore) SaveCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, existing := range s.customers {
		if existing.PhoneNumber == customer.PhoneNumber && existing.ID != customer.ID {
			return nil, ErrPhoneNumberTaken
		}
	}

	copied := *customer
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	s.customers[copied.ID] = &copied

	result := copied
	return &result, nil
}

func (s *InMemoryStore) SavePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	copied := *payment
	copied.ID = uuid.New()
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	s.payments[copied.ID] = &copied

	result := copied
	return &result, nil
}

func (s *InMemoryStore) ListPaymentsByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var matched []*models.Payment
	for _, payment := range s.payments {
		if payment.CustomerID == customerID {
			copied := *payment
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *InMemoryStore) SaveAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	copied := *account
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	s.accounts[copied.ID] = &copied

	result := copied
	return &result, nil
}

func (s *InMemoryStore) HealthCheck() error { return nil }

func (s *InMemoryStore) Close() error { return nil }
