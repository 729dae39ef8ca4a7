package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KonarzewskiP/software-testing/internal/logger"
	"github.com/KonarzewskiP/software-testing/internal/models"
	"github.com/KonarzewskiP/software-testing/internal/storage"
)

type fakeCustomerStore struct {
	customers map[uuid.UUID]*models.Customer
	byPhone   map[string]*models.Customer

	findByIDCalls    int
	findByPhoneCalls int
	saveCalls        int
	saved            []*models.Customer
	saveErr          error
}

func newFakeCustomerStore(customers ...*models.Customer) *fakeCustomerStore {
	s := &fakeCustomerStore{
		customers: make(map[uuid.UUID]*models.Customer),
		byPhone:   make(map[string]*models.Customer),
	}
	for _, c := range customers {
		s.customers[c.ID] = c
		s.byPhone[c.PhoneNumber] = c
	}
	return s
}

func (s *fakeCustomerStore) FindCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	s.findByIDCalls++
	c, ok := s.customers[id]
	if !ok {
		return nil, storage.ErrCustomerNotFound
	}
	return c, nil
}

func (s *fakeCustomerStore) FindCustomerByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Customer, error) {
	s.findByPhoneCalls++
	c, ok := s.byPhone[phoneNumber]
	if !ok {
		return nil, storage.ErrCustomerNotFound
	}
	return c, nil
}

func (s *fakeCustomerStore) SaveCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	s.saveCalls++
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	saved := *customer
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	s.saved = append(s.saved, &saved)
	return &saved, nil
}

type fakePaymentStore struct {
	saveCalls int
	saved     []*models.Payment
}

func (s *fakePaymentStore) SavePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	s.saveCalls++
	saved := *payment
	saved.ID = uuid.New()
	s.saved = append(s.saved, &saved)
	return &saved, nil
}

func (s *fakePaymentStore) ListPaymentsByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range s.saved {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCharger struct {
	calls       int
	source      string
	amount      decimal.Decimal
	currency    models.Currency
	description string
	charge      *models.CardPaymentCharge
	err         error
}

func (c *fakeCharger) ChargeCard(ctx context.Context, source string, amount decimal.Decimal, currency models.Currency, description string) (*models.CardPaymentCharge, error) {
	c.calls++
	c.source = source
	c.amount = amount
	c.currency = currency
	c.description = description
	if c.err != nil {
		return nil, c.err
	}
	return c.charge, nil
}

type fakePublisher struct {
	paymentEvents  []*models.Payment
	customerEvents []*models.Customer
	accountEvents  []*models.Account
	err            error
}

func (p *fakePublisher) PublishPaymentCharged(payment *models.Payment) error {
	p.paymentEvents = append(p.paymentEvents, payment)
	return p.err
}

func (p *fakePublisher) PublishCustomerRegistered(customer *models.Customer) error {
	p.customerEvents = append(p.customerEvents, customer)
	return p.err
}

func (p *fakePublisher) PublishAccountCreated(account *models.Account) error {
	p.accountEvents = append(p.accountEvents, account)
	return p.err
}

func donationRequest(customerID uuid.UUID, currency models.Currency) *models.PaymentRequest {
	return &models.PaymentRequest{
		Payment: models.Payment{
			CustomerID:  customerID,
			Amount:      decimal.RequireFromString("100.00"),
			Currency:    currency,
			Source:      "card123xx",
			Description: "Donation",
		},
	}
}

func newPaymentService(customers *fakeCustomerStore, payments *fakePaymentStore, charger *fakeCharger, publisher *fakePublisher) *PaymentService {
	return NewPaymentService(customers, payments, charger, publisher, logger.NewLogger(), []models.Currency{models.USD, models.GBP})
}

func TestChargeCardSuccessfully(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Name: "Zoe", PhoneNumber: "+447000000000"}
	customers := newFakeCustomerStore(customer)
	payments := &fakePaymentStore{}
	charger := &fakeCharger{charge: &models.CardPaymentCharge{CardDebited: true, TransactionID: "ch_1"}}
	publisher := &fakePublisher{}

	underTest := newPaymentService(customers, payments, charger, publisher)

	// The request carries a different customer id; the argument must win.
	req := donationRequest(uuid.New(), models.USD)

	err := underTest.ChargeCard(context.Background(), customer.ID, req)
	require.NoError(t, err)

	require.Equal(t, 1, payments.saveCalls)
	saved := payments.saved[0]
	assert.Equal(t, customer.ID, saved.CustomerID)
	assert.True(t, saved.Amount.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, models.USD, saved.Currency)
	assert.Equal(t, "card123xx", saved.Source)
	assert.Equal(t, "Donation", saved.Description)

	// Gateway received the four request fields unmodified.
	require.Equal(t, 1, charger.calls)
	assert.Equal(t, "card123xx", charger.source)
	assert.True(t, charger.amount.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, models.USD, charger.currency)
	assert.Equal(t, "Donation", charger.description)

	require.Len(t, publisher.paymentEvents, 1)
	assert.Equal(t, saved.ID, publisher.paymentEvents[0].ID)
}

func TestChargeCardWhenCustomerNotFound(t *testing.T) {
	customers := newFakeCustomerStore()
	payments := &fakePaymentStore{}
	charger := &fakeCharger{}
	publisher := &fakePublisher{}

	underTest := newPaymentService(customers, payments, charger, publisher)

	customerID := uuid.New()
	err := underTest.ChargeCard(context.Background(), customerID, donationRequest(customerID, models.USD))

	var notFound *CustomerNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, customerID, notFound.CustomerID)

	assert.Zero(t, charger.calls)
	assert.Zero(t, payments.saveCalls)
	assert.Empty(t, publisher.paymentEvents)
}

func TestChargeCardWhenCurrencyNotSupported(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Name: "Zoe", PhoneNumber: "+447000000000"}
	customers := newFakeCustomerStore(customer)
	payments := &fakePaymentStore{}
	charger := &fakeCharger{}
	publisher := &fakePublisher{}

	underTest := newPaymentService(customers, payments, charger, publisher)

	err := underTest.ChargeCard(context.Background(), customer.ID, donationRequest(customer.ID, models.EUR))

	var notSupported *CurrencyNotSupportedError
	require.ErrorAs(t, err, &notSupported)
	assert.Equal(t, models.EUR, notSupported.Currency)

	// Customer existence was checked before the currency was rejected.
	assert.Equal(t, 1, customers.findByIDCalls)
	assert.Zero(t, charger.calls)
	assert.Zero(t, payments.saveCalls)
}

func TestChargeCardWhenCardIsNotDebited(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Name: "Zoe", PhoneNumber: "+447000000000"}
	customers := newFakeCustomerStore(customer)
	payments := &fakePaymentStore{}
	charger := &fakeCharger{charge: &models.CardPaymentCharge{CardDebited: false}}
	publisher := &fakePublisher{}

	underTest := newPaymentService(customers, payments, charger, publisher)

	err := underTest.ChargeCard(context.Background(), customer.ID, donationRequest(customer.ID, models.USD))

	var notDebited *CardNotDebitedError
	require.ErrorAs(t, err, &notDebited)
	assert.Equal(t, customer.ID, notDebited.CustomerID)

	assert.Equal(t, 1, charger.calls)
	assert.Zero(t, payments.saveCalls)
	assert.Empty(t, publisher.paymentEvents)
}

func TestChargeCardWrapsGatewayFailure(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Name: "Zoe", PhoneNumber: "+447000000000"}
	customers := newFakeCustomerStore(customer)
	payments := &fakePaymentStore{}
	cause := errors.New("connection reset")
	charger := &fakeCharger{err: cause}
	publisher := &fakePublisher{}

	underTest := newPaymentService(customers, payments, charger, publisher)

	err := underTest.ChargeCard(context.Background(), customer.ID, donationRequest(customer.ID, models.USD))

	var providerErr *ChargeProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, 1, charger.calls)
	assert.Zero(t, payments.saveCalls)
}

func TestChargeCardKeepsNormalizedProviderError(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Name: "Zoe", PhoneNumber: "+447000000000"}
	customers := newFakeCustomerStore(customer)
	payments := &fakePaymentStore{}
	normalized := &ChargeProviderError{Err: errors.New("api error")}
	charger := &fakeCharger{err: normalized}

	underTest := newPaymentService(customers, payments, charger, &fakePublisher{})

	err := underTest.ChargeCard(context.Background(), customer.ID, donationRequest(customer.ID, models.USD))

	var providerErr *ChargeProviderError
	require.ErrorAs(t, err, &providerErr)
	// The adapter's normalization is passed through, not wrapped again.
	assert.Same(t, normalized, providerErr)
}

func TestChargeCardSurvivesPublishFailure(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Name: "Zoe", PhoneNumber: "+447000000000"}
	customers := newFakeCustomerStore(customer)
	payments := &fakePaymentStore{}
	charger := &fakeCharger{charge: &models.CardPaymentCharge{CardDebited: true}}
	publisher := &fakePublisher{err: errors.New("broker down")}

	underTest := newPaymentService(customers, payments, charger, publisher)

	err := underTest.ChargeCard(context.Background(), customer.ID, donationRequest(customer.ID, models.USD))
	require.NoError(t, err)
	assert.Equal(t, 1, payments.saveCalls)
}

func TestPaymentsForCustomer(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Name: "Zoe", PhoneNumber: "+447000000000"}
	customers := newFakeCustomerStore(customer)
	payments := &fakePaymentStore{}
	charger := &fakeCharger{charge: &models.CardPaymentCharge{CardDebited: true}}

	underTest := newPaymentService(customers, payments, charger, &fakePublisher{})

	require.NoError(t, underTest.ChargeCard(context.Background(), customer.ID, donationRequest(customer.ID, models.USD)))

	listed, err := underTest.PaymentsForCustomer(context.Background(), customer.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, customer.ID, listed[0].CustomerID)
}
