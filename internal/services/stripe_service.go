package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/KonarzewskiP/software-testing/internal/config"
	"github.com/KonarzewskiP/software-testing/internal/logger"
	"github.com/KonarzewskiP/software-testing/internal/models"
)

var ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")

// chargeCreator is the single Stripe call the adapter makes. Tests swap it
// to capture the outgoing params.
type chargeCreator interface {
	New(params *stripe.ChargeParams) (*stripe.Charge, error)
}

// StripeService adapts the Stripe Charges API to the CardPaymentCharger
// port. It passes through exactly the four logical fields of a charge and
// folds every provider failure into a ChargeProviderError.
type StripeService struct {
	charges chargeCreator
	log     *logger.Logger
}

func NewStripeService(cfg config.StripeConfig, log *logger.Logger) (*StripeService, error) {
	if cfg.SecretKey == "" {
		log.Error("STRIPE", "STRIPE_SECRET_KEY is not set")
		return nil, ErrStripeClientInitFailed
	}

	sc := client.New(cfg.SecretKey, nil)

	log.LogProcess("STRIPE", "Stripe client initialized")
	return &StripeService{
		charges: sc.Charges,
		log:     log,
	}, nil
}

func (s *StripeService) ChargeCard(ctx context.Context, source string, amount decimal.Decimal, currency models.Currency, description string) (*models.CardPaymentCharge, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(toMinorUnits(amount)),
		Currency:    stripe.String(string(currency)),
		Description: stripe.String(description),
	}
	params.Context = ctx
	if err := params.SetSource(source); err != nil {
		return nil, &ChargeProviderError{Err: fmt.Errorf("invalid charge source: %w", err)}
	}

	ch, err := s.charges.New(params)
	if err != nil {
		s.log.Error("STRIPE", fmt.Sprintf("Charge failed: %v", err))
		return nil, &ChargeProviderError{Err: err}
	}

	s.log.LogPayment("CHARGE", ch.ID, fmt.Sprintf("Stripe charge created, paid=%t", ch.Paid))

	return &models.CardPaymentCharge{
		CardDebited:   ch.Paid,
		TransactionID: ch.ID,
	}, nil
}

// toMinorUnits converts a decimal amount into the smallest currency unit
// Stripe expects.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
