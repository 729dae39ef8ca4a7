package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChargesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bank_charges_total",
			Help: "Total number of card charge attempts by outcome",
		},
		[]string{"outcome"},
	)
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bank_registrations_total",
			Help: "Total number of customer registration attempts by outcome",
		},
		[]string{"outcome"},
	)
	AccountsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bank_accounts_created_total",
			Help: "Total number of accounts opened",
		},
	)
)

// Outcome labels shared by the counters above.
const (
	OutcomeSuccess       = "success"
	OutcomeNotFound      = "customer_not_found"
	OutcomeBadCurrency   = "currency_not_supported"
	OutcomeDeclined      = "card_not_debited"
	OutcomeProviderError = "provider_error"
	OutcomeInvalidPhone  = "invalid_phone_number"
	OutcomePhoneTaken    = "phone_number_taken"
	OutcomeError         = "error"
)
