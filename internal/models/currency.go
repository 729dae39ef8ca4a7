package models

// Currency is the closed set of currencies the system knows about. Which of
// them are chargeable is policy, configured on the payment service.
type Currency string

const (
	USD Currency = "USD"
	GBP Currency = "GBP"
	EUR Currency = "EUR"
)

func (c Currency) IsValid() bool {
	switch c {
	case USD, GBP, EUR:
		return true
	}
	return false
}

func (c Currency) String() string {
	return string(c)
}
