package phone

import "regexp"

// ukMobile matches +44 mobile numbers: "+447" followed by nine digits,
// thirteen characters in total.
var ukMobile = regexp.MustCompile(`^\+447[0-9]{9}$`)

// Validator reports whether a phone number is well formed. It says nothing
// about whether the number is reachable or already registered.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) IsValid(phoneNumber string) bool {
	return ukMobile.MatchString(phoneNumber)
}
