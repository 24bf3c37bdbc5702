package domain

import (
	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches nothing per call.
var validate = validator.New()

// SubscriberEmail is an address that passed ParseSubscriberEmail.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates a raw email address against the RFC 5322
// based grammar of go-playground/validator.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if err := validate.Var(raw, "required,email"); err != nil {
		return SubscriberEmail{}, &ValidationError{Field: "email", Reason: ReasonInvalidFormat}
	}
	return SubscriberEmail{value: raw}, nil
}

func (e SubscriberEmail) String() string {
	return e.value
}
