package domain

import (
	"errors"
	"fmt"
)

// Reason enumerates why a raw field failed validation.
type Reason string

const (
	ReasonEmptyOrWhitespace  Reason = "empty_or_whitespace"
	ReasonTooLong            Reason = "too_long"
	ReasonForbiddenCharacter Reason = "forbidden_character"
	ReasonInvalidFormat      Reason = "invalid_format"
	ReasonInvalidEncoding    Reason = "invalid_encoding"
)

// ErrIncompleteSubscriber is returned by NewSubscriber.Register when the name
// or email did not come from the parsers.
var ErrIncompleteSubscriber = errors.New("subscriber name and email must be parsed before registration")

var reasonMessages = map[Reason]string{
	ReasonEmptyOrWhitespace:  "must not be empty",
	ReasonTooLong:            fmt.Sprintf("must be at most %d characters", MaxNameGraphemes),
	ReasonForbiddenCharacter: "contains a forbidden character",
	ReasonInvalidFormat:      "is not a valid email address",
	ReasonInvalidEncoding:    "is not valid UTF-8 text",
}

// ValidationError reports a field that failed a domain rule. The message
// never echoes the rejected input.
type ValidationError struct {
	Field  string
	Reason Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid subscriber %s: %s", e.Field, reasonMessages[e.Reason])
}
