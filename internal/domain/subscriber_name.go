package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// MaxNameGraphemes is the longest accepted name, in user-perceived characters.
const MaxNameGraphemes = 256

// forbiddenNameChars are rejected anywhere in a name.
const forbiddenNameChars = `/()"<>\{}`

// SubscriberName is a display name that passed ParseSubscriberName.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates a raw display name. Names are counted in
// extended grapheme clusters, so "é" written as e + combining accent is one
// character. Input must be valid UTF-8 without NUL bytes, which PostgreSQL
// text columns cannot store.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	if !utf8.ValidString(raw) {
		return SubscriberName{}, &ValidationError{Field: "name", Reason: ReasonInvalidEncoding}
	}
	if strings.TrimSpace(raw) == "" {
		return SubscriberName{}, &ValidationError{Field: "name", Reason: ReasonEmptyOrWhitespace}
	}
	if uniseg.GraphemeClusterCount(raw) > MaxNameGraphemes {
		return SubscriberName{}, &ValidationError{Field: "name", Reason: ReasonTooLong}
	}
	if strings.ContainsAny(raw, forbiddenNameChars) || strings.ContainsRune(raw, 0) {
		return SubscriberName{}, &ValidationError{Field: "name", Reason: ReasonForbiddenCharacter}
	}
	return SubscriberName{value: raw}, nil
}

func (n SubscriberName) String() string {
	return n.value
}
