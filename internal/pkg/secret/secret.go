// Package secret provides a string wrapper for credentials (database
// passwords, provider tokens) that refuses to render its value.
//
// Every formatting path (fmt verbs, JSON, text, YAML marshalling) prints
// the redaction marker. The raw value is only reachable through Expose,
// which should be called at the single site that builds the outbound
// request or connection string.
package secret

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Redacted is printed in place of a secret value.
const Redacted = "[REDACTED]"

// String holds a sensitive value. The zero value is an empty secret.
type String struct {
	value string
}

// New wraps a raw value.
func New(value string) String {
	return String{value: value}
}

// Expose returns the raw value.
func (s String) Expose() string {
	return s.value
}

// IsEmpty reports whether no value has been set.
func (s String) IsEmpty() bool {
	return s.value == ""
}

func (s String) String() string {
	return Redacted
}

func (s String) GoString() string {
	return "secret.String(" + Redacted + ")"
}

func (s String) MarshalJSON() ([]byte, error) {
	return json.Marshal(Redacted)
}

func (s String) MarshalText() ([]byte, error) {
	return []byte(Redacted), nil
}

// UnmarshalText lets environment decoders populate a secret.
func (s *String) UnmarshalText(text []byte) error {
	s.value = string(text)
	return nil
}

func (s String) MarshalYAML() (any, error) {
	return Redacted, nil
}

func (s *String) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	s.value = raw
	return nil
}
