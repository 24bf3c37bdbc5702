// Package subscription implements the subscriber registration pipeline.
//
// A raw form submission is validated into domain types, stamped with an
// identifier and timestamp, persisted once, and optionally followed by a
// welcome email. The service depends on the Repository and Notifier
// interfaces defined here and should never import from api/.
//
// Repository implementations live in repository/postgres/. Notifier
// implementations live in emailclient/.
package subscription
