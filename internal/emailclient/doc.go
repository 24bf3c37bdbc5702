// Package emailclient delivers transactional email through an external
// provider. Client speaks the Postmark-style HTTP API; SESClient uses AWS SES.
// Both implement subscription.Notifier and make exactly one outbound request
// per Send.
package emailclient
