package subscription

import "errors"

// ErrStorage wraps every persistence failure returned by Register. The
// underlying cause is kept in the chain for logging and never shown to
// callers of the HTTP API.
var ErrStorage = errors.New("failed to store subscriber")
