// Package domain defines the core business types for the newsletter service.
//
// Types in this package are validated value objects with no database
// dependencies and no HTTP concerns. They are the shared language between
// handlers, services, and repositories.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - Validated types keep their fields unexported; the Parse functions are
//     the only way to obtain one
//   - Parsing never panics on untrusted input, it returns a *ValidationError
package domain
