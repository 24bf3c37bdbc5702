// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Every handler should use these helpers instead of writing raw
// http.ResponseWriter calls. This keeps JSON formatting and error structures
// consistent across endpoints, and keeps internal error detail out of
// responses.
package httputil
