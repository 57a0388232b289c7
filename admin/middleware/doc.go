// Package middleware provides the net/http middleware used by the admin
// endpoint: request IDs, panic recovery, access logging, a body size limit
// and a per-request timeout.
package middleware
