// Package api handles incoming HTTP requests, routing, request
// validation, and response formatting. It adapts external clients to
// the internal services, translating HTTP concerns to business
// operations.
package api
