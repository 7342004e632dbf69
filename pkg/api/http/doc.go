// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Authentication (login, registration, token verification)
//   - User, song and favorite management
//   - Health checks
//   - Prometheus metrics
package http
