// Package http provides the SeasonPulse read API over chi.
//
// Handlers are thin: they validate input, delegate to the service layer and
// render JSON through chi/render. Errors are returned as structured API
// errors with stable error codes.
package http
