// Package app wires the SeasonPulse web server: configuration, logging,
// telemetry, storage adapters, services and the HTTP router, plus graceful
// startup and shutdown.
package app
