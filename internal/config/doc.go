// Package config loads and validates SeasonPulse configuration.
//
// Configuration is layered: a .env file (if present) is loaded first,
// then environment variables with the SEASON prefix, then an optional
// YAML file fills in anything the environment left unset. Defaults come
// from struct tags. The merged result is validated before use.
package config
