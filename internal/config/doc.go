// Package config handles configuration loading, parsing, and validation
// from various sources (.env file, config file, environment variables). It
// builds the single Config value that the process constructs at start-up and
// passes explicitly to every component, keeping credentials and schedule
// settings out of package-level state.
package config
