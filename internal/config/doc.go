// Package config loads service configuration from defaults, a YAML file and
// ONBOARDING_* environment variables.
package config
