// Package config defines the application configuration structure and loads it
// from environment variables and an optional YAML file via viper, validating
// the result with validator struct tags.
package config
