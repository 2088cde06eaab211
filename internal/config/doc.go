// Package config provides configuration loading and validation for the camb
// client. It handles YAML-based configuration with per-section validation
// and environment fallback for the API credential.
package config
