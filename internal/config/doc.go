// Package config loads, normalizes, and validates the TOML configuration for
// the blue carbon client: registry endpoint, staging directories, camera
// capture settings, notifications, and logging.
package config
