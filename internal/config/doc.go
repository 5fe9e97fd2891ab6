// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file and TASKDECK_* environment variables.
// It provides type-safe access to the settings needed by the server, the
// task store and authentication.
package config
