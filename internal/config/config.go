// Package config resolves render/diff Policy defaults from environment
// variables, so the CLI's flag defaults and any future daemon/server entry
// point share one source of truth.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/resym-go/resymgo/internal/cxx"
)

const (
	envPrimitiveFlavor = "RESYMGO_PRIMITIVE_FLAVOR"
	envAccessFlavor    = "RESYMGO_ACCESS_SPECIFIERS"
	envIgnoreStd       = "RESYMGO_IGNORE_STD_TYPES"
	envLogLevel        = "RESYMGO_LOG_LEVEL"
)

// PolicyFromEnv starts from cxx.DefaultPolicy and overrides fields that have
// a corresponding environment variable set. Unset or unparseable variables
// are silently ignored, leaving the default in place.
func PolicyFromEnv() cxx.Policy {
	policy := cxx.DefaultPolicy()

	if v, ok := os.LookupEnv(envPrimitiveFlavor); ok {
		if flavor, err := cxx.ParseFlavor(v); err == nil {
			policy.PrimitiveFlavor = flavor
		}
	}

	if v, ok := os.LookupEnv(envAccessFlavor); ok {
		if flavor, err := cxx.ParseAccessSpecifierFlavor(v); err == nil {
			policy.AccessSpecifiers = flavor
		}
	}

	if v, ok := os.LookupEnv(envIgnoreStd); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			policy.IgnoreStdTypes = b
		}
	}

	return policy
}

// LogLevel returns the configured log level, defaulting to "info".
func LogLevel() string {
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		return v
	}
	return "info"
}
