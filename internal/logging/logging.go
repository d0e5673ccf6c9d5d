// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zap logger used for pipeline diagnostics.
// Degradation events (a catalog down, the normalizer or ranker falling
// back) are reported here rather than on the user-facing output stream.
package logging

import "go.uber.org/zap"

// New returns the process logger. When debug is true, uses development
// config (human-readable, debug level); otherwise uses production config
// (JSON, info level).
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
