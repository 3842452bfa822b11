package sysconfig

import "context"

type Repository interface {
	// Get returns the configuration row, or (nil, nil) when none exists.
	// Missing configuration is never an error; callers fall back to
	// hard-coded defaults.
	Get(ctx context.Context) (*SystemConfig, error)
}
