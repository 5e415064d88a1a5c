package linkupdater

import "context"

// Updater is the main interface for running an IP replacement over a tree.
type Updater interface {
	// Validate checks the configuration against the filesystem without
	// modifying anything. All returned errors wrap ErrInvalidConfig.
	Validate(config Config) error

	// Run validates, discovers, transforms and returns the per-file outcome.
	// Per-file failures are recorded in the result, not returned.
	Run(ctx context.Context, config Config) (RunResult, error)
}
