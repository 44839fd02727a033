package regex

import "fmt"

// Config controls compilation and matching behavior.
//
// Example:
//
//	config := regex.DefaultConfig()
//	config.MaxSteps = 100000 // give up on pathological inputs
//	re, err := regex.CompileWithConfig(`(a+)+b`, config)
type Config struct {
	// IgnoreCase folds literals, classes and backreferences with simple
	// Unicode case folding.
	// Default: false
	IgnoreCase bool

	// MaxSteps caps the number of node evaluations one MatchContext call may
	// perform across all start offsets. Zero means unlimited; recursion
	// depth stays bounded either way (ErrDepthLimit).
	// Default: 0
	MaxSteps int

	// EnablePrefilter rejects texts that cannot contain a required literal
	// before backtracking. Ignored when IgnoreCase is set.
	// Default: true
	EnablePrefilter bool
}

// DefaultConfig returns a case-sensitive, unbounded configuration with the
// literal prefilter enabled.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter: true,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: MaxSteps must be >= 0, got %d", ErrInvalidConfig, c.MaxSteps)
	}
	return nil
}
