package compiletime

import "fmt"

// Config bundles tunables for a compilation run, in the shape
// meta.Config uses its own DefaultConfig/Validate pair for the regex
// engine's runtime strategy selection.
type Config struct {
	// MaxPatterns bounds the number of patterns accepted by Compile.
	MaxPatterns int
	// MaxNFAStates bounds the state count of each pattern's own NFA.
	MaxNFAStates int
	// MaxDFAStates bounds the subset-construction DFA's state count
	// before minimization.
	MaxDFAStates int
	// DisableMinimization skips component E, emitting the raw
	// subset-construction DFA. Intended for debugging the pipeline, never
	// for production tables.
	DisableMinimization bool
	// LiteralAcceleratorThreshold is the minimum number of pure-literal
	// patterns bound to a single mode before an Aho-Corasick accelerator
	// is attached to it.
	LiteralAcceleratorThreshold int
}

// DefaultConfig returns sensible limits for interactive use.
func DefaultConfig() Config {
	return Config{
		MaxPatterns:                 4096,
		MaxNFAStates:                1 << 20,
		MaxDFAStates:                1 << 18,
		DisableMinimization:         false,
		LiteralAcceleratorThreshold: 32,
	}
}

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config field %s: %s", e.Field, e.Reason)
}

// Validate checks c for internal consistency, returning the first
// violation found.
func (c Config) Validate() error {
	if c.MaxPatterns <= 0 {
		return &ConfigError{Field: "MaxPatterns", Reason: "must be positive"}
	}
	if c.MaxNFAStates <= 0 {
		return &ConfigError{Field: "MaxNFAStates", Reason: "must be positive"}
	}
	if c.MaxDFAStates <= 0 {
		return &ConfigError{Field: "MaxDFAStates", Reason: "must be positive"}
	}
	if c.LiteralAcceleratorThreshold < 0 {
		return &ConfigError{Field: "LiteralAcceleratorThreshold", Reason: "must not be negative"}
	}
	return nil
}
