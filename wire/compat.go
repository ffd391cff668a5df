package wire

import (
	"os"
	"strconv"
)

// DefaultMaxDepth bounds how deeply LEN payloads are reinterpreted as
// nested messages when Config.MaxDepth is not set.
const DefaultMaxDepth = 100

// Config controls the decoder's inference and its resource limits.
type Config struct {
	// MaxDepth: LEN payloads nested deeper than this are kept as raw bytes
	// without a decode attempt. Zero or negative means DefaultMaxDepth.
	MaxDepth int

	// MaxInputSize: when positive, Decode rejects larger inputs with
	// ErrInputTooLarge before reading anything.
	MaxInputSize int

	// DisableInference: when true, LEN payloads are always returned as raw
	// bytes.
	DisableInference bool

	// OnSpeculationFailure, if set, is called for every LEN payload that was
	// tried as a nested message and did not parse. depth is the nesting
	// level the payload would have had.
	OnSpeculationFailure func(field FieldNumber, depth int, err error)
}

func (c Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{MaxDepth: DefaultMaxDepth}
}

var config = ConfigFromEnv(DefaultConfig(), os.Getenv)

// SetConfig sets the package configuration used by Decode and NewDecoder.
func SetConfig(c Config) { config = c }

// CurrentConfig returns the package configuration.
func CurrentConfig() Config { return config }

// ConfigFromEnv overlays QPB_MAX_DEPTH, QPB_MAX_INPUT_SIZE and
// QPB_DISABLE_INFERENCE onto base. Unset or unparsable values leave base
// unchanged.
func ConfigFromEnv(base Config, getenv func(string) string) Config {
	if n, err := strconv.Atoi(getenv("QPB_MAX_DEPTH")); err == nil && n > 0 {
		base.MaxDepth = n
	}
	if n, err := strconv.Atoi(getenv("QPB_MAX_INPUT_SIZE")); err == nil && n >= 0 {
		base.MaxInputSize = n
	}
	if v := getenv("QPB_DISABLE_INFERENCE"); v == "1" || v == "true" {
		base.DisableInference = true
	}
	return base
}
