// Package ccc implements the circular chromosome codec: a reversible
// pipeline that maps bytes onto a 4-letter nucleotide alphabet,
// compresses the sequence with a self-reconstructing adaptive
// dictionary, wraps the code stream in a prime-length ring and stamps
// it with sentinel markers and a content digest.
//
// The pipeline has two independently callable layers. The core layer
// (CompressCore/DecompressCore) handles symbol mapping and dictionary
// compression; the encapsulation layer (Encapsulate/Decapsulate)
// handles the ring structure and integrity markers. Compress and
// Decompress compose both. Decoding is driven entirely by the metadata
// record emitted at encode time; no dictionary is ever transmitted.
package ccc

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/helixstore/ccc/entropy"
	"github.com/helixstore/ccc/marker"
)

const (
	// DefaultChunkSize is the marker chunk size.
	DefaultChunkSize = 1000
	// DefaultMinPatternLength is kept for configuration
	// compatibility; the self-reconstructing dictionary codec does
	// not consult it.
	DefaultMinPatternLength = 4
)

// ErrMissingInput indicates an empty or absent required argument. In
// strict mode every public entry point fails with it; in lenient mode
// the call short-circuits to a well-defined empty result instead.
var ErrMissingInput = errors.New("ccc: missing or empty input")

// Config holds construction-time configuration for a Codec.
type Config struct {
	ChunkSize        int              // marker interval (default 1000)
	MinPatternLength int              // informational (default 4)
	Strict           bool             // abort on anomalies (default true)
	Verbose          bool             // debug logging to stderr
	Digest           marker.Algorithm // content digest algorithm
	Logger           *slog.Logger     // overrides Verbose when set
}

// Option is a functional option for configuring the codec.
type Option func(*Config)

// WithChunkSize sets the marker chunk size. Values <= 0 fall back to
// the default.
func WithChunkSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.ChunkSize = n
		}
	}
}

// WithMinPatternLength sets the minimum pattern length. The value is
// recorded for compatibility but does not influence the dictionary
// codec.
func WithMinPatternLength(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MinPatternLength = n
		}
	}
}

// WithLenient disables strict mode: anomalies degrade gracefully with
// logged warnings and every operation returns a best-effort result.
func WithLenient() Option {
	return func(c *Config) {
		c.Strict = false
	}
}

// WithVerbose enables debug logging of the pipeline steps.
func WithVerbose() Option {
	return func(c *Config) {
		c.Verbose = true
	}
}

// WithDigest selects the integrity digest algorithm. Encoder and
// decoder must be configured with the same algorithm; a mismatch shows
// up as an integrity failure, never as a false pass.
func WithDigest(alg marker.Algorithm) Option {
	return func(c *Config) {
		c.Digest = alg
	}
}

// WithLogger routes all codec logging through the given logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// Codec is the pipeline orchestrator. It is immutable after
// construction and safe for concurrent use: every operation is a pure
// function of its arguments and the configuration.
type Codec struct {
	config Config
	logger *slog.Logger
}

// New creates a Codec. Strict mode is on by default.
func New(opts ...Option) *Codec {
	cfg := Config{
		ChunkSize:        DefaultChunkSize,
		MinPatternLength: DefaultMinPatternLength,
		Strict:           true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Verbose {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		} else {
			logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
		}
	}
	return &Codec{config: cfg, logger: logger}
}

// Config returns a copy of the codec's configuration.
func (c *Codec) Config() Config {
	return c.config
}

// Stats computes the compression statistics record for an original
// buffer and the code stream it compressed to.
func Stats(original []byte, codes []uint32) entropy.Stats {
	return entropy.Analyze(original, codes)
}
