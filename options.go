package waveletmatrix

import (
	"go.uber.org/zap"
)

// Default configuration values.
const (
	// DefaultBlockBits is the leaf block capacity of a DynamicBitSequence.
	DefaultBlockBits = 2048

	// MinBlockBits is the smallest accepted leaf block capacity.
	MinBlockBits = 128

	// MaxBitLen is the widest supported symbol.
	MaxBitLen = 64
)

type options struct {
	bitLen    uint64
	bitLenSet bool
	blockBits uint64
	logger    *zap.Logger
}

func defaultOptions() options {
	return options{
		blockBits: DefaultBlockBits,
		logger:    zap.NewNop(),
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures matrices and bit sequences during creation.
type Option func(*options)

// WithBitLen fixes the symbol bit width of a static matrix instead of
// inferring it from the largest value. Widths of 0 or above 64 are
// rejected by the constructor with ErrInvalidBitLen.
func WithBitLen(blen uint64) Option {
	return func(o *options) {
		o.bitLen = blen
		o.bitLenSet = true
	}
}

// WithBlockBits sets the leaf block capacity of dynamic bit sequences.
// The value is rounded down to a multiple of 64; values below
// MinBlockBits are ignored.
func WithBlockBits(n uint64) Option {
	return func(o *options) {
		n &^= 63
		if n >= MinBlockBits {
			o.blockBits = n
		}
	}
}

// WithLogger sets the logger used for debug events.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
