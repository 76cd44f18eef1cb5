package textcodec

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/internal/options"
)

// Config holds the per-call settings of Encode and Decode.
type Config struct {
	elementCount  int
	lenient       bool
	legacyDecimal bool
	logger        *zap.Logger
}

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{elementCount: -1, logger: zap.NewNop()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Option configures Encode and Decode.
type Option = options.Option[*Config]

// WithElementCount limits Decode to the first n non-blank blocks. It takes
// precedence over the element count declared by the schema.
func WithElementCount(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("%w: element count %d", errs.ErrOutOfRange, n)
		}
		c.elementCount = n

		return nil
	})
}

// WithLenientParsing makes Decode return NaN for unparsable numeric tokens and the
// raw string for ranges without exactly two bounds, instead of errs.ErrInvalidToken.
func WithLenientParsing() Option {
	return options.NoError(func(c *Config) {
		c.lenient = true
	})
}

// WithLegacyDecimalSubstitution applies the decimal separator to the whole text:
// every '.' of the encoded output is replaced, and every decimal separator of the
// decoded input is replaced by '.' before tokenizing. Periods inside text tokens and
// ISO 8601 timestamps are affected too. Use only for payloads produced that way.
func WithLegacyDecimalSubstitution() Option {
	return options.NoError(func(c *Config) {
		c.legacyDecimal = true
	})
}

// WithLogger sets the logger used for debug diagnostics. Nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}
