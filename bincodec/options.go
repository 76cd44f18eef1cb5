package bincodec

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/swecodec/component"
	"github.com/arloliu/swecodec/errs"
	"github.com/arloliu/swecodec/internal/options"
)

// Config holds the per-call settings of Encode and Decode.
type Config struct {
	schema       component.Component
	elementCount int
	base64Input  bool
	logger       *zap.Logger
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

// WithSchema lets Encode resolve member references against a schema, so that range
// members and member order are checked the same way Decode checks them.
func WithSchema(schema component.Component) Option {
	return options.NoError(func(c *Config) {
		c.schema = schema
	})
}

// WithElementCount makes Decode stop after n records.
func WithElementCount(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("%w: element count %d", errs.ErrOutOfRange, n)
		}
		c.elementCount = n

		return nil
	})
}

// WithBase64Input makes Decode treat its input as Base64 text even when the
// descriptor declares raw bytes, as produced by Encode with format.OutputBase64.
func WithBase64Input() Option {
	return options.NoError(func(c *Config) {
		c.base64Input = true
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
