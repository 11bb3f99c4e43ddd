package typed

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/aretw0/studyhub/pkg/core"
)

// Option configures a Collection or a Value.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	validator *core.Validator
	newID     func() string
	onChange  func(key string)
}

func defaultConfig() config {
	return config{
		logger:    slog.New(slog.DiscardHandler),
		validator: nil,
		newID:     uuid.NewString,
		onChange:  nil,
	}
}

func buildConfig(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if c.validator == nil {
		c.validator = core.NewValidator()
	}
	return c
}

// WithLogger sets the logger used to report malformed stored values.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithValidator shares a validator between collections.
func WithValidator(v *core.Validator) Option {
	return func(c *config) {
		c.validator = v
	}
}

// WithIDGenerator replaces the default uuid generator (useful in tests).
func WithIDGenerator(fn func() string) Option {
	return func(c *config) {
		c.newID = fn
	}
}

// WithChangeHook registers a callback fired after every successful write.
// It runs outside the collection lock, so it may read the collection.
func WithChangeHook(fn func(key string)) Option {
	return func(c *config) {
		c.onChange = fn
	}
}
