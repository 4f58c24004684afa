package cupx

import (
	"io"
	"log/slog"
)

// openConfig holds settings shared by all open entry points.
type openConfig struct {
	codec    RecordCodec
	encoding Encoding
	logger   *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (c *openConfig) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.logger
}

func newOpenConfig(opts []OpenOption) openConfig {
	cfg := openConfig{codec: RawCodec{}, encoding: EncodingAuto}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// OpenOption configures an open entry point.
type OpenOption func(*openConfig)

// WithEncoding overrides text-encoding detection for the record. Use this
// when the record's encoding is known in advance.
func WithEncoding(enc Encoding) OpenOption {
	return func(c *openConfig) {
		c.encoding = enc
	}
}

// WithCodec sets the codec used to parse the record. The default is
// [RawCodec], which exposes the record text without interpreting it.
func WithCodec(codec RecordCodec) OpenOption {
	return func(c *openConfig) {
		c.codec = codec
	}
}

// WithLogger enables debug logging during open. By default nothing is logged.
func WithLogger(logger *slog.Logger) OpenOption {
	return func(c *openConfig) {
		c.logger = logger
	}
}
