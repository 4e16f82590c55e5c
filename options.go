package iomap

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yacchi/iomap/detect"
	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/registry"
	"github.com/yacchi/iomap/source"
	s3src "github.com/yacchi/iomap/source/s3"
)

// Option configures a single decode or encode call.
type Option func(*config)

type config struct {
	opts       format.Options
	file       string
	logger     *zap.Logger
	registry   *registry.Registry
	httpClient *http.Client
	s3Client   s3src.API
	encoding   string
}

func newConfig(opts []Option) *config {
	c := &config{
		opts:   format.Options{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = defaultRegistry
	}
	return c
}

var defaultRegistry = registry.Default()

func (c *config) resolver() *source.Resolver {
	return source.NewResolver(
		source.WithExtensionLookup(c.registry.ByExtension),
		source.WithLogger(c.logger),
		source.WithHTTPClient(c.httpClient),
		source.WithS3Client(c.s3Client),
		source.WithEncoding(c.encoding),
	)
}

func (c *config) detector() *detect.Detector {
	return detect.New(detect.WithRegistry(c.registry), detect.WithLogger(c.logger))
}

// WithOption passes a format specific option to the serializer, such as
// "comments" for JSON or "subformat" for Base64.
func WithOption(key string, value any) Option {
	return func(c *config) {
		c.opts[key] = value
	}
}

// SortKeys requests sorted keys on encode. Keys are always written in sorted
// order; the option exists so callers can state the requirement explicitly.
func SortKeys() Option {
	return WithOption(format.OptSortKeys, true)
}

// Indent sets the indentation width for formats that support it.
func Indent(n int) Option {
	return WithOption(format.OptIndent, n)
}

// WithFile makes the encode call also write its output to path. Parent
// directories are created and an existing file is replaced atomically.
func WithFile(path string) Option {
	return func(c *config) {
		c.file = path
	}
}

// WithLogger sets the logger for resolution and detection diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegistry replaces the built-in serializer registry.
func WithRegistry(r *registry.Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

// WithHTTPClient sets the client used to fetch http and https inputs.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithS3Client sets the client used to fetch s3 inputs.
func WithS3Client(client s3src.API) Option {
	return func(c *config) {
		c.s3Client = client
	}
}

// WithEncoding sets the character encoding of file and URL inputs.
func WithEncoding(name string) Option {
	return func(c *config) {
		c.encoding = name
	}
}
