// Package detect decodes content whose format is not known in advance.
//
// Candidates are tried one at a time in registry order and the first
// serializer that decodes the content wins. Order matters: lenient formats
// such as YAML would otherwise claim content meant for a stricter one.
package detect

import (
	"errors"

	"go.uber.org/zap"

	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/registry"
)

// ErrUndetectable is wrapped by the *format.FormatError returned when no
// registered format can decode the content.
var ErrUndetectable = errors.New("content matches no supported format")

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger used to report rejected candidates.
func WithLogger(l *zap.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithRegistry replaces the default registry.
func WithRegistry(r *registry.Registry) Option {
	return func(d *Detector) {
		if r != nil {
			d.registry = r
		}
	}
}

// Detector selects a serializer for content and decodes it.
type Detector struct {
	registry *registry.Registry
	logger   *zap.Logger
}

// New creates a Detector over the default registry.
func New(opts ...Option) *Detector {
	d := &Detector{
		registry: registry.Default(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the detector draws serializers from.
func (d *Detector) Registry() *registry.Registry {
	return d.registry
}

// Decode decodes content and reports which format accepted it.
//
// With a non-empty explicit identifier only that serializer is used and its
// error is returned unchanged. Otherwise a non-empty hint is tried first, then
// every detectable format in order. Rejections during detection are logged at
// debug level and discarded.
func (d *Detector) Decode(content string, explicit, hint format.Identifier, opts format.Options) (format.Identifier, map[string]any, error) {
	if explicit != "" {
		s, err := d.registry.Lookup(explicit)
		if err != nil {
			return "", nil, err
		}
		data, err := s.Decode(content, opts)
		if err != nil {
			return "", nil, err
		}
		return explicit, data, nil
	}

	if hint != "" {
		if s, err := d.registry.Lookup(hint); err == nil {
			data, err := s.Decode(content, opts)
			if err == nil {
				return hint, data, nil
			}
			d.logger.Debug("hinted format rejected content",
				zap.Stringer("format", hint), zap.Error(err))
		} else {
			d.logger.Debug("ignoring unknown format hint", zap.Stringer("format", hint))
		}
	}

	for _, e := range d.registry.Detectable() {
		if e.Format == hint {
			continue
		}
		data, err := e.Serializer.Decode(content, opts)
		if err != nil {
			d.logger.Debug("format rejected content",
				zap.Stringer("format", e.Format), zap.Error(err))
			continue
		}
		d.logger.Debug("format detected", zap.Stringer("format", e.Format))
		return e.Format, data, nil
	}

	return "", nil, &format.FormatError{Op: format.OpDecode, Err: ErrUndetectable}
}
