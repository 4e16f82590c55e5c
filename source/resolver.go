package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/registry"
	bytessrc "github.com/yacchi/iomap/source/bytes"
	fssrc "github.com/yacchi/iomap/source/fs"
	httpsrc "github.com/yacchi/iomap/source/http"
	s3src "github.com/yacchi/iomap/source/s3"
)

// Ensure every built-in source implements Source.
var (
	_ Source = (*bytessrc.Source)(nil)
	_ Source = (*fssrc.Source)(nil)
	_ Source = (*httpsrc.Source)(nil)
	_ Source = (*s3src.Source)(nil)
)

// ExtensionLookup maps a file extension to a format identifier.
type ExtensionLookup func(ext string) (format.Identifier, bool)

// pathSyntax holds characters that never appear in the single-line inputs
// treated as file paths, but are common in inline documents.
const pathSyntax = "{}[]<>=&\"'"

// Resolver decides whether an input is a URL, a file path or literal content
// and loads it.
type Resolver struct {
	lookupExt  ExtensionLookup
	logger     *zap.Logger
	httpClient *http.Client
	s3Client   s3src.API
	encoding   string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExtensionLookup sets how file extensions map to format hints.
// The default uses the built-in registry.
func WithExtensionLookup(fn ExtensionLookup) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.lookupExt = fn
		}
	}
}

// WithLogger sets the logger used for resolution decisions.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithHTTPClient sets the client used for http and https URLs.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.httpClient = c
	}
}

// WithS3Client sets the client used for s3 URLs.
func WithS3Client(c s3src.API) Option {
	return func(r *Resolver) {
		r.s3Client = c
	}
}

// WithEncoding sets the character encoding of files and fetched documents,
// by WHATWG label ("shift_jis", "iso-8859-1", ...). Content is converted to
// UTF-8 before it is returned. Without it content must already be UTF-8.
func WithEncoding(name string) Option {
	return func(r *Resolver) {
		r.encoding = name
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		lookupExt: registry.Default().ByExtension,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve classifies input and returns its content.
//
// URLs with an http, https or s3 scheme and a host are fetched. Otherwise, an
// input naming an existing regular file is read from disk; file existence
// wins over any interpretation as content. Anything else is literal content,
// except a single-line input that looks like a path with a known extension,
// which is reported as a missing file.
func (r *Resolver) Resolve(ctx context.Context, input string) (Descriptor, error) {
	if u, ok := parseURL(input); ok {
		return r.fetch(ctx, u)
	}

	if isPathCandidate(input) {
		isFile, err := fssrc.IsFile(input)
		if err != nil && errors.Is(err, fs.ErrPermission) {
			return Descriptor{}, &SourceError{Location: input, Op: OpRead, Err: err}
		}
		if isFile {
			return r.read(ctx, input)
		}
		if hint, ok := r.hint(filepath.Ext(input)); ok && looksLikePath(input) {
			r.logger.Debug("input looks like a missing file",
				zap.String("path", input), zap.Stringer("hint", hint))
			return Descriptor{}, &SourceError{Location: input, Op: OpRead, Err: fs.ErrNotExist}
		}
	}

	return r.literal(ctx, input)
}

func (r *Resolver) literal(ctx context.Context, input string) (Descriptor, error) {
	src := bytessrc.FromString(input)
	data, err := src.Load(ctx)
	if err != nil {
		return Descriptor{}, &SourceError{Op: OpRead, Err: err}
	}
	r.logger.Debug("resolved literal input", zap.Int("length", src.Len()))
	return Descriptor{Kind: KindLiteral, Content: string(data)}, nil
}

func (r *Resolver) read(ctx context.Context, p string) (Descriptor, error) {
	data, err := fssrc.New(p).Load(ctx)
	if err != nil {
		return Descriptor{}, &SourceError{Location: p, Op: OpRead, Err: err}
	}
	content, err := r.text(data)
	if err != nil {
		return Descriptor{}, &SourceError{Location: p, Op: OpRead, Err: err}
	}

	hint, _ := r.hint(filepath.Ext(p))
	r.logger.Debug("resolved file input",
		zap.String("path", p), zap.Stringer("hint", hint), zap.Int("length", len(content)))
	return Descriptor{Kind: KindFile, Location: p, Content: content, Hint: hint}, nil
}

func (r *Resolver) fetch(ctx context.Context, u *url.URL) (Descriptor, error) {
	loc := u.String()

	var src Source
	switch u.Scheme {
	case "s3":
		bucket, key, err := s3src.ParseURL(loc)
		if err != nil {
			return Descriptor{}, &SourceError{Location: loc, Op: OpFetch, Err: err}
		}
		src = s3src.New(bucket, key, s3src.WithClient(r.s3Client))
	default:
		src = httpsrc.New(loc, httpsrc.WithClient(r.httpClient))
	}

	data, err := src.Load(ctx)
	if err != nil {
		return Descriptor{}, &SourceError{Location: loc, Op: OpFetch, Err: err}
	}
	content, err := r.text(data)
	if err != nil {
		return Descriptor{}, &SourceError{Location: loc, Op: OpFetch, Err: err}
	}

	hint, _ := r.hint(path.Ext(u.Path))
	r.logger.Debug("resolved url input",
		zap.String("url", loc), zap.Stringer("hint", hint), zap.Int("length", len(content)))
	return Descriptor{Kind: KindURL, Location: loc, Content: content, Hint: hint}, nil
}

func (r *Resolver) hint(ext string) (format.Identifier, bool) {
	if ext == "" {
		return "", false
	}
	return r.lookupExt(ext)
}

// text converts data to a UTF-8 string. A byte order mark selects UTF-8 or
// UTF-16 and is dropped; otherwise the configured encoding applies.
func (r *Resolver) text(data []byte) (string, error) {
	fallback := encoding.Nop.NewDecoder()
	if r.encoding != "" {
		enc, err := htmlindex.Get(r.encoding)
		if err != nil {
			return "", fmt.Errorf("unknown encoding %q: %w", r.encoding, err)
		}
		fallback = enc.NewDecoder()
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotText, err)
	}
	if !isText(decoded) {
		return "", fmt.Errorf("%w: detected %s", ErrNotText, mimetype.Detect(decoded).String())
	}
	return string(decoded), nil
}

// isText reports whether data is UTF-8 that content sniffing places under
// text/plain.
func isText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if !utf8.Valid(data) {
		return false
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func parseURL(input string) (*url.URL, bool) {
	if input == "" || strings.ContainsAny(input, " \t\r\n") {
		return nil, false
	}
	u, err := url.Parse(input)
	if err != nil || u.Host == "" {
		return nil, false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "s3":
		u.Scheme = strings.ToLower(u.Scheme)
		return u, true
	}
	return nil, false
}

// isPathCandidate rules out inputs that cannot be a file name.
func isPathCandidate(input string) bool {
	return input != "" && len(input) < 4096 && !strings.ContainsAny(input, "\n\r\x00")
}

// looksLikePath reports whether input has the shape of a file path rather
// than a one-line document.
func looksLikePath(input string) bool {
	return !strings.ContainsAny(input, " \t"+pathSyntax)
}
