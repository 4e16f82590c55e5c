// Package decoder decodes a mapping into a typed Go value.
package decoder

// Func decodes a map[string]any into target, which must be a pointer.
type Func func(data map[string]any, target any) error
