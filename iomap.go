// Package iomap loads documents of many text formats into a plain Go mapping
// and writes mappings back out.
//
// An input string may be a URL (http, https or s3), the path of an existing
// file, or the document itself. The format is either named by the caller or
// detected by trying every supported serializer in a fixed order:
//
//	m, err := iomap.Load(ctx, "config.yaml")
//	m, err := iomap.FromQueryString(ctx, "a=1&b=2")
//	out, err := m.ToJSON(iomap.SortKeys(), iomap.Indent(2))
//
// Supported formats: JSON, YAML, TOML, XML, INI, query strings, Base64
// wrapped JSON, and CSV. Decoding failures are reported as *FormatError and
// I/O failures as *SourceError, whatever library produced them.
package iomap
