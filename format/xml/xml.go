// Package xml provides the XML serializer backed by github.com/clbanning/mxj/v2.
//
// The element tree is flattened into nested mappings: the root tag becomes
// the single top-level key, attributes are keys prefixed with "-", and text
// next to attributes is stored under "#text". XML has no scalar types, so
// every leaf decodes as a string.
package xml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/clbanning/mxj/v2"
	"github.com/yacchi/iomap/format"
)

// OptFullDocument controls whether Encode emits the XML declaration.
const OptFullDocument = "full_document"

// ErrRoot is wrapped when a mapping cannot be written as a single rooted document.
var ErrRoot = errors.New("document must have exactly one root element")

// New creates the XML serializer.
//
// Recognized options: "indent" and "full_document" (encode, default true).
func New() format.Serializer {
	return format.NewSerializer(format.XML, Decode, Encode)
}

// Decode parses XML content into a mapping keyed by the root tag.
func Decode(content string, _ format.Options) (map[string]any, error) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "<") {
		return nil, format.Errorf(format.XML, format.OpDecode, "content does not start with an element")
	}

	m, err := mxj.NewMapXml([]byte(trimmed))
	if err != nil {
		return nil, format.Wrap(format.XML, format.OpDecode, err)
	}
	if err := checkSingleRoot([]byte(trimmed)); err != nil {
		return nil, format.Wrap(format.XML, format.OpDecode, err)
	}
	if len(m) == 0 {
		return nil, format.Wrap(format.XML, format.OpDecode, ErrRoot)
	}
	return map[string]any(m), nil
}

// checkSingleRoot rejects content with more than one root element or with
// text outside of it. Comments, processing instructions and directives may
// surround the root.
func checkSingleRoot(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }
	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return fmt.Errorf("%w: unexpected element <%s> after root", ErrRoot, t.Name.Local)
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("%w: unexpected text outside root", ErrRoot)
			}
		}
	}
	if roots == 0 {
		return ErrRoot
	}
	return nil
}

// Encode serializes data as an XML document. data must hold exactly one key,
// which names the root element.
func Encode(data map[string]any, opts format.Options) (string, error) {
	if len(data) != 1 {
		return "", format.Wrap(format.XML, format.OpEncode, fmt.Errorf("%w: got %d top-level keys", ErrRoot, len(data)))
	}

	m := mxj.Map(data)
	var (
		out []byte
		err error
	)
	if indent := opts.Int(format.OptIndent, 0); indent > 0 {
		out, err = m.XmlIndent("", strings.Repeat(" ", indent))
	} else {
		out, err = m.Xml()
	}
	if err != nil {
		return "", format.Wrap(format.XML, format.OpEncode, err)
	}

	if opts.Bool(OptFullDocument, true) {
		return xml.Header + string(out), nil
	}
	return string(out), nil
}
