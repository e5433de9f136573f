package xmlrpc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncoding is the character set used for method calls without an
// explicit encoding.
const DefaultEncoding = "UTF-8"

// MethodCall is an XML-RPC method call envelope: a method name, an ordered
// parameter list and the character encoding of the serialized request.
type MethodCall struct {
	MethodName string
	Params     Values
	Encoding   string
}

// NewMethodCall creates a method call. The method name is trimmed and must
// not be empty.
func NewMethodCall(method string, params ...*Value) (*MethodCall, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, errors.New("Method name must not be empty")
	}
	return &MethodCall{MethodName: method, Params: params}, nil
}

// encoding returns the configured character set label or the default.
func (m *MethodCall) encoding() string {
	if m.Encoding == "" {
		return DefaultEncoding
	}
	return m.Encoding
}

// WriteTo writes the methodCall element. The params block is omitted
// entirely when there are no parameters.
func (m *MethodCall) WriteTo(w io.Writer) error {
	if strings.TrimSpace(m.MethodName) == "" {
		return errors.New("Method name must not be empty")
	}
	sw := toXMLWriter(w)
	if _, err := sw.WriteString("<methodCall><methodName>"); err != nil {
		return err
	}
	if err := writeEscaped(sw, strings.TrimSpace(m.MethodName)); err != nil {
		return err
	}
	if _, err := sw.WriteString("</methodName>"); err != nil {
		return err
	}
	if len(m.Params) > 0 {
		if _, err := sw.WriteString("<params>"); err != nil {
			return err
		}
		for _, p := range m.Params {
			if _, err := sw.WriteString("<param>"); err != nil {
				return err
			}
			if err := p.WriteTo(sw); err != nil {
				return err
			}
			if _, err := sw.WriteString("</param>"); err != nil {
				return err
			}
		}
		if _, err := sw.WriteString("</params>"); err != nil {
			return err
		}
	}
	_, err := sw.WriteString("</methodCall>")
	return err
}

// String returns the rendered XML of the method call.
func (m *MethodCall) String() string {
	var b strings.Builder
	if err := m.WriteTo(&b); err != nil {
		return ""
	}
	return b.String()
}

// Marshal serializes the method call into a complete XML document in the
// configured character encoding, including the XML header.
func (m *MethodCall) Marshal() ([]byte, error) {
	enc, name, err := lookupEncoding(m.encoding())
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := enc.NewEncoder().Writer(&buf)
	if _, err := w.Write([]byte("<?xml version=\"1.0\" encoding=\"" + name + "\"?>\n")); err != nil {
		return nil, err
	}
	if err := m.WriteTo(w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// lookupEncoding resolves an IANA character set label to an encoding and
// its preferred MIME name.
func lookupEncoding(label string) (encoding.Encoding, string, error) {
	enc, err := ianaindex.MIME.Encoding(label)
	if err != nil || enc == nil {
		return nil, "", fmt.Errorf("Unsupported character encoding: %s", label)
	}
	name, err := ianaindex.MIME.Name(enc)
	if err != nil {
		name = label
	}
	return enc, name, nil
}

// ReadMethodCall parses a methodCall document. The method name is required;
// parameters that fail the value dispatcher are dropped.
func ReadMethodCall(r io.Reader) (*MethodCall, error) {
	root, err := readDocument(r)
	if err != nil {
		return nil, err
	}
	return loadMethodCall(root)
}

func loadMethodCall(root *node) (*MethodCall, error) {
	if !strings.EqualFold(root.name, "methodCall") {
		return nil, fmt.Errorf("Unexpected root element: %s", root.name)
	}
	nameNode := root.child("methodName")
	if nameNode == nil || nameNode.trimmedText() == "" {
		return nil, errors.New("Missing method name")
	}
	m := &MethodCall{MethodName: nameNode.trimmedText()}
	if params := root.child("params"); params != nil {
		for _, p := range params.childAll("param") {
			if v, ok := parseValue(p.child("value")); ok {
				m.Params = append(m.Params, v)
			}
		}
	}
	return m, nil
}
