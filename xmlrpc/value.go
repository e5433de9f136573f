package xmlrpc

import (
	"encoding/base64"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant stored in a Value.
type Kind int

const (
	// KindNone marks an untyped value. The payload is treated as a string.
	KindNone Kind = iota
	KindBase64
	KindBoolean
	KindDateTime
	KindDouble
	KindInteger
	KindString
	KindArray
	KindStruct
)

// kindTags maps each kind to its canonical wire tag. Built once; the integer
// kind always renders as "int", although "i4" is accepted on parse.
var kindTags = map[Kind]string{
	KindBase64:   "base64",
	KindBoolean:  "boolean",
	KindDateTime: "dateTime.iso8601",
	KindDouble:   "double",
	KindInteger:  "int",
	KindString:   "string",
	KindArray:    "array",
	KindStruct:   "struct",
}

// tagKinds is the reverse lookup, keyed by lower-cased tag name.
var tagKinds = map[string]Kind{
	"base64":           KindBase64,
	"boolean":          KindBoolean,
	"datetime.iso8601": KindDateTime,
	"double":           KindDouble,
	"i4":               KindInteger,
	"int":              KindInteger,
	"string":           KindString,
	"array":            KindArray,
	"struct":           KindStruct,
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == KindNone {
		return "none"
	}
	if t, ok := kindTags[k]; ok {
		return t
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is an XML-RPC value. Exactly one payload field is meaningful,
// selected by Kind. Values are built with the New* constructors or by
// parsing; a zero Value is an untyped empty string.
type Value struct {
	Kind Kind

	// scalar payloads
	Bytes  []byte
	Bool   bool
	Time   time.Time
	Double float64
	Int    int32
	Str    string

	// composite payloads
	Items   []*Value
	Members []*Member
}

// Values is an ordered list of values, e.g. the parameters of a method call.
type Values []*Value

// Member is a named value inside a struct. Names are unique by convention
// only; duplicates are kept and the first match wins on lookup.
type Member struct {
	Name  string
	Value *Value
}

// NewBase64 creates a base64 scalar.
func NewBase64(b []byte) *Value {
	if b == nil {
		b = []byte{}
	}
	return &Value{Kind: KindBase64, Bytes: b}
}

// NewBoolean creates a boolean scalar.
func NewBoolean(b bool) *Value {
	return &Value{Kind: KindBoolean, Bool: b}
}

// NewDateTime creates a dateTime.iso8601 scalar.
func NewDateTime(t time.Time) *Value {
	return &Value{Kind: KindDateTime, Time: t}
}

// NewDouble creates a double scalar.
func NewDouble(d float64) *Value {
	return &Value{Kind: KindDouble, Double: d}
}

// NewInteger creates an int scalar.
func NewInteger(i int32) *Value {
	return &Value{Kind: KindInteger, Int: i}
}

// NewString creates a string scalar. The text is trimmed, this is the
// canonical form.
func NewString(s string) *Value {
	return &Value{Kind: KindString, Str: strings.TrimSpace(s)}
}

// NewArray creates an array value. An empty array is valid.
func NewArray(items ...*Value) *Value {
	return &Value{Kind: KindArray, Items: items}
}

// NewStruct creates a struct value.
func NewStruct(members ...*Member) *Value {
	return &Value{Kind: KindStruct, Members: members}
}

// Field returns the first member with the given name, compared
// case-insensitively, or nil if no member matches.
func (v *Value) Field(name string) *Value {
	for _, m := range v.Members {
		if strings.EqualFold(m.Name, name) {
			return m.Value
		}
	}
	return nil
}

// SetField replaces the value of the first member with the given name,
// compared case-insensitively. If no member matches, nothing happens.
func (v *Value) SetField(name string, value *Value) {
	for _, m := range v.Members {
		if strings.EqualFold(m.Name, name) {
			m.Value = value
			return
		}
	}
}

// Text returns the canonical wire text of a scalar value. For composite
// values it returns the empty string.
func (v *Value) Text() string {
	switch v.Kind {
	case KindBase64:
		return base64.StdEncoding.EncodeToString(v.Bytes)
	case KindBoolean:
		if v.Bool {
			return "1"
		}
		return "0"
	case KindDateTime:
		return v.Time.Format(time.RFC3339)
	case KindDouble:
		return strconv.FormatFloat(v.Double, 'f', -1, 64)
	case KindInteger:
		return strconv.FormatInt(int64(v.Int), 10)
	case KindString, KindNone:
		return v.Str
	}
	return ""
}

// xmlWriter is the writer the rendering code works against.
type xmlWriter interface {
	io.Writer
	io.StringWriter
}

// WriteTo writes the value as a <value> element.
func (v *Value) WriteTo(w io.Writer) error {
	sw := toXMLWriter(w)
	if _, err := sw.WriteString("<value>"); err != nil {
		return err
	}
	if err := v.writeBody(sw); err != nil {
		return err
	}
	_, err := sw.WriteString("</value>")
	return err
}

func (v *Value) writeBody(w xmlWriter) error {
	switch v.Kind {
	case KindNone:
		// untyped: bare text without a child element
		return writeEscaped(w, v.Str)
	case KindArray:
		if _, err := w.WriteString("<array><data>"); err != nil {
			return err
		}
		for _, e := range v.Items {
			if err := e.WriteTo(w); err != nil {
				return err
			}
		}
		_, err := w.WriteString("</data></array>")
		return err
	case KindStruct:
		if _, err := w.WriteString("<struct>"); err != nil {
			return err
		}
		for _, m := range v.Members {
			if err := m.writeTo(w); err != nil {
				return err
			}
		}
		_, err := w.WriteString("</struct>")
		return err
	default:
		tag := kindTags[v.Kind]
		if _, err := w.WriteString("<" + tag + ">"); err != nil {
			return err
		}
		if err := writeEscaped(w, v.Text()); err != nil {
			return err
		}
		_, err := w.WriteString("</" + tag + ">")
		return err
	}
}

func (m *Member) writeTo(w xmlWriter) error {
	if _, err := w.WriteString("<member><name>"); err != nil {
		return err
	}
	if err := writeEscaped(w, m.Name); err != nil {
		return err
	}
	if _, err := w.WriteString("</name>"); err != nil {
		return err
	}
	if err := m.Value.WriteTo(w); err != nil {
		return err
	}
	_, err := w.WriteString("</member>")
	return err
}

// String returns the rendered XML of the value. Equality and ordering of
// values are defined on this rendered form.
func (v *Value) String() string {
	var b strings.Builder
	// rendering into a strings.Builder cannot fail
	v.WriteTo(&b)
	return b.String()
}

// String returns the rendered XML of the member.
func (m *Member) String() string {
	var b strings.Builder
	m.writeTo(&b)
	return b.String()
}

// Equal reports whether two values are equal. Scalars are equal iff their
// rendered XML is ordinally equal; two differently typed scalars that render
// identically are equal. Arrays and structs are equal under the containment
// semantics of CompareSequence.
func (v *Value) Equal(o *Value) bool {
	return v.Compare(o) == 0
}

// Compare orders two values. Scalars order by ordinal comparison of their
// rendered XML. Two arrays order by CompareSequence over their items, two
// structs by CompareMembers over their members.
func (v *Value) Compare(o *Value) int {
	if v == o {
		return 0
	}
	if v == nil {
		return -1
	}
	if o == nil {
		return 1
	}
	if v.Kind == KindArray && o.Kind == KindArray {
		return CompareSequence(v.Items, o.Items)
	}
	if v.Kind == KindStruct && o.Kind == KindStruct {
		return CompareMembers(v.Members, o.Members)
	}
	return strings.Compare(v.String(), o.String())
}

// CompareSequence orders two value sequences. The longer sequence sorts
// greater. Sequences of equal length compare by set containment: the result
// is 0 if every element of a is found somewhere in b by value equality,
// regardless of position, otherwise a sorts less.
func CompareSequence(a, b Values) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for _, av := range a {
		found := false
		for _, bv := range b {
			if av.Equal(bv) {
				found = true
				break
			}
		}
		if !found {
			return -1
		}
	}
	return 0
}

// CompareMembers orders two member sequences with the same containment
// semantics as CompareSequence. Individual members compare by ordinal
// comparison of their rendered XML.
func CompareMembers(a, b []*Member) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for _, am := range a {
		found := false
		for _, bm := range b {
			if am.String() == bm.String() {
				found = true
				break
			}
		}
		if !found {
			return -1
		}
	}
	return 0
}

// writeEscaped writes s with XML special characters escaped.
func writeEscaped(w xmlWriter, s string) error {
	return xml.EscapeText(w, []byte(s))
}

// toXMLWriter adapts an io.Writer that may already support WriteString.
func toXMLWriter(w io.Writer) xmlWriter {
	if xw, ok := w.(xmlWriter); ok {
		return xw
	}
	return &plainXMLWriter{w}
}

type plainXMLWriter struct {
	w io.Writer
}

func (p *plainXMLWriter) WriteString(s string) (int, error) {
	return p.w.Write([]byte(s))
}

func (p *plainXMLWriter) Write(b []byte) (int, error) {
	return p.w.Write(b)
}
