package xmlrpc

import (
	"bytes"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// ParseValue parses a standalone <value> document. It is a convenience
// wrapper around the value dispatcher; malformed input is reported with a
// false flag, never an error.
func ParseValue(doc []byte) (*Value, bool) {
	n, err := readDocument(bytes.NewReader(doc))
	if err != nil {
		return nil, false
	}
	return parseValue(n)
}

// parseValue is the value dispatcher. The node must be a value element; its
// first child element selects the variant. A value without child elements
// but with text defaults to a string. Failures are reported with a false
// flag, malformed input never panics or raises an error.
func parseValue(n *node) (*Value, bool) {
	if n == nil || !strings.EqualFold(n.name, "value") {
		return nil, false
	}
	if len(n.children) == 0 {
		txt := n.trimmedText()
		if txt == "" {
			return nil, false
		}
		return NewString(txt), true
	}
	c := n.children[0]
	kind, ok := tagKinds[strings.ToLower(c.name)]
	if !ok {
		return nil, false
	}
	switch kind {
	case KindInteger:
		i, err := strconv.ParseInt(c.trimmedText(), 10, 32)
		if err != nil {
			return nil, false
		}
		return NewInteger(int32(i)), true
	case KindBoolean:
		b, ok := parseBoolean(c.trimmedText())
		if !ok {
			return nil, false
		}
		return NewBoolean(b), true
	case KindString:
		// may be empty
		return NewString(c.text), true
	case KindDouble:
		d, err := strconv.ParseFloat(c.trimmedText(), 64)
		if err != nil {
			return nil, false
		}
		return NewDouble(d), true
	case KindDateTime:
		t, err := time.Parse(time.RFC3339, c.trimmedText())
		if err != nil {
			return nil, false
		}
		return NewDateTime(t), true
	case KindBase64:
		txt := c.trimmedText()
		if txt == "" {
			// empty base64 content is skipped and the dispatch fails
			return nil, false
		}
		b, err := base64.StdEncoding.DecodeString(txt)
		if err != nil {
			return nil, false
		}
		return NewBase64(b), true
	case KindStruct:
		return parseStruct(n)
	case KindArray:
		return parseArray(n)
	}
	return nil, false
}

// parseBoolean accepts exactly the boolean spellings of the wire format.
func parseBoolean(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "1", "true":
		return true, true
	case "0", "false":
		return false, true
	}
	return false, false
}

// parseArray loads an array from a value element wrapping array/data.
// Elements that fail to parse are dropped. The flag reports whether at least
// one element was loaded, so an empty array yields a false flag.
func parseArray(n *node) (*Value, bool) {
	v := NewArray()
	data := n.path("array", "data")
	if data == nil {
		return v, false
	}
	loaded := false
	for _, c := range data.childAll("value") {
		if e, ok := parseValue(c); ok {
			v.Items = append(v.Items, e)
			loaded = true
		}
	}
	return v, loaded
}

// parseStruct loads a struct from a value element wrapping struct/member.
// Members that fail to parse are dropped. The flag reports whether at least
// one member was loaded.
func parseStruct(n *node) (*Value, bool) {
	v := NewStruct()
	st := n.child("struct")
	if st == nil {
		return v, false
	}
	loaded := false
	for _, c := range st.childAll("member") {
		if m, ok := parseMember(c); ok {
			v.Members = append(v.Members, m)
			loaded = true
		}
	}
	return v, loaded
}

// parseMember loads one struct member from a member element. The name child
// must carry text and the value child must pass the dispatcher.
func parseMember(n *node) (*Member, bool) {
	nameNode := n.child("name")
	if nameNode == nil {
		return nil, false
	}
	name := nameNode.trimmedText()
	if name == "" {
		return nil, false
	}
	value, ok := parseValue(n.child("value"))
	if !ok {
		return nil, false
	}
	return &Member{Name: name, Value: value}, true
}
