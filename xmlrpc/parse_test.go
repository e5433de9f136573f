package xmlrpc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScalars(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want *Value
	}{
		{"i4", "<value><i4>123</i4></value>", NewInteger(123)},
		{"int", "<value><int>-5</int></value>", NewInteger(-5)},
		{"int whitespace", "<value><int> 7 </int></value>", NewInteger(7)},
		{"boolean 1", "<value><boolean>1</boolean></value>", NewBoolean(true)},
		{"boolean 0", "<value><boolean>0</boolean></value>", NewBoolean(false)},
		{"boolean true", "<value><boolean>true</boolean></value>", NewBoolean(true)},
		{"boolean TRUE", "<value><boolean>TRUE</boolean></value>", NewBoolean(true)},
		{"boolean false", "<value><boolean>false</boolean></value>", NewBoolean(false)},
		{"string", "<value><string>abc</string></value>", NewString("abc")},
		{"string empty", "<value><string></string></value>", NewString("")},
		{"untyped", "<value>hello</value>", NewString("hello")},
		{"double", "<value><double>123.456</double></value>", NewDouble(123.456)},
		{"double exp", "<value><double>-1e3</double></value>", NewDouble(-1000)},
		{"dateTime", "<value><dateTime.iso8601>2018-01-01T00:00:00Z</dateTime.iso8601></value>",
			NewDateTime(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC))},
		{"base64", "<value><base64>SGVsbG8gV29ybGQh</base64></value>", NewBase64([]byte("Hello World!"))},
		{"case-insensitive tags", "<VALUE><INT>7</INT></VALUE>", NewInteger(7)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, ok := ParseValue([]byte(c.in))
			require.True(t, ok)
			assert.True(t, c.want.Equal(v), "want: %s got: %s", c.want, v)
		})
	}
}

func TestParseFailures(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"not a value element", "<data>1</data>"},
		{"empty value", "<value></value>"},
		{"whitespace only", "<value>   </value>"},
		{"unknown tag", "<value><i8>5</i8></value>"},
		{"bad int", "<value><int>abc</int></value>"},
		{"int overflow", "<value><int>3000000000</int></value>"},
		{"bad boolean", "<value><boolean>2</boolean></value>"},
		{"boolean yes", "<value><boolean>yes</boolean></value>"},
		{"bad double", "<value><double>abc</double></value>"},
		{"bad dateTime", "<value><dateTime.iso8601>20180101T000000</dateTime.iso8601></value>"},
		{"empty base64", "<value><base64></base64></value>"},
		{"bad base64", "<value><base64>!!!</base64></value>"},
		{"malformed xml", "<value><int>5</value>"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, ok := ParseValue([]byte(c.in))
			assert.False(t, ok)
		})
	}
}

func TestParseStruct(t *testing.T) {
	in := "<value><struct>" +
		"<member><name>Field1</name><value><int>123</int></value></member>" +
		"<member><name>Field2</name><value>abc</value></member>" +
		"</struct></value>"
	v, ok := ParseValue([]byte(in))
	require.True(t, ok)
	require.Equal(t, KindStruct, v.Kind)
	require.Len(t, v.Members, 2)
	assert.True(t, NewInteger(123).Equal(v.Field("Field1")))
	assert.True(t, NewString("abc").Equal(v.Field("Field2")))
}

func TestParseStructSkipsBadMembers(t *testing.T) {
	in := "<value><struct>" +
		"<member><name>good</name><value><int>1</int></value></member>" +
		"<member><name>bad</name><value><int>x</int></value></member>" +
		"<member><value><int>2</int></value></member>" +
		"</struct></value>"
	v, ok := ParseValue([]byte(in))
	require.True(t, ok)
	require.Len(t, v.Members, 1)
	assert.Equal(t, "good", v.Members[0].Name)
}

func TestParseArray(t *testing.T) {
	in := "<value><array><data>" +
		"<value>abc</value>" +
		"<value><i4>4</i4></value>" +
		"<value><struct><member><name>Field</name><value>x</value></member></struct></value>" +
		"</data></array></value>"
	v, ok := ParseValue([]byte(in))
	require.True(t, ok)
	require.Equal(t, KindArray, v.Kind)
	require.Len(t, v.Items, 3)
	assert.Equal(t, KindString, v.Items[0].Kind)
	assert.Equal(t, KindInteger, v.Items[1].Kind)
	assert.Equal(t, KindStruct, v.Items[2].Kind)
}

func TestParseEmptyArray(t *testing.T) {
	// parses without error but nothing is loaded
	v, ok := ParseValue([]byte("<value><array><data/></array></value>"))
	if ok {
		t.Error("loaded flag must be false for an empty array")
	}
	if v == nil || len(v.Items) != 0 {
		t.Errorf("unexpected value: %v", v)
	}
}

func TestParseArrayDropsBadElements(t *testing.T) {
	in := "<value><array><data>" +
		"<value><int>1</int></value>" +
		"<value><int>x</int></value>" +
		"<value><int>3</int></value>" +
		"</data></array></value>"
	v, ok := ParseValue([]byte(in))
	require.True(t, ok)
	require.Len(t, v.Items, 2)
	assert.True(t, NewInteger(1).Equal(v.Items[0]))
	assert.True(t, NewInteger(3).Equal(v.Items[1]))
}

func TestRoundTrip(t *testing.T) {
	cases := []*Value{
		NewInteger(42),
		NewBoolean(true),
		NewBoolean(false),
		NewString("Hello World!"),
		NewDouble(123.456),
		NewDateTime(time.Date(2020, 6, 15, 12, 30, 45, 0, time.UTC)),
		NewBase64([]byte{0, 1, 2, 254, 255}),
		NewArray(NewInteger(1), NewString("two"), NewDouble(3)),
		NewStruct(
			&Member{"a", NewInteger(1)},
			&Member{"b", NewArray(NewBoolean(true))},
			&Member{"c", NewStruct(&Member{"nested", NewString("deep")})},
		),
	}
	for _, in := range cases {
		out, ok := ParseValue([]byte(in.String()))
		require.True(t, ok, "parse failed for %s", in)
		assert.True(t, in.Equal(out), "round trip changed %s to %s", in, out)
	}
}
