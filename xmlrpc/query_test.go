package xmlrpc

import (
	"reflect"
	"testing"
	"time"
)

func TestQuery_Int(t *testing.T) {
	cases := []struct {
		in        *Value
		wanted    int
		errWanted bool
	}{
		{&Value{}, 0, true},
		{NewString("123"), 0, true},
		{NewInteger(123), 123, false},
		{NewInteger(-456), -456, false},
	}
	for _, c := range cases {
		e := Q(c.in)
		i := e.Int()
		err := e.Err()
		if i != c.wanted || (err != nil) != c.errWanted {
			t.Fail()
		}
	}
}

func TestQuery_Bool(t *testing.T) {
	cases := []struct {
		in        *Value
		wanted    bool
		errWanted bool
	}{
		{&Value{}, false, true},
		{NewInteger(1), false, true},
		{NewBoolean(false), false, false},
		{NewBoolean(true), true, false},
	}
	for _, c := range cases {
		u := Q(c.in)
		b := u.Bool()
		err := u.Err()
		if b != c.wanted || (err != nil) != c.errWanted {
			t.Fail()
		}
	}
}

func TestQuery_String(t *testing.T) {
	cases := []struct {
		in        *Value
		wanted    string
		errWanted bool
	}{
		{NewString("abc"), "abc", false},
		{&Value{Str: "def"}, "def", false},
		{NewInteger(1), "", true},
	}
	for _, c := range cases {
		u := Q(c.in)
		s := u.String()
		if s != c.wanted || (u.Err() != nil) != c.errWanted {
			t.Fail()
		}
	}
}

func TestQuery_Float64(t *testing.T) {
	cases := []struct {
		in        *Value
		wanted    float64
		errWanted bool
	}{
		{&Value{}, 0.0, true},
		{NewString("1.5"), 0.0, true},
		{NewDouble(0), 0.0, false},
		{NewDouble(-1000), -1000.0, false},
	}
	for _, c := range cases {
		u := Q(c.in)
		d := u.Float64()
		err := u.Err()
		if d != c.wanted || (err != nil) != c.errWanted {
			t.Fail()
		}
	}
}

func TestQuery_Key(t *testing.T) {
	e := Q(NewStruct())
	e.Key("unknown")
	if e.Err() == nil {
		t.Fail()
	}

	e = Q(NewStruct(
		&Member{"name1", NewInteger(123)},
		&Member{"name2", NewString("abc")},
	))

	e.Key("unknown")
	if e.Err() == nil {
		t.Fail()
	}
	*e.err = nil

	i := e.Key("name1").Int()
	if e.Err() != nil || i != 123 {
		t.Fail()
	}

	s := e.Key("name2").String()
	if e.Err() != nil || s != "abc" {
		t.Fail()
	}

	s = e.Key("name2").Key("unknown").Key("unknown2").String()
	if e.Err() == nil || s != "" {
		t.Fail()
	}
	*e.err = nil

	// member names match case-sensitively
	e.Key("Name1")
	if e.Err() == nil {
		t.Fail()
	}
}

func TestQuery_TryKey(t *testing.T) {
	e := Q(NewStruct(
		&Member{"name1", NewInteger(123)},
	))
	i := e.TryKey("name1").Int()
	if i != 123 || e.Err() != nil {
		t.Fail()
	}
	i = e.TryKey("unknown").Int()
	if i != 0 || e.Err() != nil {
		t.Fail()
	}
	i = e.TryKey("name1").TryKey("unknown").Int()
	if i != 0 || e.Err() == nil {
		t.Fail()
	}
}

func TestQuery_DuplicateNames(t *testing.T) {
	// first member wins on duplicate names
	e := Q(NewStruct(
		&Member{"name", NewInteger(1)},
		&Member{"name", NewInteger(2)},
	))
	if i := e.Key("name").Int(); e.Err() != nil || i != 1 {
		t.Errorf("unexpected member: %d %v", i, e.Err())
	}
}

func TestQuery_Slice(t *testing.T) {
	e := Q(NewArray(NewString("abc"), NewInteger(4)))
	if len(e.Slice()) != 2 {
		t.Fail()
	}
	s := e.Slice()[0].String()
	i := e.Slice()[1].Int()
	if s != "abc" || i != 4 || e.Err() != nil {
		t.Fail()
	}
	e.Slice()[0].Int()
	if e.Err() == nil {
		t.Fail()
	}
	*e.err = nil

	e = Q(NewDouble(123.456))
	e.Slice()
	if e.Err() == nil {
		t.Fail()
	}
}

func TestQuery_Strings(t *testing.T) {
	e := Q(NewArray(NewString("abc"), &Value{Str: "def"}))
	s := e.Strings()
	if e.Err() != nil {
		t.Error(e.Err())
	}
	if !reflect.DeepEqual(s, []string{"abc", "def"}) {
		t.Error("invalid result: ", s)
	}
}

func TestQuery_Any(t *testing.T) {
	when := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		v    *Value
		want interface{}
	}{
		{NewInteger(123), int(123)},
		{NewBoolean(true), true},
		{NewDouble(123.456), 123.456},
		{NewString("abc"), "abc"},
		{NewDateTime(when), when},
		{NewBase64([]byte{1, 2}), []byte{1, 2}},
		{nil, nil},
	}
	for _, c := range cases {
		e := Q(c.v)
		v := e.Any()
		if e.Err() != nil {
			t.Errorf("unexpected error: %v", e.Err())
		}
		if !reflect.DeepEqual(v, c.want) {
			t.Errorf("unexpected value: %v, expected: %v", v, c.want)
		}
	}
}

func TestNewValue(t *testing.T) {
	when := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		want *Value
		in   interface{}
	}{
		{NewInteger(123), int(123)},
		{NewBoolean(true), true},
		{NewBoolean(false), false},
		{NewDouble(123.456), 123.456},
		{NewString("abc"), "abc"},
		{NewDateTime(when), when},
		{NewArray(NewString("abc")), []string{"abc"}},
		{NewArray(NewDouble(123.456)), []interface{}{123.456}},
		{NewStruct(&Member{"abc", NewInteger(123)}), map[string]interface{}{"abc": 123}},
	}
	for _, c := range cases {
		v, err := NewValue(c.in)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !c.want.Equal(v) {
			t.Errorf("unexpected value: %v, expected: %v", v, c.want)
		}
	}
	if _, err := NewValue(struct{}{}); err == nil {
		t.Error("missing error")
	}
}
