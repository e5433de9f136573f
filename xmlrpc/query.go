package xmlrpc

import (
	"errors"
	"fmt"
	"time"
)

// Query helps to extract native data from a Value tree. All accessors share
// one error slot: the first failure sticks and subsequent accessors become
// no-ops, so a chain can be checked once at the end with Err.
type Query struct {
	value *Value
	err   *error
	// faster lookup for structs
	lookup map[string]*Query
	// cache arrays
	array []*Query
}

// Q creates a new Query for the specified Value.
func Q(v *Value) *Query {
	var err error
	return &Query{value: v, err: &err}
}

// Err returns the first encountered error.
func (q *Query) Err() error {
	return *q.err
}

// Int gets an integer value.
func (q *Query) Int() int {
	// previous error or empty optional?
	if q.Err() != nil || q.value == nil {
		return 0
	}
	if q.value.Kind != KindInteger {
		*q.err = errors.New("Not an int")
		return 0
	}
	return int(q.value.Int)
}

// Bool gets a boolean value.
func (q *Query) Bool() bool {
	// previous error or empty optional?
	if q.Err() != nil || q.value == nil {
		return false
	}
	if q.value.Kind != KindBoolean {
		*q.err = errors.New("Not a bool")
		return false
	}
	return q.value.Bool
}

// String gets a string value. Untyped values count as strings.
func (q *Query) String() string {
	// previous error or empty optional?
	if q.Err() != nil || q.value == nil {
		return ""
	}
	if q.value.Kind != KindString && q.value.Kind != KindNone {
		*q.err = errors.New("Not a string")
		return ""
	}
	return q.value.Str
}

// Float64 gets a double value.
func (q *Query) Float64() float64 {
	// previous error or empty optional?
	if q.Err() != nil || q.value == nil {
		return 0
	}
	if q.value.Kind != KindDouble {
		*q.err = errors.New("Not a double")
		return 0
	}
	return q.value.Double
}

// Time gets a dateTime.iso8601 value.
func (q *Query) Time() time.Time {
	// previous error or empty optional?
	if q.Err() != nil || q.value == nil {
		return time.Time{}
	}
	if q.value.Kind != KindDateTime {
		*q.err = errors.New("Not a dateTime")
		return time.Time{}
	}
	return q.value.Time
}

// Bytes gets a base64 value.
func (q *Query) Bytes() []byte {
	// previous error or empty optional?
	if q.Err() != nil || q.value == nil {
		return nil
	}
	if q.value.Kind != KindBase64 {
		*q.err = errors.New("Not a base64")
		return nil
	}
	return q.value.Bytes
}

// Any returns data type int, bool, float64, time.Time, []byte, string or nil
// for an empty optional.
func (q *Query) Any() interface{} {
	// previous error or empty optional?
	if q.Err() != nil || q.value == nil {
		return nil
	}
	switch q.value.Kind {
	case KindInteger:
		return q.Int()
	case KindBoolean:
		return q.Bool()
	case KindDouble:
		return q.Float64()
	case KindDateTime:
		return q.Time()
	case KindBase64:
		return q.Bytes()
	}
	return q.String()
}

// Map returns all members of a struct value.
func (q *Query) Map() map[string]*Query {
	// previous error or empty optional?
	if q.Err() != nil || q.value == nil {
		return nil
	}
	// is map already created?
	if q.lookup != nil {
		return q.lookup
	}
	if q.value.Kind != KindStruct {
		*q.err = errors.New("Not a struct")
		return nil
	}
	q.lookup = make(map[string]*Query)
	for _, m := range q.value.Members {
		// first member wins on duplicate names
		if _, ok := q.lookup[m.Name]; !ok {
			q.lookup[m.Name] = &Query{value: m.Value, err: q.err}
		}
	}
	return q.lookup
}

// key gets the specified member from a struct.
func (q *Query) key(name string, must bool) *Query {
	m := q.Map()
	// previous error?
	if q.Err() != nil {
		return &Query{err: q.err}
	}
	f, ok := m[name]
	if !ok {
		if must {
			*q.err = fmt.Errorf("Field not found: %s", name)
		}
		return &Query{err: q.err}
	}
	return f
}

// Key sets an error, if the specified member is missing. The member name
// matches case-sensitively, in contrast to Value.Field.
func (q *Query) Key(name string) *Query {
	return q.key(name, true)
}

// TryKey does not set an error, if the specified member is missing. The member
// name matches case-sensitively, in contrast to Value.Field.
func (q *Query) TryKey(name string) *Query {
	return q.key(name, false)
}

// Slice returns all array elements.
func (q *Query) Slice() []*Query {
	// previous error or empty optional?
	if q.Err() != nil || q.value == nil {
		return nil
	}
	// array already created?
	if q.array != nil {
		return q.array
	}
	if q.value.Kind != KindArray {
		*q.err = errors.New("Not an array")
		return nil
	}
	q.array = make([]*Query, len(q.value.Items))
	for i, v := range q.value.Items {
		q.array[i] = &Query{value: v, err: q.err}
	}
	return q.array
}

// Strings returns a string array.
func (q *Query) Strings() []string {
	// previous error or empty optional?
	if q.Err() != nil || q.value == nil {
		return nil
	}
	var r []string
	for _, e := range q.Slice() {
		r = append(r, e.String())
	}
	if q.Err() != nil {
		return nil
	}
	return r
}

// Idx returns the array element at i.
func (q *Query) Idx(i int) *Query {
	s := q.Slice()
	// previous error?
	if q.Err() != nil {
		return &Query{err: q.err}
	}
	if i < 0 || i >= len(s) {
		*q.err = fmt.Errorf("Index out of bounds (array length: %d): %d", len(s), i)
		return &Query{err: q.err}
	}
	return s[i]
}

// Value returns the wrapped Value.
func (q *Query) Value() *Value {
	return q.value
}

// NewValue creates a value from a native data type. Supported types: bool,
// int, float64, string, time.Time, []byte, []string, []interface{} and
// map[string]interface{}.
func NewValue(in interface{}) (*Value, error) {
	switch val := in.(type) {
	case bool:
		return NewBoolean(val), nil
	case int:
		return NewInteger(int32(val)), nil
	case float64:
		return NewDouble(val), nil
	case string:
		return NewString(val), nil
	case time.Time:
		return NewDateTime(val), nil
	case []byte:
		return NewBase64(val), nil
	case []string:
		var es []*Value
		for _, e := range val {
			es = append(es, NewString(e))
		}
		return NewArray(es...), nil
	case []interface{}:
		var es []*Value
		for _, e := range val {
			cv, err := NewValue(e)
			if err != nil {
				return nil, err
			}
			es = append(es, cv)
		}
		return NewArray(es...), nil
	case map[string]interface{}:
		var ms []*Member
		for n, v := range val {
			cv, err := NewValue(v)
			if err != nil {
				return nil, err
			}
			ms = append(ms, &Member{Name: n, Value: cv})
		}
		return NewStruct(ms...), nil
	}
	return nil, fmt.Errorf("Conversion of type %[1]T with value %[1]v is not supported", in)
}
