package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

/* Value is the captured body of a webhook, modeled as a JSON tree
 * Object members keep the order they were received in, numbers keep their literal text
 * Uses value semantics: a Value is never mutated after Parse
 */

// Kind identifies which variant a Value holds
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single key/value pair of an object
type Member struct {
	Key   string
	Value Value
}

type Value struct {
	kind    Kind
	boolean bool
	text    string // string contents or number literal
	items   []Value
	members []Member
}

// NullValue returns the JSON null
func NullValue() Value { return Value{kind: Null} }

// BoolValue wraps a boolean
func BoolValue(b bool) Value { return Value{kind: Bool, boolean: b} }

// NumberValue wraps a number literal such as "42" or "1.5e3"
func NumberValue(n json.Number) Value { return Value{kind: Number, text: n.String()} }

// StringValue wraps a string
func StringValue(s string) Value { return Value{kind: String, text: s} }

// ArrayValue builds an array from the given items
func ArrayValue(items ...Value) Value {
	return Value{kind: Array, items: append([]Value{}, items...)}
}

// ObjectValue builds an object, a repeated key keeps its first position and takes the last value
func ObjectValue(members ...Member) Value {
	v := Value{kind: Object, members: make([]Member, 0, len(members))}
	for _, m := range members {
		v.members = setMember(v.members, m.Key, m.Value)
	}
	return v
}

func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean held by a Bool value
func (v Value) Bool() bool { return v.boolean }

// Text returns the contents of a String value or the literal of a Number value
func (v Value) Text() string { return v.text }

// Items returns a copy of the elements of an Array value
func (v Value) Items() []Value { return append([]Value(nil), v.items...) }

// Members returns a copy of the members of an Object value in order
func (v Value) Members() []Member { return append([]Member(nil), v.members...) }

// Field looks up an object member by key
func (v Value) Field(key string) (Value, bool) {
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// IsEmpty reports whether the value carries no data: null, "", [] or {}
func (v Value) IsEmpty() bool {
	switch v.kind {
	case Null:
		return true
	case String:
		return v.text == ""
	case Array:
		return len(v.items) == 0
	case Object:
		return len(v.members) == 0
	default:
		return false
	}
}

// Parse decodes a JSON document into a Value
// Empty input, invalid JSON and trailing data are rejected
func Parse(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, errors.New("empty payload")
	}
	if !json.Valid(data) {
		return Value{}, errors.New("payload must be valid JSON")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("decoding payload: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return NumberValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(dec)
		case '{':
			return decodeObject(dec)
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func decodeArray(dec *json.Decoder) (Value, error) {
	v := Value{kind: Array, items: []Value{}}
	for dec.More() {
		item, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		v.items = append(v.items, item)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return v, nil
}

func decodeObject(dec *json.Decoder) (Value, error) {
	v := Value{kind: Object, members: []Member{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key must be a string, got %v", tok)
		}
		item, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		v.members = setMember(v.members, key, item)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return v, nil
}

func setMember(members []Member, key string, value Value) []Member {
	for i := range members {
		if members[i].Key == key {
			members[i].Value = value
			return members
		}
	}
	return append(members, Member{Key: key, Value: value})
}

// MarshalJSON returns the compact JSON encoding of the value
// Members are written in their captured order and HTML characters are not escaped
func (v Value) MarshalJSON() ([]byte, error) {
	return v.AppendJSON(nil), nil
}

// UnmarshalJSON parses the JSON-encoded data and stores the result
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Bytes returns the compact JSON encoding of the value
func (v Value) Bytes() []byte {
	return v.AppendJSON(nil)
}

// AppendJSON appends the compact JSON encoding of the value to buf
func (v Value) AppendJSON(buf []byte) []byte {
	switch v.kind {
	case Null:
		return append(buf, "null"...)
	case Bool:
		if v.boolean {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case Number:
		if v.text == "" {
			return append(buf, '0')
		}
		return append(buf, v.text...)
	case String:
		return appendString(buf, v.text)
	case Array:
		buf = append(buf, '[')
		for i, item := range v.items {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = item.AppendJSON(buf)
		}
		return append(buf, ']')
	case Object:
		buf = append(buf, '{')
		for i, m := range v.members {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendString(buf, m.Key)
			buf = append(buf, ':')
			buf = m.Value.AppendJSON(buf)
		}
		return append(buf, '}')
	default:
		panic(fmt.Sprintf("payload: invalid value kind %d", v.kind))
	}
}

func appendString(buf []byte, s string) []byte {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	// encoding a string cannot fail
	_ = enc.Encode(s)
	return append(buf, bytes.TrimSuffix(b.Bytes(), []byte("\n"))...)
}
