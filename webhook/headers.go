package webhook

import (
	"encoding/json"
	"fmt"
	"iter"

	"github.com/marcelsud/webhook-stream/webhook/payload"
)

// Header is a single captured header
type Header struct {
	Name  string
	Value string
}

/* Headers is an ordered name -> value mapping
 * Iteration follows the order in which names were first set
 * Setting an existing name replaces its value in place (last write wins)
 */
type Headers struct {
	entries []Header
}

// NewHeaders builds Headers from the given pairs, in order
func NewHeaders(pairs ...Header) Headers {
	var h Headers
	for _, p := range pairs {
		h.Set(p.Name, p.Value)
	}
	return h
}

// Set stores value under name, keeping the position of an earlier entry with the same name
func (h *Headers) Set(name, value string) {
	for i := range h.entries {
		if h.entries[i].Name == name {
			h.entries[i].Value = value
			return
		}
	}
	h.entries = append(h.entries, Header{Name: name, Value: value})
}

// Get returns the value stored under name
func (h Headers) Get(name string) (string, bool) {
	for _, e := range h.entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

func (h Headers) Len() int { return len(h.entries) }

// All iterates over the headers in capture order
func (h Headers) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, e := range h.entries {
			if !yield(e.Name, e.Value) {
				return
			}
		}
	}
}

// MarshalJSON encodes the headers as a JSON object preserving capture order
func (h Headers) MarshalJSON() ([]byte, error) {
	members := make([]payload.Member, 0, len(h.entries))
	for _, e := range h.entries {
		members = append(members, payload.Member{Key: e.Name, Value: payload.StringValue(e.Value)})
	}
	return payload.ObjectValue(members...).MarshalJSON()
}

// UnmarshalJSON decodes a JSON object of string values preserving key order
func (h *Headers) UnmarshalJSON(data []byte) error {
	v, err := payload.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing headers: %w", err)
	}
	if v.Kind() != payload.Object {
		return fmt.Errorf("headers must be an object, got %s", v.Kind())
	}
	var parsed Headers
	for _, m := range v.Members() {
		if m.Value.Kind() != payload.String {
			return fmt.Errorf("header %q must be a string, got %s", m.Key, m.Value.Kind())
		}
		parsed.Set(m.Key, m.Value.Text())
	}
	*h = parsed
	return nil
}

var (
	_ json.Marshaler   = Headers{}
	_ json.Unmarshaler = (*Headers)(nil)
)
