package sqlfrag

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// Assignment is one field→value entry of a Payload.
type Assignment struct {
	Field string
	Value any
}

// Payload is an ordered association list of field→value pairs. Field names
// are unique; the order in which fields were first set is the order in
// which BuildSet binds them. The zero value is an empty payload.
type Payload struct {
	entries []Assignment
	index   map[string]int
}

// NewPayload returns a payload holding the given assignments in order.
func NewPayload(entries ...Assignment) *Payload {
	p := &Payload{}
	for _, e := range entries {
		p.Set(e.Field, e.Value)
	}
	return p
}

// Set assigns value to field. Setting a field that is already present
// replaces its value without moving it.
func (p *Payload) Set(field string, value any) *Payload {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[field]; ok {
		p.entries[i].Value = value
		return p
	}
	p.index[field] = len(p.entries)
	p.entries = append(p.entries, Assignment{Field: field, Value: value})
	return p
}

// Get returns the value assigned to field.
func (p *Payload) Get(field string) (any, bool) {
	if p == nil {
		return nil, false
	}
	i, ok := p.index[field]
	if !ok {
		return nil, false
	}
	return p.entries[i].Value, true
}

// Has reports whether field is present.
func (p *Payload) Has(field string) bool {
	_, ok := p.Get(field)
	return ok
}

// Len returns the number of fields. A nil payload is empty.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Entries returns a copy of the assignments in order.
func (p *Payload) Entries() []Assignment {
	if p == nil {
		return nil
	}
	return append([]Assignment(nil), p.entries...)
}

// Fields returns the field names in order.
func (p *Payload) Fields() []string {
	return lo.Map(p.Entries(), func(a Assignment, _ int) string { return a.Field })
}

// Values returns the values in field order.
func (p *Payload) Values() []any {
	return lo.Map(p.Entries(), func(a Assignment, _ int) any { return a.Value })
}

// UnmarshalJSON decodes a JSON object keeping its keys in document order.
// Numbers decode to int64 when integral and float64 otherwise; a key that
// appears twice keeps its first position and its last value.
func (p *Payload) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("sqlfrag: payload: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("sqlfrag: payload must be a JSON object")
	}

	*p = Payload{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("sqlfrag: payload: %w", err)
		}
		field, _ := tok.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("sqlfrag: payload field %q: %w", field, err)
		}
		p.Set(field, normalizeNumber(v))
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("sqlfrag: payload: %w", err)
	}
	return nil
}

// MarshalJSON encodes the payload as a JSON object in field order.
func (p *Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range p.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(a.Field)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(a.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func normalizeNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
