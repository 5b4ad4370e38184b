// Package normalize turns loosely-typed inbound request fields into canonical values.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tells which variant a RawField holds.
type Kind int

const (
	KindAbsent Kind = iota
	KindText
	KindSequence
)

// RawField is an inbound field as the client sent it: missing, a single piece
// of text, or a sequence of values (repeated form keys or a JSON array).
type RawField struct {
	kind  Kind
	text  string
	items []string
}

// Absent returns a field that was not supplied.
func Absent() RawField { return RawField{kind: KindAbsent} }

// Text returns a field holding a single string value.
func Text(s string) RawField { return RawField{kind: KindText, text: s} }

// Sequence returns a field holding several values.
func Sequence(items []string) RawField {
	cp := make([]string, len(items))
	copy(cp, items)
	return RawField{kind: KindSequence, items: cp}
}

// FromValues maps form values for a single key onto a RawField.
// No values means absent, one value is text, more are a sequence.
func FromValues(values []string) RawField {
	switch len(values) {
	case 0:
		return Absent()
	case 1:
		return Text(values[0])
	default:
		return Sequence(values)
	}
}

func (f RawField) Kind() Kind { return f.kind }

func (f RawField) IsAbsent() bool { return f.kind == KindAbsent }

// Items returns a copy of the values of a sequence field.
func (f RawField) Items() []string {
	out := make([]string, len(f.items))
	copy(out, f.items)
	return out
}

// Value returns the scalar text of the field. For a sequence the first item
// is used, matching how a repeated form key is read as a single value.
func (f RawField) Value() (string, bool) {
	switch f.kind {
	case KindText:
		return f.text, true
	case KindSequence:
		if len(f.items) == 0 {
			return "", true
		}
		return f.items[0], true
	default:
		return "", false
	}
}

// UnmarshalJSON accepts null, strings, numbers, booleans and arrays.
func (f *RawField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = Absent()
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Text(s)
	case '[':
		items, err := decodeArray(data)
		if err != nil {
			return err
		}
		*f = Sequence(items)
	case '{':
		return fmt.Errorf("normalize: objects are not accepted as field values")
	default:
		// numbers and booleans keep their literal form
		*f = Text(string(data))
	}
	return nil
}

// decodeArray decodes a JSON array and stringifies every element.
// Strings are used verbatim, numbers keep their literal, anything else is
// re-encoded as compact JSON.
func decodeArray(data []byte) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, elem := range raw {
		elem = bytes.TrimSpace(elem)
		if len(elem) > 0 && elem[0] == '"' {
			var s string
			if err := json.Unmarshal(elem, &s); err != nil {
				return nil, err
			}
			out = append(out, s)
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, elem); err != nil {
			return nil, err
		}
		out = append(out, buf.String())
	}
	return out, nil
}

// StringList produces the canonical list form of an array-like field.
//
// Text is first parsed as JSON. A JSON array is used as-is (elements are not
// trimmed), any other JSON value yields an empty list. Text that is not JSON is
// split on commas, each piece trimmed, empty pieces dropped.
func StringList(f RawField) []string {
	switch f.kind {
	case KindSequence:
		return f.Items()
	case KindText:
		return splitText(f.text)
	default:
		return []string{}
	}
}

func splitText(s string) []string {
	if s == "" {
		return []string{}
	}
	trimmed := strings.TrimSpace(s)
	if json.Valid([]byte(trimmed)) {
		if strings.HasPrefix(trimmed, "[") {
			if items, err := decodeArray([]byte(trimmed)); err == nil {
				return items
			}
		}
		return []string{}
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
