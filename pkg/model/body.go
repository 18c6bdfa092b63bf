package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// BodyKind identifies which variant a Body holds.
type BodyKind string

const (
	KindText  BodyKind = "Text"
	KindBytes BodyKind = "Bytes"
	KindJSON  BodyKind = "Json"
)

// Content types used when a Body is written to the wire.
const (
	ContentTypeJSON  = "application/json"
	ContentTypeText  = "text/plain; charset=utf-8"
	ContentTypeBytes = "application/octet-stream"
)

// ErrInvalidBody is returned when a persisted body is not exactly one variant.
var ErrInvalidBody = errors.New("invalid body")

// Body is a tagged union of text, raw bytes or a structured JSON value.
// There is no coercion between variants: Text("1") and JSON(1) differ.
// The zero Body has no kind and is used only as an "absent" placeholder.
type Body struct {
	kind  BodyKind
	text  string
	raw   []byte
	value any
}

// Text returns a text body.
func Text(s string) Body {
	return Body{kind: KindText, text: s}
}

// Bytes returns a raw byte body. The slice is copied.
func Bytes(b []byte) Body {
	return Body{kind: KindBytes, raw: bytes.Clone(b)}
}

// JSON returns a structured body. Go values (structs, maps, ints) are
// normalized into their decoded JSON shape so that bodies built in code
// compare equal to bodies read off the wire. A value that cannot be
// marshaled is kept as-is and fails later when the body is encoded.
func JSON(v any) Body {
	return Body{kind: KindJSON, value: normalizeJSON(v)}
}

// Kind reports the variant held by b.
func (b Body) Kind() BodyKind { return b.kind }

// IsZero reports whether b holds no variant.
func (b Body) IsZero() bool { return b.kind == "" }

// Text returns the payload of a text body, or "" for other kinds.
func (b Body) Text() string { return b.text }

// Bytes returns the payload of a bytes body. Callers must not modify it.
func (b Body) Bytes() []byte { return b.raw }

// Value returns the decoded JSON value of a JSON body. Numbers are
// represented as json.Number. The value is shared with b; use Clone to get
// one that can be modified.
func (b Body) Value() any { return b.value }

// Clone returns a copy of b whose JSON value and bytes are not shared.
func (b Body) Clone() Body {
	switch b.kind {
	case KindBytes:
		b.raw = bytes.Clone(b.raw)
	case KindJSON:
		b.value = cloneValue(b.value)
	}
	return b
}

// Equal reports variant-and-value equality.
func (b Body) Equal(o Body) bool {
	if b.kind != o.kind {
		return false
	}
	switch b.kind {
	case KindText:
		return b.text == o.text
	case KindBytes:
		return bytes.Equal(b.raw, o.raw)
	case KindJSON:
		return EqualValues(b.value, o.value)
	default:
		return true
	}
}

// Encode renders b for the wire, returning the content type and payload.
func (b Body) Encode() (contentType string, payload []byte, err error) {
	switch b.kind {
	case KindText:
		return ContentTypeText, []byte(b.text), nil
	case KindBytes:
		return ContentTypeBytes, b.raw, nil
	case KindJSON:
		payload, err := json.Marshal(b.value)
		if err != nil {
			return "", nil, fmt.Errorf("encode json body: %w", err)
		}
		return ContentTypeJSON, payload, nil
	default:
		return "", nil, fmt.Errorf("%w: empty body", ErrInvalidBody)
	}
}

// Sniff classifies an opaque payload: valid JSON becomes a JSON body, else
// valid UTF-8 becomes Text, else Bytes.
func Sniff(payload []byte) Body {
	if json.Valid(payload) {
		if v, err := decodeJSON(payload); err == nil {
			return Body{kind: KindJSON, value: v}
		}
	}
	if utf8.Valid(payload) {
		return Text(string(payload))
	}
	return Bytes(payload)
}

// DecodeJSON parses payload into a JSON body.
func DecodeJSON(payload []byte) (Body, error) {
	v, err := decodeJSON(payload)
	if err != nil {
		return Body{}, err
	}
	return Body{kind: KindJSON, value: v}, nil
}

// String is a short description used in logs.
func (b Body) String() string {
	switch b.kind {
	case KindText:
		return fmt.Sprintf("Text(%d chars)", len(b.text))
	case KindBytes:
		return fmt.Sprintf("Bytes(%d bytes)", len(b.raw))
	case KindJSON:
		return "Json"
	default:
		return "None"
	}
}

// MarshalJSON writes the externally tagged form, e.g. {"Text":"hi"}.
// Bytes are written as an array of numbers.
func (b Body) MarshalJSON() ([]byte, error) {
	switch b.kind {
	case KindText:
		return json.Marshal(map[string]string{string(KindText): b.text})
	case KindBytes:
		nums := make([]int, len(b.raw))
		for i, c := range b.raw {
			nums[i] = int(c)
		}
		return json.Marshal(map[string][]int{string(KindBytes): nums})
	case KindJSON:
		return json.Marshal(map[string]any{string(KindJSON): b.value})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON reads the externally tagged form written by MarshalJSON.
func (b *Body) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("%w: expected exactly one of Text, Bytes, Json; got %d keys", ErrInvalidBody, len(tagged))
	}

	for key, raw := range tagged {
		switch BodyKind(key) {
		case KindText:
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("%w: Text: %v", ErrInvalidBody, err)
			}
			*b = Text(s)
		case KindBytes:
			var nums []int
			if err := json.Unmarshal(raw, &nums); err != nil {
				return fmt.Errorf("%w: Bytes: %v", ErrInvalidBody, err)
			}
			buf := make([]byte, len(nums))
			for i, n := range nums {
				if n < 0 || n > 255 {
					return fmt.Errorf("%w: Bytes: value %d at %d out of range", ErrInvalidBody, n, i)
				}
				buf[i] = byte(n)
			}
			*b = Body{kind: KindBytes, raw: buf}
		case KindJSON:
			v, err := decodeJSON(raw)
			if err != nil {
				return fmt.Errorf("%w: Json: %v", ErrInvalidBody, err)
			}
			*b = Body{kind: KindJSON, value: v}
		default:
			return fmt.Errorf("%w: unknown variant %q", ErrInvalidBody, key)
		}
	}
	return nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func normalizeJSON(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	decoded, err := decodeJSON(data)
	if err != nil {
		return v
	}
	return decoded
}
