package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PayloadShape tags which of the two accepted body shapes was received.
type PayloadShape int

const (
	ShapeList PayloadShape = iota
	ShapeSingle
)

func (s PayloadShape) String() string {
	if s == ShapeSingle {
		return "single"
	}
	return "list"
}

// Payload is a decoded response body: either a list of records or one record.
type Payload struct {
	Shape  PayloadShape
	list   []Record
	single Record
}

// ListPayload wraps records as a list-shaped payload.
func ListPayload(records []Record) Payload {
	return Payload{Shape: ShapeList, list: records}
}

// SinglePayload wraps one record as a single-shaped payload.
func SinglePayload(r Record) Payload {
	return Payload{Shape: ShapeSingle, single: r}
}

// Records flattens the payload into the canonical sequence.
func (p Payload) Records() []Record {
	if p.Shape == ShapeSingle {
		return []Record{p.single}
	}
	if p.list == nil {
		return []Record{}
	}
	return p.list
}

// DecodePayload decodes a JSON array of records or a single record object.
func DecodePayload(data []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Payload{}, &DecodeError{Err: fmt.Errorf("empty body")}
	}

	switch trimmed[0] {
	case '[':
		var records []Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return Payload{}, &DecodeError{Err: err}
		}
		return ListPayload(records), nil
	case '{':
		var r Record
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return Payload{}, &DecodeError{Err: err}
		}
		return SinglePayload(r), nil
	default:
		return Payload{}, &DecodeError{Err: fmt.Errorf("expected JSON array or object, got %q", trimmed[0])}
	}
}
