package dto

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date is a request timestamp that accepts an ISO-8601 string (with or
// without zone, or just a calendar date) or a number of Unix milliseconds.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return dateError(raw)
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return dateError(raw)
		}
		t, ok := ParseDate(s)
		if !ok {
			return dateError(raw)
		}
		d.Time = t
		return nil
	}

	ms, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return dateError(raw)
	}
	d.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}

// Ptr returns the wrapped time, or nil for a nil Date.
func (d *Date) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// ParseDate parses s using the accepted date layouts. Zoneless values are
// read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func dateError(raw string) error {
	return &json.UnmarshalTypeError{Value: raw, Type: reflect.TypeOf(Date{})}
}

// Nullable distinguishes an absent JSON field from an explicit null.
// Set is false when the key is missing; Null is true for `null`.
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if strings.TrimSpace(string(data)) == "null" {
		n.Null = true
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// Split reports the patch intent: a non-nil value to store, or clear=true
// when the field was explicitly nulled. Absent fields yield (nil, false).
func (n Nullable[T]) Split() (value *T, clear bool) {
	if !n.Set {
		return nil, false
	}
	if n.Null {
		return nil, true
	}
	v := n.Value
	return &v, false
}
