package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"inventory/internal/apperr"
)

// MergePolicy decides which supplied fields of an update overwrite the
// stored values.
type MergePolicy uint8

const (
	// MergeTruthy applies a field only when its value is truthy, so an
	// explicit 0 or "" never reaches the store.
	MergeTruthy MergePolicy = iota
	// MergePresence applies every field present with a non-null value.
	MergePresence
)

// String returns the string representation of the merge policy.
func (m MergePolicy) String() string {
	if m == MergePresence {
		return "presence"
	}
	return "truthy"
}

// ParseMergePolicy parses "truthy" or "presence".
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "truthy":
		return MergeTruthy, nil
	case "presence":
		return MergePresence, nil
	default:
		return MergeTruthy, fmt.Errorf("unknown merge policy: %s", s)
	}
}

// Field is one optional attribute decoded from a request body.
type Field[T any] struct {
	Value T
	// Present is set when the key was supplied with a non-null value.
	Present bool
	// Truthy is set when the supplied JSON value is truthy: anything but
	// null, false, 0 and "".
	Truthy bool
}

// Valid returns a present, truthy field holding v.
func Valid[T any](v T) Field[T] {
	return Field[T]{Value: v, Present: true, Truthy: true}
}

// Applies reports whether the field overwrites a stored value under m.
func (f Field[T]) Applies(m MergePolicy) bool {
	if m == MergePresence {
		return f.Present
	}
	return f.Present && f.Truthy
}

// ProductFields holds the product attributes of a create or update request.
type ProductFields struct {
	Name     Field[string]
	Quantity Field[int]
	Supplier Field[string]
}

// ProductPayload is the raw JSON body of a create or update request.
type ProductPayload struct {
	Name     json.RawMessage `json:"name"`
	Quantity json.RawMessage `json:"quantity"`
	Supplier json.RawMessage `json:"supplier"`
}

// Fields coerces the payload into typed fields. Coercion failures are
// KindValidation errors.
func (p ProductPayload) Fields() (ProductFields, error) {
	name, err := DecodeString("name", p.Name)
	if err != nil {
		return ProductFields{}, err
	}

	quantity, err := DecodeQuantity("quantity", p.Quantity)
	if err != nil {
		return ProductFields{}, err
	}

	supplier, err := DecodeString("supplier", p.Supplier)
	if err != nil {
		return ProductFields{}, err
	}

	return ProductFields{Name: name, Quantity: quantity, Supplier: supplier}, nil
}

// DecodeString decodes a JSON string field. Numbers and booleans are cast
// to their text.
func DecodeString(key string, raw json.RawMessage) (Field[string], error) {
	v, err := decodeRaw(raw)
	if err != nil {
		return Field[string]{}, castError(key, "string", raw)
	}

	switch t := v.(type) {
	case nil:
		return Field[string]{}, nil
	case string:
		return Field[string]{Value: t, Present: true, Truthy: t != ""}, nil
	case json.Number:
		f, _ := t.Float64()
		return Field[string]{Value: t.String(), Present: true, Truthy: f != 0}, nil
	case bool:
		return Field[string]{Value: strconv.FormatBool(t), Present: true, Truthy: t}, nil
	default:
		return Field[string]{}, castError(key, "string", raw)
	}
}

// DecodeQuantity decodes a non-fractional number given as a JSON number or
// a numeric string. An empty string counts as no value; booleans cast to
// 1 and 0.
func DecodeQuantity(key string, raw json.RawMessage) (Field[int], error) {
	v, err := decodeRaw(raw)
	if err != nil {
		return Field[int]{}, castError(key, "Number", raw)
	}

	var (
		num    float64
		truthy bool
	)
	switch t := v.(type) {
	case nil:
		return Field[int]{}, nil
	case json.Number:
		num, err = t.Float64()
		if err != nil {
			return Field[int]{}, castError(key, "Number", raw)
		}
		truthy = num != 0
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return Field[int]{}, nil
		}
		num, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return Field[int]{}, castError(key, "Number", raw)
		}
		// A non-empty string is truthy even when it reads "0".
		truthy = true
	case bool:
		if t {
			num = 1
		}
		truthy = t
	default:
		return Field[int]{}, castError(key, "Number", raw)
	}

	if math.IsNaN(num) || math.IsInf(num, 0) || num != math.Trunc(num) ||
		num > math.MaxInt32 || num < math.MinInt32 {
		return Field[int]{}, apperr.Validation(fmt.Sprintf("%s: must be a whole number, got %s", key, raw))
	}

	return Field[int]{Value: int(num), Present: true, Truthy: truthy}, nil
}

func decodeRaw(raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func castError(key, kind string, raw json.RawMessage) error {
	return apperr.Validation(fmt.Sprintf("Cast to %s failed for value %s at path %q", kind, raw, key))
}
