package sparsecontent

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StorableValue is the store's canonical representation of one or more raw
// string values. It is opaque to everything downstream of the converter: no
// type information is retained, so the stored form of "42" and of a
// Long-hinted "42" are identical.
//
// The zero StorableValue means "no value" and is distinct from the stored
// form of an empty string, which keeps cleared properties distinguishable
// from absent ones.
type StorableValue struct {
	values []string
}

// ToStore converts a single wire-level string into its storable form.
func ToStore(value string) StorableValue {
	return StorableValue{values: []string{value}}
}

// ToStoreValues converts a sequence of wire-level strings into its storable
// form. The input is copied; the result never aliases caller memory.
func ToStoreValues(values []string) StorableValue {
	vs := make([]string, len(values))
	copy(vs, values)
	return StorableValue{values: vs}
}

// IsZero reports whether v carries no value at all. ToStore("") is not zero.
func (v StorableValue) IsZero() bool { return v.values == nil }

// Values returns a copy of the raw stored strings.
func (v StorableValue) Values() []string {
	vs := make([]string, len(v.values))
	copy(vs, v.values)
	return vs
}

// First returns the first stored string, or "" for a zero value.
func (v StorableValue) First() string {
	if len(v.values) == 0 {
		return ""
	}
	return v.values[0]
}

// Len returns the number of stored strings.
func (v StorableValue) Len() int { return len(v.values) }

// Equal reports whether two storable values hold identical string sequences.
// A zero value is not equal to the stored empty string.
func (v StorableValue) Equal(o StorableValue) bool {
	if (v.values == nil) != (o.values == nil) {
		return false
	}
	if len(v.values) != len(o.values) {
		return false
	}
	for i := range v.values {
		if v.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

// String renders the value for diagnostics.
func (v StorableValue) String() string { return strings.Join(v.values, ",") }

// MarshalJSON encodes the value as a JSON string array (null when zero).
func (v StorableValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.values)
}

// UnmarshalJSON decodes a JSON string array produced by MarshalJSON.
func (v *StorableValue) UnmarshalJSON(data []byte) error {
	var vs []string
	if err := json.Unmarshal(data, &vs); err != nil {
		return err
	}
	v.values = vs
	return nil
}

// PropertyKind enumerates the property types clients may hint at. The active
// write path stores raw strings regardless of kind; FromRequest exists for
// diagnostics and for read-side handlers that know their own schema.
type PropertyKind int

const (
	KindUndefined PropertyKind = iota
	KindString
	KindBinary
	KindLong
	KindDouble
	KindDecimal
	KindDate
	KindBoolean
	KindName
	KindPath
	KindReference
	KindWeakReference
	KindURI
)

var kindNames = map[PropertyKind]string{
	KindUndefined:     "undefined",
	KindString:        "String",
	KindBinary:        "Binary",
	KindLong:          "Long",
	KindDouble:        "Double",
	KindDecimal:       "Decimal",
	KindDate:          "Date",
	KindBoolean:       "Boolean",
	KindName:          "Name",
	KindPath:          "Path",
	KindReference:     "Reference",
	KindWeakReference: "WeakReference",
	KindURI:           "URI",
}

func (k PropertyKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "undefined"
}

var kindsByHint = func() map[string]PropertyKind {
	m := make(map[string]PropertyKind, len(kindNames))
	for kind, name := range kindNames {
		m[name] = kind
	}
	return m
}()

// KindFromHint maps a serialized type name to its kind. Unknown hints map to
// KindUndefined.
func KindFromHint(hint string) PropertyKind {
	if kind, ok := kindsByHint[hint]; ok {
		return kind
	}
	return KindUndefined
}

// FromRequest parses values according to the given kind. String-like kinds
// return a copy of the input; Binary returns nil, matching the store's
// refusal to accept binary property posts. This typed path never feeds the
// write path: persisted data is always the raw string form.
func FromRequest(kind PropertyKind, values []string) (any, error) {
	switch kind {
	case KindUndefined, KindString, KindName, KindPath, KindReference, KindWeakReference, KindURI:
		vs := make([]string, len(values))
		copy(vs, values)
		return vs, nil
	case KindBinary:
		return nil, nil
	case KindBoolean:
		parsed := make([]bool, len(values))
		for i, v := range values {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %q as Boolean", ErrUnparseableValue, v)
			}
			parsed[i] = b
		}
		return parsed, nil
	case KindLong:
		parsed := make([]int64, len(values))
		for i, v := range values {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q as Long", ErrUnparseableValue, v)
			}
			parsed[i] = n
		}
		return parsed, nil
	case KindDouble:
		parsed := make([]float64, len(values))
		for i, v := range values {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q as Double", ErrUnparseableValue, v)
			}
			parsed[i] = f
		}
		return parsed, nil
	case KindDecimal:
		parsed := make([]decimal.Decimal, len(values))
		for i, v := range values {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %q as Decimal", ErrUnparseableValue, v)
			}
			parsed[i] = d
		}
		return parsed, nil
	case KindDate:
		parsed := make([]time.Time, len(values))
		for i, v := range values {
			t, err := ParseDate(v)
			if err != nil {
				return nil, err
			}
			parsed[i] = t
		}
		return parsed, nil
	}
	vs := make([]string, len(values))
	copy(vs, values)
	return vs, nil
}

// dateLayouts are tried in order. ISO 8601 variants first, then the legacy
// dotted forms accepted by the old form protocol.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006",
}

// ParseDate parses a calendar date in any of the supported layouts.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q as Date", ErrUnparseableValue, value)
}
