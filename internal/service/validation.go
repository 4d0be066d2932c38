package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldError is a failed check on one input field. Message is an i18n key and
// Args fill its verbs.
type FieldError struct {
	Field   string
	Message string
	Args    []any
}

// ValidationError collects every failed field of a form at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + fmt.Sprintf(f.Message, f.Args...)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message, Args: args})
}

// Has reports whether field failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// FieldValue is a loosely typed form value. JSON numbers and strings are both
// accepted and kept as text; null and absent fields are blank.
type FieldValue string

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FieldValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected number or string, got %s", data)
		}
		*v = FieldValue(n.String())
	}
	return nil
}

func (v FieldValue) Blank() bool {
	return strings.TrimSpace(string(v)) == ""
}

func (v FieldValue) decimal() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(v)))
	return d, err == nil
}

// MaxCount bounds quantities, stock and thresholds to the INTEGER columns.
const MaxCount = math.MaxInt32

var (
	maxCount = decimal.NewFromInt(MaxCount)
	minCount = decimal.NewFromInt(math.MinInt32)
)

// integer parses whole numbers within ±MaxCount, accepting "5" and "5.0" but not "5.5".
func (v FieldValue) integer() (int, bool) {
	d, ok := v.decimal()
	if !ok || !d.IsInteger() || d.LessThan(minCount) || d.GreaterThan(maxCount) {
		return 0, false
	}
	return int(d.IntPart()), true
}

// exceeds reports whether v is a number above limit.
func (v FieldValue) exceeds(limit decimal.Decimal) bool {
	d, ok := v.decimal()
	return ok && d.GreaterThan(limit)
}
