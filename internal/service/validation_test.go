package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValueAcceptsNumbersStringsAndNull(t *testing.T) {
	var in struct {
		A FieldValue `json:"a"`
		B FieldValue `json:"b"`
		C FieldValue `json:"c"`
		D FieldValue `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 15000.50, "b": "12", "c": null}`), &in))

	assert.Equal(t, FieldValue("15000.50"), in.A)
	assert.Equal(t, FieldValue("12"), in.B)
	assert.True(t, in.C.Blank())
	assert.True(t, in.D.Blank())
}

func TestFieldValueRejectsOtherJSON(t *testing.T) {
	var v FieldValue
	assert.Error(t, json.Unmarshal([]byte(`true`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &v))
}

func TestFieldValueInteger(t *testing.T) {
	n, ok := FieldValue(" 5 ").integer()
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	n, ok = FieldValue("5.0").integer()
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	_, ok = FieldValue("5.5").integer()
	assert.False(t, ok)

	_, ok = FieldValue("lima").integer()
	assert.False(t, ok)

	n, ok = FieldValue("2147483647").integer()
	assert.True(t, ok)
	assert.Equal(t, MaxCount, n)

	for _, huge := range []string{"2147483648", "-2147483649", "18446744073709551617", "1e30"} {
		_, ok = FieldValue(huge).integer()
		assert.False(t, ok, huge)
	}
}

func TestFieldValueExceeds(t *testing.T) {
	assert.True(t, FieldValue("18446744073709551621").exceeds(maxCount))
	assert.False(t, FieldValue("2147483647").exceeds(maxCount))
	assert.False(t, FieldValue("abc").exceeds(maxCount))
}

func TestValidationErrorMessage(t *testing.T) {
	verr := &ValidationError{}
	verr.add(FieldQuantity, "Insufficient stock. Available stock: %d", 3)

	assert.True(t, verr.Has(FieldQuantity))
	assert.False(t, verr.Has(FieldName))
	assert.Equal(t, "validation failed: quantity: Insufficient stock. Available stock: 3", verr.Error())
}
