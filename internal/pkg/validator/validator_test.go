package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsValidMonth(t *testing.T) {
	valid := []string{"2025-01", "2025-09", "2025-10", "2025-12", "1999-06"}
	for _, m := range valid {
		assert.True(t, IsValidMonth(m), m)
	}

	invalid := []string{"", "2025-00", "2025-13", "2025-1", "2025/07", "25-07", "2025-07-01", "july"}
	for _, m := range invalid {
		assert.False(t, IsValidMonth(m), m)
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "month", Message: "must be in YYYY-MM format"},
		{Field: "field", Message: "is required"},
	}

	assert.Equal(t, "month: must be in YYYY-MM format; field: is required", errs.Error())
	assert.Equal(t, map[string]string{
		"month": "must be in YYYY-MM format",
		"field": "is required",
	}, errs.ToMap())
}
