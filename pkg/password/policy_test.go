package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsStrongPassword(t *testing.T) {
	assert.Empty(t, Validate("Xx123456!", "Jane", "Doe", "jane@example.com"))
}

func TestValidateTooShort(t *testing.T) {
	violations := Validate("12345")
	assert.Contains(t, violations, "This password is too short. It must contain at least 8 characters.")
}

func TestValidateEntirelyNumeric(t *testing.T) {
	violations := Validate("4817263950")
	assert.Equal(t, []string{"This password is entirely numeric."}, violations)
}

func TestValidateCommonPassword(t *testing.T) {
	violations := Validate("Password123")
	assert.Contains(t, violations, "This password is too common.")
}

func TestValidateSimilarToUserData(t *testing.T) {
	violations := Validate("jane.doe2024", "Jane", "Doe", "jane.doe@example.com")
	assert.Contains(t, violations, "The password is too similar to your personal information.")
}

func TestValidateAggregatesEveryViolation(t *testing.T) {
	// Short and numeric at once: both rules must report.
	violations := Validate("12345")
	assert.Len(t, violations, 2)
}

func TestShortAttributePartsIgnored(t *testing.T) {
	// "Doe" is under four characters and must not poison the check.
	assert.Empty(t, Validate("doeKeeper42!", "", "Doe", ""))
}
