package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "alice_01", false},
		{"empty", "", true},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", MaxUsernameLength+1), true},
		{"bad characters", "alice smith", true},
		{"null byte", "ali\x00ce", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret123"))
	assert.EqualError(t, ValidatePassword("short"), "password must be at least 8 characters")
	assert.EqualError(t, ValidatePassword(""), "password is required")
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email    string
		required bool
		wantErr  bool
	}{
		{"alice@example.com", true, false},
		{"", false, false},
		{"", true, true},
		{"not-an-email", false, true},
		{"a@b", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email, tt.required)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestValidateMessage(t *testing.T) {
	assert.NoError(t, ValidateMessage("Hello there, I have a question."))
	assert.Error(t, ValidateMessage(""))
	assert.EqualError(t, ValidateMessage("a          "), "message contains excessive whitespace")
	assert.Error(t, ValidateMessage(strings.Repeat("x", MaxMessageSize+1)))
}
