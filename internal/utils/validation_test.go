package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		id   string
		code string
	}{
		{"org-1", ""},
		{"user_42", ""},
		{"", "EMPTY_ID"},
		{"   ", "EMPTY_ID"},
		{strings.Repeat("a", 65), "ID_TOO_LONG"},
		{"org'; DROP TABLE cases;--", "INVALID_ID_FORMAT"},
		{"org/1", "INVALID_ID_FORMAT"},
	}

	for _, tt := range tests {
		err := ValidateID("organizationId", tt.id)
		if tt.code == "" {
			assert.NoError(t, err, tt.id)
			continue
		}
		ve, ok := err.(*ValidationError)
		if assert.True(t, ok, tt.id) {
			assert.Equal(t, tt.code, ve.Code, tt.id)
			assert.Contains(t, ve.Error(), "organizationId")
		}
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(nil))
	assert.Equal(t, []string{"A", "B", "C"}, SplitList([]string{"A, B", "", "C,"}))
}
