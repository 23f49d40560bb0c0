package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRoomId(t *testing.T) {
	assert.NoError(t, validateRoomId("01HV3ZK9QW"))
	assert.Error(t, validateRoomId(""))
	assert.Error(t, validateRoomId("   "))
}

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, validateRequired("title", "general"))
	assert.Error(t, validateRequired("title", ""))
	assert.Error(t, validateRequired("title", "  "))
}

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		ok    bool
	}{
		{"alice@example.com", true},
		{"", false},
		{"no-at-sign", false},
		{"@example.com", false},
		{"alice@", false},
	}
	for _, tc := range cases {
		err := validateEmail(tc.email)
		if tc.ok {
			assert.NoError(t, err, tc.email)
		} else {
			assert.Error(t, err, tc.email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, validatePassword("password123"))
	assert.Error(t, validatePassword("short"))
}
