package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "Valid password", password: "borscht-2024"},
		{name: "Empty password", password: ""},
		{name: "Exactly 72 bytes", password: strings.Repeat("a", 72)},
		{name: "Too long", password: strings.Repeat("a", 73), wantErr: ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)
				return
			}
			assert.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, strings.HasPrefix(hash, "$2a$12$"))
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("borscht-2024")
	assert.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "borscht-2024"))
	assert.False(t, VerifyPassword(hash, "Borscht-2024"))
	assert.False(t, VerifyPassword(hash, ""))
	assert.False(t, VerifyPassword("invalid-hash", "borscht-2024"))
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("pelmeni")
	assert.NoError(t, err)
	second, err := HashPassword("pelmeni")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword(first, "pelmeni"))
	assert.True(t, VerifyPassword(second, "pelmeni"))
}
