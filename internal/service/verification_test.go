package service

import (
	"database/sql"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/arkology/forgetme/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateVerificationCode()
		require.NoError(t, err)

		assert.Len(t, code, domain.VerificationCodeDigits)
		for _, c := range code {
			assert.True(t, unicode.IsDigit(c), "code %q contains non-digit", code)
		}
		seen[code] = true
	}
	// 50 draws from a 100000-code space collapsing to one value would
	// mean the generator is broken, not unlucky.
	assert.Greater(t, len(seen), 1)
}

func TestCheckToken(t *testing.T) {
	now := time.Now()

	t.Run("fresh token passes", func(t *testing.T) {
		token := domain.EmailVerificationToken{
			Code:      "04217",
			ExpiresAt: now.Add(domain.VerificationCodeDuration),
		}

		assert.NoError(t, checkToken("test", token))
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token := domain.EmailVerificationToken{
			Code:      "04217",
			ExpiresAt: now.Add(-time.Minute),
		}

		err := checkToken("test", token)
		require.Error(t, err)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("second verify with a consumed token is rejected", func(t *testing.T) {
		usedAt := now.Add(-time.Second)
		token := domain.EmailVerificationToken{
			Code:      "04217",
			ExpiresAt: now.Add(domain.VerificationCodeDuration),
			UsedAt:    &usedAt,
		}

		err := checkToken("test", token)
		require.Error(t, err)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("rejections are indistinguishable", func(t *testing.T) {
		usedAt := now
		expired := domain.EmailVerificationToken{ExpiresAt: now.Add(-time.Minute)}
		used := domain.EmailVerificationToken{ExpiresAt: now.Add(time.Minute), UsedAt: &usedAt}

		expiredErr := checkToken("test", expired)
		usedErr := checkToken("test", used)
		require.Error(t, expiredErr)
		require.Error(t, usedErr)
		assert.Equal(t, domain.ErrorMessage(expiredErr), domain.ErrorMessage(usedErr))
	})
}

func TestTokenFromRow(t *testing.T) {
	now := time.Now()

	t.Run("unused row maps to nil UsedAt", func(t *testing.T) {
		token := tokenFromRow(repository.EmailVerificationToken{
			Code:      "04217",
			ExpiresAt: now.Add(domain.VerificationCodeDuration),
		})

		assert.Nil(t, token.UsedAt)
		assert.True(t, token.IsValid())
	})

	t.Run("consumed row maps to set UsedAt", func(t *testing.T) {
		token := tokenFromRow(repository.EmailVerificationToken{
			Code:      "04217",
			ExpiresAt: now.Add(domain.VerificationCodeDuration),
			UsedAt:    sql.NullTime{Time: now, Valid: true},
		})

		require.NotNil(t, token.UsedAt)
		assert.True(t, token.IsUsed())
		assert.False(t, token.IsValid())
	})
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "user@example.com", false},
		{"valid with subdomain", "user@mail.example.co.uk", false},
		{"valid with plus", "user+tag@example.com", false},
		{"empty", "", true},
		{"missing @", "userexample.com", true},
		{"multiple @", "user@@example.com", true},
		{"starts with @", "@example.com", true},
		{"ends with @", "user@", true},
		{"domain without dot", "user@localhost", true},
		{"consecutive dots", "user..name@example.com", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
