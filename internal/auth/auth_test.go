package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/store/sqlite"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	st, err := sqlite.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewService(st, []byte("test-secret"), ttl)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t, time.Hour)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"missing username", "", "a@example.com", "password1"},
		{"malformed email", "reporter", "not-an-email", "password1"},
		{"short password", "reporter", "a@example.com", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegisterOnce(t *testing.T) {
	svc := newTestService(t, time.Hour)

	reporter, err := svc.Register(context.Background(), "jram", "jram@example.com", "password123")
	require.NoError(t, err)
	assert.NotZero(t, reporter.ID)
	assert.Equal(t, "jram@example.com", reporter.Email)
	assert.NotEqual(t, "password123", reporter.PasswordHash)

	_, err = svc.Register(context.Background(), "second", "second@example.com", "password123")
	assert.Error(t, err)
}

func TestLoginUniformFailure(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Register(context.Background(), "jram", "jram@example.com", "password123")
	require.NoError(t, err)

	// Unknown email and wrong password yield the same error.
	_, _, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "jram@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	reporter, err := svc.Register(context.Background(), "jram", "jram@example.com", "password123")
	require.NoError(t, err)

	token, logged, err := svc.Login(context.Background(), "jram@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, reporter.ID, logged.ID)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, reporter.ID, claims.ReporterID)
	assert.Equal(t, "jram@example.com", claims.Email)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Register(context.Background(), "jram", "jram@example.com", "password123")
	require.NoError(t, err)
	token, _, err := svc.Login(context.Background(), "jram@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// A token signed with a different secret is rejected.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		ReporterID: 1,
		Email:      "jram@example.com",
	})
	forgedString, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.Verify(forgedString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := newTestService(t, -time.Minute)

	_, err := svc.Register(context.Background(), "jram", "jram@example.com", "password123")
	require.NoError(t, err)
	token, _, err := svc.Login(context.Background(), "jram@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashStored(t *testing.T) {
	svc := newTestService(t, time.Hour)

	reporter, err := svc.Register(context.Background(), "jram", "jram@example.com", "password123")
	require.NoError(t, err)

	assert.NotEmpty(t, reporter.PasswordHash)
	assert.Contains(t, reporter.PasswordHash, "$2")
}
