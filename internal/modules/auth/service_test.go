package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubJWT struct{}

func (stubJWT) GenerateToken(subject, role string) (string, error) {
	return "token-" + subject + "-" + role, nil
}

func newTestService(t *testing.T, email, password string) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(email, string(hash), stubJWT{})
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService(t, "owner@salon.test", "s3cret")

	token, err := svc.Login("owner@salon.test", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "token-owner@salon.test-admin", token)
}

func TestLoginNormalizesEmail(t *testing.T) {
	svc := newTestService(t, "Owner@Salon.Test", "s3cret")

	_, err := svc.Login("  owner@salon.test ", "s3cret")
	assert.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t, "owner@salon.test", "s3cret")

	_, err := svc.Login("owner@salon.test", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t, "owner@salon.test", "s3cret")

	_, err := svc.Login("someone@else.test", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginEmptyInput(t *testing.T) {
	svc := newTestService(t, "owner@salon.test", "s3cret")

	_, err := svc.Login("", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
