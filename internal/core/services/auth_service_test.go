package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogify/api/internal/adapters/token"
	"github.com/blogify/api/internal/core/domain"
	"github.com/blogify/api/internal/core/ports"
)

func newAuthFixture() (ports.AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewAuthService(repo, token.NewJWTCodec("test-secret")), repo
}

func register(t *testing.T, svc ports.AuthService) *domain.User {
	t.Helper()
	user, _, err := svc.Register(context.Background(), ports.RegisterInput{
		FullName: "Ana Souza",
		Email:    "ana@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return user
}

func TestRegister_HashesPasswordOnce(t *testing.T) {
	svc, repo := newAuthFixture()

	user := register(t, svc)

	stored, err := repo.GetByID(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse battery")))
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	register(t, svc)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		FullName: "Other Ana",
		Email:    "ana@example.com",
		Password: "another password",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		FullName: "Ana Souza",
		Email:    "ana@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogin_RoundTripsThroughResolve(t *testing.T) {
	svc, _ := newAuthFixture()
	registered := register(t, svc)

	user, sessionToken, err := svc.Login(context.Background(), "ana@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	resolved, err := svc.Resolve(context.Background(), sessionToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resolved.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()
	register(t, svc)

	_, _, err := svc.Login(context.Background(), "ana@example.com", "wrong password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "correct horse battery")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestResolve_TokenForDeletedAccount(t *testing.T) {
	svc, repo := newAuthFixture()
	user := register(t, svc)

	_, sessionToken, err := svc.Login(context.Background(), "ana@example.com", "correct horse battery")
	require.NoError(t, err)

	delete(repo.users, user.ID.Hex())

	_, err = svc.Resolve(context.Background(), sessionToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
