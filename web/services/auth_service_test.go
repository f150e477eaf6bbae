package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitquest/habitquest/habitquest"
	dbmodels "github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/habitquest/habitquest/habitquest/database/repositories"
)

// fakeUserRepo keeps users in memory, enough for auth flows.
type fakeUserRepo struct {
	repositories.UserRepository
	byEmail map[string]*dbmodels.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*dbmodels.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *dbmodels.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Level == 0 {
		user.Level = 1
	}
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*dbmodels.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "user", ID: email}
	}
	return user, nil
}

func (r *fakeUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	for _, u := range r.byEmail {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	svc, err := NewAuthService(repo, habitquest.AuthConfig{JWTSecret: "test-secret"})
	require.NoError(t, err)
	return svc, repo
}

func TestAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService(newFakeUserRepo(), habitquest.AuthConfig{})
	require.Error(t, err)
}

func TestRegisterAndVerifyRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, token, err := svc.Register(context.Background(), "alex", "Alex@Example.com", "longenough")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "alex@example.com", user.Email, "email is normalized")
	assert.Equal(t, 1, user.Level)
	assert.NotEqual(t, "longenough", user.PasswordHash, "password must be hashed")

	session, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, "alex", session.Username)

	// second verification hits the cache and must agree
	cached, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, session, cached)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, _, err := svc.Register(context.Background(), "alex", "alex@example.com", "longenough")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "alex", "other@example.com", "longenough")
	require.Error(t, err)
	assert.True(t, repositories.IsConflict(err))
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, _, err := svc.Register(context.Background(), "alex", "alex@example.com", "longenough")
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "alex@example.com", "longenough")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "alex", user.Username)

	_, _, err = svc.Login(context.Background(), "alex@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "longenough")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown accounts look like bad passwords")
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, token, err := svc.Register(context.Background(), "alex", "alex@example.com", "longenough")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token + "x")
	require.Error(t, err)

	other, err := NewAuthService(newFakeUserRepo(), habitquest.AuthConfig{JWTSecret: "different-secret"})
	require.NoError(t, err)
	_, err = other.VerifyToken(token)
	require.Error(t, err, "tokens from another secret must not verify")
}
