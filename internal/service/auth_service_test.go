package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"checklists/internal/apperr"
	"checklists/internal/model"
	"checklists/internal/repository"
	"checklists/internal/testutil"
)

func newAuth(t *testing.T) *AuthService {
	t.Helper()
	auth := NewAuthService(testutil.NewStore(t), "test-secret", time.Hour, zerolog.Nop())
	auth.cost = bcrypt.MinCost
	return auth
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()

	session, err := auth.Register(ctx, " Alice@Example.com ", "hunter2")
	require.NoError(t, err)
	require.NotNil(t, session.User.Email)
	assert.Equal(t, "alice@example.com", *session.User.Email)
	assert.NotEqual(t, "hunter2", session.User.PasswordHash)

	userID, err := auth.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, userID)

	login, err := auth.Login(ctx, "alice@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)
}

func TestAuthService_RegisterErrors(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "", "secret")
	assert.Equal(t, apperr.CodeUserMissingEmailPassword, apperr.CodeOf(err))

	_, err = auth.Register(ctx, "bob@example.com", "secret")
	require.NoError(t, err)
	_, err = auth.Register(ctx, "BOB@example.com", "other")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, apperr.CodeUserEmailExists, apperr.CodeOf(err))
}

func TestAuthService_LoginErrors(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()
	_, err := auth.Register(ctx, "carol@example.com", "right")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "carol@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Equal(t, apperr.CodeUserInvalidCredentials, apperr.CodeOf(err))

	_, err = auth.Login(ctx, "nobody@example.com", "right")
	assert.Equal(t, apperr.CodeUserInvalidCredentials, apperr.CodeOf(err))

	_, err = auth.Login(ctx, "carol@example.com", "")
	assert.Equal(t, apperr.CodeUserMissingEmailPassword, apperr.CodeOf(err))
}

func TestAuthService_Authenticate(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()
	session, err := auth.Register(ctx, "alice@example.com", "hunter2")
	require.NoError(t, err)
	userID := session.User.ID

	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return issued }

	token, err := auth.IssueToken(userID)
	require.NoError(t, err)

	got, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	auth.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = auth.Authenticate(ctx, token)
	assert.Equal(t, apperr.CodeInvalidAccessToken, apperr.CodeOf(err), "expired")

	auth.now = func() time.Time { return issued }
	_, err = auth.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	other := NewAuthService(nil, "other-secret", time.Hour, zerolog.Nop())
	other.now = auth.now
	forged, err := other.IssueToken(userID)
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, forged)
	assert.Equal(t, apperr.CodeInvalidAccessToken, apperr.CodeOf(err), "wrong secret")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: userID})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, unsigned)
	assert.Equal(t, apperr.CodeInvalidAccessToken, apperr.CodeOf(err), "alg none")
}

func TestAuthService_AuthenticateRequiresExistingUser(t *testing.T) {
	db := testutil.NewDB(t)
	auth := NewAuthService(repository.NewStore(db), "test-secret", time.Hour, zerolog.Nop())
	auth.cost = bcrypt.MinCost
	ctx := context.Background()

	session, err := auth.Register(ctx, "bob@example.com", "pw")
	require.NoError(t, err)

	_, err = auth.Authenticate(ctx, session.Token)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&model.User{}, "id = ?", session.User.ID).Error)

	_, err = auth.Authenticate(ctx, session.Token)
	assert.Equal(t, apperr.CodeInvalidAccessToken, apperr.CodeOf(err))

	stranger, err := auth.IssueToken("no-such-user")
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, stranger)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
