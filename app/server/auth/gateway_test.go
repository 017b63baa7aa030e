package auth

import (
	"concentrate-quality/app/server/jwt"
	"concentrate-quality/app/server/models"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users map[string]*models.User
	err   error
}

func (f *fakeUsers) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[username], nil
}

func newTestGateway(t *testing.T) (*Gateway, *fakeUsers, *jwt.JWT) {
	t.Helper()

	h := NewHasher(testParams)
	hash, err := h.Hash("secret")
	require.NoError(t, err)

	users := &fakeUsers{users: map[string]*models.User{
		"alice": {ID: 7, Username: "alice", HashedPassword: hash, IsActive: true},
	}}
	tokens, err := jwt.New("test-secret", "HS256")
	require.NoError(t, err)

	return NewGateway(users, h, tokens, 30*time.Minute), users, tokens
}

func TestLogin_Success(t *testing.T) {
	g, _, tokens := newTestGateway(t)

	token, err := g.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	subject, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestLogin_WrongCredentials(t *testing.T) {
	g, _, _ := newTestGateway(t)

	_, err := g.Login(context.Background(), "alice", "nope")
	assert.ErrorIs(t, err, ErrWrongCredentials)

	_, err = g.Login(context.Background(), "ghost", "secret")
	assert.ErrorIs(t, err, ErrWrongCredentials)
}

func TestLogin_StoreError(t *testing.T) {
	g, users, _ := newTestGateway(t)
	users.err = errors.New("db down")

	_, err := g.Login(context.Background(), "alice", "secret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrWrongCredentials)
}

func TestAuthenticateRequest_Success(t *testing.T) {
	g, _, tokens := newTestGateway(t)

	token, err := tokens.Issue("alice", time.Minute)
	require.NoError(t, err)

	for _, header := range []string{"Bearer " + token, "bearer " + token, "BEARER " + token} {
		user, err := g.AuthenticateRequest(context.Background(), header)
		require.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
	}
}

func TestAuthenticateRequest_MalformedHeader(t *testing.T) {
	g, _, _ := newTestGateway(t)

	for _, header := range []string{"", "Basic xxx", "Bearer", "Bearer ", "Token abc", "abc"} {
		_, err := g.AuthenticateRequest(context.Background(), header)
		assert.ErrorIs(t, err, ErrMissingOrMalformedHeader, "header %q", header)
	}
}

func TestAuthenticateRequest_InvalidToken(t *testing.T) {
	g, _, tokens := newTestGateway(t)

	_, err := g.AuthenticateRequest(context.Background(), "Bearer not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, jwt.ErrMalformedToken)

	expired, err := tokens.Issue("alice", -time.Second)
	require.NoError(t, err)
	_, err = g.AuthenticateRequest(context.Background(), "Bearer "+expired)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, jwt.ErrExpired)

	other, err := jwt.New("other-secret", "HS256")
	require.NoError(t, err)
	forged, err := other.Issue("alice", time.Minute)
	require.NoError(t, err)
	_, err = g.AuthenticateRequest(context.Background(), "Bearer "+forged)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, jwt.ErrInvalidSignature)
}

func TestAuthenticateRequest_UnknownSubject(t *testing.T) {
	g, _, tokens := newTestGateway(t)

	token, err := tokens.Issue("ghost", time.Minute)
	require.NoError(t, err)

	_, err = g.AuthenticateRequest(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRequest_StoreError(t *testing.T) {
	g, users, tokens := newTestGateway(t)

	token, err := tokens.Issue("alice", time.Minute)
	require.NoError(t, err)
	users.err = errors.New("db down")

	_, err = g.AuthenticateRequest(context.Background(), "Bearer "+token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
