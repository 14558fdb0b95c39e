package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskward-api/internal/config"
	"github.com/phrazzld/taskward-api/internal/service/auth"
)

func testJWTService(t *testing.T) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes: 24 * 60,
	})
	require.NoError(t, err)
	return svc
}

func newAuthTestHandler(t *testing.T) (*AuthHandler, *fakeUserStore) {
	t.Helper()
	users := newFakeUserStore()
	handler := NewAuthHandler(users, testJWTService(t), auth.NewPBKDF2Hasher())
	return handler, users
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates user and returns id", func(t *testing.T) {
		t.Parallel()
		handler, users := newAuthTestHandler(t)

		w := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
			Username: "alice",
			Email:    "a@x.com",
			Password: "pw1",
		})

		require.Equal(t, http.StatusCreated, w.Code)

		var resp RegisterResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.UserID)

		stored, err := users.GetByID(context.Background(), resp.UserID)
		require.NoError(t, err)
		assert.Equal(t, "alice", stored.Username)
		assert.Equal(t, "a@x.com", stored.Email)
		// Plaintext never reaches storage.
		assert.Empty(t, stored.Password)
		assert.NotEmpty(t, stored.HashedPassword)
		assert.NotContains(t, stored.HashedPassword, "pw1")
	})

	t.Run("duplicate username fails regardless of email", func(t *testing.T) {
		t.Parallel()
		handler, _ := newAuthTestHandler(t)

		first := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
			Username: "alice", Email: "a@x.com", Password: "pw1",
		})
		require.Equal(t, http.StatusCreated, first.Code)

		second := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
			Username: "alice", Email: "different@x.com", Password: "pw2",
		})
		require.Equal(t, http.StatusBadRequest, second.Code)
		assert.Contains(t, second.Body.String(), "Username already exists")
	})

	t.Run("duplicate email fails", func(t *testing.T) {
		t.Parallel()
		handler, _ := newAuthTestHandler(t)

		first := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
			Username: "alice", Email: "a@x.com", Password: "pw1",
		})
		require.Equal(t, http.StatusCreated, first.Code)

		second := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
			Username: "bob", Email: "a@x.com", Password: "pw2",
		})
		require.Equal(t, http.StatusBadRequest, second.Code)
		assert.Contains(t, second.Body.String(), "Email already exists")
	})

	t.Run("missing fields fail", func(t *testing.T) {
		t.Parallel()
		handler, _ := newAuthTestHandler(t)

		tests := []RegisterRequest{
			{Email: "a@x.com", Password: "pw1"},
			{Username: "alice", Password: "pw1"},
			{Username: "alice", Email: "a@x.com"},
		}
		for _, req := range tests {
			w := postJSON(t, handler.Register, "/api/auth/register", req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	})

	t.Run("invalid email format fails", func(t *testing.T) {
		t.Parallel()
		handler, _ := newAuthTestHandler(t)

		w := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
			Username: "alice", Email: "not-an-email", Password: "pw1",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("storage failure reports a generic server error", func(t *testing.T) {
		t.Parallel()
		handler, users := newAuthTestHandler(t)
		users.createErr = errors.New("connection refused")

		w := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
			Username: "alice", Email: "a@x.com", Password: "pw1",
		})
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})

	t.Run("malformed body fails", func(t *testing.T) {
		t.Parallel()
		handler, _ := newAuthTestHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		handler.Register(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	register := func(t *testing.T, handler *AuthHandler) {
		t.Helper()
		w := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
			Username: "alice", Email: "a@x.com", Password: "pw1",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("returns token and user info", func(t *testing.T) {
		t.Parallel()
		handler, _ := newAuthTestHandler(t)
		register(t, handler)

		w := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
			Username: "alice", Password: "pw1",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "alice", resp.User.Username)
		assert.Equal(t, "a@x.com", resp.User.Email)

		// The token authenticates as the registered user, nobody else.
		claims, err := testJWTService(t).ValidateToken(context.Background(), resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()
		handler, _ := newAuthTestHandler(t)
		register(t, handler)

		unknownUser := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
			Username: "mallory", Password: "pw1",
		})
		wrongPassword := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
			Username: "alice", Password: "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		// Identical bodies: the endpoint must not reveal which check failed.
		assert.Equal(t, unknownUser.Body.String(), wrongPassword.Body.String())
	})

	t.Run("missing fields fail", func(t *testing.T) {
		t.Parallel()
		handler, _ := newAuthTestHandler(t)

		w := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{Username: "alice"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
