package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(server.URL, NewMemoryStore())
	require.NoError(t, err)
	return c, server
}

func TestClient_AttachesAccessToken(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(User{ID: 1, UserName: "jane_doe"})
	}))

	c.Store().SetSession(Session{AccessToken: "token-123", User: &User{ID: 1}})

	_, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-123", gotAuth)
}

func TestClient_RefreshesOnceOn401(t *testing.T) {
	var refreshCalls, profileCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "fresh-token"})
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		profileCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid token"})
			return
		}
		json.NewEncoder(w).Encode(User{ID: 1, UserName: "jane_doe"})
	})

	c, _ := newTestClient(t, mux)
	c.Store().SetSession(Session{AccessToken: "stale-token", User: &User{ID: 1}})

	user, err := c.Profile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "jane_doe", user.UserName)
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, int32(2), profileCalls.Load())
	assert.Equal(t, "fresh-token", c.Store().Session().AccessToken)
}

func TestClient_SecondUnauthorizedDoesNotLoop(t *testing.T) {
	var refreshCalls, profileCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "still-bad"})
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		profileCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid token"})
	})

	c, _ := newTestClient(t, mux)
	c.Store().SetSession(Session{AccessToken: "stale-token", User: &User{ID: 1}})

	_, err := c.Profile(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, int32(2), profileCalls.Load())
}

func TestClient_FailedRefreshClearsTokenAndSurfaces401(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid or expired refresh token"})
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid token"})
	})

	c, _ := newTestClient(t, mux)
	c.Store().SetSession(Session{AccessToken: "stale-token", User: &User{ID: 1}})

	_, err := c.Profile(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Empty(t, c.Store().Session().AccessToken)
}

func TestClient_RetryReplaysRequestBody(t *testing.T) {
	var bodies []string

	mux := http.NewServeMux()
	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "fresh-token"})
	})
	mux.HandleFunc("/update/1", func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]any
		json.NewDecoder(r.Body).Decode(&fields)
		data, _ := json.Marshal(fields)
		bodies = append(bodies, string(data))

		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid token"})
			return
		}
		json.NewEncoder(w).Encode(User{ID: 1, UserName: "jane_doe", Email: "new@example.com"})
	})

	c, _ := newTestClient(t, mux)
	c.Store().SetSession(Session{AccessToken: "stale-token", User: &User{ID: 1}})

	user, err := c.UpdateUser(context.Background(), 1, map[string]any{"email": "new@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", user.Email)
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
}

func TestClient_Login(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jane@example.com", req["email"])

		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "refresh-cookie", Path: "/", HttpOnly: true})
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken": "access-token",
			"user":        User{ID: 1, UserName: "jane_doe", Role: "user"},
		})
	})
	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("refreshToken")
		if err != nil || cookie.Value != "refresh-cookie" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "refresh token required"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "rotated-access"})
	})

	c, _ := newTestClient(t, mux)

	user, err := c.Login(context.Background(), "jane@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", user.UserName)

	session := c.Store().Session()
	assert.True(t, session.Authenticated())
	assert.Equal(t, "access-token", session.AccessToken)

	// The jar carries the refresh cookie back to the refresh endpoint
	require.NoError(t, c.refreshAccessToken(context.Background()))
	assert.Equal(t, "rotated-access", c.Store().Session().AccessToken)
}

func TestClient_LoginFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid email or password"})
	}))

	_, err := c.Login(context.Background(), "jane@example.com", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid email or password", apiErr.Message)
	assert.False(t, c.Store().Session().Authenticated())
}

func TestClient_LogoutClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "logout successful"})
	})

	c, _ := newTestClient(t, mux)
	c.Store().SetSession(Session{AccessToken: "token-123", User: &User{ID: 1}})

	require.NoError(t, c.Logout(context.Background()))
	assert.False(t, c.Store().Session().Authenticated())
}

func TestClient_AllUsers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/alluser", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]User{
			{ID: 1, UserName: "jane_doe"},
			{ID: 2, UserName: "admin_root", Role: "admin"},
		})
	})

	c, _ := newTestClient(t, mux)
	c.Store().SetSession(Session{AccessToken: "admin-token", User: &User{ID: 2, Role: "admin"}})

	users, err := c.AllUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
