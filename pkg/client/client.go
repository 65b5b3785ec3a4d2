package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
)

// APIError is returned when the server responds with a non-2xx status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Client wraps an http.Client for the user service. Every request carries the
// stored access token; a 401 triggers a single refresh call followed by one
// retry of the original request. The cookie jar transports the refresh token.
type Client struct {
	baseURL string
	http    *http.Client
	store   SessionStore
}

// New creates a client for the given base URL (including the API prefix,
// e.g. "http://localhost:8080/api/v1"). A nil store defaults to an in-memory
// session store.
func New(baseURL string, store SessionStore) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	if store == nil {
		store = NewMemoryStore()
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		store:   store,
	}, nil
}

// Store returns the session store backing this client
func (c *Client) Store() SessionStore {
	return c.store
}

// Do sends the request with the stored access token attached. When the
// response is a 401 the client refreshes the access token once and replays
// the request exactly once; a second 401 is returned as-is. On refresh
// failure the stored token is cleared and the original 401 surfaces.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	if err := c.refreshAccessToken(req.Context()); err != nil {
		// Surface the original 401; the session token is stale
		c.store.SetAccessToken("")
		return resp, nil
	}

	retry, err := cloneRequest(req)
	if err != nil {
		return resp, nil
	}

	resp.Body.Close()
	return c.send(retry)
}

// send attaches the current access token and executes the request
func (c *Client) send(req *http.Request) (*http.Response, error) {
	if token := c.store.Session().AccessToken; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.http.Do(req)
}

// refreshAccessToken calls the refresh endpoint. The refresh-token cookie in
// the jar identifies the session; the rotated cookie is stored back
// automatically.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/refresh", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: "refresh failed"}
	}

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if body.AccessToken == "" {
		return fmt.Errorf("refresh response carried no access token")
	}

	c.store.SetAccessToken(body.AccessToken)
	return nil
}

// cloneRequest rebuilds a request so its body can be sent again
func cloneRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.GetBody == nil {
		return clone, nil
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone.Body = body
	return clone, nil
}

// newJSONRequest builds a request with a JSON body and replayable GetBody
func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// decode reads a JSON response, translating non-2xx statuses into APIError
func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// RegisterRequest mirrors the server's registration payload
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth string `json:"dateOfBirth"`
	Description string `json:"description"`
}

// Register creates a new user account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	httpReq, err := c.newJSONRequest(ctx, http.MethodPost, "/register", req)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(httpReq)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decode(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and stores the resulting session.
// The refresh-token cookie lands in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	httpReq, err := c.newJSONRequest(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(httpReq)
	if err != nil {
		return nil, err
	}

	var body struct {
		AccessToken string `json:"accessToken"`
		User        *User  `json:"user"`
	}
	if err := decode(resp, &body); err != nil {
		return nil, err
	}

	c.store.SetSession(Session{AccessToken: body.AccessToken, User: body.User})
	return body.User, nil
}

// Logout ends the session server-side and clears the stored session
func (c *Client) Logout(ctx context.Context) error {
	httpReq, err := c.newJSONRequest(ctx, http.MethodPost, "/logout", nil)
	if err != nil {
		return err
	}

	resp, err := c.Do(httpReq)
	if err != nil {
		return err
	}

	if err := decode(resp, nil); err != nil {
		return err
	}

	c.store.Clear()
	return nil
}

// Profile fetches the authenticated user's record
func (c *Client) Profile(ctx context.Context) (*User, error) {
	httpReq, err := c.newJSONRequest(ctx, http.MethodGet, "/profile", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(httpReq)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decode(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates the allow-listed fields of a user
func (c *Client) UpdateUser(ctx context.Context, userID int, fields map[string]any) (*User, error) {
	httpReq, err := c.newJSONRequest(ctx, http.MethodPut, fmt.Sprintf("/update/%d", userID), fields)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(httpReq)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decode(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AllUsers lists all users (admin only)
func (c *Client) AllUsers(ctx context.Context) ([]User, error) {
	httpReq, err := c.newJSONRequest(ctx, http.MethodGet, "/alluser", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(httpReq)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := decode(resp, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes a user by ID (admin only)
func (c *Client) DeleteUser(ctx context.Context, userID int) error {
	httpReq, err := c.newJSONRequest(ctx, http.MethodDelete, fmt.Sprintf("/delete/%d", userID), nil)
	if err != nil {
		return err
	}

	resp, err := c.Do(httpReq)
	if err != nil {
		return err
	}

	return decode(resp, nil)
}
