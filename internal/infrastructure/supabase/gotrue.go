// Package supabase is a small client for the Supabase Auth (GoTrue) REST API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrEmailExists        = errors.New("supabase: email already registered")
	ErrInvalidCredentials = errors.New("supabase: invalid login credentials")
	ErrUserNotFound       = errors.New("supabase: auth user not found")
)

// APIError is returned for any non-2xx answer that has no sentinel mapping.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: status=%d code=%s msg=%s", e.StatusCode, e.Code, e.Message)
}

type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
}

func NewClient(baseURL, anonKey, serviceKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if anonKey == "" {
		anonKey = serviceKey
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		http:       httpClient,
	}
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AdminCreateUser creates a confirmed auth user and returns its id.
func (c *Client) AdminCreateUser(ctx context.Context, email, password string) (string, error) {
	body := map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	}
	var out authUser
	if err := c.do(ctx, http.MethodPost, "/auth/v1/admin/users", c.serviceKey, body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("supabase: created user has no id")
	}
	return out.ID, nil
}

func (c *Client) AdminGetUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodGet, "/auth/v1/admin/users/"+url.PathEscape(id), c.serviceKey, nil, nil)
}

// AdminUpdateEmail moves the auth user to a new, already confirmed address.
func (c *Client) AdminUpdateEmail(ctx context.Context, id, email string) error {
	body := map[string]any{"email": email, "email_confirm": true}
	return c.do(ctx, http.MethodPut, "/auth/v1/admin/users/"+url.PathEscape(id), c.serviceKey, body, nil)
}

func (c *Client) AdminDeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(id), c.serviceKey, nil, nil)
}

// SignInWithPassword runs the password grant and returns the access token.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", c.anonKey, body, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if out.AccessToken == "" {
		return "", ErrInvalidCredentials
	}
	return out.AccessToken, nil
}

// Recover asks Supabase to email a password reset link.
func (c *Client) Recover(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/recover", c.anonKey, map[string]string{"email": email}, nil)
}

func (c *Client) do(ctx context.Context, method, path, key string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func decodeError(status int, raw []byte) error {
	var payload struct {
		Code             any    `json:"code"`
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(raw, &payload)

	code := payload.ErrorCode
	if s, ok := payload.Code.(string); ok && code == "" {
		code = s
	}
	if code == "" {
		code = payload.Error
	}
	msg := firstNonEmpty(payload.Msg, payload.Message, payload.ErrorDescription, strings.TrimSpace(string(raw)))

	switch {
	case code == "email_exists" || code == "user_already_exists" ||
		strings.Contains(strings.ToLower(msg), "already been registered") ||
		strings.Contains(strings.ToLower(msg), "already registered"):
		return ErrEmailExists
	case code == "invalid_credentials" || code == "invalid_grant":
		return ErrInvalidCredentials
	case status == http.StatusNotFound || code == "user_not_found":
		return ErrUserNotFound
	}
	return &APIError{StatusCode: status, Code: code, Message: msg}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
