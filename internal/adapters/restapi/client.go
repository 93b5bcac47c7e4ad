package restapi

// Package restapi implements the backend transport for the Sajilo CMS REST
// API. It owns the cookie jar (the access and refresh credentials are
// HTTP-only cookies), CSRF header injection, JSON coding, and the mapping of
// transport failures onto the application error taxonomy.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	domainauth "github.com/sajilocms/sajilocms-go/internal/domain/auth"
	apperrors "github.com/sajilocms/sajilocms-go/internal/errors"
	"github.com/sajilocms/sajilocms-go/internal/ports"
)

const (
	defaultAuthPath = "/auth"
	defaultTimeout  = 30 * time.Second

	accessCookieName = "access_token"
	csrfHeader       = "X-CSRFToken"
)

// Config holds construction parameters for the API client.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000".
	BaseURL string
	// AuthPath is the mount point of the accounts app. Defaults to "/auth".
	AuthPath string
	// HTTPClient is optional; a jar-equipped client is built when nil.
	HTTPClient *http.Client
	// UserAgent is sent on every request when non-empty.
	UserAgent string
	Logger    *slog.Logger
}

// Client talks to the Sajilo CMS backend. It implements ports.AuthAPI and
// ports.JSONDoer.
type Client struct {
	base       *url.URL
	authPath   string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger

	mu   sync.Mutex
	csrf string
}

// NewClient creates a backend client. The underlying http.Client carries a
// public-suffix-aware cookie jar so the backend's session cookies behave the
// way a browser's would.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}

	authPath := cfg.AuthPath
	if authPath == "" {
		authPath = defaultAuthPath
	}
	authPath = "/" + strings.Trim(authPath, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if httpClient.Jar == nil {
		jar, jarErr := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if jarErr != nil {
			return nil, fmt.Errorf("create cookie jar: %w", jarErr)
		}
		httpClient.Jar = jar
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:       base,
		authPath:   authPath,
		httpClient: httpClient,
		userAgent:  cfg.UserAgent,
		logger:     logger,
	}, nil
}

// CSRFToken returns the currently held anti-forgery token, if any.
func (c *Client) CSRFToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.csrf
}

// SetCSRFToken seeds the anti-forgery token, e.g. from the durable cache.
func (c *Client) SetCSRFToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.csrf = token
}

// csrfResponse is the body of GET /auth/csrf/.
type csrfResponse struct {
	CSRF    string `json:"csrf"`
	Message string `json:"message"`
}

// FetchCSRF obtains the anti-forgery token and retains it for subsequent
// mutating calls. The token the backend sets as a cookie is mirrored in the
// body, which is what we keep.
func (c *Client) FetchCSRF(ctx context.Context) (string, error) {
	var out csrfResponse
	if err := c.doJSON(ctx, http.MethodGet, c.authURL("/csrf/"), nil, &out, false); err != nil {
		return "", err
	}
	if out.CSRF == "" {
		return "", apperrors.Transient("csrf response carried no token")
	}
	c.SetCSRFToken(out.CSRF)
	return out.CSRF, nil
}

// identityEnvelope is the flat identity-plus-message payload login-like
// endpoints return.
type identityEnvelope struct {
	domainauth.Identity
	Message string `json:"message"`
}

func (c *Client) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var out identityEnvelope
	if err := c.doJSON(ctx, http.MethodPost, c.authURL("/login/"), body, &out, true); err != nil {
		return ports.LoginResult{}, err
	}
	return ports.LoginResult{Identity: out.Identity, Message: out.Message}, nil
}

func (c *Client) LoginWithGoogle(ctx context.Context, idToken string) (ports.LoginResult, error) {
	body := map[string]string{"id_token": idToken}

	var out identityEnvelope
	if err := c.doJSON(ctx, http.MethodPost, c.authURL("/login/google/"), body, &out, true); err != nil {
		return ports.LoginResult{}, err
	}
	return ports.LoginResult{Identity: out.Identity, Message: out.Message}, nil
}

// registerResponse is the body of POST /auth/register/.
type registerResponse struct {
	Message string `json:"message"`
}

func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	var out registerResponse
	if err := c.doJSON(ctx, http.MethodPost, c.authURL("/register/"), in, &out, true); err != nil {
		return "", err
	}
	if out.Message == "" {
		out.Message = "Registration successful"
	}
	return out.Message, nil
}

// refreshResponse is the body of POST /auth/token/refresh/. The renewed
// access credential arrives as a cookie; the body optionally carries updated
// profile data.
type refreshResponse struct {
	User *domainauth.Identity `json:"user"`
}

func (c *Client) RefreshToken(ctx context.Context) (ports.RefreshResult, error) {
	var out refreshResponse
	// Empty JSON body: the refresh credential is a cookie.
	err := c.doJSON(ctx, http.MethodPost, c.authURL("/token/refresh/"), struct{}{}, &out, false)
	if err != nil {
		return ports.RefreshResult{}, err
	}
	return ports.RefreshResult{Identity: out.User}, nil
}

func (c *Client) Profile(ctx context.Context) (domainauth.Identity, error) {
	// Cache buster mirrors the original client; some proxies cache GETs
	// aggressively enough to return a pre-login profile.
	target := c.authURL("/profile/") + "?_=" + uuid.NewString()

	var out domainauth.Identity
	if err := c.doJSON(ctx, http.MethodGet, target, nil, &out, false); err != nil {
		return domainauth.Identity{}, err
	}
	return out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, c.authURL("/logout/"), struct{}{}, nil, false)
}

// GetJSON implements ports.JSONDoer for clinic resource paths from the
// backend root, e.g. "/appointment/appointments/".
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, c.rootURL(path), nil, out, false)
}

func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, c.rootURL(path), body, out, false)
}

func (c *Client) PutJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, c.rootURL(path), body, out, false)
}

func (c *Client) DeleteJSON(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, c.rootURL(path), nil, nil, false)
}

// AccessTokenExpiry reports the expiry of the access-token cookie, when the
// cookie is present and decodes as a JWT. The token is not verified; only
// the registered exp claim is read, to schedule proactive refresh.
func (c *Client) AccessTokenExpiry() (time.Time, bool) {
	if c.httpClient.Jar == nil {
		return time.Time{}, false
	}
	for _, cookie := range c.httpClient.Jar.Cookies(c.base) {
		if cookie.Name != accessCookieName || cookie.Value == "" {
			continue
		}
		claims := jwt.MapClaims{}
		parser := jwt.NewParser()
		if _, _, err := parser.ParseUnverified(cookie.Value, claims); err != nil {
			return time.Time{}, false
		}
		exp, err := claims.GetExpirationTime()
		if err != nil || exp == nil {
			return time.Time{}, false
		}
		return exp.Time, true
	}
	return time.Time{}, false
}

func (c *Client) authURL(path string) string {
	return c.base.JoinPath(c.authPath, path).String()
}

func (c *Client) rootURL(path string) string {
	return c.base.JoinPath(path).String()
}

// doJSON performs one request/response cycle. credential selects the error
// mapping for credential-exchange endpoints, where the backend's rejection
// message must surface verbatim.
func (c *Client) doJSON(ctx context.Context, method, target string, body, out any, credential bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if method != http.MethodGet && method != http.MethodHead {
		if token := c.CSRFToken(); token != "" {
			req.Header.Set(csrfHeader, token)
		}
	}
	// The refresh and profile endpoints must never be served from a cache.
	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeTransient, "%s %s", method, req.URL.Path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeTransient, "read response body")
	}

	if resp.StatusCode >= 400 {
		return c.mapError(resp.StatusCode, data, credential)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return apperrors.Wrapf(err, apperrors.ErrCodeTransient, "decode %s response", req.URL.Path)
		}
	}
	return nil
}

// errorBody is the backend's error envelope. DRF also emits per-field maps;
// those are flattened to the first message found.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (c *Client) mapError(status int, data []byte, credential bool) error {
	msg := extractErrorMessage(data)

	if credential {
		if msg == "" {
			msg = "Invalid credentials"
		}
		return apperrors.Credential(msg)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if msg == "" {
			msg = "authentication required"
		}
		return apperrors.Unauthorized(msg)
	case status >= 500:
		if msg == "" {
			msg = fmt.Sprintf("server error (%d)", status)
		}
		return apperrors.Transient(msg)
	default:
		if msg == "" {
			msg = fmt.Sprintf("request rejected (%d)", status)
		}
		return apperrors.Internal(msg)
	}
}

func extractErrorMessage(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Detail != "" {
			return body.Detail
		}
	}
	// Field-error map: {"field": ["msg", ...], ...}
	var fields map[string][]string
	if err := json.Unmarshal(data, &fields); err == nil {
		for field, msgs := range fields {
			if len(msgs) > 0 {
				return fmt.Sprintf("%s: %s", field, msgs[0])
			}
		}
	}
	return ""
}
