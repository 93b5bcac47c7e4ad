package googleauth

// Package googleauth verifies Google ID tokens and drives the OAuth2
// authorization-code flow used to obtain them. The backend accepts the raw
// ID token at /auth/login/google/; this adapter lets callers acquire one and
// sanity-check it locally before it is sent.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// GoogleIssuer is the issuer of Google-signed ID tokens.
const GoogleIssuer = "https://accounts.google.com"

// Provider implements ports.TokenVerifier against Google's OIDC endpoints.
type Provider struct {
	config   *oauth2.Config
	verifier *gooidc.IDTokenVerifier
	provider *gooidc.Provider
}

// ProviderConfig holds configuration for the Google OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Issuer       string       // Optional, defaults to GoogleIssuer
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// NewProvider performs OIDC discovery against the issuer and returns a
// provider ready to verify ID tokens and exchange authorization codes.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	issuer := config.Issuer
	if issuer == "" {
		issuer = GoogleIssuer
	}
	issuer = strings.TrimSuffix(issuer, "/")

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &Provider{
		provider: op,
		verifier: op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       []string{gooidc.ScopeOpenID, "profile", "email"},
			Endpoint:     op.Endpoint(),
		},
	}, nil
}

// Verify checks the signature, audience and expiry of a raw Google ID token
// and returns the email it asserts.
func (p *Provider) Verify(ctx context.Context, rawIDToken string) (string, error) {
	if rawIDToken == "" {
		return "", errors.New("ID token is required")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", fmt.Errorf("verify id_token: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", fmt.Errorf("parse id_token claims: %w", err)
	}
	if claims.Email == "" {
		return "", errors.New("id_token carries no email claim")
	}
	if !claims.EmailVerified {
		return "", errors.New("google account email is not verified")
	}
	return claims.Email, nil
}

// Begin returns the Google consent URL plus the state and nonce that must
// round-trip through the callback.
func (p *Provider) Begin() (authURL, state, nonce string, err error) {
	state, err = generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err = generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL = p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

// Exchange trades an authorization code for the raw ID token. The nonce from
// Begin is checked against the token before it is returned.
func (p *Provider) Exchange(ctx context.Context, code, nonce string) (string, error) {
	if code == "" {
		return "", errors.New("authorization code is required")
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange code for token: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", errors.New("token response carries no id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", fmt.Errorf("verify id_token: %w", err)
	}
	if nonce != "" && idToken.Nonce != nonce {
		return "", errors.New("invalid nonce")
	}
	return rawIDToken, nil
}

func generateRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
