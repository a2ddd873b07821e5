package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/billeasy/backend/internal/config"
	"github.com/billeasy/backend/internal/db"
	"github.com/billeasy/backend/internal/model"
)

// OIDCService implements "sign in with an identity provider": the
// provider's ID token is verified and exchanged for the same first-party
// session token that password login issues.
type OIDCService struct {
	verifier *oidc.IDTokenVerifier
	oauthCfg oauth2.Config
	repo     UserRepo
	auth     *AuthService
}

func NewOIDCService(ctx context.Context, cfg config.OIDCConfig, repo UserRepo, auth *AuthService) (*OIDCService, error) {
	if cfg.IssuerURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, fmt.Errorf("%w: OIDC_ISSUER/OIDC_CLIENT_ID/OIDC_CLIENT_SECRET/OIDC_REDIRECT_URL are required", ErrMisconfigured)
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	return &OIDCService{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauthCfg: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email"},
		},
		repo: repo,
		auth: auth,
	}, nil
}

func (s *OIDCService) AuthURL(state string) string {
	return s.oauthCfg.AuthCodeURL(state)
}

// NewState returns a random value to bind the login redirect to its
// callback.
func (s *OIDCService) NewState() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// HandleCallback exchanges the authorization code, verifies the ID
// token, upserts the local user by email and issues a session token.
func (s *OIDCService) HandleCallback(ctx context.Context, code string) (string, error) {
	oauthToken, err := s.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	rawIDToken, ok := oauthToken.Extra("id_token").(string)
	if !ok {
		return "", ErrInvalidCredentials
	}

	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", ErrInvalidCredentials
	}
	if claims.Email == "" || !claims.EmailVerified {
		return "", ErrInvalidCredentials
	}

	user, err := s.findOrCreateUser(ctx, claims.Email)
	if err != nil {
		return "", err
	}

	return s.auth.IssueToken(user.ID, user.Email)
}

func (s *OIDCService) findOrCreateUser(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !db.IsNoRows(err) {
		return nil, err
	}

	// OIDC-created accounts get an unguessable placeholder hash so
	// password login stays impossible for them.
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword(raw, bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err = s.repo.CreateUser(ctx, email, string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a signup race; the account exists now.
			return s.repo.GetUserByEmail(ctx, email)
		}
		return nil, err
	}
	return user, nil
}
