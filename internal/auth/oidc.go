package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/SeakMengs/Annotator/internal/config"
	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Identity is what the identity provider tells us about a user after login.
type Identity struct {
	Subject     string
	Email       string
	FirstName   string
	LastName    string
	Picture     string
	AccessToken string
	Expiry      time.Time
}

type OIDCInterface interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

type OIDC struct {
	logger       *zap.SugaredLogger
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

// NewOIDC discovers the provider configuration from the issuer. ID tokens are
// verified against the issuer's published JWKS.
func NewOIDC(ctx context.Context, cfg config.OIDCConfig, logger *zap.SugaredLogger) (*OIDC, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	if !cfg.IsConfigured() {
		return nil, errors.New("oidc issuer and client id must be set")
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover oidc provider: %w", err)
	}

	scopes := cfg.Scopes
	if !slices.Contains(scopes, oidc.ScopeOpenID) {
		scopes = append([]string{oidc.ScopeOpenID}, scopes...)
	}

	return &OIDC{
		logger: logger,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (o OIDC) AuthCodeURL(state string) string {
	return o.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Exchange trades the authorization code for tokens and returns the verified identity.
func (o OIDC) Exchange(ctx context.Context, code string) (*Identity, error) {
	if code == "" {
		return nil, errors.New("authorization code is empty")
	}

	token, err := o.oauth2Config.Exchange(ctx, code)
	if err != nil {
		o.logger.Debugf("OAuth: OIDC, failed to exchange code: %v", err)
		return nil, err
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("token response has no id_token")
	}

	idToken, err := o.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		o.logger.Debugf("OAuth: OIDC, failed to verify id token: %v", err)
		return nil, err
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, err
	}

	if claims.Email == "" {
		return nil, errors.New("id token has no email claim")
	}
	if claims.EmailVerified != nil && !*claims.EmailVerified {
		return nil, errors.New("email is not verified by the identity provider")
	}

	firstName := claims.GivenName
	if firstName == "" {
		firstName = claims.Name
	}

	return &Identity{
		Subject:     idToken.Subject,
		Email:       claims.Email,
		FirstName:   firstName,
		LastName:    claims.FamilyName,
		Picture:     claims.Picture,
		AccessToken: token.AccessToken,
		Expiry:      token.Expiry,
	}, nil
}
