package controller

import (
	"errors"
	"net/http"

	"github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/model"
	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/gin-gonic/gin"
)

type OAuthController struct {
	*baseController
}

func (oc OAuthController) oidcEnabled(ctx *gin.Context) bool {
	if oc.app.OIDC == nil {
		util.ResponseFailed(ctx, http.StatusServiceUnavailable, "OIDC login is not configured", util.GenerateErrorMessages(errors.New("no identity provider configured"), "oauth"), nil)
		return false
	}
	return true
}

func (oc OAuthController) ContinueWithOIDC(ctx *gin.Context) {
	oc.app.Logger.Debug("OAuth: OIDC logic")

	if !oc.oidcEnabled(ctx) {
		return
	}

	state, err := oc.app.OAuthState.Issue()
	if err != nil {
		oc.app.Logger.Error(err)
		util.ResponseError(ctx, "", err)
		return
	}

	url := oc.app.OIDC.AuthCodeURL(state)

	oc.app.Logger.Debugf("OAuth: OIDC, Redirect to: %s", url)
	ctx.Redirect(http.StatusTemporaryRedirect, url)
}

func (oc OAuthController) ContinueWithOIDCCallback(ctx *gin.Context) {
	oc.app.Logger.Debug("OAuth: OIDC callback logic")

	if !oc.oidcEnabled(ctx) {
		return
	}

	if providerErr := ctx.Query("error"); providerErr != "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Login was cancelled or rejected", util.GenerateErrorMessages(errors.New(providerErr), "oauth"), nil)
		return
	}

	if !oc.app.OAuthState.Consume(ctx.Query("state")) {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid oauth state", util.GenerateErrorMessages(errors.New("state is missing, expired or already used"), "state"), nil)
		return
	}

	identity, err := oc.app.OIDC.Exchange(ctx, ctx.Query("code"))
	if err != nil {
		oc.app.Logger.Debugf("OAuth: OIDC, Error: Failed to exchange code: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Failed to verify login", util.GenerateErrorMessages(err, "oauth"), nil)
		return
	}

	var expiresAt = &identity.Expiry
	if identity.Expiry.IsZero() {
		expiresAt = nil
	}

	// New users get an account, existing users get their profile refreshed
	user, err := oc.app.Repository.User.UpsertByEmail(ctx, nil, model.User{
		Email:                identity.Email,
		FirstName:            identity.FirstName,
		LastName:             identity.LastName,
		ProfileURL:           identity.Picture,
		AccessToken:          identity.AccessToken,
		AccessTokenExpiresAt: expiresAt,
	})
	if err != nil {
		oc.app.Logger.Errorf("OAuth: OIDC, Error: Failed to upsert user: %v", err)
		util.ResponseError(ctx, "", err)
		return
	}

	if _, err := oc.app.Repository.OAuthProvider.CreateOrUpdateByProviderUserId(ctx, nil, model.OAuthProvider{
		ProviderUserId: identity.Subject,
		ProviderType:   constant.OAUTH_PROVIDER_OIDC,
		AccessToken:    identity.AccessToken,
		UserID:         user.ID,
	}); err != nil {
		oc.app.Logger.Errorf("OAuth: OIDC, Error: Failed to link provider: %v", err)
		util.ResponseError(ctx, "", err)
		return
	}

	refreshToken, accessToken, err := oc.app.Repository.JWT.GenRefreshAndAccessToken(ctx, nil, *user)
	if err != nil {
		oc.app.Logger.Errorf("OAuth: OIDC, Error: Failed to generate refresh and access token: %v", err)
		util.ResponseError(ctx, "", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"refreshToken": refreshToken,
		"accessToken":  accessToken,
		"user":         user,
	})
}
