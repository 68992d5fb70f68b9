package controller

import (
	"errors"
	"net/http"

	"github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	*baseController
}

func (ac AuthController) VerifyJwtAccessToken(ctx *gin.Context) {
	token := ctx.Param("token")

	// Keep in mind that verify jwt token does not check database.
	jwtClaims, err := ac.app.JWTService.VerifyJwtToken(token)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "token"), gin.H{
			"tokenValid": false,
		})
		return
	}

	if jwtClaims.Type != constant.JWT_TYPE_ACCESS {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(errors.New("invalid jwt token type"), "token"), gin.H{
			"tokenValid": false,
		})
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"tokenValid": true,
		"payload":    jwtClaims,
	})
}

func (ac AuthController) readRefreshToken(ctx *gin.Context) (string, bool) {
	refreshToken, err := util.ReadAuthorizationToken(ctx, util.AuthSchemeRefresh)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "token"), nil)
		return "", false
	}

	jwtClaims, err := ac.app.JWTService.VerifyJwtToken(refreshToken)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "token"), nil)
		return "", false
	}

	if jwtClaims.Type != constant.JWT_TYPE_REFRESH {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(errors.New("invalid jwt token type"), "token"), nil)
		return "", false
	}

	return refreshToken, true
}

func (ac AuthController) RefreshAccessToken(ctx *gin.Context) {
	refreshToken, ok := ac.readRefreshToken(ctx)
	if !ok {
		return
	}

	newRefreshToken, newAccessToken, err := ac.app.Repository.JWT.RefreshToken(ctx, nil, refreshToken)
	if err != nil {
		ac.app.Logger.Debugf("Failed to refresh token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(errors.New("refresh token is revoked or unknown"), "token"), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"refreshToken": newRefreshToken,
		"accessToken":  newAccessToken,
	})
}

// Logout revokes the refresh token. The access token stays valid until it expires.
func (ac AuthController) Logout(ctx *gin.Context) {
	refreshToken, ok := ac.readRefreshToken(ctx)
	if !ok {
		return
	}

	if err := ac.app.Repository.JWT.DeleteToken(ctx, nil, refreshToken); err != nil {
		ac.app.Logger.Error(err)
		util.ResponseError(ctx, "Failed to logout", err)
		return
	}

	util.ResponseSuccess(ctx, nil)
}
