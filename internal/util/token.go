package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	AuthSchemeBearer  = "Bearer"
	AuthSchemeRefresh = "Refresh"
)

var (
	ErrNoAuthorizationHeader  = errors.New("no authorization header specified")
	ErrMalformedAuthorization = errors.New("authorization header must be '<scheme> <token>'")
)

// ReadAuthorizationToken returns the token of an "Authorization: <scheme> <token>" header.
// The scheme is matched case-insensitively.
func ReadAuthorizationToken(ctx *gin.Context, scheme string) (string, error) {
	header := strings.TrimSpace(ctx.GetHeader("Authorization"))
	if header == "" {
		return "", ErrNoAuthorizationHeader
	}

	got, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", ErrMalformedAuthorization
	}

	if !strings.EqualFold(got, scheme) {
		return "", fmt.Errorf("invalid token type; expected '%s'", scheme)
	}

	return token, nil
}
