package auth

import (
	"errors"
	"time"

	"github.com/SeakMengs/Annotator/internal/config"
	"github.com/SeakMengs/Annotator/internal/constant"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JWT struct {
	logger             *zap.SugaredLogger
	jwtSecret          string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

type JWTInterface interface {
	GenerateRefreshAndAccessToken(payload JWTPayload) (*string, *string, error)
	VerifyJwtToken(token string) (*JWTClaims, error)
}

func NewJwt(cfg config.AuthConfig, logger *zap.SugaredLogger) *JWT {
	// For unit test
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	accessExpiry := cfg.AccessTokenExpiry
	if accessExpiry <= 0 {
		accessExpiry = 5 * time.Minute
	}
	refreshExpiry := cfg.RefreshTokenExpiry
	if refreshExpiry <= 0 {
		refreshExpiry = 7 * 24 * time.Hour
	}

	return &JWT{
		jwtSecret:          cfg.JWT_SECRET,
		logger:             logger,
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
	}
}

type JWTPayload struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	ProfileURL string `json:"profileURL"`
}

type JWTClaims struct {
	User JWTPayload `json:"user"`
	Type string     `json:"type"`
	jwt.RegisteredClaims
}

func (j JWT) sign(payload JWTPayload, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		User: payload,
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique per token so two sessions issued in the same second never collide
			ID:        uuid.NewString(),
			Issuer:    constant.APP_NAME,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(j.jwtSecret))
}

// Return refreshToken, accessToken, error
func (j JWT) GenerateRefreshAndAccessToken(payload JWTPayload) (*string, *string, error) {
	j.logger.Debugf("Generate refresh and access token for user: %d", payload.ID)

	if j.jwtSecret == "" {
		return nil, nil, errors.New("jwt secret is not configured")
	}

	refreshToken, err := j.sign(payload, constant.JWT_TYPE_REFRESH, j.refreshTokenExpiry)
	if err != nil {
		return nil, nil, err
	}

	accessToken, err := j.sign(payload, constant.JWT_TYPE_ACCESS, j.accessTokenExpiry)
	if err != nil {
		return nil, nil, err
	}

	return &refreshToken, &accessToken, nil
}

func (j JWT) VerifyJwtToken(token string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(j.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		j.logger.Debugf("Failed to verify jwt token. Error: %v", err)
		return nil, err
	}

	if !parsedToken.Valid {
		j.logger.Debug("Jwt token is not valid")
		return nil, errors.New("jwt token is not valid")
	}

	if claims.User.ID == 0 || claims.User.Email == "" {
		return nil, errors.New("invalid token: user field is missing or malformed")
	}

	return claims, nil
}
