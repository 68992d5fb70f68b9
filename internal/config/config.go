package config

import (
	"strings"
	"time"

	"github.com/SeakMengs/Annotator/internal/env"
)

type Config struct {
	Port        string
	ENV         string
	FrontURL    string
	DB          DatabaseConfig
	RateLimiter RateLimiterConfig
	Mail        MailConfig
	Auth        AuthConfig
	Minio       MinioConfig
	RabbitMQ    RabbitMQConfig
	IIIF        IIIFConfig
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

type AuthConfig struct {
	JWT_SECRET         string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	OIDC               OIDCConfig
}

// OIDCConfig describes the external OpenID Connect provider used for login.
type OIDCConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

func (c OIDCConfig) IsConfigured() bool {
	return c.IssuerURL != "" && c.ClientID != ""
}

type DatabaseConfig struct {
	// postgres or sqlite
	DRIVER       string
	DB_HOST      string
	DB_PORT      string
	DB_DATABASE  string
	DB_USERNAME  string
	DB_PASSWORD  string
	SQLITE_PATH  string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  string
}

type MailConfig struct {
	SEND_GRID  SendGridConfig
	FROM_EMAIL string
}

type SendGridConfig struct {
	API_KEY string
}

type MinioConfig struct {
	ENDPOINT   string
	ACCESS_KEY string
	SECRET_KEY string
	BUCKET     string
	USE_SSL    bool
}

func (c MinioConfig) IsConfigured() bool {
	return c.ENDPOINT != "" && c.BUCKET != ""
}

// RabbitMQConfig is optional. Without it invitation mails are sent from the api process.
type RabbitMQConfig struct {
	URL string
}

func (c RabbitMQConfig) IsConfigured() bool {
	return c.URL != ""
}

// IIIFConfig points at the IIIF image server that serves tiles and region crops.
type IIIFConfig struct {
	// Base URL under which uploaded objects are served, e.g. https://iiif.example.com/iiif/2
	BaseURL string
	// Zoom level at which one map unit equals one image pixel in the viewer
	Zoom int
	// Default IIIF size parameter for annotation thumbnails
	ThumbnailSize string
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.ENV, "production")
}

func GetConfig() Config {
	return Config{
		Port:     env.GetString("PORT", "8080"),
		ENV:      env.GetString("ENV", "development"),
		FrontURL: env.GetString("FRONT_URL", "http://localhost:3000"),
		DB: DatabaseConfig{
			DRIVER:       env.GetString("DB_DRIVER", "postgres"),
			DB_HOST:      env.GetString("DB_HOST", "127.0.0.1"),
			DB_PORT:      env.GetString("DB_PORT", "5432"),
			DB_USERNAME:  env.GetString("DB_USERNAME", "root"),
			DB_PASSWORD:  env.GetString("DB_PASSWORD", ""),
			DB_DATABASE:  env.GetString("DB_DATABASE", "annotator"),
			SQLITE_PATH:  env.GetString("DB_SQLITE_PATH", "annotator.sqlite"),
			MaxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 30),
			MaxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 30),
			MaxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
		// By default if not specified, we allow 5000 requests per minute on all routes
		RateLimiter: RateLimiterConfig{
			RequestsPerTimeFrame: env.GetInt("RATE_LIMIT_REQUESTS_PER_TIME_FRAME", 5000),
			TimeFrame:            env.GetDuration("RATE_LIMIT_TIME_FRAME", time.Minute),
			Enabled:              env.GetBool("RATE_LIMIT_ENABLED", true),
		},
		Mail: MailConfig{
			FROM_EMAIL: env.GetString("MAIL_FROM_MAIL", ""),
			SEND_GRID: SendGridConfig{
				API_KEY: env.GetString("MAIL_SEND_GRID_API_KEY", ""),
			},
		},
		Auth: AuthConfig{
			JWT_SECRET:         env.GetString("AUTH_JWT_SECRET", ""),
			AccessTokenExpiry:  env.GetDuration("AUTH_ACCESS_TOKEN_EXPIRY", 5*time.Minute),
			RefreshTokenExpiry: env.GetDuration("AUTH_REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
			OIDC: OIDCConfig{
				IssuerURL:    env.GetString("OIDC_ISSUER_URL", ""),
				ClientID:     env.GetString("OIDC_CLIENT_ID", ""),
				ClientSecret: env.GetString("OIDC_CLIENT_SECRET", ""),
				RedirectURL:  env.GetString("OIDC_CALLBACK", "http://localhost:8080/api/v1/oauth/oidc/callback"),
				Scopes:       strings.Fields(env.GetString("OIDC_SCOPES", "openid profile email")),
			},
		},
		Minio: MinioConfig{
			ENDPOINT:   env.GetString("MINIO_ENDPOINT", ""),
			ACCESS_KEY: env.GetString("MINIO_ACCESS_KEY", ""),
			SECRET_KEY: env.GetString("MINIO_SECRET_KEY", ""),
			BUCKET:     env.GetString("MINIO_BUCKET", "annotator"),
			USE_SSL:    env.GetBool("MINIO_USE_SSL", false),
		},
		RabbitMQ: RabbitMQConfig{
			URL: env.GetString("RABBITMQ_URL", ""),
		},
		IIIF: IIIFConfig{
			BaseURL:       strings.TrimRight(env.GetString("IIIF_BASE_URL", ""), "/"),
			Zoom:          env.GetInt("IIIF_ZOOM", 0),
			ThumbnailSize: env.GetString("IIIF_THUMBNAIL_SIZE", "!256,256"),
		},
	}
}
