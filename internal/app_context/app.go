package appcontext

import (
	"github.com/SeakMengs/Annotator/internal/auth"
	"github.com/SeakMengs/Annotator/internal/config"
	"github.com/SeakMengs/Annotator/internal/mailer"
	"github.com/SeakMengs/Annotator/internal/policy/collectionpolicy"
	"github.com/SeakMengs/Annotator/internal/queue"
	"github.com/SeakMengs/Annotator/internal/repository"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	Logger *zap.SugaredLogger

	// Repository provides access to data storage operations.
	Repository *repository.Repository

	// Mailer sends collection invitations.
	Mailer mailer.Client

	// MailQueue is nil when RabbitMQ is not configured; mails are then sent by Mailer directly.
	MailQueue queue.MailPublisher

	// JWTService manages JWT operations for authentication such as generate, verify, refresh token.
	JWTService auth.JWTInterface

	// OIDC is nil when no identity provider is configured.
	OIDC auth.OIDCInterface

	// OAuthState holds the state values of logins in progress.
	OAuthState *auth.StateStore

	// Gate decides who may access a collection.
	Gate *collectionpolicy.Gate

	// S3 is nil when object storage is not configured.
	S3 *minio.Client
}
