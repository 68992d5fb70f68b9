package main

import (
	"context"
	"time"

	appcontext "github.com/SeakMengs/Annotator/internal/app_context"
	"github.com/SeakMengs/Annotator/internal/auth"
	"github.com/SeakMengs/Annotator/internal/config"
	"github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/controller"
	"github.com/SeakMengs/Annotator/internal/database"
	"github.com/SeakMengs/Annotator/internal/env"
	filestorage "github.com/SeakMengs/Annotator/internal/file_storage"
	"github.com/SeakMengs/Annotator/internal/mailer"
	"github.com/SeakMengs/Annotator/internal/middleware"
	"github.com/SeakMengs/Annotator/internal/policy/collectionpolicy"
	"github.com/SeakMengs/Annotator/internal/queue"
	ratelimiter "github.com/SeakMengs/Annotator/internal/rate_limiter"
	"github.com/SeakMengs/Annotator/internal/repository"
	"github.com/SeakMengs/Annotator/internal/route"
	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/gin-gonic/gin"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV)
	logger.Debugf("Configuration: %+v \n", cfg)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		logger.Panic(err)
	}
	defer sqlDb.Close()
	logger.Info("Database connected \n")

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s3, err := filestorage.NewMinioClient(startupCtx, cfg.Minio)
	if err != nil {
		logger.Error("Error connecting to minio")
		logger.Panic(err)
	}
	if s3 == nil {
		logger.Warn("Object storage is not configured, image uploads are disabled")
	}

	if err := util.RegisterCustomValidators(); err != nil {
		logger.Panic(err)
	}

	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)
	mail := mailer.NewSendgrid(cfg.Mail.SEND_GRID.API_KEY, cfg.Mail.FROM_EMAIL, cfg.IsProduction(), logger)
	jwtService := auth.NewJwt(cfg.Auth, logger)
	repo := repository.NewRepository(db, logger, jwtService, s3)
	app := appcontext.Application{
		Config:     &cfg,
		Repository: repo,
		Logger:     logger,
		Mailer:     mail,
		JWTService: jwtService,
		OAuthState: auth.NewStateStore(constant.OAUTH_STATE_EXPIRY),
		Gate:       collectionpolicy.NewGate(repo.Collection, logger),
		S3:         s3,
	}

	if cfg.Auth.OIDC.IsConfigured() {
		oidcClient, err := auth.NewOIDC(startupCtx, cfg.Auth.OIDC, logger)
		if err != nil {
			logger.Panic(err)
		}
		app.OIDC = oidcClient
	} else {
		logger.Warn("OIDC is not configured, login is disabled")
	}

	if cfg.RabbitMQ.IsConfigured() {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Panic("Error connecting to RabbitMQ: ", err)
		}
		defer func() {
			if err := rabbitMQ.Close(); err != nil {
				logger.Errorf("Failed to close RabbitMQ connection: %v", err)
			}
		}()
		logger.Info("RabbitMQ connected \n")
		app.MailQueue = rabbitMQ
	}

	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.IsProduction() {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	_controller := controller.NewController(&app)
	r := route.NewRouter(&app, _controller, _middleware)

	if err := r.Run("0.0.0.0:" + app.Config.Port); err != nil {
		logger.Panicf("Error running server: %v \n", err)
	}
}
