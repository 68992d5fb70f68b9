package middleware

import (
	appcontext "github.com/SeakMengs/Annotator/internal/app_context"
	ratelimiter "github.com/SeakMengs/Annotator/internal/rate_limiter"
	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware holds the dependencies shared by the api's gin middlewares:
// authentication, the collection access gate, request ids and rate limiting.
type Middleware struct {
	rateLimiter *ratelimiter.FixedWindowRateLimiter
	app         *appcontext.Application
}

// rateLimiter may be nil, in which case no limit is applied.
func NewMiddleware(app *appcontext.Application, rateLimiter *ratelimiter.FixedWindowRateLimiter) *Middleware {
	return &Middleware{app: app, rateLimiter: rateLimiter}
}

func (m Middleware) logger(ctx *gin.Context) *zap.SugaredLogger {
	return util.RequestLogger(ctx, m.app.Logger)
}
