package route

import (
	appcontext "github.com/SeakMengs/Annotator/internal/app_context"
	"github.com/SeakMengs/Annotator/internal/controller"
	"github.com/SeakMengs/Annotator/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every route of the api on a new gin engine.
func NewRouter(app *appcontext.Application, ctrl *controller.Controller, mw *middleware.Middleware) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(mw.RequestID)

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	if app.Config.IsProduction() && app.Config.FrontURL != "" {
		corsConfig.AllowOrigins = []string{app.Config.FrontURL}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "X-Request-ID", "Accept"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	r.Use(cors.New(corsConfig))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(mw.RateLimiterMiddleware)

	r.GET("/", ctrl.Index.Index)

	rApi := r.Group("/api")

	V1_Auth(rApi, ctrl.Auth)
	V1_OAuth(rApi, ctrl.OAuth)
	V1_Me(rApi, ctrl.User, mw)
	V1_Users(rApi, ctrl.User, mw)
	V1_Collections(rApi, ctrl, mw)

	return r
}
