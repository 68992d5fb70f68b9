package route

import (
	"github.com/SeakMengs/Annotator/internal/controller"
	"github.com/gin-gonic/gin"
)

func V1_OAuth(r *gin.RouterGroup, oauthController *controller.OAuthController) {
	v1 := r.Group("/v1/oauth")
	{
		v1.GET("/oidc", oauthController.ContinueWithOIDC)
		v1.GET("/oidc/callback", oauthController.ContinueWithOIDCCallback)
	}
}
