package controller

import (
	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/gin-gonic/gin"
)

type IndexController struct {
	*baseController
}

func (ic IndexController) Index(ctx *gin.Context) {
	util.ResponseSuccess(ctx, gin.H{
		"name":    util.GetAppName(),
		"status":  "ok",
		"env":     ic.app.Config.ENV,
		"oidc":    ic.app.OIDC != nil,
		"storage": ic.app.S3 != nil,
	})
}
