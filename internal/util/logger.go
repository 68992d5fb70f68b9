package util

import (
	"strings"

	"github.com/SeakMengs/Annotator/internal/constant"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewLogger(env string) *zap.SugaredLogger {
	if strings.EqualFold(env, "production") {
		return zap.Must(zap.NewProduction()).Sugar()
	}

	return zap.Must(zap.NewDevelopment()).Sugar()
}

// RequestLogger tags logger with the id assigned by the request id middleware.
func RequestLogger(ctx *gin.Context, logger *zap.SugaredLogger) *zap.SugaredLogger {
	if id := ctx.GetString(constant.CTX_REQUEST_ID); id != "" {
		return logger.With("requestId", id)
	}

	return logger
}
