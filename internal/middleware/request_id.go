package middleware

import (
	"github.com/SeakMengs/Annotator/internal/constant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID reuses a well formed incoming request id or assigns a new one.
func (m Middleware) RequestID(ctx *gin.Context) {
	id := ctx.GetHeader(requestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	ctx.Set(constant.CTX_REQUEST_ID, id)
	ctx.Header(requestIDHeader, id)
	ctx.Next()
}
