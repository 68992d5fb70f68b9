package util

import (
	"errors"
	"net/http"

	"github.com/SeakMengs/Annotator/internal/apperror"
	constant "github.com/SeakMengs/Annotator/internal/constant"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func BuildResponseSuccess(data any) Response {
	return Response{
		Success: true,
		Message: constant.REQUEST_SUCCESSFUL,
		Data:    data,
	}
}

func ResponseSuccess(ctx *gin.Context, data any) {
	if data == nil {
		data = gin.H{}
	}

	ctx.JSON(http.StatusOK, BuildResponseSuccess(data))
	ctx.Abort()
}

func ResponseCreated(ctx *gin.Context, data any) {
	if data == nil {
		data = gin.H{}
	}

	ctx.JSON(http.StatusCreated, BuildResponseSuccess(data))
	ctx.Abort()
}

func BuildResponseFailed(message string, err any, data any) Response {
	if message == "" {
		message = constant.REQUEST_UNSUCCESSFUL
	}

	if e, ok := err.(error); ok {
		err = GenerateErrorMessages(e)
	}

	if err == nil {
		err = gin.H{}
	}

	if data == nil {
		data = gin.H{}
	}

	return Response{
		Success: false,
		Message: message,
		Errors:  err,
		Data:    data,
	}
}

func ResponseFailed(ctx *gin.Context, code int, message string, err any, data any) {
	ctx.JSON(code, BuildResponseFailed(message, err, data))
	ctx.Abort()
}

// ErrorStatus maps an error returned by the domain or repository layer to its HTTP status.
func ErrorStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case apperror.KindOf(err) != apperror.KindInternal:
		return apperror.HTTPStatus(err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ResponseError writes err with the status ErrorStatus picks. Internal errors
// are not echoed to the client.
func ResponseError(ctx *gin.Context, message string, err error) {
	code := ErrorStatus(err)
	if code == http.StatusInternalServerError {
		ResponseFailed(ctx, code, message, []ApiError{{Field: "Unknown", Message: "internal server error"}}, nil)
		return
	}

	if message == "" {
		message = http.StatusText(code)
	}
	ResponseFailed(ctx, code, message, GenerateErrorMessages(err), nil)
}
