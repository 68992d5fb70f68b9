package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SeakMengs/Annotator/internal/apperror"
	"github.com/SeakMengs/Annotator/internal/auth"
	"github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/model"
	"github.com/SeakMengs/Annotator/internal/policy/collectionpolicy"
	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/gin-gonic/gin"
)

// CollectionAccess guards every route under /collections/:collectionId.
// It must run after AuthMiddleware. The loaded collection is stored in the context.
func (m Middleware) CollectionAccess(ctx *gin.Context) {
	user, ok := ctx.Get(constant.CTX_USER)
	payload, isPayload := user.(auth.JWTPayload)
	if !ok || !isPayload {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(errors.New("user not found in context"), "unauthorized"), nil)
		return
	}

	collectionID, err := strconv.ParseUint(ctx.Param("collectionId"), 10, 64)
	if err != nil || collectionID == 0 {
		util.ResponseError(ctx, "Invalid collection id", apperror.BadRequest("collectionId", "collection id must be a positive integer"))
		return
	}

	collection, err := m.app.Gate.Authorize(ctx, payload.Email, uint(collectionID))
	if err != nil {
		if util.ErrorStatus(err) == http.StatusInternalServerError {
			m.logger(ctx).Errorf("Failed to authorize collection %d: %v", collectionID, err)
		}
		util.ResponseError(ctx, "", err)
		return
	}

	ctx.Set(constant.CTX_COLLECTION, collection)
	ctx.Next()
}

// RequireCollectionPermission must run after CollectionAccess.
func (m Middleware) RequireCollectionPermission(permissions ...constant.CollectionPermission) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, _ := ctx.Get(constant.CTX_COLLECTION)
		collection, ok := value.(*model.Collection)
		user, _ := ctx.Get(constant.CTX_USER)
		payload, isPayload := user.(auth.JWTPayload)
		if !ok || !isPayload {
			util.ResponseError(ctx, "", errors.New("collection access was not checked before permission check"))
			return
		}

		role := collectionpolicy.RoleOf(collection, payload.Email)
		if !util.HasPermission([]constant.CollectionRole{role}, permissions) {
			util.ResponseError(ctx, "", apperror.Forbidden("only the owner of the collection can do this"))
			return
		}

		ctx.Next()
	}
}
