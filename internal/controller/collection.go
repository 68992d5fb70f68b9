package controller

import (
	"net/http"

	"github.com/SeakMengs/Annotator/internal/model"
	"github.com/SeakMengs/Annotator/internal/policy/collectionpolicy"
	"github.com/SeakMengs/Annotator/internal/repository"
	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/gin-gonic/gin"
)

type CollectionController struct {
	*baseController
}

func (cc CollectionController) CreateCollection(ctx *gin.Context) {
	type Request struct {
		Name        string `json:"name" form:"name" binding:"required,cmin=1,cmax=100"`
		Description string `json:"description" form:"description" binding:"omitempty,max=2000"`
	}
	var body Request

	user, err := cc.getAuthUser(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	collection, err := cc.app.Repository.Collection.Create(ctx, nil, &model.Collection{
		Name:        body.Name,
		Description: body.Description,
		OwnerID:     user.ID,
	})
	if err != nil {
		cc.app.Logger.Error(err)
		util.ResponseError(ctx, "Failed to create collection", err)
		return
	}

	collection, err = cc.app.Repository.Collection.GetWithMembers(ctx, nil, collection.ID)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	util.ResponseCreated(ctx, gin.H{
		"collection": collection,
	})
}

func (cc CollectionController) GetCollection(ctx *gin.Context) {
	user, collection, err := cc.getAuthUserAndCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"collection": collection,
		"role":       collectionpolicy.RoleOf(collection, user.Email),
	})
}

func (cc CollectionController) UpdateCollection(ctx *gin.Context) {
	type Request struct {
		Name        *string `json:"name" form:"name" binding:"omitempty,strNotEmpty,cmax=100"`
		Description *string `json:"description" form:"description" binding:"omitempty,max=2000"`
	}
	var body Request

	collection, err := cc.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	updated, err := cc.app.Repository.Collection.Update(ctx, nil, collection.ID, repository.UpdateCollectionInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		util.ResponseError(ctx, "Failed to update collection", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"collection": updated,
	})
}

// DeleteCollection removes the collection with its schemas, images, annotations and stored files.
func (cc CollectionController) DeleteCollection(ctx *gin.Context) {
	collection, err := cc.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	if err := cc.app.Repository.Collection.Delete(ctx, nil, collection.ID); err != nil {
		cc.app.Logger.Errorf("Failed to delete collection %d: %v", collection.ID, err)
		util.ResponseError(ctx, "Failed to delete collection", err)
		return
	}

	util.ResponseSuccess(ctx, nil)
}
