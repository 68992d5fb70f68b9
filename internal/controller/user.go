package controller

import (
	"net/http"

	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	*baseController
}

func (uc UserController) GetUserById(ctx *gin.Context) {
	userId, err := paramUint(ctx, "userId")
	if err != nil {
		util.ResponseError(ctx, "Invalid user id", err)
		return
	}

	user, err := uc.app.Repository.User.GetById(ctx, nil, userId)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"user": user,
	})
}

func (uc UserController) Me(ctx *gin.Context) {
	authUser, err := uc.getAuthUser(ctx)
	if err != nil {
		util.ResponseError(ctx, "Unauthorized", err)
		return
	}

	user, err := uc.app.Repository.User.GetById(ctx, nil, authUser.ID)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"user": user,
	})
}

func (uc UserController) MyCollections(ctx *gin.Context) {
	type Request struct {
		Search   string `json:"search" form:"search" binding:"omitempty,max=100"`
		Page     uint   `json:"page" form:"page" binding:"omitempty"`
		PageSize uint   `json:"pageSize" form:"pageSize" binding:"omitempty"`
	}
	var params Request

	authUser, err := uc.getAuthUser(ctx)
	if err != nil {
		util.ResponseError(ctx, "Unauthorized", err)
		return
	}

	if err := ctx.ShouldBindQuery(&params); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}
	params.Page, params.PageSize = util.NormalizePage(params.Page, params.PageSize)

	collections, totalCount, err := uc.app.Repository.Collection.ListForUser(ctx, nil, authUser.ID, params.Search, params.Page, params.PageSize)
	if err != nil {
		uc.app.Logger.Error(err)
		util.ResponseError(ctx, "", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"collections": collections,
		"total":       totalCount,
		"page":        params.Page,
		"pageSize":    params.PageSize,
		"totalPage":   util.CalculateTotalPage(totalCount, params.PageSize),
	})
}
