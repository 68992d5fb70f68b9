package controller

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/SeakMengs/Annotator/internal/apperror"
	"github.com/SeakMengs/Annotator/internal/model"
	"github.com/SeakMengs/Annotator/internal/repository"
	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/gin-gonic/gin"
)

type ImageController struct {
	*baseController
}

func (ic ImageController) toImageView(ctx *gin.Context, image *model.Image) gin.H {
	view := gin.H{
		"image":       image,
		"downloadUrl": nil,
	}

	if image.File != nil && ic.app.S3 != nil {
		presignedURL, err := image.File.ToPresignedUrl(ctx, ic.app.S3)
		if err != nil {
			ic.app.Logger.Warnf("Failed to presign file %d: %v", image.File.ID, err)
		} else {
			view["downloadUrl"] = presignedURL
		}
	}

	return view
}

func (ic ImageController) ListImages(ctx *gin.Context) {
	type Request struct {
		Search   string `json:"search" form:"search" binding:"omitempty,max=100"`
		Page     uint   `json:"page" form:"page" binding:"omitempty"`
		PageSize uint   `json:"pageSize" form:"pageSize" binding:"omitempty"`
	}
	var params Request

	collection, err := ic.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	if err := ctx.ShouldBindQuery(&params); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}
	params.Page, params.PageSize = util.NormalizePage(params.Page, params.PageSize)

	images, totalCount, err := ic.app.Repository.Image.List(ctx, nil, collection.ID, params.Search, params.Page, params.PageSize)
	if err != nil {
		ic.app.Logger.Error(err)
		util.ResponseError(ctx, "", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"images":    images,
		"total":     totalCount,
		"page":      params.Page,
		"pageSize":  params.PageSize,
		"totalPage": util.CalculateTotalPage(totalCount, params.PageSize),
	})
}

// CreateImage registers an image already served by an IIIF server (JSON body)
// or uploads one to object storage (multipart form with a "file" field).
func (ic ImageController) CreateImage(ctx *gin.Context) {
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		ic.uploadImage(ctx)
		return
	}

	type Request struct {
		Name   string `json:"name" binding:"required,strNotEmpty,cmax=200"`
		URL    string `json:"url" binding:"required,http_url"`
		Width  int    `json:"width" binding:"omitempty,gte=0"`
		Height int    `json:"height" binding:"omitempty,gte=0"`
	}
	var body Request

	collection, err := ic.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	image, err := ic.app.Repository.Image.Create(ctx, nil, &model.Image{
		Name:         body.Name,
		URL:          body.URL,
		Width:        body.Width,
		Height:       body.Height,
		CollectionID: collection.ID,
	}, nil)
	if err != nil {
		ic.app.Logger.Error(err)
		util.ResponseError(ctx, "Failed to create image", err)
		return
	}

	util.ResponseCreated(ctx, ic.toImageView(ctx, image))
}

func (ic ImageController) uploadImage(ctx *gin.Context) {
	type Request struct {
		Name string                `form:"name" binding:"omitempty,strNotEmpty,cmax=200"`
		File *multipart.FileHeader `form:"file" binding:"required"`
	}
	var body Request

	collection, err := ic.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	if ic.app.S3 == nil || ic.app.Config.IIIF.BaseURL == "" {
		util.ResponseFailed(ctx, http.StatusServiceUnavailable, "Image upload is not configured", util.GenerateErrorMessages(errors.New("object storage or image server is not configured"), "file"), nil)
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	info, err := probeUploadedImage(body.File)
	if err != nil {
		util.ResponseError(ctx, "Invalid image", err)
		return
	}

	fileName := util.SanitizeFileName(body.File.Filename)
	objectName := util.ToCollectionImagePath(collection.ID, util.AddUniquePrefixToFileName(fileName))
	bucket := ic.app.Config.Minio.BUCKET

	if _, err := util.UploadFileToS3ByFileHeader(ctx, body.File, &util.FileUploadOptions{
		ObjectName:  objectName,
		ContentType: info.ContentType,
		Bucket:      bucket,
		S3:          ic.app.S3,
	}); err != nil {
		ic.app.Logger.Errorf("Failed to upload image: %v", err)
		util.ResponseError(ctx, "Failed to upload image", err)
		return
	}

	name := body.Name
	if name == "" {
		name = fileName
	}

	file := &model.File{
		FileName:       body.File.Filename,
		UniqueFileName: objectName,
		BucketName:     bucket,
		ContentType:    info.ContentType,
		Size:           body.File.Size,
	}
	image, err := ic.app.Repository.Image.Create(ctx, nil, &model.Image{
		Name:         name,
		URL:          ic.app.Config.IIIF.BaseURL + "/" + url.PathEscape(objectName),
		Width:        info.Width,
		Height:       info.Height,
		CollectionID: collection.ID,
	}, file)
	if err != nil {
		ic.app.Logger.Error(err)
		ic.app.Repository.File.RemoveObjects(ctx, *file)
		util.ResponseError(ctx, "Failed to create image", err)
		return
	}

	util.ResponseCreated(ctx, ic.toImageView(ctx, image))
}

func probeUploadedImage(fileHeader *multipart.FileHeader) (*util.ImageInfo, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := util.ProbeImage(f)
	if err != nil {
		if errors.Is(err, util.ErrUnsupportedImage) {
			return nil, apperror.BadRequest("file", "file is not a supported image")
		}
		return nil, apperror.Wrap(apperror.KindBadRequest, "file", "failed to read image", err)
	}

	return info, nil
}

func (ic ImageController) GetImage(ctx *gin.Context) {
	collection, err := ic.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	imageId, err := paramUint(ctx, "imageId")
	if err != nil {
		util.ResponseError(ctx, "Invalid image id", err)
		return
	}

	image, err := ic.app.Repository.Image.GetById(ctx, nil, collection.ID, imageId)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	util.ResponseSuccess(ctx, ic.toImageView(ctx, image))
}

func (ic ImageController) UpdateImage(ctx *gin.Context) {
	type Request struct {
		Name   *string `json:"name" binding:"omitempty,strNotEmpty,cmax=200"`
		URL    *string `json:"url" binding:"omitempty,http_url"`
		Width  *int    `json:"width" binding:"omitempty,gte=0"`
		Height *int    `json:"height" binding:"omitempty,gte=0"`
	}
	var body Request

	collection, err := ic.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	imageId, err := paramUint(ctx, "imageId")
	if err != nil {
		util.ResponseError(ctx, "Invalid image id", err)
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	image, err := ic.app.Repository.Image.Update(ctx, nil, collection.ID, imageId, repository.UpdateImageInput{
		Name:   body.Name,
		URL:    body.URL,
		Width:  body.Width,
		Height: body.Height,
	})
	if err != nil {
		util.ResponseError(ctx, "Failed to update image", err)
		return
	}

	util.ResponseSuccess(ctx, ic.toImageView(ctx, image))
}

// DeleteImage removes the image, its annotations and the uploaded file if any.
func (ic ImageController) DeleteImage(ctx *gin.Context) {
	collection, err := ic.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	imageId, err := paramUint(ctx, "imageId")
	if err != nil {
		util.ResponseError(ctx, "Invalid image id", err)
		return
	}

	if err := ic.app.Repository.Image.Delete(ctx, nil, collection.ID, imageId); err != nil {
		util.ResponseError(ctx, "Failed to delete image", err)
		return
	}

	util.ResponseSuccess(ctx, nil)
}
