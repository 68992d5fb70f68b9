package controller

import (
	"errors"
	"net/http"

	"github.com/SeakMengs/Annotator/internal/apperror"
	"github.com/SeakMengs/Annotator/internal/geometry"
	"github.com/SeakMengs/Annotator/internal/model"
	"github.com/SeakMengs/Annotator/internal/repository"
	"github.com/SeakMengs/Annotator/internal/schemavalidator"
	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/SeakMengs/Annotator/pkg/region"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AnnotationController struct {
	*baseController
}

// getImage resolves :imageId inside the collection loaded by the gate.
func (ac AnnotationController) getImage(ctx *gin.Context) (*model.Collection, *model.Image, error) {
	collection, err := ac.getCollection(ctx)
	if err != nil {
		return nil, nil, err
	}

	imageId, err := paramUint(ctx, "imageId")
	if err != nil {
		return nil, nil, err
	}

	image, err := ac.app.Repository.Image.GetById(ctx, nil, collection.ID, imageId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.NotFound("image")
		}
		return nil, nil, err
	}

	return collection, image, nil
}

// getSchema only accepts schemas of the same collection.
func (ac AnnotationController) getSchema(ctx *gin.Context, collectionID, schemaID uint) (*model.Schema, error) {
	schema, err := ac.app.Repository.Schema.GetById(ctx, nil, collectionID, schemaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("schemaId", "schema does not exist in this collection")
		}
		return nil, err
	}

	return schema, nil
}

func (ac AnnotationController) ListAnnotations(ctx *gin.Context) {
	type Request struct {
		SchemaID *uint `form:"schemaId" binding:"omitempty,gt=0"`
	}
	var params Request

	_, image, err := ac.getImage(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	if err := ctx.ShouldBindQuery(&params); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	annotations, err := ac.app.Repository.Annotation.List(ctx, nil, image.ID, params.SchemaID)
	if err != nil {
		ac.app.Logger.Error(err)
		util.ResponseError(ctx, "", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"annotations": annotations,
	})
}

// CreateAnnotation checks the geometry and validates data against the schema before saving.
func (ac AnnotationController) CreateAnnotation(ctx *gin.Context) {
	type Request struct {
		SchemaID uint       `json:"schemaId" binding:"required,gt=0"`
		Data     model.JSON `json:"data" binding:"required"`
		Geometry model.JSON `json:"geometry" binding:"required"`
	}
	var body Request

	user, err := ac.getAuthUser(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	collection, image, err := ac.getImage(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	schema, err := ac.getSchema(ctx, collection.ID, body.SchemaID)
	if err != nil {
		util.ResponseError(ctx, "Invalid annotation", err)
		return
	}

	if _, err := geometry.Parse(body.Geometry); err != nil {
		util.ResponseError(ctx, "Invalid annotation", err)
		return
	}

	if err := schemavalidator.Validate(schema.Document, body.Data); err != nil {
		util.ResponseError(ctx, "Invalid annotation", err)
		return
	}

	createdBy := user.ID
	annotation, err := ac.app.Repository.Annotation.Create(ctx, nil, &model.Annotation{
		Data:        body.Data,
		Geometry:    body.Geometry,
		ImageID:     image.ID,
		SchemaID:    schema.ID,
		CreatedByID: &createdBy,
	})
	if err != nil {
		ac.app.Logger.Error(err)
		util.ResponseError(ctx, "Failed to create annotation", err)
		return
	}

	util.ResponseCreated(ctx, gin.H{
		"annotation": annotation,
	})
}

func (ac AnnotationController) getAnnotation(ctx *gin.Context) (*model.Collection, *model.Image, *model.Annotation, error) {
	collection, image, err := ac.getImage(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	annotationId, err := paramUint(ctx, "annotationId")
	if err != nil {
		return nil, nil, nil, err
	}

	annotation, err := ac.app.Repository.Annotation.GetById(ctx, nil, image.ID, annotationId)
	if err != nil {
		return nil, nil, nil, err
	}

	return collection, image, annotation, nil
}

func (ac AnnotationController) GetAnnotation(ctx *gin.Context) {
	_, _, annotation, err := ac.getAnnotation(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"annotation": annotation,
	})
}

// UpdateAnnotation revalidates data whenever the data or the schema changes.
func (ac AnnotationController) UpdateAnnotation(ctx *gin.Context) {
	type Request struct {
		SchemaID *uint      `json:"schemaId" binding:"omitempty,gt=0"`
		Data     model.JSON `json:"data"`
		Geometry model.JSON `json:"geometry"`
	}
	var body Request

	collection, image, annotation, err := ac.getAnnotation(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	if body.Geometry != nil {
		if _, err := geometry.Parse(body.Geometry); err != nil {
			util.ResponseError(ctx, "Invalid annotation", err)
			return
		}
	}

	if body.SchemaID != nil || body.Data != nil {
		schemaID := annotation.SchemaID
		if body.SchemaID != nil {
			schemaID = *body.SchemaID
		}
		data := annotation.Data
		if body.Data != nil {
			data = body.Data
		}

		schema, err := ac.getSchema(ctx, collection.ID, schemaID)
		if err != nil {
			util.ResponseError(ctx, "Invalid annotation", err)
			return
		}

		if err := schemavalidator.Validate(schema.Document, data); err != nil {
			util.ResponseError(ctx, "Invalid annotation", err)
			return
		}
	}

	updated, err := ac.app.Repository.Annotation.Update(ctx, nil, image.ID, annotation.ID, repository.UpdateAnnotationInput{
		SchemaID: body.SchemaID,
		Data:     body.Data,
		Geometry: body.Geometry,
	})
	if err != nil {
		util.ResponseError(ctx, "Failed to update annotation", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"annotation": updated,
	})
}

func (ac AnnotationController) DeleteAnnotation(ctx *gin.Context) {
	_, image, annotation, err := ac.getAnnotation(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	if err := ac.app.Repository.Annotation.Delete(ctx, nil, image.ID, annotation.ID); err != nil {
		util.ResponseError(ctx, "Failed to delete annotation", err)
		return
	}

	util.ResponseSuccess(ctx, nil)
}

// GetAnnotationRegion returns the pixel bounding box of the annotation and
// the IIIF url of that crop. ?size overrides the configured thumbnail size.
func (ac AnnotationController) GetAnnotationRegion(ctx *gin.Context) {
	_, image, annotation, err := ac.getAnnotation(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	g, err := geometry.Parse(annotation.Geometry)
	if err != nil {
		ac.app.Logger.Errorf("Stored geometry of annotation %d is invalid: %v", annotation.ID, err)
		util.ResponseError(ctx, "", err)
		return
	}

	r := region.FromGeometry(g, region.Projection{Zoom: ac.app.Config.IIIF.Zoom})

	size := ctx.DefaultQuery("size", ac.app.Config.IIIF.ThumbnailSize)

	util.ResponseSuccess(ctx, gin.H{
		"region": r.Array(),
		"url":    region.IIIFURL(image.URL, r, size),
	})
}
