package controller

import (
	"net/http"

	"github.com/SeakMengs/Annotator/internal/model"
	"github.com/SeakMengs/Annotator/internal/repository"
	"github.com/SeakMengs/Annotator/internal/schemavalidator"
	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/gin-gonic/gin"
)

const defaultSchemaColor = "#3388ff"

type SchemaController struct {
	*baseController
}

func (sc SchemaController) ListSchemas(ctx *gin.Context) {
	collection, err := sc.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	schemas, err := sc.app.Repository.Schema.List(ctx, nil, collection.ID)
	if err != nil {
		sc.app.Logger.Error(err)
		util.ResponseError(ctx, "", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"schemas": schemas,
	})
}

func (sc SchemaController) CreateSchema(ctx *gin.Context) {
	type Request struct {
		Name     string     `json:"name" binding:"required,strNotEmpty,cmax=100"`
		Color    string     `json:"color" binding:"omitempty,hexcolor"`
		Schema   model.JSON `json:"schema" binding:"required"`
		UISchema model.JSON `json:"uiSchema"`
	}
	var body Request

	collection, err := sc.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	if _, err := schemavalidator.Compile(body.Schema); err != nil {
		util.ResponseError(ctx, "Invalid schema", err)
		return
	}

	if body.Color == "" {
		body.Color = defaultSchemaColor
	}

	schema, err := sc.app.Repository.Schema.Create(ctx, nil, &model.Schema{
		Name:         body.Name,
		Color:        body.Color,
		Document:     body.Schema,
		UISchema:     body.UISchema,
		CollectionID: collection.ID,
	})
	if err != nil {
		sc.app.Logger.Error(err)
		util.ResponseError(ctx, "Failed to create schema", err)
		return
	}

	util.ResponseCreated(ctx, gin.H{
		"schema": schema,
	})
}

func (sc SchemaController) GetSchema(ctx *gin.Context) {
	collection, err := sc.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	schemaId, err := paramUint(ctx, "schemaId")
	if err != nil {
		util.ResponseError(ctx, "Invalid schema id", err)
		return
	}

	schema, err := sc.app.Repository.Schema.GetById(ctx, nil, collection.ID, schemaId)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"schema": schema,
	})
}

// UpdateSchema does not revalidate existing annotations against a changed document.
func (sc SchemaController) UpdateSchema(ctx *gin.Context) {
	type Request struct {
		Name     *string    `json:"name" binding:"omitempty,strNotEmpty,cmax=100"`
		Color    *string    `json:"color" binding:"omitempty,hexcolor"`
		Schema   model.JSON `json:"schema"`
		UISchema model.JSON `json:"uiSchema"`
	}
	var body Request

	collection, err := sc.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	schemaId, err := paramUint(ctx, "schemaId")
	if err != nil {
		util.ResponseError(ctx, "Invalid schema id", err)
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	if body.Schema != nil {
		if _, err := schemavalidator.Compile(body.Schema); err != nil {
			util.ResponseError(ctx, "Invalid schema", err)
			return
		}
	}

	schema, err := sc.app.Repository.Schema.Update(ctx, nil, collection.ID, schemaId, repository.UpdateSchemaInput{
		Name:     body.Name,
		Color:    body.Color,
		Document: body.Schema,
		UISchema: body.UISchema,
	})
	if err != nil {
		util.ResponseError(ctx, "Failed to update schema", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"schema": schema,
	})
}

// DeleteSchema also deletes every annotation that uses the schema.
func (sc SchemaController) DeleteSchema(ctx *gin.Context) {
	collection, err := sc.getCollection(ctx)
	if err != nil {
		util.ResponseError(ctx, "", err)
		return
	}

	schemaId, err := paramUint(ctx, "schemaId")
	if err != nil {
		util.ResponseError(ctx, "Invalid schema id", err)
		return
	}

	if err := sc.app.Repository.Schema.Delete(ctx, nil, collection.ID, schemaId); err != nil {
		util.ResponseError(ctx, "Failed to delete schema", err)
		return
	}

	util.ResponseSuccess(ctx, nil)
}
