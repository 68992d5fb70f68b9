package repository

import (
	"context"

	constant "github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/model"
	"gorm.io/gorm"
)

type SchemaRepository struct {
	*baseRepository
}

func (sr SchemaRepository) Create(ctx context.Context, tx *gorm.DB, schema *model.Schema) (*model.Schema, error) {
	sr.logger.Debugf("Create schema %s in collection: %d \n", schema.Name, schema.CollectionID)

	db := sr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Schema{}).Omit("Collection").Create(schema).Error; err != nil {
		return nil, err
	}

	return schema, nil
}

// GetById only finds schemas that belong to the collection.
func (sr SchemaRepository) GetById(ctx context.Context, tx *gorm.DB, collectionID, schemaID uint) (*model.Schema, error) {
	sr.logger.Debugf("Get schema %d of collection: %d \n", schemaID, collectionID)

	db := sr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var schema model.Schema
	if err := db.WithContext(ctx).Model(&model.Schema{}).
		Where("id = ? AND collection_id = ?", schemaID, collectionID).
		First(&schema).Error; err != nil {
		return nil, err
	}

	return &schema, nil
}

func (sr SchemaRepository) List(ctx context.Context, tx *gorm.DB, collectionID uint) ([]model.Schema, error) {
	sr.logger.Debugf("List schemas of collection: %d \n", collectionID)

	db := sr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	schemas := []model.Schema{}
	if err := db.WithContext(ctx).Model(&model.Schema{}).
		Where("collection_id = ?", collectionID).
		Order("id ASC").
		Find(&schemas).Error; err != nil {
		return nil, err
	}

	return schemas, nil
}

type UpdateSchemaInput struct {
	Name     *string
	Color    *string
	Document model.JSON
	UISchema model.JSON
}

func (sr SchemaRepository) Update(ctx context.Context, tx *gorm.DB, collectionID, schemaID uint, input UpdateSchemaInput) (*model.Schema, error) {
	sr.logger.Debugf("Update schema %d of collection: %d \n", schemaID, collectionID)

	db := sr.getDB(tx)

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Color != nil {
		updates["color"] = *input.Color
	}
	if input.Document != nil {
		updates["document"] = input.Document
	}
	if input.UISchema != nil {
		updates["ui_schema"] = input.UISchema
	}

	if len(updates) > 0 {
		queryCtx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		res := db.WithContext(queryCtx).Model(&model.Schema{}).
			Where("id = ? AND collection_id = ?", schemaID, collectionID).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}

	return sr.GetById(ctx, tx, collectionID, schemaID)
}

// Delete removes the schema and every annotation that uses it.
func (sr SchemaRepository) Delete(ctx context.Context, tx *gorm.DB, collectionID, schemaID uint) error {
	sr.logger.Debugf("Delete schema %d of collection: %d \n", schemaID, collectionID)

	db := sr.getDB(tx)
	return sr.withTx(db, func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		q := tx.WithContext(ctx)
		owned := q.Model(&model.Schema{}).Select("id").Where("id = ? AND collection_id = ?", schemaID, collectionID)
		if err := q.Where("schema_id IN (?)", owned).Delete(&model.Annotation{}).Error; err != nil {
			return err
		}

		res := q.Where("id = ? AND collection_id = ?", schemaID, collectionID).Delete(&model.Schema{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
