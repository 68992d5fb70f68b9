package repository

import (
	"context"

	constant "github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/model"
	"gorm.io/gorm"
)

type AnnotationRepository struct {
	*baseRepository
}

func (ar AnnotationRepository) Create(ctx context.Context, tx *gorm.DB, annotation *model.Annotation) (*model.Annotation, error) {
	ar.logger.Debugf("Create annotation on image %d with schema: %d \n", annotation.ImageID, annotation.SchemaID)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Annotation{}).Omit("Image", "Schema", "CreatedBy").Create(annotation).Error; err != nil {
		return nil, err
	}

	return annotation, nil
}

// GetById only finds annotations on the image.
func (ar AnnotationRepository) GetById(ctx context.Context, tx *gorm.DB, imageID, annotationID uint) (*model.Annotation, error) {
	ar.logger.Debugf("Get annotation %d on image: %d \n", annotationID, imageID)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var annotation model.Annotation
	if err := db.WithContext(ctx).Model(&model.Annotation{}).
		Where("id = ? AND image_id = ?", annotationID, imageID).
		First(&annotation).Error; err != nil {
		return nil, err
	}

	return &annotation, nil
}

// List returns the annotations on the image, optionally only those using schemaID.
func (ar AnnotationRepository) List(ctx context.Context, tx *gorm.DB, imageID uint, schemaID *uint) ([]model.Annotation, error) {
	ar.logger.Debugf("List annotations on image: %d \n", imageID)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.Annotation{}).Where("image_id = ?", imageID)
	if schemaID != nil {
		query = query.Where("schema_id = ?", *schemaID)
	}

	annotations := []model.Annotation{}
	if err := query.Order("id ASC").Find(&annotations).Error; err != nil {
		return nil, err
	}

	return annotations, nil
}

type UpdateAnnotationInput struct {
	SchemaID *uint
	Data     model.JSON
	Geometry model.JSON
}

func (ar AnnotationRepository) Update(ctx context.Context, tx *gorm.DB, imageID, annotationID uint, input UpdateAnnotationInput) (*model.Annotation, error) {
	ar.logger.Debugf("Update annotation %d on image: %d \n", annotationID, imageID)

	db := ar.getDB(tx)

	updates := map[string]any{}
	if input.SchemaID != nil {
		updates["schema_id"] = *input.SchemaID
	}
	if input.Data != nil {
		updates["data"] = input.Data
	}
	if input.Geometry != nil {
		updates["geometry"] = input.Geometry
	}

	if len(updates) > 0 {
		queryCtx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		res := db.WithContext(queryCtx).Model(&model.Annotation{}).
			Where("id = ? AND image_id = ?", annotationID, imageID).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}

	return ar.GetById(ctx, tx, imageID, annotationID)
}

func (ar AnnotationRepository) Delete(ctx context.Context, tx *gorm.DB, imageID, annotationID uint) error {
	ar.logger.Debugf("Delete annotation %d on image: %d \n", annotationID, imageID)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	res := db.WithContext(ctx).Where("id = ? AND image_id = ?", annotationID, imageID).Delete(&model.Annotation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
