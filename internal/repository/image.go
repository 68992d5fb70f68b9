package repository

import (
	"context"

	constant "github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/model"
	"gorm.io/gorm"
)

type ImageRepository struct {
	*baseRepository
	file *FileRepository
}

// Create stores the image. When file is not nil the file row is created in
// the same transaction and linked to the image.
func (ir ImageRepository) Create(ctx context.Context, tx *gorm.DB, image *model.Image, file *model.File) (*model.Image, error) {
	ir.logger.Debugf("Create image %s in collection: %d \n", image.Name, image.CollectionID)

	db := ir.getDB(tx)
	txErr := ir.withTx(db, func(tx *gorm.DB) error {
		if file != nil {
			f, err := ir.file.Create(ctx, tx, file)
			if err != nil {
				return err
			}
			image.FileID = &f.ID
			image.File = f
		}

		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		return tx.WithContext(ctx).Model(&model.Image{}).Omit("Collection", "File").Create(image).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	return image, nil
}

func (ir ImageRepository) GetById(ctx context.Context, tx *gorm.DB, collectionID, imageID uint) (*model.Image, error) {
	ir.logger.Debugf("Get image %d of collection: %d \n", imageID, collectionID)

	db := ir.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var image model.Image
	if err := db.WithContext(ctx).Model(&model.Image{}).Preload("File").
		Where("id = ? AND collection_id = ?", imageID, collectionID).
		First(&image).Error; err != nil {
		return nil, err
	}

	return &image, nil
}

type ImageResponse struct {
	model.Image
	AnnotationCount int64 `json:"annotationCount"`
}

func (ir ImageRepository) List(ctx context.Context, tx *gorm.DB, collectionID uint, search string, page, pageSize uint) ([]ImageResponse, int64, error) {
	ir.logger.Debugf("List images of collection: %d \n", collectionID)

	db := ir.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	scope := func(db *gorm.DB) *gorm.DB {
		query := db.Where("images.collection_id = ?", collectionID)
		if search != "" {
			query = query.Where("LOWER(images.name) LIKE ? ESCAPE '\\'", likePattern(search))
		}
		return query
	}

	var totalImages int64
	if err := db.WithContext(ctx).Model(&model.Image{}).Scopes(scope).Count(&totalImages).Error; err != nil {
		return nil, 0, err
	}

	var images []model.Image
	if err := db.WithContext(ctx).Model(&model.Image{}).Scopes(scope).
		Order("images.id ASC").
		Offset(int((page - 1) * pageSize)).Limit(int(pageSize)).
		Find(&images).Error; err != nil {
		return nil, 0, err
	}

	imageRes := make([]ImageResponse, 0, len(images))
	for _, image := range images {
		var count int64
		if err := db.WithContext(ctx).Model(&model.Annotation{}).Where("image_id = ?", image.ID).Count(&count).Error; err != nil {
			return nil, 0, err
		}
		imageRes = append(imageRes, ImageResponse{Image: image, AnnotationCount: count})
	}

	return imageRes, totalImages, nil
}

type UpdateImageInput struct {
	Name   *string
	URL    *string
	Width  *int
	Height *int
}

func (ir ImageRepository) Update(ctx context.Context, tx *gorm.DB, collectionID, imageID uint, input UpdateImageInput) (*model.Image, error) {
	ir.logger.Debugf("Update image %d of collection: %d \n", imageID, collectionID)

	db := ir.getDB(tx)

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.URL != nil {
		updates["url"] = *input.URL
	}
	if input.Width != nil {
		updates["width"] = *input.Width
	}
	if input.Height != nil {
		updates["height"] = *input.Height
	}

	if len(updates) > 0 {
		queryCtx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		res := db.WithContext(queryCtx).Model(&model.Image{}).
			Where("id = ? AND collection_id = ?", imageID, collectionID).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}

	return ir.GetById(ctx, tx, collectionID, imageID)
}

// Delete removes the image, its annotations and its stored file.
func (ir ImageRepository) Delete(ctx context.Context, tx *gorm.DB, collectionID, imageID uint) error {
	ir.logger.Debugf("Delete image %d of collection: %d \n", imageID, collectionID)

	image, err := ir.GetById(ctx, tx, collectionID, imageID)
	if err != nil {
		return err
	}

	db := ir.getDB(tx)
	txErr := ir.withTx(db, func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		q := tx.WithContext(ctx)
		if err := q.Where("image_id = ?", image.ID).Delete(&model.Annotation{}).Error; err != nil {
			return err
		}

		if err := q.Where("id = ?", image.ID).Delete(&model.Image{}).Error; err != nil {
			return err
		}

		if image.File != nil {
			return ir.file.Delete(ctx, tx, *image.File)
		}

		return nil
	})
	if txErr != nil {
		return txErr
	}

	if image.File != nil {
		ir.file.RemoveObjects(ctx, *image.File)
	}

	return nil
}
