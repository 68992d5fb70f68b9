package repository

import (
	"context"

	constant "github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/model"
	"gorm.io/gorm"
)

type FileRepository struct {
	*baseRepository
}

func (fr FileRepository) Create(ctx context.Context, tx *gorm.DB, file *model.File) (*model.File, error) {
	fr.logger.Debugf("Create file with data: %v \n", file)

	db := fr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.File{}).Create(file).Error; err != nil {
		return nil, err
	}

	return file, nil
}

func (fr FileRepository) GetById(ctx context.Context, tx *gorm.DB, fileID uint) (*model.File, error) {
	fr.logger.Debugf("Get file by id: %d \n", fileID)

	db := fr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var file model.File
	if err := db.WithContext(ctx).Model(&model.File{}).Where("id = ?", fileID).First(&file).Error; err != nil {
		return nil, err
	}

	return &file, nil
}

func (fr FileRepository) Delete(ctx context.Context, tx *gorm.DB, files ...model.File) error {
	if len(files) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(files))
	for _, f := range files {
		ids = append(ids, f.ID)
	}
	fr.logger.Debugf("Delete files with ids: %v \n", ids)

	db := fr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.File{}).Error
}

// RemoveObjects removes stored objects once their rows are gone. Failures are
// logged only, an orphaned object does not break the api.
func (fr FileRepository) RemoveObjects(ctx context.Context, files ...model.File) {
	if fr.s3 == nil {
		return
	}

	for _, f := range files {
		if err := f.Delete(ctx, fr.s3); err != nil {
			fr.logger.Errorf("Failed to remove object %s from bucket %s: %v", f.UniqueFileName, f.BucketName, err)
		}
	}
}
