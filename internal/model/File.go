package model

import (
	"context"
	"errors"
	"time"

	"github.com/minio/minio-go/v7"
)

// File is an object stored in the minio bucket.
type File struct {
	BaseModel
	FileName       string `gorm:"type:text;not null" json:"fileName"`
	UniqueFileName string `gorm:"type:text;not null;uniqueIndex" json:"uniqueFileName"`
	BucketName     string `gorm:"type:text;not null" json:"bucketName"`
	ContentType    string `gorm:"type:varchar(100);not null;default:''" json:"contentType"`
	Size           int64  `gorm:"type:bigint;not null" json:"size"`
}

func (f File) TableName() string {
	return "files"
}

func (f File) ToPresignedUrl(ctx context.Context, s3 *minio.Client) (string, error) {
	if f.BucketName == "" || f.UniqueFileName == "" {
		return "", errors.New("bucket name and unique file name cannot be empty")
	}
	if s3 == nil {
		return "", errors.New("object storage is not configured")
	}

	// Generate a presigned URL for the file
	presignedURL, err := s3.PresignedGetObject(
		ctx,
		f.BucketName,
		f.UniqueFileName,
		// 60min expiration time
		time.Minute*60,
		nil,
	)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

func (f File) Delete(ctx context.Context, s3 *minio.Client) error {
	if f.BucketName == "" || f.UniqueFileName == "" {
		return errors.New("bucket name and unique file name cannot be empty")
	}
	if s3 == nil {
		return errors.New("object storage is not configured")
	}

	if err := s3.RemoveObject(ctx, f.BucketName, f.UniqueFileName, minio.RemoveObjectOptions{}); err != nil {
		return err
	}

	return nil
}
