package util

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"

	"github.com/minio/minio-go/v7"
)

func GetCollectionDirectoryPath(collectionID uint) string {
	return fmt.Sprintf("collections/%d", collectionID)
}

func ToCollectionImagePath(collectionID uint, filename string) string {
	return path.Join(GetCollectionDirectoryPath(collectionID), "images", path.Base(filename))
}

func createBucketIfNotExists(ctx context.Context, s3 *minio.Client, bucketName string) error {
	exists, err := s3.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}

	if !exists {
		err = s3.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return err
		}
	}

	return nil
}

type FileUploadOptions struct {
	// Object key of the uploaded file, e.g. "collections/1/images/123_folio.png"
	ObjectName  string
	ContentType string
	Bucket      string
	S3          *minio.Client
}

func UploadFileToS3ByFileHeader(ctx context.Context, fileHeader *multipart.FileHeader, fuo *FileUploadOptions) (minio.UploadInfo, error) {
	if fuo == nil || fuo.S3 == nil {
		return minio.UploadInfo{}, fmt.Errorf("object storage is not configured")
	}

	if err := createBucketIfNotExists(ctx, fuo.S3, fuo.Bucket); err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to create bucket: %w", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	contentType := fuo.ContentType
	if contentType == "" {
		contentType = fileHeader.Header.Get("Content-Type")
	}

	info, err := fuo.S3.PutObject(
		ctx,
		fuo.Bucket,
		fuo.ObjectName,
		file,
		fileHeader.Size,
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return info, nil
}
