package filestorage

import (
	"context"

	"github.com/SeakMengs/Annotator/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinioClient returns nil, nil when object storage is not configured.
// Image uploads are then rejected and images can only reference external urls.
func NewMinioClient(ctx context.Context, cfg config.MinioConfig) (*minio.Client, error) {
	if !cfg.IsConfigured() {
		return nil, nil
	}

	client, err := minio.New(cfg.ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ACCESS_KEY, cfg.SECRET_KEY, ""),
		Secure: cfg.USE_SSL,
		Region: "us-east-1",
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.BUCKET)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BUCKET, minio.MakeBucketOptions{Region: "us-east-1"}); err != nil {
			return nil, err
		}
	}

	return client, nil
}
