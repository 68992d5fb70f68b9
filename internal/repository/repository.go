package repository

import (
	"strings"

	"github.com/SeakMengs/Annotator/internal/auth"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type baseRepository struct {
	db         *gorm.DB
	logger     *zap.SugaredLogger
	jwtService auth.JWTInterface
	// nil when object storage is not configured
	s3 *minio.Client
}

type Repository struct {
	// DB can be used for transaction. Example usage:
	// tx := r.DB.Begin()
	// defer tx.Commit()
	// Then pass tx to the repository function. and use tx.Rollback() if error occurred
	DB            *gorm.DB
	User          *UserRepository
	JWT           *JWTRepository
	OAuthProvider *OAuthProviderRepository
	File          *FileRepository
	Collection    *CollectionRepository
	Schema        *SchemaRepository
	Image         *ImageRepository
	Annotation    *AnnotationRepository
}

func newBaseRepository(db *gorm.DB, logger *zap.SugaredLogger, jwtService auth.JWTInterface, s3 *minio.Client) *baseRepository {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &baseRepository{db: db, logger: logger, jwtService: jwtService, s3: s3}
}

func NewRepository(db *gorm.DB, logger *zap.SugaredLogger, jwtService auth.JWTInterface, s3 *minio.Client) *Repository {
	br := newBaseRepository(db, logger, jwtService, s3)
	_userRepo := &UserRepository{baseRepository: br}
	_fileRepo := &FileRepository{baseRepository: br}

	return &Repository{
		DB:            db,
		User:          _userRepo,
		JWT:           &JWTRepository{baseRepository: br, user: _userRepo},
		OAuthProvider: &OAuthProviderRepository{baseRepository: br},
		File:          _fileRepo,
		Collection:    &CollectionRepository{baseRepository: br, user: _userRepo, file: _fileRepo},
		Schema:        &SchemaRepository{baseRepository: br},
		Image:         &ImageRepository{baseRepository: br, file: _fileRepo},
		Annotation:    &AnnotationRepository{baseRepository: br},
	}
}

// Runs fn inside a transaction, rolled back when fn returns an error or panics.
// Docs: https://gorm.io/docs/transactions.html
func (b baseRepository) withTx(db *gorm.DB, fn func(*gorm.DB) error) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})

	if err != nil {
		b.logger.Debugf("withTx Transaction error: %v", err)
	}

	return err
}

func (b baseRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}

	return b.db
}

// likePattern escapes the LIKE wildcards in search and wraps it for a contains match.
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(search)) + "%"
}
