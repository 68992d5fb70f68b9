package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SeakMengs/Annotator/internal/apperror"
	constant "github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/model"
	"github.com/SeakMengs/Annotator/internal/policy/collectionpolicy"
	"gorm.io/gorm"
)

const collectionMembersTable = "collection_members"

type CollectionRepository struct {
	*baseRepository
	user *UserRepository
	file *FileRepository
}

func (cr CollectionRepository) Create(ctx context.Context, tx *gorm.DB, collection *model.Collection) (*model.Collection, error) {
	cr.logger.Debugf("Create collection %s for owner: %d \n", collection.Name, collection.OwnerID)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	// Members are managed through AddMember only
	if err := db.WithContext(ctx).Model(&model.Collection{}).Omit("Owner", "Members").Create(collection).Error; err != nil {
		return nil, err
	}

	return collection, nil
}

// GetWithMembers loads the collection with its owner and member list.
func (cr CollectionRepository) GetWithMembers(ctx context.Context, tx *gorm.DB, collectionID uint) (*model.Collection, error) {
	cr.logger.Debugf("Get collection with members by id: %d \n", collectionID)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var collection model.Collection
	if err := db.WithContext(ctx).Model(&model.Collection{}).
		Preload("Owner").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("users.email ASC")
		}).
		Where("id = ?", collectionID).
		First(&collection).Error; err != nil {
		return nil, err
	}

	return &collection, nil
}

type UpdateCollectionInput struct {
	Name        *string
	Description *string
}

func (cr CollectionRepository) Update(ctx context.Context, tx *gorm.DB, collectionID uint, input UpdateCollectionInput) (*model.Collection, error) {
	cr.logger.Debugf("Update collection %d \n", collectionID)

	db := cr.getDB(tx)

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	if len(updates) > 0 {
		queryCtx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		if err := db.WithContext(queryCtx).Model(&model.Collection{}).Where("id = ?", collectionID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return cr.GetWithMembers(ctx, tx, collectionID)
}

// Delete removes the collection together with its annotations, images,
// schemas and membership rows. Stored image objects are removed after commit.
func (cr CollectionRepository) Delete(ctx context.Context, tx *gorm.DB, collectionID uint) error {
	cr.logger.Debugf("Delete collection %d \n", collectionID)

	db := cr.getDB(tx)
	var files []model.File

	txErr := cr.withTx(db, func(tx *gorm.DB) error {
		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		q := tx.WithContext(ctx)
		imageIDs := q.Model(&model.Image{}).Select("id").Where("collection_id = ?", collectionID)
		schemaIDs := q.Model(&model.Schema{}).Select("id").Where("collection_id = ?", collectionID)

		if err := q.Where("image_id IN (?) OR schema_id IN (?)", imageIDs, schemaIDs).Delete(&model.Annotation{}).Error; err != nil {
			return err
		}

		if err := q.Model(&model.File{}).
			Where("id IN (?)", q.Model(&model.Image{}).Select("file_id").Where("collection_id = ? AND file_id IS NOT NULL", collectionID)).
			Find(&files).Error; err != nil {
			return err
		}

		if err := q.Where("collection_id = ?", collectionID).Delete(&model.Image{}).Error; err != nil {
			return err
		}

		if err := cr.file.Delete(ctx, tx, files...); err != nil {
			return err
		}

		if err := q.Where("collection_id = ?", collectionID).Delete(&model.Schema{}).Error; err != nil {
			return err
		}

		if err := q.Exec("DELETE FROM "+collectionMembersTable+" WHERE collection_id = ?", collectionID).Error; err != nil {
			return err
		}

		res := q.Where("id = ?", collectionID).Delete(&model.Collection{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
	if txErr != nil {
		return txErr
	}

	cr.file.RemoveObjects(ctx, files...)
	return nil
}

type CollectionResponse struct {
	ID          uint                    `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Owner       model.User              `json:"owner"`
	Role        constant.CollectionRole `json:"role"`
	MemberCount int64                   `json:"memberCount"`
	ImageCount  int64                   `json:"imageCount"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// ListForUser returns the collections the user owns or is a member of.
func (cr CollectionRepository) ListForUser(ctx context.Context, tx *gorm.DB, userID uint, search string, page, pageSize uint) ([]CollectionResponse, int64, error) {
	cr.logger.Debugf("List collections for user: %d \n", userID)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	scope := func(db *gorm.DB) *gorm.DB {
		memberOf := db.Session(&gorm.Session{NewDB: true}).Table(collectionMembersTable).Select("collection_id").Where("user_id = ?", userID)
		query := db.Where("collections.owner_id = ? OR collections.id IN (?)", userID, memberOf)
		if search != "" {
			query = query.Where("LOWER(collections.name) LIKE ? ESCAPE '\\'", likePattern(search))
		}
		return query
	}

	var totalCollections int64
	if err := db.WithContext(ctx).Model(&model.Collection{}).Scopes(scope).Count(&totalCollections).Error; err != nil {
		return nil, 0, err
	}

	var collections []model.Collection
	if err := db.WithContext(ctx).Model(&model.Collection{}).Scopes(scope).
		Preload("Owner").
		Order("collections.updated_at DESC").Order("collections.id DESC").
		Offset(int((page - 1) * pageSize)).Limit(int(pageSize)).
		Find(&collections).Error; err != nil {
		return nil, 0, err
	}

	collectionRes := make([]CollectionResponse, 0, len(collections))
	for _, c := range collections {
		var memberCount, imageCount int64
		if err := db.WithContext(ctx).Table(collectionMembersTable).Where("collection_id = ?", c.ID).Count(&memberCount).Error; err != nil {
			return nil, 0, err
		}
		if err := db.WithContext(ctx).Model(&model.Image{}).Where("collection_id = ?", c.ID).Count(&imageCount).Error; err != nil {
			return nil, 0, err
		}

		role := constant.CollectionRoleMember
		if c.OwnerID == userID {
			role = constant.CollectionRoleOwner
		}

		collectionRes = append(collectionRes, CollectionResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Owner:       c.Owner,
			Role:        role,
			MemberCount: memberCount,
			ImageCount:  imageCount,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}

	return collectionRes, totalCollections, nil
}

// AddMember adds the user with email to the collection. It returns the user and
// whether a membership row was written; adding the owner or an existing member
// writes nothing.
func (cr CollectionRepository) AddMember(ctx context.Context, tx *gorm.DB, collection *model.Collection, email string) (*model.User, bool, error) {
	cr.logger.Debugf("Add member %s to collection %d \n", email, collection.ID)

	skip, err := collectionpolicy.CheckAddMember(collection, email)
	if err != nil {
		return nil, false, err
	}
	if skip {
		return nil, false, nil
	}

	db := cr.getDB(tx)

	user, err := cr.user.GetByEmail(ctx, db, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperror.BadRequest("email", "no user with this email exists")
		}
		return nil, false, err
	}

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Exec("INSERT INTO "+collectionMembersTable+" (collection_id, user_id) VALUES (?, ?)", collection.ID, user.ID).Error; err != nil {
		// Lost a race with a concurrent add of the same member
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user, false, nil
		}
		return nil, false, err
	}

	collection.Members = append(collection.Members, *user)
	return user, true, nil
}

// RemoveMember removes email from the member list. The owner can never be
// removed. Removing a non-member is a no-op and reports false.
func (cr CollectionRepository) RemoveMember(ctx context.Context, tx *gorm.DB, collection *model.Collection, email string) (bool, error) {
	cr.logger.Debugf("Remove member %s from collection %d \n", email, collection.ID)

	skip, err := collectionpolicy.CheckRemoveMember(collection, email)
	if err != nil {
		return false, err
	}
	if skip {
		return false, nil
	}

	var memberID uint
	remaining := make([]model.User, 0, len(collection.Members))
	for _, m := range collection.Members {
		if strings.EqualFold(m.Email, strings.TrimSpace(email)) {
			memberID = m.ID
			continue
		}
		remaining = append(remaining, m)
	}

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Exec("DELETE FROM "+collectionMembersTable+" WHERE collection_id = ? AND user_id = ?", collection.ID, memberID).Error; err != nil {
		return false, err
	}

	collection.Members = remaining
	return true, nil
}
