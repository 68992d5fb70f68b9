package repository

import (
	"context"
	"errors"
	"strings"

	constant "github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	*baseRepository
}

func (ur UserRepository) GetById(ctx context.Context, tx *gorm.DB, userId uint) (*model.User, error) {
	ur.logger.Debugf("Get user by id: %d \n", userId)

	db := ur.getDB(tx)
	var user model.User

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Emails are matched case-insensitively.
func (ur UserRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.User, error) {
	ur.logger.Debugf("Get user by email: %s \n", email)

	db := ur.getDB(tx)
	var user model.User

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.User{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (ur UserRepository) Create(ctx context.Context, tx *gorm.DB, newUser *model.User) (*model.User, error) {
	ur.logger.Debugf("Create user with email: %s \n", newUser.Email)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	newUser.Email = strings.TrimSpace(newUser.Email)
	if err := db.WithContext(ctx).Model(&model.User{}).Create(newUser).Error; err != nil {
		return nil, err
	}

	return newUser, nil
}

// UpsertByEmail creates the user on first login, otherwise refreshes the
// profile and identity provider session of the existing user.
func (ur UserRepository) UpsertByEmail(ctx context.Context, tx *gorm.DB, newUser model.User) (*model.User, error) {
	ur.logger.Debugf("Upsert user by email: %s \n", newUser.Email)

	db := ur.getDB(tx)
	var result *model.User

	txErr := ur.withTx(db, func(tx *gorm.DB) error {
		existingUser, err := ur.GetByEmail(ctx, tx, newUser.Email)
		if err != nil {
			// Since not found is not an error, we can ignore it
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			result, err = ur.Create(ctx, tx, &newUser)
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()

		if err := tx.WithContext(ctx).Model(existingUser).Select("first_name", "last_name", "profile_url", "access_token", "access_token_expires_at").Updates(model.User{
			FirstName:            newUser.FirstName,
			LastName:             newUser.LastName,
			ProfileURL:           newUser.ProfileURL,
			AccessToken:          newUser.AccessToken,
			AccessTokenExpiresAt: newUser.AccessTokenExpiresAt,
		}).Error; err != nil {
			return err
		}

		existingUser.FirstName = newUser.FirstName
		existingUser.LastName = newUser.LastName
		existingUser.ProfileURL = newUser.ProfileURL
		existingUser.AccessToken = newUser.AccessToken
		existingUser.AccessTokenExpiresAt = newUser.AccessTokenExpiresAt
		result = existingUser
		return nil
	})

	return result, txErr
}
