package repository

import (
	"context"
	"errors"

	"github.com/SeakMengs/Annotator/internal/auth"
	constant "github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/model"
	"github.com/SeakMengs/Annotator/internal/util"
	"gorm.io/gorm"
)

var ErrTokenCannotRefresh = errors.New("token is valid but cannot be refreshed")

type JWTRepository struct {
	*baseRepository
	user *UserRepository
}

func toJWTPayload(user model.User) auth.JWTPayload {
	return auth.JWTPayload{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		ProfileURL: user.ProfileURL,
	}
}

func (jr JWTRepository) GenRefreshAndAccessToken(ctx context.Context, tx *gorm.DB, user model.User) (*string, *string, error) {
	jr.logger.Debugf("Generate refresh and access token for userId: %d \n", user.ID)

	refreshToken, accessToken, err := jr.jwtService.GenerateRefreshAndAccessToken(toJWTPayload(user))
	if err != nil {
		return nil, nil, err
	}

	db := jr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Token{}).Create(&model.Token{
		RefreshTokenHash: util.HashToken(*refreshToken),
		CanRefresh:       true,
		UserID:           user.ID,
	}).Error; err != nil {
		return nil, nil, err
	}

	return refreshToken, accessToken, nil
}

func (jr JWTRepository) GetTokenByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*model.Token, error) {
	jr.logger.Debug("Get token by refresh token")

	db := jr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var token model.Token

	if err := db.WithContext(ctx).Model(&model.Token{}).Where(model.Token{
		RefreshTokenHash: util.HashToken(refreshToken),
	}).First(&token).Error; err != nil {
		return nil, err
	}

	return &token, nil
}

/*
 * Rotate the session: the stored refresh token is replaced by a newly issued pair,
 * so the old refresh token can no longer be used.
 */
func (jr JWTRepository) RefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*string, *string, error) {
	jr.logger.Debug("Refresh token")

	db := jr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var newRefreshToken, newAccessToken *string

	txErr := jr.withTx(db, func(tx2 *gorm.DB) error {
		token, err := jr.GetTokenByRefreshToken(ctx, tx2, refreshToken)
		if err != nil {
			return err
		}

		if !token.CanRefresh {
			return ErrTokenCannotRefresh
		}

		user, err := jr.user.GetById(ctx, tx2, token.UserID)
		if err != nil {
			return err
		}

		newRefreshToken, newAccessToken, err = jr.jwtService.GenerateRefreshAndAccessToken(toJWTPayload(*user))
		if err != nil {
			return err
		}

		if newRefreshToken == nil || newAccessToken == nil {
			return errors.New("failed to generate refresh and access token")
		}

		// Update the new token to the database
		if err := tx2.WithContext(ctx).Model(&model.Token{}).Where("id = ?", token.ID).Updates(map[string]any{
			"refresh_token_hash": util.HashToken(*newRefreshToken),
			"can_refresh":        true,
		}).Error; err != nil {
			return err
		}

		return nil
	})

	// Log tx error
	if txErr != nil {
		jr.logger.Debugf("Refresh token, Transaction error: %v \n", txErr)
		return nil, nil, txErr
	}

	return newRefreshToken, newAccessToken, nil
}

func (jr JWTRepository) DeleteToken(ctx context.Context, tx *gorm.DB, refreshToken string) error {
	jr.logger.Debug("Delete token using refresh token")

	db := jr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Where("refresh_token_hash = ?", util.HashToken(refreshToken)).Delete(&model.Token{}).Error; err != nil {
		return err
	}

	return nil
}
