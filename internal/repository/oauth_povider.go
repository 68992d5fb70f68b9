package repository

import (
	"context"

	constant "github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/model"
	"gorm.io/gorm"
)

type OAuthProviderRepository struct {
	*baseRepository
}

// Create new oauth link or update the existing one's access token, keyed by provider type and subject
func (opr OAuthProviderRepository) CreateOrUpdateByProviderUserId(ctx context.Context, tx *gorm.DB, newOAuthProvider model.OAuthProvider) (*model.OAuthProvider, error) {
	opr.logger.Debugf("Create or update OAuth provider %s for user: %d \n", newOAuthProvider.ProviderType, newOAuthProvider.UserID)

	db := opr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var provider model.OAuthProvider

	// Assign mean it will create or update regardless of whether record is found or not
	// It check based on where condition
	if err := db.WithContext(ctx).Model(&model.OAuthProvider{}).Where(&model.OAuthProvider{
		ProviderType:   newOAuthProvider.ProviderType,
		ProviderUserId: newOAuthProvider.ProviderUserId,
	}).Assign(model.OAuthProvider{
		ProviderType:   newOAuthProvider.ProviderType,
		ProviderUserId: newOAuthProvider.ProviderUserId,
		AccessToken:    newOAuthProvider.AccessToken,
		UserID:         newOAuthProvider.UserID,
	}).FirstOrCreate(&provider).Error; err != nil {
		return nil, err
	}

	return &provider, nil
}
