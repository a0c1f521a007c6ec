package repositories

import (
	"context"
	"errors"
	"time"

	"personal-blog/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResetTokenRepository interface {
	// Upsert stores token as the only grant of its user, replacing any
	// previous one.
	Upsert(ctx context.Context, token *models.ResetToken) error
	GetByHash(ctx context.Context, hash string) (*models.ResetToken, error)
	// ConsumeByHash deletes the unexpired token with the given hash and
	// returns it. A missing or expired token yields models.ErrInvalidToken.
	ConsumeByHash(ctx context.Context, hash string, now time.Time) (*models.ResetToken, error)
	DeleteByUserID(ctx context.Context, userID uint) error
	DeleteByHash(ctx context.Context, hash string) error
}

type resetTokenRepository struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Upsert(ctx context.Context, token *models.ResetToken) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token_hash", "issued_at", "expires_at"}),
	}).Create(token).Error
}

func (r *resetTokenRepository) GetByHash(ctx context.Context, hash string) (*models.ResetToken, error) {
	var token models.ResetToken
	if err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&token).Error; err != nil {
		return nil, notFound(err)
	}
	return &token, nil
}

func (r *resetTokenRepository) ConsumeByHash(ctx context.Context, hash string, now time.Time) (*models.ResetToken, error) {
	var token models.ResetToken
	err := r.db.WithContext(ctx).Where("token_hash = ? AND expires_at > ?", hash, now).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrInvalidToken
		}
		return nil, err
	}

	// The conditional delete is the claim: of two concurrent confirmations
	// only one sees a row go away.
	res := r.db.WithContext(ctx).
		Where("id = ? AND token_hash = ?", token.ID, hash).
		Delete(&models.ResetToken{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrInvalidToken
	}
	return &token, nil
}

func (r *resetTokenRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ResetToken{}).Error
}

func (r *resetTokenRepository) DeleteByHash(ctx context.Context, hash string) error {
	return r.db.WithContext(ctx).Where("token_hash = ?", hash).Delete(&models.ResetToken{}).Error
}
