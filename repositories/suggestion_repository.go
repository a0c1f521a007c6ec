package repositories

import (
	"context"

	"personal-blog/models"

	"gorm.io/gorm"
)

type SuggestionRepository interface {
	Create(ctx context.Context, edit *models.SuggestedEdit) error
	GetAll(ctx context.Context) ([]models.SuggestedEdit, error)
	Delete(ctx context.Context, id uint) error
}

type suggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

func (r *suggestionRepository) Create(ctx context.Context, edit *models.SuggestedEdit) error {
	return r.db.WithContext(ctx).Create(edit).Error
}

func (r *suggestionRepository) GetAll(ctx context.Context) ([]models.SuggestedEdit, error) {
	var edits []models.SuggestedEdit
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&edits).Error
	return edits, err
}

func (r *suggestionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.SuggestedEdit{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
