package repositories

import (
	"context"
	"errors"

	"personal-blog/models"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id uint) (*models.BlogPost, error)
	GetList(ctx context.Context, params models.PostListParams) ([]models.BlogPost, int64, error)
	GetIDsByAuthor(ctx context.Context, authorID uint) ([]uint, error)
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id uint) error
	DeleteByIDs(ctx context.Context, ids []uint) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.BlogPost) error {
	return duplicateTitle(r.db.WithContext(ctx).Omit("Author").Create(post).Error)
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

func (r *postRepository) GetList(ctx context.Context, params models.PostListParams) ([]models.BlogPost, int64, error) {
	var posts []models.BlogPost
	var total int64

	query := r.db.WithContext(ctx).Model(&models.BlogPost{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.Limit
	err := query.Preload("Author").
		Order("created_at desc").
		Offset(offset).
		Limit(params.Limit).
		Find(&posts).Error

	return posts, total, err
}

func (r *postRepository) GetIDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("author_id = ?", authorID).Pluck("id", &ids).Error
	return ids, err
}

func (r *postRepository) Update(ctx context.Context, post *models.BlogPost) error {
	return duplicateTitle(r.db.WithContext(ctx).Omit("Author").Save(post).Error)
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.BlogPost{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *postRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.BlogPost{}).Error
}

// Title and slug are derived from each other, so either unique index firing
// means the same thing to the caller.
func duplicateTitle(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateTitle
	}
	return err
}
