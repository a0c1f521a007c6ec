package repositories

import (
	"context"

	"personal-blog/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	GetByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	GetIDsByAuthor(ctx context.Context, authorID uint) ([]uint, error)
	// DeleteThreads removes the given comments together with every reply
	// below them.
	DeleteThreads(ctx context.Context, rootIDs []uint) error
	DeleteByPosts(ctx context.Context, postIDs []uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit("Author").Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

func (r *commentRepository) GetByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Preload("Author").
		Order("created_at asc, id asc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) GetIDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("author_id = ?", authorID).Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) DeleteThreads(ctx context.Context, rootIDs []uint) error {
	all := append([]uint(nil), rootIDs...)
	frontier := rootIDs
	for len(frontier) > 0 {
		var children []uint
		err := r.db.WithContext(ctx).Model(&models.Comment{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error
		if err != nil {
			return err
		}
		all = append(all, children...)
		frontier = children
	}
	if len(all) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", all).Delete(&models.Comment{}).Error
}

func (r *commentRepository) DeleteByPosts(ctx context.Context, postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error
}
