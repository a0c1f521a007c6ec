package services

import (
	"context"

	"personal-blog/access"
	"personal-blog/models"
	"personal-blog/repositories"
)

type CommentService struct {
	store *repositories.Store
	gate  *access.Gate
}

func NewCommentService(store *repositories.Store, gate *access.Gate) *CommentService {
	return &CommentService{store: store, gate: gate}
}

// Create adds a comment to postID. A reply's parent must belong to the same
// post.
func (s *CommentService) Create(ctx context.Context, p access.Principal, postID uint, req models.CreateCommentRequest) (*models.Comment, error) {
	if err := s.gate.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if _, err := s.store.Posts().GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		parent, err := s.store.Comments().GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, models.ErrNotFound
		}
	}

	comment := &models.Comment{
		Text:     req.Text,
		AuthorID: p.UserID,
		PostID:   postID,
		ParentID: req.ParentID,
	}
	if err := s.store.Comments().Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment and its replies. Allowed for the comment's
// author and the super-admin.
func (s *CommentService) Delete(ctx context.Context, p access.Principal, id uint) error {
	if err := s.gate.RequireAuthenticated(p); err != nil {
		return err
	}
	return s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		comment, err := tx.Comments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		policy := access.Any(s.gate.Owner(comment.AuthorID), s.gate.SuperAdmin())
		if err := s.gate.Check(p, policy); err != nil {
			return err
		}
		return tx.Comments().DeleteThreads(ctx, []uint{id})
	})
}
