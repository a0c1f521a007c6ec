package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"personal-blog/access"
	"personal-blog/models"
	"personal-blog/repositories"

	"github.com/gosimple/slug"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type PostService struct {
	store *repositories.Store
	gate  *access.Gate
	now   func() time.Time
}

func NewPostService(store *repositories.Store, gate *access.Gate) *PostService {
	return &PostService{store: store, gate: gate, now: time.Now}
}

// List returns one page of posts, newest first, with the total count and
// the paging actually applied.
func (s *PostService) List(ctx context.Context, params models.PostListParams) ([]models.BlogPost, int64, models.PostListParams, error) {
	params = normalizePage(params)
	posts, total, err := s.store.Posts().GetList(ctx, params)
	if err != nil {
		return nil, 0, params, err
	}
	return posts, total, params, nil
}

// Get returns the post with its comments arranged as reply trees.
func (s *PostService) Get(ctx context.Context, id uint) (*models.BlogPost, error) {
	post, err := s.store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.Comments().GetByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	post.Comments = buildCommentTree(comments)
	return post, nil
}

func (s *PostService) Create(ctx context.Context, p access.Principal, req models.CreatePostRequest) (*models.BlogPost, error) {
	if err := s.gate.Check(p, s.gate.PostAuthoring()); err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		AuthorID: p.UserID,
		Title:    req.Title,
		Slug:     makeSlug(req.Title),
		Subtitle: req.Subtitle,
		Body:     req.Body,
		ImgURL:   req.ImgURL,
		Date:     s.now().Format(models.PostDateLayout),
	}
	if err := s.store.Posts().Create(ctx, post); err != nil {
		return nil, err
	}
	return s.store.Posts().GetByID(ctx, post.ID)
}

// Update rewrites the editable fields. Author and date stay as stamped at
// creation.
func (s *PostService) Update(ctx context.Context, p access.Principal, id uint, req models.CreatePostRequest) (*models.BlogPost, error) {
	if err := s.gate.Check(p, s.gate.PostAuthoring()); err != nil {
		return nil, err
	}

	post, err := s.store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Title = req.Title
	post.Slug = makeSlug(req.Title)
	post.Subtitle = req.Subtitle
	post.Body = req.Body
	post.ImgURL = req.ImgURL

	if err := s.store.Posts().Update(ctx, post); err != nil {
		return nil, err
	}
	return s.store.Posts().GetByID(ctx, id)
}

func (s *PostService) Delete(ctx context.Context, p access.Principal, id uint) error {
	if err := s.gate.Check(p, s.gate.PostAuthoring()); err != nil {
		return err
	}
	return s.store.WithinTx(ctx, func(tx *repositories.Store) error {
		if err := tx.Comments().DeleteByPosts(ctx, []uint{id}); err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		return tx.Posts().Delete(ctx, id)
	})
}

func normalizePage(params models.PostListParams) models.PostListParams {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = defaultPageSize
	}
	if params.Limit > maxPageSize {
		params.Limit = maxPageSize
	}
	return params
}

// makeSlug falls back to a timestamp for titles with nothing sluggable in
// them, e.g. only punctuation.
func makeSlug(title string) string {
	s := slug.Make(title)
	if s == "" {
		s = "post-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return s
}

// buildCommentTree nests replies under their parents. comments must be in
// display order; orphans are promoted to roots.
func buildCommentTree(comments []models.Comment) []models.Comment {
	children := make(map[uint][]int, len(comments))
	known := make(map[uint]bool, len(comments))
	for _, c := range comments {
		known[c.ID] = true
	}

	var roots []int
	for i, c := range comments {
		if c.ParentID != nil && known[*c.ParentID] && *c.ParentID != c.ID {
			children[*c.ParentID] = append(children[*c.ParentID], i)
			continue
		}
		roots = append(roots, i)
	}

	var build func(i int, depth int) models.Comment
	build = func(i int, depth int) models.Comment {
		c := comments[i]
		c.Replies = nil
		if depth > len(comments) {
			return c
		}
		for _, j := range children[c.ID] {
			c.Replies = append(c.Replies, build(j, depth+1))
		}
		return c
	}

	tree := make([]models.Comment, 0, len(roots))
	for _, i := range roots {
		tree = append(tree, build(i, 0))
	}
	return tree
}
