package handlers

import (
	"personal-blog/helper"
	"personal-blog/middleware"
	"personal-blog/models"
	"personal-blog/services"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService *services.PostService
	Helper      *helper.HTTPHelper
}

func NewPostHandler(postService *services.PostService, h *helper.HTTPHelper) *PostHandler {
	return &PostHandler{postService: postService, Helper: h}
}

func (h *PostHandler) GetPosts(c *gin.Context) {
	var params models.PostListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "invalid paging parameters", h.Helper.EmptyJsonMap())
		return
	}

	posts, total, paging, err := h.postService.List(c.Request.Context(), params)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Posts loaded", map[string]interface{}{
		"posts":      posts,
		"pagination": h.Helper.GeneratePaging(c, paging.Limit, paging.Page, int(total)),
	})
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post loaded", post)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if !bind(c, h.Helper, &req) {
		return
	}

	post, err := h.postService.Create(c.Request.Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Post created", post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if !bind(c, h.Helper, &req) {
		return
	}

	post, err := h.postService.Update(c.Request.Context(), middleware.PrincipalFrom(c), id, req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post updated", post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), middleware.PrincipalFrom(c), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post deleted", h.Helper.EmptyJsonMap())
}
