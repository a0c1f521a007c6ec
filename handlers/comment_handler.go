package handlers

import (
	"personal-blog/helper"
	"personal-blog/middleware"
	"personal-blog/models"
	"personal-blog/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *services.CommentService
	Helper         *helper.HTTPHelper
}

func NewCommentHandler(commentService *services.CommentService, h *helper.HTTPHelper) *CommentHandler {
	return &CommentHandler{commentService: commentService, Helper: h}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if !bind(c, h.Helper, &req) {
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), middleware.PrincipalFrom(c), postID, req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Comment added", comment)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), middleware.PrincipalFrom(c), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Comment removed", h.Helper.EmptyJsonMap())
}
