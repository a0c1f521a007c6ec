package handlers

import (
	"personal-blog/helper"
	"personal-blog/middleware"
	"personal-blog/models"
	"personal-blog/services"

	"github.com/gin-gonic/gin"
)

type SuggestionHandler struct {
	suggestionService *services.SuggestionService
	Helper            *helper.HTTPHelper
}

func NewSuggestionHandler(suggestionService *services.SuggestionService, h *helper.HTTPHelper) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService, Helper: h}
}

func (h *SuggestionHandler) SuggestEdit(c *gin.Context) {
	var req models.SuggestEditRequest
	if !bind(c, h.Helper, &req) {
		return
	}

	edit, err := h.suggestionService.Create(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Thank you for your suggestion", edit)
}

func (h *SuggestionHandler) GetSuggestions(c *gin.Context) {
	edits, err := h.suggestionService.List(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Suggestions loaded", edits)
}

func (h *SuggestionHandler) DeleteSuggestion(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	if err := h.suggestionService.Delete(c.Request.Context(), middleware.PrincipalFrom(c), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Suggestion removed", h.Helper.EmptyJsonMap())
}
