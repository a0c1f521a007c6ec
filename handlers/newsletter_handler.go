package handlers

import (
	"personal-blog/helper"
	"personal-blog/middleware"
	"personal-blog/models"
	"personal-blog/services"

	"github.com/gin-gonic/gin"
)

type NewsletterHandler struct {
	newsletterService *services.NewsletterService
	Helper            *helper.HTTPHelper
}

func NewNewsletterHandler(newsletterService *services.NewsletterService, h *helper.HTTPHelper) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService, Helper: h}
}

func (h *NewsletterHandler) Signup(c *gin.Context) {
	var req models.NewsletterSignupRequest
	if !bind(c, h.Helper, &req) {
		return
	}

	user, err := h.newsletterService.Subscribe(c.Request.Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Subscribed to the newsletter", user)
}

func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	if err := h.newsletterService.Unsubscribe(c.Request.Context(), middleware.PrincipalFrom(c)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Unsubscribed from the newsletter", h.Helper.EmptyJsonMap())
}

// SendDigest answers 202: delivery happens in the background.
func (h *NewsletterHandler) SendDigest(c *gin.Context) {
	queued, err := h.newsletterService.SendDigest(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendAccepted(c, "Digest queued", map[string]interface{}{"queued": queued})
}
