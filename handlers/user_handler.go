package handlers

import (
	"personal-blog/helper"
	"personal-blog/middleware"
	"personal-blog/models"
	"personal-blog/services"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the super-admin's account management pages.
type UserHandler struct {
	accountService *services.AccountService
	Helper         *helper.HTTPHelper
}

func NewUserHandler(accountService *services.AccountService, h *helper.HTTPHelper) *UserHandler {
	return &UserHandler{accountService: accountService, Helper: h}
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.accountService.ListAccounts(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Users loaded", users)
}

func (h *UserHandler) BecomeBlogWriter(c *gin.Context) {
	h.setRole(c, models.RoleBlogWriter)
}

func (h *UserHandler) BecomeCommunityMember(c *gin.Context) {
	h.setRole(c, models.RoleCommunityMember)
}

func (h *UserHandler) setRole(c *gin.Context, role models.UserRole) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	if err := h.accountService.SetRole(c.Request.Context(), middleware.PrincipalFrom(c), id, role); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Role updated", map[string]interface{}{"id": id, "role": role})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	if err := h.accountService.RemoveAccount(c.Request.Context(), middleware.PrincipalFrom(c), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "User deleted", h.Helper.EmptyJsonMap())
}
