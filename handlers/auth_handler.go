package handlers

import (
	"errors"
	"time"

	"personal-blog/helper"
	"personal-blog/middleware"
	"personal-blog/models"
	"personal-blog/services"

	"github.com/gin-gonic/gin"
)

const resetRequestedMessage = "If that email belongs to an account, a reset link has been sent to it"

type AuthHandler struct {
	accountService *services.AccountService
	sessionTTL     time.Duration
	Helper         *helper.HTTPHelper
}

func NewAuthHandler(accountService *services.AccountService, sessionTTL time.Duration, h *helper.HTTPHelper) *AuthHandler {
	return &AuthHandler{accountService: accountService, sessionTTL: sessionTTL, Helper: h}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bind(c, h.Helper, &req) {
		return
	}

	response, err := h.accountService.Register(c.Request.Context(), req, clientInfo(c))
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			h.Helper.SendConflictError(c, err.Error(), map[string]interface{}{"redirect": "/login"})
			return
		}
		h.Helper.SendServiceError(c, err)
		return
	}

	setSessionCookie(c, response.Token, h.sessionTTL)
	h.Helper.SendSuccess(c, "Register success", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bind(c, h.Helper, &req) {
		return
	}

	response, err := h.accountService.Login(c.Request.Context(), req, clientInfo(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	setSessionCookie(c, response.Token, h.sessionTTL)
	h.Helper.SendSuccess(c, "Login success", response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.accountService.Logout(c.Request.Context(), middleware.PrincipalFrom(c)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	clearSessionCookie(c)
	h.Helper.SendSuccess(c, "Logout success", h.Helper.EmptyJsonMap())
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.accountService.Profile(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile loaded", user)
}

func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bind(c, h.Helper, &req) {
		return
	}

	if err := h.accountService.RequestReset(c.Request.Context(), req.Email); err != nil {
		// the outcome must look the same for every email
		_ = c.Error(err)
	}

	h.Helper.SendSuccess(c, resetRequestedMessage, h.Helper.EmptyJsonMap())
}

func (h *AuthHandler) ValidateReset(c *gin.Context) {
	if err := h.accountService.ValidateReset(c.Request.Context(), c.Param("token")); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Reset token is valid", h.Helper.EmptyJsonMap())
}

func (h *AuthHandler) ConfirmReset(c *gin.Context) {
	var req models.ConfirmResetRequest
	if !bind(c, h.Helper, &req) {
		return
	}

	if err := h.accountService.ConfirmReset(c.Request.Context(), c.Param("token"), req.NewPassword); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	clearSessionCookie(c)
	h.Helper.SendSuccess(c, "Password updated, please log in again", h.Helper.EmptyJsonMap())
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	var req models.DeleteAccountRequest
	if !bind(c, h.Helper, &req) {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), middleware.PrincipalFrom(c), req); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	clearSessionCookie(c)
	h.Helper.SendSuccess(c, "Account deleted", h.Helper.EmptyJsonMap())
}
