package handlers

import (
	"net/http"
	"strconv"
	"time"

	"personal-blog/helper"
	"personal-blog/middleware"
	"personal-blog/services"

	"github.com/gin-gonic/gin"
	"gopkg.in/go-playground/validator.v9"
)

// bind decodes the request into req and validates it, writing the error
// response itself when either step fails.
func bind(c *gin.Context, h *helper.HTTPHelper, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		h.SendBadRequest(c, "malformed request body", h.EmptyJsonMap())
		return false
	}
	if err := h.Validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			h.SendValidationError(c, verrs)
			return false
		}
		h.SendBadRequest(c, err.Error(), h.EmptyJsonMap())
		return false
	}
	return true
}

func parseID(c *gin.Context, h *helper.HTTPHelper, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		h.SendBadRequest(c, "invalid "+param, h.EmptyJsonMap())
		return 0, false
	}
	return uint(id), true
}

func clientInfo(c *gin.Context) services.ClientInfo {
	return services.ClientInfo{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

func setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}
