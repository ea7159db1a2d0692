package handlers

import (
	"rayob-cms/helper"
	"rayob-cms/middleware"
	"rayob-cms/models"
	"rayob-cms/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	Helper      *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService, h *helper.HTTPHelper) *AuthHandler {
	return &AuthHandler{authService: authService, Helper: h}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	response, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetToken(c)); err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, gin.H{"logged_out": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		h.Helper.SendError(c, models.ErrUnauthenticated)
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), identity.UserID)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, user.View())
}
