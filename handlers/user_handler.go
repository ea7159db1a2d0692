package handlers

import (
	"rayob-cms/helper"
	"rayob-cms/models"
	"rayob-cms/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
	Helper      *helper.HTTPHelper
}

func NewUserHandler(userService services.UserService, h *helper.HTTPHelper) *UserHandler {
	return &UserHandler{userService: userService, Helper: h}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, c.Param("id"))
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, user)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, c.Param("id"))
	if !ok {
		return
	}
	var req models.UpdateUserRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, c.Param("id"))
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, gin.H{"id": id, "deleted": true})
}
