package handlers

import (
	"rayob-cms/helper"
	"rayob-cms/models"
	"rayob-cms/repositories"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	repo   repositories.SingletonRepository[models.CompanyOverview]
	Helper *helper.HTTPHelper
}

func NewCompanyHandler(repo repositories.SingletonRepository[models.CompanyOverview], h *helper.HTTPHelper) *CompanyHandler {
	return &CompanyHandler{repo: repo, Helper: h}
}

func (h *CompanyHandler) Get(c *gin.Context) {
	overview, err := h.repo.Get(c.Request.Context())
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, overview)
}

func (h *CompanyHandler) Put(c *gin.Context) {
	var payload models.Payload
	if !h.Helper.BindJSON(c, &payload) {
		return
	}

	overview, err := h.repo.Save(c.Request.Context(), payload)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, overview)
}
