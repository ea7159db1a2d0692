package handlers

import (
	"encoding/json"

	"rayob-cms/helper"
	"rayob-cms/models"
	"rayob-cms/repositories"

	"github.com/gin-gonic/gin"
)

// OrderedHandler exposes one ordered collection over HTTP. Ordering rules
// live in the repository; the handler only parses and delegates.
type OrderedHandler[T any] struct {
	repo   repositories.OrderedRepository[T]
	Helper *helper.HTTPHelper
}

func NewOrderedHandler[T any](repo repositories.OrderedRepository[T], h *helper.HTTPHelper) *OrderedHandler[T] {
	return &OrderedHandler[T]{repo: repo, Helper: h}
}

func (h *OrderedHandler[T]) List(c *gin.Context) {
	records, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, records)
}

func (h *OrderedHandler[T]) Get(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, c.Param("id"))
	if !ok {
		return
	}

	record, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, record)
}

func (h *OrderedHandler[T]) Create(c *gin.Context) {
	var payload models.Payload
	if !h.Helper.BindJSON(c, &payload) {
		return
	}

	record, err := h.repo.Create(c.Request.Context(), payload)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, record)
}

// Put updates one record from {"id": ..., fields...}, or reorders the
// whole collection from {"reorder": true, "ids": [...]}.
func (h *OrderedHandler[T]) Put(c *gin.Context) {
	var payload models.Payload
	if !h.Helper.BindJSON(c, &payload) {
		return
	}

	reorder, err := isReorder(payload)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	if reorder {
		h.reorder(c, payload)
		return
	}

	id, err := payloadID(payload)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	record, err := h.repo.Update(c.Request.Context(), id, payload)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, record)
}

func (h *OrderedHandler[T]) reorder(c *gin.Context, payload models.Payload) {
	raw, ok := payload["ids"]
	if !ok {
		h.Helper.SendBadRequest(c, "ids is required when reorder is true", nil)
		return
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		h.Helper.SendBadRequest(c, "ids must be an array of record ids", nil)
		return
	}

	records, err := h.repo.Reorder(c.Request.Context(), ids)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, records)
}

func (h *OrderedHandler[T]) Delete(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, c.Query("id"))
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, gin.H{"id": id, "deleted": true})
}

func isReorder(payload models.Payload) (bool, error) {
	raw, ok := payload["reorder"]
	if !ok {
		return false, nil
	}
	var reorder bool
	if err := json.Unmarshal(raw, &reorder); err != nil {
		return false, models.NewValidationError("reorder must be a boolean", nil)
	}
	return reorder, nil
}

func payloadID(payload models.Payload) (uint, error) {
	raw, ok := payload["id"]
	if !ok {
		return 0, models.NewValidationError("id is required", nil)
	}
	var id uint
	if err := json.Unmarshal(raw, &id); err != nil || id == 0 {
		return 0, models.NewValidationError("id must be a positive integer", nil)
	}
	return id, nil
}
