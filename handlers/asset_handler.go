package handlers

import (
	"errors"
	"net/http"

	"rayob-cms/assets"
	"rayob-cms/helper"

	"github.com/gin-gonic/gin"
)

// MaxAssetSize bounds a single upload.
const MaxAssetSize = 10 << 20

type AssetHandler struct {
	uploader assets.Uploader
	Helper   *helper.HTTPHelper
}

func NewAssetHandler(uploader assets.Uploader, h *helper.HTTPHelper) *AssetHandler {
	return &AssetHandler{uploader: uploader, Helper: h}
}

func (h *AssetHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxAssetSize+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Helper.SendBadRequest(c, "file is too large", gin.H{"max_bytes": MaxAssetSize})
			return
		}
		h.Helper.SendBadRequest(c, "multipart field \"file\" is required", nil)
		return
	}
	if fileHeader.Size > MaxAssetSize {
		h.Helper.SendBadRequest(c, "file is too large", gin.H{"max_bytes": MaxAssetSize})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	defer file.Close()

	asset, err := h.uploader.Upload(c.Request.Context(), fileHeader.Filename, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, asset)
}
