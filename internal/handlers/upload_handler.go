package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/modavia/modavia-golang/internal/metrics"
)

// UploadFile handles POST /v1/admin/upload
// Local-disk fallback path: saves the file under the uploads directory and
// returns its URL. Not reconciled with the Cloudinary URL format.
func (h *Handlers) UploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	data, err := readUploadFile(header)
	if err != nil {
		h.uploadError(c, err)
		return
	}

	url, err := h.Local.UploadImage(c.Request.Context(), data, header.Filename, "misc")
	if err != nil {
		metrics.RecordImageUpload("local", "failure")
		h.uploadError(c, err)
		return
	}

	metrics.RecordImageUpload("local", "success")
	c.JSON(http.StatusOK, gin.H{"url": url})
}
