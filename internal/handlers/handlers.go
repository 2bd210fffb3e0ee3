package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/modavia/modavia-golang/internal/mail"
	"github.com/modavia/modavia-golang/internal/store"
	"github.com/modavia/modavia-golang/internal/uploads"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Products    store.ProductStore
	Subscribers store.SubscriberStore
	Looks       store.LookStore
	Mailer      mail.Sender
	Cloud       uploads.Uploader // primary image host
	Local       uploads.Uploader // local-disk fallback
	Logger      *zap.Logger
}

// fail translates an error into the API's JSON error body. Store sentinels
// map to 404; everything else is logged and surfaces as a generic 500, so
// driver internals never leak to clients.
func (h *Handlers) fail(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	h.Logger.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
}
