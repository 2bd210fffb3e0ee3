package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/modavia/modavia-golang/internal/metrics"
	"github.com/modavia/modavia-golang/internal/models"
	"github.com/modavia/modavia-golang/internal/store"
)

// broadcastConcurrency bounds the outbound mail fan-out.
const broadcastConcurrency = 4

type subscribeInput struct {
	Email string `json:"email" binding:"required,email"`
}

// Subscribe handles POST /v1/subscribe
// {no record} -> create active; {active} -> 409; {inactive} -> reactivate
// in place, keeping the same record id.
func (h *Handlers) Subscribe(c *gin.Context) {
	var input subscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}
	email := models.NormalizeEmail(input.Email)

	existing, err := h.Subscribers.FindByEmail(c.Request.Context(), email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.fail(c, err, "")
		return
	}

	if existing == nil {
		sub := &models.Subscriber{
			Email:        email,
			IsActive:     true,
			SubscribedAt: time.Now().UTC(),
		}
		if err := h.Subscribers.Create(c.Request.Context(), sub); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				// Raced with a concurrent subscribe for the same address.
				c.JSON(http.StatusConflict, gin.H{"error": "This email is already subscribed"})
				return
			}
			h.fail(c, err, "")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Subscribed successfully", "subscriber": sub})
		return
	}

	if existing.IsActive {
		c.JSON(http.StatusConflict, gin.H{"error": "This email is already subscribed"})
		return
	}

	if err := h.Subscribers.Reactivate(c.Request.Context(), existing.ID, time.Now().UTC()); err != nil {
		h.fail(c, err, "Subscriber not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription reactivated"})
}

// Unsubscribe handles POST /v1/unsubscribe
// Deactivates rather than deletes, so a later re-subscribe reuses the record.
func (h *Handlers) Unsubscribe(c *gin.Context) {
	var input subscribeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}
	email := models.NormalizeEmail(input.Email)

	existing, err := h.Subscribers.FindByEmail(c.Request.Context(), email)
	if err != nil {
		h.fail(c, err, "This email is not registered")
		return
	}
	if !existing.IsActive {
		c.JSON(http.StatusConflict, gin.H{"error": "This email is already unsubscribed"})
		return
	}

	if err := h.Subscribers.Deactivate(c.Request.Context(), existing.ID); err != nil {
		h.fail(c, err, "This email is not registered")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed successfully"})
}

// GetSubscribers handles GET /v1/admin/subscribers
// Active subscribers sorted by subscription time descending.
func (h *Handlers) GetSubscribers(c *gin.Context) {
	subs, err := h.Subscribers.ListActive(c.Request.Context())
	if err != nil {
		h.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, subs)
}

type broadcastInput struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
	HTML    string `json:"html"`
}

// broadcastResult is the per-subscriber outcome record in the response.
type broadcastResult struct {
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SendBulkEmail handles POST /v1/admin/subscribers/send-email
//
// Fails fast when no active subscribers exist. Sends run concurrently with a
// bounded limit; each success bumps the subscriber's emailCount and
// lastEmailSent, and one failed delivery never blocks the others. The
// response aggregates total/successful/failed plus per-subscriber outcomes.
func (h *Handlers) SendBulkEmail(c *gin.Context) {
	var input broadcastInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject and message are required"})
		return
	}

	subs, err := h.Subscribers.ListActive(c.Request.Context())
	if err != nil {
		h.fail(c, err, "")
		return
	}
	if len(subs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active subscribers"})
		return
	}

	results := make([]broadcastResult, len(subs))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(broadcastConcurrency)

	for i := range subs {
		i, sub := i, subs[i]
		g.Go(func() error {
			if err := h.Mailer.Send(sub.Email, input.Subject, input.Message, input.HTML); err != nil {
				h.Logger.Warn("broadcast send failed",
					zap.String("email", sub.Email),
					zap.Error(err),
				)
				metrics.RecordBroadcastEmail("failure")
				results[i] = broadcastResult{Email: sub.Email, Success: false, Error: "delivery failed"}
				return nil
			}

			if err := h.Subscribers.RecordSend(ctx, sub.ID, time.Now().UTC()); err != nil {
				// The mail went out; a failed counter update is logged
				// but does not turn the outcome into a failure.
				h.Logger.Warn("send bookkeeping failed",
					zap.String("email", sub.Email),
					zap.Error(err),
				)
			}
			metrics.RecordBroadcastEmail("success")
			results[i] = broadcastResult{Email: sub.Email, Success: true}
			return nil
		})
	}
	_ = g.Wait()

	successful := 0
	for _, r := range results {
		if r.Success {
			successful++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total":      len(subs),
		"successful": successful,
		"failed":     len(subs) - successful,
		"results":    results,
	})
}
