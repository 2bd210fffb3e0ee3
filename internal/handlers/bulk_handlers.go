package handlers

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/modavia/modavia-golang/internal/metrics"
	"github.com/modavia/modavia-golang/internal/models"
	"github.com/modavia/modavia-golang/internal/store"
)

// bulkUpdateConcurrency bounds the discount fan-out so a large batch cannot
// overwhelm the database.
const bulkUpdateConcurrency = 8

type bulkDiscountInput struct {
	ProductIDs         []string `json:"productIds" binding:"required"`
	DiscountPercentage *int     `json:"discountPercentage" binding:"required"`
	ByBrand            string   `json:"byBrand"`
	ByCategory         string   `json:"byCategory"`
}

// BulkDiscount handles PUT /v1/admin/products/bulk-discount
//
// Applies (or, at percentage 0, removes) a discount across the resolved
// target set. An optional byBrand/byCategory scope narrows the id set before
// any write happens; narrowing to zero products fails the whole request.
// Per-product updates run concurrently with a bounded limit, and a single
// product's failure is logged and counted without aborting its siblings.
// The response reports counts only.
func (h *Handlers) BulkDiscount(c *gin.Context) {
	var input bulkDiscountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productIds and discountPercentage are required"})
		return
	}
	if len(input.ProductIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productIds must not be empty"})
		return
	}
	pct := *input.DiscountPercentage
	if !models.ValidDiscount(pct) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "discountPercentage must be between 0 and 99"})
		return
	}
	if input.ByBrand != "" && input.ByCategory != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Choose either byBrand or byCategory, not both"})
		return
	}

	ids, err := parseObjectIDs(input.ProductIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope := store.Scope{}
	switch {
	case input.ByBrand != "":
		scope = store.Scope{Field: store.ScopeBrand, Value: input.ByBrand}
	case input.ByCategory != "":
		scope = store.Scope{Field: store.ScopeCategory, Value: input.ByCategory}
	}

	targets, err := h.Products.FindByIDs(c.Request.Context(), ids, scope)
	if err != nil {
		h.fail(c, err, "")
		return
	}
	if len(targets) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No matching products for the requested scope"})
		return
	}

	var updated atomic.Int64
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(bulkUpdateConcurrency)

	for i := range targets {
		product := targets[i]
		g.Go(func() error {
			product.ApplyDiscount(pct)
			if err := h.Products.UpdatePricing(ctx, product.ID, &product); err != nil {
				// Recorded and dropped: one failed product must not
				// abort the remaining updates.
				h.Logger.Warn("bulk discount update failed",
					zap.String("productId", product.ID.Hex()),
					zap.Error(err),
				)
				return nil
			}
			updated.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	metrics.RecordCatalogOperation("bulk_discount")
	c.JSON(http.StatusOK, gin.H{
		"requested": len(ids),
		"matched":   len(targets),
		"updated":   updated.Load(),
	})
}
