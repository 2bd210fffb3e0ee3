package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/modavia/modavia-golang/internal/models"
)

type lookInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	ProductIDs  []string `json:"productIds"`
}

func (in *lookInput) toModel() (*models.Look, error) {
	ids, err := parseObjectIDs(in.ProductIDs)
	if err != nil {
		return nil, err
	}
	return &models.Look{
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
		ProductIDs:  ids,
	}, nil
}

// GetLooks handles GET /v1/looks
func (h *Handlers) GetLooks(c *gin.Context) {
	looks, err := h.Looks.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, looks)
}

// CreateLook handles POST /v1/admin/looks
func (h *Handlers) CreateLook(c *gin.Context) {
	var input lookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	look, err := input.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Looks.Create(c.Request.Context(), look); err != nil {
		h.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, look)
}

// UpdateLook handles PUT /v1/admin/looks/:id
func (h *Handlers) UpdateLook(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid look id"})
		return
	}

	var input lookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	look, err := input.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Looks.Replace(c.Request.Context(), id, look); err != nil {
		h.fail(c, err, "Look not found")
		return
	}
	c.JSON(http.StatusOK, look)
}

// DeleteLook handles DELETE /v1/admin/looks/:id
func (h *Handlers) DeleteLook(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid look id"})
		return
	}

	if err := h.Looks.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Look not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Look deleted"})
}
