package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/modavia/modavia-golang/internal/metrics"
	"github.com/modavia/modavia-golang/internal/models"
	"github.com/modavia/modavia-golang/internal/store"
	"github.com/modavia/modavia-golang/internal/uploads"
)

const (
	maxUploadBytes     = 10 << 20 // per image file
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	productImageFolder = "products"
)

var errImageTooLarge = errors.New("image exceeds the size limit")

// readUploadFile reads one attached file, rejecting anything over
// maxUploadBytes instead of clipping it to a corrupt prefix.
func readUploadFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxUploadBytes {
		return nil, errImageTooLarge
	}
	return data, nil
}

// GetProducts handles GET /v1/products
// Optional filters: gender, brand (case-insensitive exact), newArrivals.
// Shoppers only see in-stock items; ?admin=true lifts that restriction.
func (h *Handlers) GetProducts(c *gin.Context) {
	filter := store.ProductFilter{
		Gender:      c.Query("gender"),
		Brand:       c.Query("brand"),
		NewArrivals: c.Query("newArrivals") == "true",
		AdminView:   c.Query("admin") == "true",
	}

	if filter.Gender != "" && filter.Gender != models.GenderMale && filter.Gender != models.GenderFemale {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Gender must be Male or Female"})
		return
	}

	products, err := h.Products.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, "Products not found")
		return
	}

	metrics.RecordCatalogOperation("list")
	c.JSON(http.StatusOK, products)
}

// SearchProducts handles GET /v1/products/search?q=&limit=
// A blank query returns an empty result set without touching the database.
func (h *Handlers) SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, []models.Product{})
		return
	}

	limit := int64(defaultSearchLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Limit must be a positive number"})
			return
		}
		if parsed > maxSearchLimit {
			parsed = maxSearchLimit
		}
		limit = parsed
	}

	products, err := h.Products.Search(c.Request.Context(), query, limit)
	if err != nil {
		h.fail(c, err, "Products not found")
		return
	}

	metrics.RecordCatalogOperation("search")
	c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /v1/products/:id
func (h *Handlers) GetProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, err := h.Products.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Product not found")
		return
	}

	c.JSON(http.StatusOK, product)
}

// productForm is the multipart form shared by create and update.
type productForm struct {
	Title           string
	Price           float64
	Stock           int
	StockSet        bool
	Brand           string
	BrandLogo       string
	Sizes           string
	Gender          string
	Category        string
	Subcategory     string
	Description     string
	IsNewArrival    bool
	Characteristics []models.Characteristic
	ExistingImages  []string
	Files           []*multipart.FileHeader
}

func parseProductForm(c *gin.Context) (*productForm, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.New("expected multipart form data")
	}

	value := func(key string) string {
		if vals := form.Value[key]; len(vals) > 0 {
			return strings.TrimSpace(vals[0])
		}
		return ""
	}

	f := &productForm{
		Title:        value("title"),
		Brand:        value("brand"),
		BrandLogo:    value("brandLogo"),
		Sizes:        value("sizes"),
		Gender:       value("gender"),
		Category:     value("category"),
		Subcategory:  value("subcategory"),
		Description:  value("description"),
		IsNewArrival: value("isNewArrival") == "true",
		Files:        form.File["images"],
	}

	if raw := value("price"); raw != "" {
		f.Price, err = strconv.ParseFloat(raw, 64)
		if err != nil || f.Price < 0 {
			return nil, errors.New("price must be a non-negative number")
		}
	}
	if raw := value("stock"); raw != "" {
		f.Stock, err = strconv.Atoi(raw)
		if err != nil || f.Stock < 0 {
			return nil, errors.New("stock must be a non-negative integer")
		}
		f.StockSet = true
	}
	if raw := value("characteristics"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &f.Characteristics); err != nil {
			return nil, errors.New("characteristics must be a JSON array of {name, value} pairs")
		}
	}
	if raw := value("images"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &f.ExistingImages); err != nil {
			return nil, errors.New("images must be a JSON array of URLs")
		}
	}
	if f.Gender != "" && f.Gender != models.GenderMale && f.Gender != models.GenderFemale && f.Gender != models.GenderAll {
		return nil, errors.New("gender must be Male, Female or All")
	}

	return f, nil
}

// uploadImages pushes every attached file to the image host and returns the
// public URLs in upload order. Any single failure aborts the whole batch so
// a product is never created with missing images.
func (h *Handlers) uploadImages(c *gin.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, header := range files {
		data, err := readUploadFile(header)
		if err != nil {
			return nil, err
		}

		url, err := h.Cloud.UploadImage(c.Request.Context(), data, header.Filename, productImageFolder)
		if err != nil {
			metrics.RecordImageUpload("cloud", "failure")
			return nil, err
		}
		metrics.RecordImageUpload("cloud", "success")
		urls = append(urls, url)
	}
	return urls, nil
}

func (h *Handlers) uploadError(c *gin.Context, err error) {
	if errors.Is(err, errImageTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image must be 10 MB or smaller"})
		return
	}
	if errors.Is(err, uploads.ErrNotImage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are accepted"})
		return
	}
	if errors.Is(err, uploads.ErrUploadFailed) {
		h.Logger.Error("image upload failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image upload failed"})
		return
	}
	h.fail(c, err, "")
}

// CreateProduct handles POST /v1/admin/products (multipart form).
// Title, price, stock and at least one image are mandatory; images go to the
// cloud host before the record is written, and an upload failure aborts the
// whole creation.
func (h *Handlers) CreateProduct(c *gin.Context) {
	form, err := parseProductForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if form.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	if form.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price is required"})
		return
	}
	if !form.StockSet {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock is required"})
		return
	}
	if len(form.Files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least 1 product image is required"})
		return
	}

	images, err := h.uploadImages(c, form.Files)
	if err != nil {
		h.uploadError(c, err)
		return
	}

	product := &models.Product{
		Title:           form.Title,
		Price:           form.Price,
		Stock:           form.Stock,
		Brand:           form.Brand,
		BrandLogo:       form.BrandLogo,
		Sizes:           form.Sizes,
		Gender:          form.Gender,
		Category:        form.Category,
		Subcategory:     form.Subcategory,
		Description:     form.Description,
		IsNewArrival:    form.IsNewArrival,
		Characteristics: form.Characteristics,
		Images:          images,
	}

	if err := h.Products.Create(c.Request.Context(), product); err != nil {
		h.fail(c, err, "")
		return
	}

	product.ApplyDefaults()
	metrics.RecordCatalogOperation("create")
	c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /v1/admin/products/:id (multipart form).
// Full field replacement; newly attached files are re-uploaded to the image
// host and appended after any retained existing URLs.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	form, err := parseProductForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if form.Title == "" || form.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and price are required"})
		return
	}

	existing, err := h.Products.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Product not found")
		return
	}

	images := form.ExistingImages
	if len(form.Files) > 0 {
		uploaded, err := h.uploadImages(c, form.Files)
		if err != nil {
			h.uploadError(c, err)
			return
		}
		images = append(images, uploaded...)
	}
	if len(images) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least 1 product image is required"})
		return
	}

	product := &models.Product{
		Title:              form.Title,
		Price:              form.Price,
		OriginalPrice:      existing.OriginalPrice,
		DiscountPercentage: existing.DiscountPercentage,
		Stock:              form.Stock,
		Brand:              form.Brand,
		BrandLogo:          form.BrandLogo,
		Sizes:              form.Sizes,
		Gender:             form.Gender,
		Category:           form.Category,
		Subcategory:        form.Subcategory,
		Description:        form.Description,
		IsNewArrival:       form.IsNewArrival,
		Characteristics:    form.Characteristics,
		Images:             images,
		CreatedAt:          existing.CreatedAt,
	}

	if err := h.Products.Replace(c.Request.Context(), id, product); err != nil {
		h.fail(c, err, "Product not found")
		return
	}

	product.ApplyDefaults()
	metrics.RecordCatalogOperation("update")
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /v1/admin/products/:id
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	if err := h.Products.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Product not found")
		return
	}

	metrics.RecordCatalogOperation("delete")
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

type bulkDeleteInput struct {
	ProductIDs []string `json:"productIds" binding:"required"`
}

// BulkDeleteProducts handles DELETE /v1/admin/products
// Removes all listed ids in one operation; ids with no matching document are
// silently ignored and only the deleted count is reported.
func (h *Handlers) BulkDeleteProducts(c *gin.Context) {
	var input bulkDeleteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productIds is required"})
		return
	}
	if len(input.ProductIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productIds must not be empty"})
		return
	}

	ids, err := parseObjectIDs(input.ProductIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deleted, err := h.Products.DeleteMany(c.Request.Context(), ids)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	metrics.RecordCatalogOperation("bulk_delete")
	c.JSON(http.StatusOK, gin.H{"deletedCount": deleted})
}

func parseObjectIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, value := range raw {
		id, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return nil, errors.New("invalid product id: " + value)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
