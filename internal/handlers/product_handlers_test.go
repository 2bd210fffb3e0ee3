package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/modavia/modavia-golang/internal/models"
	"github.com/modavia/modavia-golang/internal/uploads"
)

// pngHeader is enough for http.DetectContentType to call it image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func productRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.GET("/products", h.GetProducts)
	router.GET("/products/search", h.SearchProducts)
	router.GET("/products/:id", h.GetProduct)
	router.POST("/products", h.CreateProduct)
	router.PUT("/products/:id", h.UpdateProduct)
	router.DELETE("/products/:id", h.DeleteProduct)
	return router
}

func performMultipart(t *testing.T, router *gin.Engine, method, path string, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for name, data := range files {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetProductsHidesOutOfStockFromShoppers(t *testing.T) {
	inStock := testProduct("Coat", "Acme", "Outerwear", 100)
	outOfStock := testProduct("Hat", "Acme", "Accessories", 20)
	outOfStock.Stock = 0
	products := newFakeProductStore(inStock, outOfStock)
	h, _ := newTestHandlers(products, newFakeSubscriberStore())
	router := productRouter(h)

	w := performJSON(t, router, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Coat", got[0].Title)

	admin := performJSON(t, router, http.MethodGet, "/products?admin=true", nil)
	require.Equal(t, http.StatusOK, admin.Code)
	require.NoError(t, json.Unmarshal(admin.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestGetProductsRejectsUnknownGender(t *testing.T) {
	h, _ := newTestHandlers(newFakeProductStore(), newFakeSubscriberStore())
	router := productRouter(h)

	w := performJSON(t, router, http.MethodGet, "/products?gender=Robot", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchBlankQueryReturnsEmptyWithoutQuerying(t *testing.T) {
	products := newFakeProductStore(testProduct("Coat", "Acme", "Outerwear", 100))
	h, _ := newTestHandlers(products, newFakeSubscriberStore())
	router := productRouter(h)

	for _, q := range []string{"", "%20%20%20"} {
		w := performJSON(t, router, http.MethodGet, "/products/search?q="+q, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	}
	assert.Zero(t, products.searchCalls)
}

func TestSearchRejectsBadLimit(t *testing.T) {
	h, _ := newTestHandlers(newFakeProductStore(), newFakeSubscriberStore())
	router := productRouter(h)

	w := performJSON(t, router, http.MethodGet, "/products/search?q=coat&limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductInvalidID(t *testing.T) {
	h, _ := newTestHandlers(newFakeProductStore(), newFakeSubscriberStore())
	router := productRouter(h)

	w := performJSON(t, router, http.MethodGet, "/products/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductNotFound(t *testing.T) {
	h, _ := newTestHandlers(newFakeProductStore(), newFakeSubscriberStore())
	router := productRouter(h)

	w := performJSON(t, router, http.MethodGet, "/products/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProductUploadsImagesAndStoresRecord(t *testing.T) {
	products := newFakeProductStore()
	h, _ := newTestHandlers(products, newFakeSubscriberStore())
	router := productRouter(h)

	w := performMultipart(t, router, http.MethodPost, "/products",
		map[string]string{
			"title":           "Wool Coat",
			"price":           "199.90",
			"stock":           "4",
			"brand":           "Acme",
			"gender":          "Female",
			"category":        "Outerwear",
			"characteristics": `[{"name":"Fabric","value":"Wool"}]`,
		},
		map[string][]byte{"front.png": pngHeader, "back.png": pngHeader},
	)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Wool Coat", got.Title)
	require.Len(t, got.Images, 2)
	assert.Equal(t, got.Images[0], got.MainImage)
	assert.Contains(t, got.Images[0], "products/")
	require.Len(t, got.Characteristics, 1)
	assert.Equal(t, "Fabric", got.Characteristics[0].Name)
}

func TestCreateProductRequiresTitlePriceAndImages(t *testing.T) {
	h, _ := newTestHandlers(newFakeProductStore(), newFakeSubscriberStore())
	router := productRouter(h)

	cases := []struct {
		name   string
		fields map[string]string
		files  map[string][]byte
	}{
		{"missing title", map[string]string{"price": "10", "stock": "1"}, map[string][]byte{"a.png": pngHeader}},
		{"missing price", map[string]string{"title": "Coat", "stock": "1"}, map[string][]byte{"a.png": pngHeader}},
		{"missing stock", map[string]string{"title": "Coat", "price": "10"}, map[string][]byte{"a.png": pngHeader}},
		{"missing images", map[string]string{"title": "Coat", "price": "10", "stock": "1"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performMultipart(t, router, http.MethodPost, "/products", tc.fields, tc.files)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateProductRejectsNonImageFile(t *testing.T) {
	h, _ := newTestHandlers(newFakeProductStore(), newFakeSubscriberStore())
	h.Cloud = &fakeUploader{err: uploads.ErrNotImage}
	router := productRouter(h)

	w := performMultipart(t, router, http.MethodPost, "/products",
		map[string]string{"title": "Coat", "price": "10", "stock": "1"},
		map[string][]byte{"notes.txt": []byte("plain text")},
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProductRejectsOversizeImage(t *testing.T) {
	products := newFakeProductStore()
	h, _ := newTestHandlers(products, newFakeSubscriberStore())
	cloud := h.Cloud.(*fakeUploader)
	router := productRouter(h)

	oversize := make([]byte, maxUploadBytes+1)
	copy(oversize, pngHeader)

	w := performMultipart(t, router, http.MethodPost, "/products",
		map[string]string{"title": "Coat", "price": "10", "stock": "1"},
		map[string][]byte{"huge.png": oversize},
	)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	// nothing clipped and uploaded, nothing stored
	assert.Empty(t, cloud.urls)
	assert.Empty(t, products.order)
}

func TestCreateProductAbortsWhenUploadFails(t *testing.T) {
	products := newFakeProductStore()
	h, _ := newTestHandlers(products, newFakeSubscriberStore())
	h.Cloud = &fakeUploader{err: uploads.ErrUploadFailed}
	router := productRouter(h)

	w := performMultipart(t, router, http.MethodPost, "/products",
		map[string]string{"title": "Coat", "price": "10", "stock": "1"},
		map[string][]byte{"a.png": pngHeader},
	)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, products.order)
}

func TestUpdateProductReplacesFieldsAndKeepsDiscount(t *testing.T) {
	original := 120.0
	pct := 25
	existing := testProduct("Coat", "Acme", "Outerwear", 90)
	existing.OriginalPrice = &original
	existing.DiscountPercentage = &pct
	existing.Images = []string{"https://cdn.test/products/old.png"}
	products := newFakeProductStore(existing)
	h, _ := newTestHandlers(products, newFakeSubscriberStore())
	router := productRouter(h)

	w := performMultipart(t, router, http.MethodPut, "/products/"+existing.ID.Hex(),
		map[string]string{
			"title":  "Winter Coat",
			"price":  "90",
			"stock":  "2",
			"brand":  "Acme",
			"images": `["https://cdn.test/products/old.png"]`,
		},
		nil,
	)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := products.Get(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Winter Coat", got.Title)
	// pricing trio survives a full-field update
	require.NotNil(t, got.OriginalPrice)
	assert.Equal(t, 120.0, *got.OriginalPrice)
	require.NotNil(t, got.DiscountPercentage)
	assert.Equal(t, 25, *got.DiscountPercentage)
}

func TestUpdateProductNotFound(t *testing.T) {
	h, _ := newTestHandlers(newFakeProductStore(), newFakeSubscriberStore())
	router := productRouter(h)

	w := performMultipart(t, router, http.MethodPut, "/products/"+primitive.NewObjectID().Hex(),
		map[string]string{"title": "Coat", "price": "10", "images": `["https://cdn.test/x.png"]`},
		nil,
	)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct(t *testing.T) {
	p := testProduct("Coat", "Acme", "Outerwear", 100)
	products := newFakeProductStore(p)
	h, _ := newTestHandlers(products, newFakeSubscriberStore())
	router := productRouter(h)

	w := performJSON(t, router, http.MethodDelete, "/products/"+p.ID.Hex(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	again := performJSON(t, router, http.MethodDelete, "/products/"+p.ID.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, again.Code)
}
