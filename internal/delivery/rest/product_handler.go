package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/usecase"
)

// ProductHandler public catalog reads
type ProductHandler struct {
	catalog usecase.CatalogUseCase
}

// NewProductHandler yangi ProductHandler
func NewProductHandler(catalog usecase.CatalogUseCase) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List GET /api/products?search=&category=&sortBy=&sortOrder=
func (h *ProductHandler) List(c *gin.Context) {
	filter := entity.ProductFilter{
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	products, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if products == nil {
		products = []entity.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// Categories GET /api/products/categories
func (h *ProductHandler) Categories(c *gin.Context) {
	cats, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	c.JSON(http.StatusOK, cats)
}

// Get GET /api/products/:name
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
