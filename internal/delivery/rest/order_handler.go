package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/internal/infrastructure/excel"
	"github.com/yourusername/sheet-store/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// OrderHandler order placement and order reads
type OrderHandler struct {
	orders usecase.OrderUseCase
}

// NewOrderHandler yangi OrderHandler
func NewOrderHandler(orders usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req entity.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order body"})
		return
	}
	ord, err := h.orders.PlaceOrder(c.Request.Context(), currentAccount(c), req)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ord)
}

// Mine GET /api/orders/myorders
func (h *OrderHandler) Mine(c *gin.Context) {
	orders, err := h.orders.ListMyOrders(c.Request.Context(), currentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNilOrders(orders))
}

// Get GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	ord, err := h.orders.GetOrder(c.Request.Context(), currentAccount(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

// List GET /api/orders (admin)
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNilOrders(orders))
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus PUT /api/orders/:id/status (admin)
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status body"})
		return
	}
	ord, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

// Export GET /api/orders/export (admin): every order as an xlsx workbook.
func (h *OrderHandler) Export(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := excel.BuildOrdersXLSX(orders)
	if err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func nonNilOrders(orders []entity.Order) []entity.Order {
	if orders == nil {
		return []entity.Order{}
	}
	return orders
}
