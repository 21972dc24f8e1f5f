package rest

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/sheet-store/internal/usecase"
)

// RouterDeps everything the HTTP surface talks to
type RouterDeps struct {
	Catalog        usecase.CatalogUseCase
	Hidden         usecase.HiddenProductsUseCase
	Orders         usecase.OrderUseCase
	Auth           *Authenticator
	AllowedOrigins []string
	ImportRange    string
}

// NewRouter builds the gin engine with CORS, health check and /api routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(deps.AllowedOrigins) == 0 {
		// same-host browsers only
		corsCfg.AllowOriginWithContextFunc = func(c *gin.Context, origin string) bool {
			if strings.TrimSpace(origin) == "" {
				return true
			}
			return originMatchesHost(origin, c.Request.Host)
		}
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	products := NewProductHandler(deps.Catalog)
	orders := NewOrderHandler(deps.Orders)
	sheets := NewSheetsHandler(deps.Catalog, deps.Hidden, deps.ImportRange)

	protect := deps.Auth.Protect()
	admin := deps.Auth.AdminOnly()

	api := r.Group("/api")
	{
		api.GET("/products", products.List)
		api.GET("/products/categories", products.Categories)
		api.GET("/products/:name", products.Get)

		api.POST("/orders", protect, orders.Create)
		api.GET("/orders", protect, admin, orders.List)
		api.GET("/orders/myorders", protect, orders.Mine)
		api.GET("/orders/export", protect, admin, orders.Export)
		api.GET("/orders/:id", protect, orders.Get)
		api.PUT("/orders/:id/status", protect, admin, orders.UpdateStatus)

		sh := api.Group("/sheets", protect, admin)
		sh.POST("/sync", sheets.Sync)
		sh.POST("/import", sheets.Import)
		sh.GET("/hidden", sheets.Hidden)
		sh.POST("/hidden", sheets.Hide)
		sh.DELETE("/hidden/:name", sheets.Unhide)
	}

	return r
}

func originMatchesHost(origin, host string) bool {
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(host) == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	originHost := strings.TrimSpace(u.Hostname())
	if originHost == "" {
		return false
	}
	hostName := strings.TrimSpace(host)
	if parsed, _, err := net.SplitHostPort(hostName); err == nil {
		hostName = parsed
	}
	return strings.EqualFold(originHost, hostName)
}
