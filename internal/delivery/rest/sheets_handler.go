package rest

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/sheet-store/internal/infrastructure/excel"
	"github.com/yourusername/sheet-store/internal/usecase"
	"github.com/yourusername/sheet-store/pkg/logger"
)

// maxUploadBytes workbook upload limit for catalog imports
const maxUploadBytes = 10 << 20

// SheetsHandler admin catalog sync and hidden-product maintenance
type SheetsHandler struct {
	catalog     usecase.CatalogUseCase
	hidden      usecase.HiddenProductsUseCase
	importRange string
}

// NewSheetsHandler importRange is the A1 range read from uploaded workbooks.
func NewSheetsHandler(catalog usecase.CatalogUseCase, hidden usecase.HiddenProductsUseCase, importRange string) *SheetsHandler {
	return &SheetsHandler{catalog: catalog, hidden: hidden, importRange: importRange}
}

// Sync POST /api/sheets/sync
func (h *SheetsHandler) Sync(c *gin.Context) {
	res, err := h.catalog.Sync(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, syncBody(res))
}

// Import POST /api/sheets/import: multipart "file" holding an .xlsx stock sheet.
func (h *SheetsHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": fmt.Sprintf("File too large. Maximum size is %dMB", maxUploadBytes>>20)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" || validateWorkbook(file) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid file type. Only .xlsx workbooks are allowed"})
		return
	}

	src, err := excel.NewReaderSource(file)
	if err != nil {
		respondError(c, err)
		return
	}
	rng := h.importRange
	if q := strings.TrimSpace(c.Query("range")); q != "" {
		rng = q
	}
	res, err := h.catalog.SyncFrom(c.Request.Context(), src, rng)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.InfoLogger.Printf("[catalog] imported %s (%d products)", filepath.Base(header.Filename), res.Parsed)
	c.JSON(http.StatusOK, syncBody(res))
}

// Hidden GET /api/sheets/hidden
func (h *SheetsHandler) Hidden(c *gin.Context) {
	names, err := h.hidden.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hidden": nonNilNames(names)})
}

type hiddenRequest struct {
	Name string `json:"name"`
}

// Hide POST /api/sheets/hidden {name}
func (h *SheetsHandler) Hide(c *gin.Context) {
	var req hiddenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	names, err := h.hidden.Add(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hidden": nonNilNames(names)})
}

// Unhide DELETE /api/sheets/hidden/:name
func (h *SheetsHandler) Unhide(c *gin.Context) {
	names, err := h.hidden.Remove(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hidden": nonNilNames(names)})
}

func syncBody(res usecase.SyncResult) gin.H {
	return gin.H{
		"message":  fmt.Sprintf("Synced %d products (%d new, %d updated).", res.Parsed, res.Inserted, res.Updated),
		"rows":     res.Rows,
		"count":    res.Parsed,
		"inserted": res.Inserted,
		"updated":  res.Updated,
	}
}

func nonNilNames(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
