package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/service"
)

const productsExportFilename = "produtos_rexcart.csv"

type ProductHandler struct {
	productService service.ProductUseCase
	maxImportSize  int64
}

func NewProductHandler(productService service.ProductUseCase, maxImportSize int64) *ProductHandler {
	if maxImportSize <= 0 {
		maxImportSize = 5 * 1024 * 1024
	}
	return &ProductHandler{productService: productService, maxImportSize: maxImportSize}
}

// List returns the caller's products, filtered by ?q= on name or code.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.Search(c.Request.Context(), currentUserID(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.productService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted", "id": id})
}

func (h *ProductHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	count, err := h.productService.ExportCSV(c.Request.Context(), currentUserID(c), &buf)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+productsExportFilename+`"`)
	c.Header("X-Total-Count", strconv.Itoa(count))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ProductHandler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	if file.Size > h.maxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file size exceeds maximum allowed size"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer src.Close()

	result, err := h.productService.ImportCSV(c.Request.Context(), currentUserID(c), src)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
