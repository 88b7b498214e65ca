package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/poster"
	"github.com/revinhocontact-cloud/rxcartcart/internal/service"
)

const htmlContentType = "text/html; charset=utf-8"

// PosterHandler serves rendered posters: single previews and print sheets.
type PosterHandler struct {
	posterService service.PosterUseCase
	queueService  service.QueueUseCase
}

func NewPosterHandler(posterService service.PosterUseCase, queueService service.QueueUseCase) *PosterHandler {
	return &PosterHandler{posterService: posterService, queueService: queueService}
}

func (h *PosterHandler) Preview(c *gin.Context) {
	var req models.PosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zoom := 1.0
	if raw := c.Query("zoom"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || !service.ValidZoom(parsed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zoom"})
			return
		}
		zoom = parsed
	}

	html, err := h.posterService.PreviewHTML(c.Request.Context(), currentViewer(c), req, zoom)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, html)
}

// Catalog lists the paper sizes, campaigns and layout defaults the editor
// offers.
func (h *PosterHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, poster.EditorCatalog())
}

// PrintSheet renders the queue items in ?ids= (all when absent) as one
// printable HTML document.
func (h *PosterHandler) PrintSheet(c *gin.Context) {
	items, ok := h.selectItems(c)
	if !ok {
		return
	}

	html, err := h.posterService.SheetHTML(c.Request.Context(), currentViewer(c), items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, html)
}

func (h *PosterHandler) PrintPDF(c *gin.Context) {
	items, ok := h.selectItems(c)
	if !ok {
		return
	}

	pdf, err := h.posterService.SheetPDF(c.Request.Context(), currentViewer(c), items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="cartazes.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *PosterHandler) selectItems(c *gin.Context) ([]poster.PrintQueueItem, bool) {
	items, err := h.queueService.Select(c.Request.Context(), currentUserID(c), splitIDs(c.Query("ids")))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if len(items) == 0 {
		respondError(c, service.ErrNothingToPrint)
		return nil, false
	}
	return items, true
}
