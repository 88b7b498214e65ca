package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/service"
)

type QueueHandler struct {
	queueService service.QueueUseCase
}

func NewQueueHandler(queueService service.QueueUseCase) *QueueHandler {
	return &QueueHandler{queueService: queueService}
}

func (h *QueueHandler) List(c *gin.Context) {
	items, err := h.queueService.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *QueueHandler) Add(c *gin.Context) {
	var req models.PosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.queueService.Add(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *QueueHandler) Remove(c *gin.Context) {
	id := c.Param("id")
	if err := h.queueService.Remove(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "queue item removed", "id": id})
}

func (h *QueueHandler) Clear(c *gin.Context) {
	removed, err := h.queueService.Clear(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "queue cleared", "removed": removed})
}

// MarkPrinted records the selected items in the print history.
func (h *QueueHandler) MarkPrinted(c *gin.Context) {
	var req models.PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.queueService.Print(c.Request.Context(), currentUserID(c), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"printed": items, "count": len(items)})
}

func (h *QueueHandler) History(c *gin.Context) {
	history, err := h.queueService.History(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
