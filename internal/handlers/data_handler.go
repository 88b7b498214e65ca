package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/revinhocontact-cloud/rxcartcart/internal/service"
)

// DataHandler exposes the generic per-user document store.
type DataHandler struct {
	dataService service.DataUseCase
}

func NewDataHandler(dataService service.DataUseCase) *DataHandler {
	return &DataHandler{dataService: dataService}
}

func (h *DataHandler) List(c *gin.Context) {
	docType := strings.TrimSpace(c.Query("type"))
	if docType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type query parameter is required"})
		return
	}

	docs, err := h.dataService.List(c.Request.Context(), currentUserID(c), docType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *DataHandler) Create(c *gin.Context) {
	var body service.Document
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	doc, err := h.dataService.Create(c.Request.Context(), currentUserID(c), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *DataHandler) Update(c *gin.Context) {
	var body service.Document
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	doc, err := h.dataService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DataHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.dataService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "document deleted", "id": id})
}
