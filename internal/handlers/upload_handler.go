package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/revinhocontact-cloud/rxcartcart/internal/service"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/validator"
)

type UploadHandler struct {
	uploadService service.UploadUseCase
}

func NewUploadHandler(uploadService service.UploadUseCase) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadImage accepts the multipart field "image" ("file" is also read).
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		file, err = c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
			return
		}
	}

	if contentType := file.Header.Get("Content-Type"); contentType != "" && !validator.ValidateImageContentType(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid Content-Type header - images only"})
		return
	}

	result, err := h.uploadService.UploadImage(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *UploadHandler) DeleteImage(c *gin.Context) {
	filename := c.Param("filename")
	if err := h.uploadService.DeleteImage(c.Request.Context(), filename); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image deleted", "filename": filename})
}
