package middleware

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

var publicUploadExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// UploadsProtection only lets the image types the upload service produces
// through the public /uploads route.
func UploadsProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawPath := strings.ToLower(strings.TrimSpace(c.Param("filepath")))
		if strings.Contains(rawPath, "..") {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		ext := filepath.Ext(rawPath)
		if _, ok := publicUploadExtensions[ext]; ok {
			c.Next()
			return
		}

		c.AbortWithStatus(http.StatusNotFound)
	}
}
