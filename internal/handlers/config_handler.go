package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/service"
)

// ConfigHandler exposes the system configuration: branding, theme and plans.
type ConfigHandler struct {
	configService service.ConfigUseCase
}

func NewConfigHandler(configService service.ConfigUseCase) *ConfigHandler {
	return &ConfigHandler{configService: configService}
}

func (h *ConfigHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.configService.Current())
}

func (h *ConfigHandler) Update(c *gin.Context) {
	var cfg models.SystemConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.configService.Update(c.Request.Context(), currentUserID(c), cfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Preview applies a theme to the current configuration without saving it.
func (h *ConfigHandler) Preview(c *gin.Context) {
	var theme models.ThemeSettings
	if err := c.ShouldBindJSON(&theme); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preview, err := h.configService.Preview(theme)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}
