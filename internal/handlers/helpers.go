package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/revinhocontact-cloud/rxcartcart/internal/authorization"
	"github.com/revinhocontact-cloud/rxcartcart/internal/constants"
	"github.com/revinhocontact-cloud/rxcartcart/internal/service"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/logger"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/storage"
)

func currentUserID(c *gin.Context) uint {
	return c.GetUint(constants.ContextUserID)
}

func currentViewer(c *gin.Context) service.Viewer {
	viewer := service.Viewer{UserID: currentUserID(c), Plan: authorization.PlanFree}
	if value, ok := c.Get(constants.ContextPlan); ok {
		if plan, ok := value.(authorization.Plan); ok && plan.IsValid() {
			viewer.Plan = plan
		}
	}
	return viewer
}

func bindAuthRequest(c *gin.Context, req interface{}) error {
	if strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		return c.ShouldBindJSON(req)
	}
	return c.ShouldBind(req)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// splitIDs reads a comma separated id list, e.g. ?ids=a,b.
func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrQueueItemNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNothingToPrint):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDocumentType),
		errors.Is(err, service.ErrInvalidPoster),
		errors.Is(err, service.ErrInvalidZoom),
		errors.Is(err, service.ErrInvalidConfig),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidPlan),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrFileRequired),
		errors.Is(err, service.ErrFileTypeInvalid),
		errors.Is(err, storage.ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAccountDisabled),
		errors.Is(err, service.ErrCannotDemoteMe):
		return http.StatusForbidden
	case errors.Is(err, service.ErrPDFDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).WithError(err).Error("Request failed")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
