package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iyhunko/platforma-manager/internal/catalog"
	"github.com/iyhunko/platforma-manager/internal/model"
	"github.com/iyhunko/platforma-manager/internal/repository"
	"github.com/iyhunko/platforma-manager/internal/service"
	"github.com/iyhunko/platforma-manager/internal/sheets"
)

// Controller handles general HTTP requests.
type Controller struct {
	catalogService *service.CatalogService
}

// New creates a new Controller for the given catalog service.
func New(catalogService *service.CatalogService) *Controller {
	return &Controller{catalogService: catalogService}
}

// Ping handles the HTTP GET request for health check endpoint.
func (con *Controller) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

// Status reports the catalog size and the last synchronization.
func (con *Controller) Status(c *gin.Context) {
	c.JSON(http.StatusOK, con.catalogService.Status())
}

// httpStatus maps service errors to response codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidProduct), errors.Is(err, repository.ErrInvalidPaginationToken):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrInvariantViolation),
		errors.Is(err, catalog.ErrAlreadyAtTop),
		errors.Is(err, catalog.ErrAlreadyAtBottom):
		return http.StatusConflict
	case errors.Is(err, sheets.ErrNotConfigured), errors.Is(err, service.ErrSiteNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, sheets.ErrRemote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := httpStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", slog.String("path", c.Request.URL.Path), slog.Any("err", err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
