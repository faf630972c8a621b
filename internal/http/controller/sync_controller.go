package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iyhunko/platforma-manager/internal/service"
)

// SyncController exposes the sheet and site commands.
type SyncController struct {
	catalogService *service.CatalogService
}

// NewSyncController creates a new SyncController.
func NewSyncController(catalogService *service.CatalogService) *SyncController {
	return &SyncController{catalogService: catalogService}
}

// Sync pulls the sheet rows into the catalog.
func (sc *SyncController) Sync(c *gin.Context) {
	result, err := sc.catalogService.SyncFromSheet(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PushResponse is returned by Push.
type PushResponse struct {
	Report  service.PushReport `json:"report"`
	Summary service.Summary    `json:"summary"`
}

// Push writes the catalog to the sheet.
func (sc *SyncController) Push(c *gin.Context) {
	report, summary, err := sc.catalogService.PushToSheet(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PushResponse{Report: report, Summary: summary})
}

// Export regenerates the site data file.
func (sc *SyncController) Export(c *gin.Context) {
	summary, err := sc.catalogService.ExportSite(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MutationResponse{Summary: summary})
}
