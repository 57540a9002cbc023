package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"noc-sync/internal/repos"
)

// ExportHandler serves the sync-export reads a local node pulls from. The
// responses are the full current collections, shaped for direct insertion
// on the mirror side.
type ExportHandler struct {
	catalog *repos.CatalogRepo
}

func NewExportHandler(catalog *repos.CatalogRepo) *ExportHandler {
	return &ExportHandler{catalog: catalog}
}

func (h *ExportHandler) Clients(c *gin.Context) {
	clients, err := h.catalog.Clients()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ExportHandler) POPsByClient(c *gin.Context) {
	pops, err := h.catalog.POPsByClient(c.Param("client"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pops)
}

func (h *ExportHandler) Analysts(c *gin.Context) {
	analysts, err := h.catalog.Analysts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analysts)
}

func (h *ExportHandler) Shifts(c *gin.Context) {
	shifts, err := h.catalog.Shifts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, shifts)
}

func (h *ExportHandler) Schedules(c *gin.Context) {
	schedules, err := h.catalog.Schedules()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, schedules)
}
