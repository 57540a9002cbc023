package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"noc-sync/internal/cloudsync"
	"noc-sync/internal/repos"
)

const defaultHistoryLimit = 10

// SyncHandler serves the administration surface of the sync subsystem:
// manual trigger, run history, and the live status snapshot.
type SyncHandler struct {
	engine *cloudsync.Engine
	runs   *repos.SyncLogRepo
}

func NewSyncHandler(engine *cloudsync.Engine, runs *repos.SyncLogRepo) *SyncHandler {
	return &SyncHandler{engine: engine, runs: runs}
}

// ManualSync runs a pass synchronously. The HTTP status is 200 regardless
// of pass outcome; the success field in the body carries the verdict.
func (h *SyncHandler) ManualSync(c *gin.Context) {
	result := h.engine.Sync(c.Request.Context())
	c.JSON(http.StatusOK, result)
}

func (h *SyncHandler) History(c *gin.Context) {
	limit := parseIntDefault(c.Query("limit"), defaultHistoryLimit)
	runs, err := h.runs.History(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.StatusSnapshot())
}

func parseIntDefault(v string, fallback int) int {
	if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && i > 0 {
		return i
	}
	return fallback
}
