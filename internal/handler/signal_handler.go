package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rgajunior/trading/internal/model"
)

type SignalStore interface {
	LatestCycle() (*model.Cycle, error)
	ScoresByCycle(cycleID int64) ([]model.SymbolScore, error)
	Cycles(limit, offset int) ([]model.Cycle, error)
	CycleTotal() (int, error)
}

type SignalHandler struct {
	repository SignalStore
}

func NewSignalHandler(repository SignalStore) *SignalHandler {
	return &SignalHandler{repository: repository}
}

// GetSignal returns the most recent completed cycle with its
// non-neutral scores.
func (h *SignalHandler) GetSignal(c *gin.Context) {
	cycle, err := h.repository.LatestCycle()
	if err != nil {
		slog.Error("error fetching latest cycle", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if cycle == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No signal yet"})
		return
	}

	scores, err := h.repository.ScoresByCycle(cycle.ID)
	if err != nil {
		slog.Error("error fetching cycle scores", "error", err, "cycle_id", cycle.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	scoreRes := make([]ScoreResponse, 0, len(scores))
	for _, s := range scores {
		scoreRes = append(scoreRes, ScoreResponse{Symbol: s.Symbol, Score: s.Score})
	}

	res := SignalResponse{
		CapturedAt:   cycle.CapturedAt.Format(time.RFC3339),
		UniverseSize: cycle.UniverseSize,
		ArticleCount: cycle.ArticleCount,
		FailedGroups: cycle.FailedGroups,
		Scores:       scoreRes,
	}

	c.JSON(http.StatusOK, res)
}

func (h *SignalHandler) GetHistory(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	total, err := h.repository.CycleTotal()
	if err != nil {
		slog.Error("error fetching cycle total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	cycles, err := h.repository.Cycles(limit, offset)
	if err != nil {
		slog.Error("error fetching cycle history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	cycleRes := make([]CycleResponse, 0, len(cycles))
	for _, cy := range cycles {
		cycleRes = append(cycleRes, CycleResponse{
			ID:           cy.ID,
			CapturedAt:   cy.CapturedAt.Format(time.RFC3339),
			UniverseSize: cy.UniverseSize,
			ArticleCount: cy.ArticleCount,
			GroupCount:   cy.GroupCount,
			FailedGroups: cy.FailedGroups,
			CacheHits:    cy.CacheHits,
			CacheMisses:  cy.CacheMisses,
		})
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Cycles: cycleRes,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (h *SignalHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.CycleTotal()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)

	if param == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(param)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
