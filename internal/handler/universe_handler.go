package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rgajunior/trading/internal/model"
)

type UniverseStore interface {
	Latest() (*model.Universe, error)
}

type UniverseHandler struct {
	repository UniverseStore
	ttl        time.Duration
}

func NewUniverseHandler(repository UniverseStore, ttl time.Duration) *UniverseHandler {
	return &UniverseHandler{repository: repository, ttl: ttl}
}

func (h *UniverseHandler) GetUniverse(c *gin.Context) {
	universe, err := h.repository.Latest()
	if err != nil {
		slog.Error("error fetching universe", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if universe == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No universe captured yet"})
		return
	}

	now := time.Now()
	res := UniverseResponse{
		Symbols:    universe.Symbols,
		Size:       universe.Size(),
		CapturedAt: universe.CapturedAt.Format(time.RFC3339),
		Age:        now.Sub(universe.CapturedAt).Round(time.Second).String(),
		Fresh:      universe.Fresh(now, h.ttl),
	}

	c.JSON(http.StatusOK, res)
}
