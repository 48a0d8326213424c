package api

import (
	"github.com/alvinbaena/safekey/internal/util"
	"github.com/alvinbaena/safekey/pkg/hibp"
	"github.com/gin-gonic/gin"
	"net/http"
)

// StatsProvider exposes the breach client counters, *hibp.Client implements it.
type StatsProvider interface {
	Stats() hibp.Stats
}

type healthApi struct {
	stats StatsProvider
}

func (h *healthApi) health(c *gin.Context) {
	res := healthResponse{
		Status: "ok",
		Memory: util.MemoryStatus(),
	}
	if h.stats != nil {
		stats := h.stats.Stats()
		res.BreachClient = &stats
	}

	c.JSON(http.StatusOK, res)
}

func RegisterHealthApi(group *gin.RouterGroup, stats StatsProvider) {
	h := &healthApi{stats: stats}

	group.GET("/health", h.health)
}
