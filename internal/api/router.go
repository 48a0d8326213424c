// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"net/http"
	"time"
)

const healthPath = "/v1/health"

// NewRouter wires the analyze endpoint under / (what the browser UI calls) and /v1, plus
// the health endpoint. stats may be nil when there is no breach client.
func NewRouter(a Analyzer, stats StatsProvider, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}))
	// Only method, path, status and timing are logged, never bodies.
	router.Use(logger.SetLogger(
		logger.WithSkipPath([]string{healthPath}),
		logger.WithLogger(func(c *gin.Context, z zerolog.Logger) zerolog.Logger {
			return zerolog.New(gin.DefaultWriter).With().Timestamp().Logger()
		}),
	))
	router.Use(cors.New(corsConfig(corsOrigins)))

	RegisterAnalyzeApi(&router.RouterGroup, a)

	v1 := router.Group("/v1")
	RegisterAnalyzeApi(v1, a)
	RegisterHealthApi(v1, stats)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}

	cfg.AllowOrigins = origins
	if len(origins) == 0 {
		cfg.AllowOrigins = []string{"http://localhost", "http://127.0.0.1"}
	}
	return cfg
}
