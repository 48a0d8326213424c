// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"github.com/alvinbaena/safekey/pkg/analyzer"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"net/http"
)

// Analyzer is what the analyze endpoint needs, *analyzer.Analyzer implements it.
type Analyzer interface {
	Analyze(ctx context.Context, password string) (*analyzer.Report, error)
}

type analyzeApi struct {
	analyzer Analyzer
}

func (a *analyzeApi) analyzePassword(c *gin.Context) {
	// Reports are derived from a password, no one should keep a copy.
	c.Header("Cache-Control", "no-store")

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Binding errors can quote the request body, so they are not echoed back.
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object with a non-empty password"})
		return
	}

	report, err := a.analyzer.Analyze(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, analyzer.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		log.Error().Msg("password analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func RegisterAnalyzeApi(group *gin.RouterGroup, a Analyzer) {
	q := &analyzeApi{analyzer: a}

	group.POST("/analyze", q.analyzePassword)
}
