package api

import (
	"github.com/alvinbaena/safekey/internal/util"
	"github.com/alvinbaena/safekey/pkg/hibp"
)

type analyzeRequest struct {
	Password string `json:"password" binding:"required"`
}

type healthResponse struct {
	Status       string      `json:"status"`
	BreachClient *hibp.Stats `json:"breach_client,omitempty"`
	Memory       util.Memory `json:"memory"`
}
