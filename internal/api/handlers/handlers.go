package handlers

import (
	"phishshield/internal/domain/services"
	"phishshield/internal/infrastructure/cache"
	"phishshield/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health  *HealthHandler
	Scan    *ScanHandler
	Threats *ThreatsHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	ScanService *services.ScanService
	ThreatLog   services.ThreatLog
	Cache       *cache.RedisCache
	Logger      *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Cache, deps.ThreatLog, deps.Logger),
		Scan:    NewScanHandler(deps.ScanService, deps.Logger),
		Threats: NewThreatsHandler(deps.ThreatLog, deps.Logger),
	}
}
