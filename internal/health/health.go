package health

import (
	"context"
	"time"

	"pdv-backend/internal/cache"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db    Pinger
	cache *cache.Cache
}

type HealthStatus struct {
	Status   string          `json:"status"`
	Database ComponentHealth `json:"database"`
	Cache    ComponentHealth `json:"cache"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// NewHealthChecker builds a checker; c may be nil when Redis is not configured.
func NewHealthChecker(db Pinger, c *cache.Cache) *HealthChecker {
	return &HealthChecker{db: db, cache: c}
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	dbHealth := probe(ctx, h.db.Ping)

	cacheHealth := ComponentHealth{Status: StatusDisabled}
	if h.cache.Enabled() {
		cacheHealth = probe(ctx, h.cache.Ping)
	}

	status := StatusHealthy
	switch {
	case dbHealth.Status != StatusHealthy:
		status = StatusUnhealthy
	case cacheHealth.Status == StatusUnhealthy:
		status = StatusDegraded
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Cache:    cacheHealth,
	}
}

func probe(ctx context.Context, ping func(context.Context) error) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{Status: StatusUnhealthy, ResponseTime: responseTime}
	}
	return ComponentHealth{Status: StatusHealthy, ResponseTime: responseTime}
}
