package services

import (
	"context"
	"math"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/repos"
)

type HealthService struct {
	Store  repos.Pinger
	DBName string
}

func NewHealthService(store repos.Pinger, dbName string) *HealthService {
	return &HealthService{Store: store, DBName: dbName}
}

type Health struct {
	Status    string  `json:"status"`
	DB        string  `json:"db"`
	LatencyMs float64 `json:"latency_ms"`
}

// Check round-trips a ping to the store.
func (s *HealthService) Check(ctx context.Context) (*Health, error) {
	start := time.Now()
	if err := s.Store.Ping(ctx); err != nil {
		return nil, Unavailable("Database unavailable", err)
	}
	d := time.Since(start)
	metrics.ObservePing(d)
	ms := math.Round(float64(d.Microseconds())/10) / 100
	return &Health{Status: "ok", DB: s.DBName, LatencyMs: ms}, nil
}
