package events

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"authorstore/internal/metrics"
)

// CitySource fetches the locality names offered in the city dropdown.
type CitySource interface {
	Cities(ctx context.Context) ([]string, error)
}

// CityList is loaded once in the background. A failed load is logged and the
// list stays empty.
type CityList struct {
	source CitySource
	logger *zap.Logger

	mu     sync.RWMutex
	cities []string
}

func NewCityList(source CitySource, logger *zap.Logger) *CityList {
	return &CityList{source: source, logger: logger}
}

func (l *CityList) Load(ctx context.Context) {
	cities, err := l.source.Cities(ctx)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("fetch_cities").Inc()
		l.logger.Error("error fetching cities", zap.Error(err))
		return
	}
	l.mu.Lock()
	l.cities = cities
	l.mu.Unlock()
	l.logger.Info("cities loaded", zap.Int("count", len(cities)))
}

func (l *CityList) All() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.cities == nil {
		return []string{}
	}
	return slices.Clone(l.cities)
}
