package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/qconnect/clinic-api/pkg/logger"
	"github.com/qconnect/clinic-api/pkg/redis"
)

const (
	metricsRequestsKey = "metrics:requests"
	metricsStatusKey   = "metrics:status"
)

// MetricsService keeps per-route and per-status request counters in redis
// hashes. With redis disabled every call is a no-op; metrics never affect
// request handling.
type MetricsService struct {
	redis redis.Client
}

func NewMetricsService(redisClient redis.Client) *MetricsService {
	return &MetricsService{redis: redisClient}
}

// RecordRequest bumps the counter for one handled request.
func (s *MetricsService) RecordRequest(ctx context.Context, method, route string, status int) {
	if !s.redis.IsEnabled() {
		return
	}

	routeField := fmt.Sprintf("%s %s", method, route)
	if err := s.redis.HIncrBy(ctx, metricsRequestsKey, routeField, 1); err != nil {
		logger.WarnWithContext(ctx, "failed to record request metric").Err(err).Log()
		return
	}
	if err := s.redis.HIncrBy(ctx, metricsStatusKey, strconv.Itoa(status), 1); err != nil {
		logger.WarnWithContext(ctx, "failed to record status metric").Err(err).Log()
	}
}

// Snapshot returns the accumulated counters.
func (s *MetricsService) Snapshot(ctx context.Context) (map[string]int64, map[string]int64, error) {
	requests, err := s.redis.HGetAll(ctx, metricsRequestsKey)
	if err != nil {
		return nil, nil, err
	}
	statuses, err := s.redis.HGetAll(ctx, metricsStatusKey)
	if err != nil {
		return nil, nil, err
	}
	return parseCounters(requests), parseCounters(statuses), nil
}

// Reset clears all counters.
func (s *MetricsService) Reset(ctx context.Context) error {
	return s.redis.Del(ctx, metricsRequestsKey, metricsStatusKey)
}

func parseCounters(raw map[string]string) map[string]int64 {
	counters := make(map[string]int64, len(raw))
	for field, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		counters[field] = n
	}
	return counters
}
