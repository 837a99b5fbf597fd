package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
	"github.com/comitanigiacomo/kanso-kcal/internal/platform/metrics"
)

var _ domain.StatsRepository = (*CachedStatsRepository)(nil)

const statsCacheTTL = 30 * time.Minute

// CachedStatsRepository is a read-through cache in front of the snapshot store.
// Redis failures are logged and the call falls through to the next repository.
type CachedStatsRepository struct {
	next    domain.StatsRepository
	cache   *redis.Client
	metrics *metrics.Metrics
}

func NewCachedStatsRepository(next domain.StatsRepository, cache *redis.Client, m *metrics.Metrics) *CachedStatsRepository {
	return &CachedStatsRepository{
		next:    next,
		cache:   cache,
		metrics: m,
	}
}

func (r *CachedStatsRepository) cacheKey(userID string) string {
	return fmt.Sprintf("stats:weekly:%s", userID)
}

func (r *CachedStatsRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		slog.Warn("[CACHE] Failed to invalidate", "user_id", userID, "error", err)
	}
}

func (r *CachedStatsRepository) GetWeekly(ctx context.Context, userID string) (*domain.WeeklyStatsSummary, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var summary domain.WeeklyStatsSummary
		if err := json.Unmarshal([]byte(val), &summary); err == nil {
			r.metrics.CacheLookup(true)
			return &summary, nil
		}

		slog.Warn("[CACHE] Corrupted data, cleaning up key", "user_id", userID)
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("[CACHE] Redis read error", "error", err)
	}
	r.metrics.CacheLookup(false)

	summary, err := r.next.GetWeekly(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(summary); err == nil {
		if setErr := r.cache.Set(ctx, key, data, statsCacheTTL).Err(); setErr != nil {
			slog.Warn("[CACHE] Redis set error", "error", setErr)
		}
	}

	return summary, nil
}

func (r *CachedStatsRepository) SaveWeekly(ctx context.Context, userID string, summary *domain.WeeklyStatsSummary) error {
	if err := r.next.SaveWeekly(ctx, userID, summary); err != nil {
		return err
	}
	r.invalidate(ctx, userID)
	return nil
}
