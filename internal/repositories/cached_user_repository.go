package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mindmaze-api/internal/logger"
	"mindmaze-api/internal/models"
	"mindmaze-api/pkg/cache"
)

const (
	totalUsersKey     = "stats:total_users"
	leaderboardKeyFmt = "leaderboard:top:%d"
)

// CacheObserver 缓存命中回调
type CacheObserver func(key string, hit bool)

// CachedUserRepository wraps a UserRepository and caches the aggregate reads
// used by the leaderboard and stats endpoints. Cache failures fall through to
// the underlying repository.
type CachedUserRepository struct {
	repo           UserRepository
	cache          cache.Cache
	leaderboardTTL time.Duration
	statsTTL       time.Duration
	logger         logger.Logger
	observer       CacheObserver

	mu     sync.Mutex
	limits map[int]struct{} // 已缓存过的排行榜长度，用于失效
}

// NewCachedUserRepository creates a new cached user repository decorator
func NewCachedUserRepository(repo UserRepository, c cache.Cache, leaderboardTTL, statsTTL time.Duration, log logger.Logger) *CachedUserRepository {
	if log == nil {
		log = logger.NewNop()
	}
	return &CachedUserRepository{
		repo:           repo,
		cache:          c,
		leaderboardTTL: leaderboardTTL,
		statsTTL:       statsTTL,
		limits:         map[int]struct{}{},
		logger:         log.WithModule("user_cache"),
	}
}

// SetObserver 设置命中/未命中回调
func (c *CachedUserRepository) SetObserver(observer CacheObserver) {
	c.observer = observer
}

// Create creates a new user and invalidates the aggregate cache entries
func (c *CachedUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := c.repo.Create(ctx, user); err != nil {
		return err
	}

	keys := []string{totalUsersKey}
	c.mu.Lock()
	for limit := range c.limits {
		keys = append(keys, fmt.Sprintf(leaderboardKeyFmt, limit))
	}
	c.mu.Unlock()

	if err := c.cache.Delete(ctx, keys...); err != nil {
		c.logger.Warn(ctx, "Failed to invalidate user cache", logger.Error(err))
	}
	return nil
}

// GetByUsername is not cached; login must see the current password hash
func (c *CachedUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return c.repo.GetByUsername(ctx, username)
}

// Count returns the cached user count
func (c *CachedUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if c.get(ctx, totalUsersKey, &n) {
		return n, nil
	}

	n, err := c.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	c.set(ctx, totalUsersKey, n, c.statsTTL)
	return n, nil
}

// TopByScore returns the cached leaderboard
func (c *CachedUserRepository) TopByScore(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	key := fmt.Sprintf(leaderboardKeyFmt, limit)

	c.mu.Lock()
	c.limits[limit] = struct{}{}
	c.mu.Unlock()

	var entries []models.LeaderboardEntry
	if c.get(ctx, key, &entries) {
		return entries, nil
	}

	entries, err := c.repo.TopByScore(ctx, limit)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, entries, c.leaderboardTTL)
	return entries, nil
}

func (c *CachedUserRepository) get(ctx context.Context, key string, dest interface{}) bool {
	hit, err := c.cache.GetJSON(ctx, key, dest)
	if err != nil {
		c.logger.Warn(ctx, "Cache read failed", logger.String("key", key), logger.Error(err))
		hit = false
	}
	if c.observer != nil {
		c.observer(key, hit)
	}
	return hit
}

func (c *CachedUserRepository) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if err := c.cache.SetJSON(ctx, key, value, ttl); err != nil {
		c.logger.Warn(ctx, "Cache write failed", logger.String("key", key), logger.Error(err))
	}
}
