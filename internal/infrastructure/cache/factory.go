package cache

import (
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore picks the idempotency store implementation from
// config: Redis when enabled so multiple instances share state, the
// in-process store otherwise. A Redis connection failure falls back to
// the in-process store rather than blocking startup; the payment session
// rows stay authoritative either way.
func NewIdempotencyStore(cfg *config.RedisConfig, log *zap.Logger) shared.IdempotencyStore {
	if cfg.Enabled {
		store, err := NewRedisIdempotencyStore(cfg.Addr(), cfg.Password, cfg.DB)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		} else {
			log.Info("Using Redis idempotency store", zap.String("addr", cfg.Addr()))
			return store
		}
	}
	return NewMemoryIdempotencyStore()
}
