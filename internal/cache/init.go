package cache

import (
	"github.com/loomcart/loomcart/internal/config"
	"github.com/loomcart/loomcart/internal/logger"
)

// Initialize initializes the cache system
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	c := NewInMemoryCache(cfg)
	log.Infow("cache system initialized", "enabled", cfg != nil && cfg.Cache.Enabled)
	return c
}
