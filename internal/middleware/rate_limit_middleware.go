package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/onthi-api/internal/domain/repository"
)

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests - максимальное количество запросов за Window
	MaxRequests int
	// Window - временное окно для подсчёта запросов
	Window time.Duration
	// KeyPrefix - префикс для ключей в кеше
	KeyPrefix string
}

// ImportRateLimitConfig - лимит для импорта файлов: тяжёлая операция,
// повторный залп одного клиента не должен класть базу
func ImportRateLimitConfig(maxPerMinute int) RateLimitConfig {
	if maxPerMinute <= 0 {
		maxPerMinute = 10
	}
	return RateLimitConfig{
		MaxRequests: maxPerMinute,
		Window:      1 * time.Minute,
		KeyPrefix:   "rl:import",
	}
}

// RateLimiter создаёт middleware для rate limiting поверх кеша
type RateLimiter struct {
	cache repository.CacheRepository
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(cache repository.CacheRepository) *RateLimiter {
	return &RateLimiter{cache: cache}
}

// LimitByIP ограничивает количество запросов по IP клиента.
// При недоступном кеше запрос пропускается (fail-open).
func (rl *RateLimiter) LimitByIP(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", cfg.KeyPrefix, c.ClientIP())

		count, err := rl.cache.Increment(key)
		if err != nil {
			log.Printf("[RateLimiter] Ошибка кеша для ключа %s: %v. Пропускаю запрос.", key, err)
			c.Next()
			return
		}

		// Первый запрос в окне задает TTL ключа
		if count == 1 {
			if err := rl.cache.ExpireAt(key, time.Now().Add(cfg.Window)); err != nil {
				log.Printf("[RateLimiter] Не удалось установить TTL для ключа %s: %v", key, err)
			}
		}

		remaining := cfg.MaxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if int(count) > cfg.MaxRequests {
			log.Printf("[RateLimiter] Превышен лимит для IP=%s: %d > %d", c.ClientIP(), count, cfg.MaxRequests)
			c.Header("Retry-After", fmt.Sprintf("%d", int(cfg.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too many requests. Please try again later.",
				"error_type": "rate_limited",
			})
			return
		}

		c.Next()
	}
}
