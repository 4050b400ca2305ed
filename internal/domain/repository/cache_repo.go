package repository

import (
	"time"
)

// CacheRepository определяет методы для работы с кешем.
// Используется движком сессий для снимков незавершённой сессии (резюме)
// и ограничителем частоты импорта.
type CacheRepository interface {
	Delete(key string) error
	Increment(key string) (int64, error)
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
	ExpireAt(key string, expiration time.Time) error
}
