package port

import "context"

// Cache определяет интерфейс кэширования оценок (Port)
// Реализация в Infrastructure слое (Redis)
type Cache interface {
	// Get читает закэшированную оценку в dest
	Get(ctx context.Context, key string, dest interface{}) error

	// Set сохраняет оценку с TTL реализации
	Set(ctx context.Context, key string, value interface{}) error

	// Delete удаляет ключ
	Delete(ctx context.Context, key string) error

	// DeletePattern удаляет все ключи по маске, например "diagnostics:latest:*"
	DeletePattern(ctx context.Context, pattern string) error

	// Close закрывает соединение с кэшем
	Close() error
}
