package port

import (
	"context"
)

// EventPublisher определяет интерфейс публикации событий диагностики (Port)
// Реализация в Infrastructure слое (NATS JetStream)
type EventPublisher interface {
	// PublishEvent публикует событие в subject вида "diagnostics.assessment.<equipment_id>"
	PublishEvent(ctx context.Context, subject string, event interface{}) error

	// Close закрывает соединение с брокером
	Close() error
}
