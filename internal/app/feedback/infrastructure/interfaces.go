package infrastructure

import (
	"context"

	"smartfeedback/internal/app/feedback/entity"
)

// TextCompleter интерфейс генеративного текстового API (Gemini)
// Возвращает неструктурированный текст, который не обязан быть валидным JSON
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
// Используется для dependency injection и упрощения тестирования
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// FeedbackCache интерфейс кеша списка отзывов (Redis)
// Кеш вспомогательный: любая его ошибка деградирует к чтению из MongoDB
type FeedbackCache interface {
	Get(ctx context.Context) ([]entity.Feedback, error)
	Set(ctx context.Context, feedbacks []entity.Feedback) error
	Invalidate(ctx context.Context) error
}
