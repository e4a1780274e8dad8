package repository

import (
	"context"

	"smartfeedback/internal/app/feedback/entity"
)

// FeedbackRepository определяет методы для работы с отзывами в MongoDB
// Отзывы неизменяемы, поэтому интерфейс ограничен вставкой и чтением
type FeedbackRepository interface {
	Insert(ctx context.Context, feedback *entity.Feedback) error
	GetAll(ctx context.Context) ([]entity.Feedback, error)
}
