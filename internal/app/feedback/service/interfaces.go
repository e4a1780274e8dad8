package service

import (
	"context"

	"smartfeedback/internal/app/feedback/entity"
)

// SentimentAnalyzerInterface абстракция анализатора тональности
// Позволяет подменять анализатор в тестах конвейера приема отзывов
type SentimentAnalyzerInterface interface {
	AnalyzeSentiment(ctx context.Context, text string) entity.SentimentAnalysis
}

// SummaryGeneratorInterface абстракция генератора сводок
type SummaryGeneratorInterface interface {
	GenerateSummary(ctx context.Context, product string, feedbacks []entity.Feedback) (*entity.SummaryBundle, error)
}
