package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smartfeedback/internal/app/feedback/entity"
	"smartfeedback/internal/app/feedback/infrastructure"
	"smartfeedback/internal/app/feedback/repository"
	"smartfeedback/pkg/logger"
	"smartfeedback/pkg/metrics"
)

const serviceName = "feedback-service"

// unknownProduct группа для отзывов без указанного продукта
const unknownProduct = "Unknown Product"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrFeedbackRequired = errors.New("feedback text is required")
)

// FeedbackService обрабатывает прием отзывов и агрегацию сводок
// Координирует анализатор тональности, репозиторий, кеш и Kafka
type FeedbackService struct {
	feedbackRepo  repository.FeedbackRepository
	analyzer      SentimentAnalyzerInterface
	summarizer    SummaryGeneratorInterface
	cache         infrastructure.FeedbackCache
	kafkaProducer infrastructure.MessagePublisher
}

// NewFeedbackService создает новый сервис отзывов с внедрением зависимостей
func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	analyzer SentimentAnalyzerInterface,
	summarizer SummaryGeneratorInterface,
	cache infrastructure.FeedbackCache,
	kafkaProducer infrastructure.MessagePublisher,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepo:  feedbackRepo,
		analyzer:      analyzer,
		summarizer:    summarizer,
		cache:         cache,
		kafkaProducer: kafkaProducer,
	}
}

// SubmitFeedback принимает новый отзыв
// 1. Валидирует наличие текста отзыва
// 2. Обогащает отзыв анализом тональности (этот шаг не может провалиться)
// 3. Сохраняет отзыв в MongoDB - единственная точка записи
// 4. Инвалидирует кеш и отправляет событие FEEDBACK_CREATED в Kafka
func (s *FeedbackService) SubmitFeedback(ctx context.Context, req *entity.SubmitFeedbackRequest) (*entity.Feedback, error) {
	if req.Feedback == "" {
		return nil, ErrFeedbackRequired
	}

	// Анализ тональности по контракту всегда возвращает результат,
	// при сбое внешнего API - Neutral/0 с причиной в поле Error
	sentiment := s.analyzer.AnalyzeSentiment(ctx, req.Feedback)

	feedback := &entity.Feedback{
		Name:              req.Name,
		Email:             req.Email,
		Product:           req.Product,
		Rating:            req.Rating,
		Feedback:          req.Feedback,
		SentimentAnalysis: sentiment,
		CreatedAt:         time.Now(),
	}

	// Сохраняем в MongoDB, ошибка хранилища поднимается наверх как есть
	if err := s.feedbackRepo.Insert(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	metrics.FeedbackSubmissions.WithLabelValues(sentiment.Sentiment).Inc()

	// Отзыв уже сохранен, проблемы кеша и Kafka не критичны
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate feedback cache")
	}

	event := entity.FeedbackEvent{
		EventType:  "FEEDBACK_CREATED",
		FeedbackID: feedback.ID.Hex(),
		Product:    feedback.Product,
		Rating:     feedback.Rating,
		Sentiment:  sentiment.Sentiment,
		Timestamp:  time.Now(),
	}

	if err := s.publishFeedbackEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish feedback created event")
	}

	return feedback, nil
}

// GetAllFeedback возвращает все отзывы от новых к старым
// Сначала пробует кеш, при промахе читает MongoDB и наполняет кеш
func (s *FeedbackService) GetAllFeedback(ctx context.Context) ([]entity.Feedback, error) {
	cached, err := s.cache.Get(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Feedback cache read failed, falling back to database")
	} else if cached != nil {
		return cached, nil
	}

	feedbacks, err := s.feedbackRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	if err := s.cache.Set(ctx, feedbacks); err != nil {
		logger.Warn().Err(err).Msg("Failed to populate feedback cache")
	}

	return feedbacks, nil
}

// GetProductSummaries строит сводки по каждому продукту
// Сводки пересчитываются на каждый запрос и нигде не сохраняются
// Сбой генерации по одному продукту не прерывает обработку остальных
func (s *FeedbackService) GetProductSummaries(ctx context.Context) ([]entity.ProductSummary, error) {
	feedbacks, err := s.feedbackRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	// Группируем по продукту, сохраняя порядок первого появления
	// Внутри группы порядок чтения из хранилища: от новых к старым
	groups := make(map[string][]entity.Feedback)
	var order []string
	for _, fb := range feedbacks {
		product := fb.Product
		if product == "" {
			product = unknownProduct
		}
		if _, seen := groups[product]; !seen {
			order = append(order, product)
		}
		groups[product] = append(groups[product], fb)
	}

	summaries := make([]entity.ProductSummary, 0, len(order))
	for _, product := range order {
		group := groups[product]

		bundle, err := s.summarizer.GenerateSummary(ctx, product, group)
		if err != nil {
			logger.Error().
				Err(err).
				Str("product", product).
				Int("feedback_count", len(group)).
				Msg("Failed to generate product summary")
			metrics.SummariesGenerated.WithLabelValues("failed").Inc()

			summaries = append(summaries, entity.ProductSummary{
				Product:       product,
				FeedbackCount: len(group),
				Error:         fmt.Sprintf("Failed to generate summary: %v", err),
			})
			continue
		}

		metrics.SummariesGenerated.WithLabelValues("success").Inc()
		summaries = append(summaries, entity.ProductSummary{
			Product:       product,
			FeedbackCount: len(group),
			Summary:       bundle,
		})
	}

	return summaries, nil
}

// publishFeedbackEvent отправляет событие об отзыве в Kafka
func (s *FeedbackService) publishFeedbackEvent(ctx context.Context, event entity.FeedbackEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback event: %w", err)
	}

	// Ключ = FeedbackID для партиционирования
	if err := s.kafkaProducer.PublishMessage(ctx, event.FeedbackID, eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
