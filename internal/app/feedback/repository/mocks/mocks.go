package mocks

import (
	"context"

	"smartfeedback/internal/app/feedback/entity"

	"github.com/stretchr/testify/mock"
)

// MockFeedbackRepository мок для FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Insert(ctx context.Context, feedback *entity.Feedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *MockFeedbackRepository) GetAll(ctx context.Context) ([]entity.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Feedback), args.Error(1)
}

// MockTextCompleter мок генеративного текстового API
type MockTextCompleter struct {
	mock.Mock
}

func (m *MockTextCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockSentimentAnalyzer мок анализатора тональности
type MockSentimentAnalyzer struct {
	mock.Mock
}

func (m *MockSentimentAnalyzer) AnalyzeSentiment(ctx context.Context, text string) entity.SentimentAnalysis {
	args := m.Called(ctx, text)
	return args.Get(0).(entity.SentimentAnalysis)
}

// MockSummaryGenerator мок генератора сводок
type MockSummaryGenerator struct {
	mock.Mock
}

func (m *MockSummaryGenerator) GenerateSummary(ctx context.Context, product string, feedbacks []entity.Feedback) (*entity.SummaryBundle, error) {
	args := m.Called(ctx, product, feedbacks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SummaryBundle), args.Error(1)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockFeedbackCache мок кеша списка отзывов
type MockFeedbackCache struct {
	mock.Mock
}

func (m *MockFeedbackCache) Get(ctx context.Context) ([]entity.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Feedback), args.Error(1)
}

func (m *MockFeedbackCache) Set(ctx context.Context, feedbacks []entity.Feedback) error {
	args := m.Called(ctx, feedbacks)
	return args.Error(0)
}

func (m *MockFeedbackCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
