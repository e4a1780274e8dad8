//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"smartfeedback/internal/app/feedback/entity"
	"smartfeedback/internal/app/feedback/handler"
	"smartfeedback/internal/app/feedback/infrastructure/cache"
	"smartfeedback/internal/app/feedback/repository"
	"smartfeedback/internal/app/feedback/repository/mocks"
	"smartfeedback/internal/app/feedback/service"
	"smartfeedback/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FeedbackIntegrationTestSuite struct {
	suite.Suite
	client        *mongo.Client
	db            *mongo.Database
	redisServer   *miniredis.Miniredis
	router        *gin.Engine
	completer     *mocks.MockTextCompleter
	kafkaProducer *mocks.MockMessagePublisher
}

func TestFeedbackIntegrationSuite(t *testing.T) {
	suite.Run(t, new(FeedbackIntegrationTestSuite))
}

func (s *FeedbackIntegrationTestSuite) SetupSuite() {
	logger.InitWithWriter("feedback-service", "error", io.Discard)

	mongoURI := getEnv("TEST_MONGODB_URI", "mongodb://localhost:27018")
	dbName := getEnv("TEST_MONGODB_DATABASE", "feedback_test_db")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	s.client, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	s.Require().NoError(err)

	s.db = s.client.Database(dbName)

	s.redisServer, err = miniredis.Run()
	s.Require().NoError(err)

	redisClient := redis.NewClient(&redis.Options{Addr: s.redisServer.Addr()})
	feedbackCache := cache.NewRedisCacheWithClient(redisClient, 30*time.Second)

	feedbackRepo := repository.NewFeedbackRepository(s.db)
	s.completer = new(mocks.MockTextCompleter)
	s.kafkaProducer = &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}

	analyzer := service.NewSentimentAnalyzer(s.completer)
	summarizer := service.NewSummaryGenerator(s.completer)
	feedbackService := service.NewFeedbackService(feedbackRepo, analyzer, summarizer, feedbackCache, s.kafkaProducer)

	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	api := s.router.Group("/api")
	api.GET("/feedback", feedbackHandler.GetFeedback)
	api.POST("/feedback", feedbackHandler.SubmitFeedback)
	api.GET("/feedback/summaries", feedbackHandler.GetProductSummaries)
}

func (s *FeedbackIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	s.db.Collection("feedback").Drop(ctx)
	s.redisServer.FlushAll()
	s.completer.ExpectedCalls = nil
	s.completer.Calls = nil
	s.kafkaProducer.Messages = make([][]byte, 0)
	s.kafkaProducer.ExpectedCalls = nil
	s.kafkaProducer.Calls = nil
}

func (s *FeedbackIntegrationTestSuite) TearDownSuite() {
	if s.redisServer != nil {
		s.redisServer.Close()
	}
	if s.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.client.Disconnect(ctx)
	}
}

func (s *FeedbackIntegrationTestSuite) submitFeedback(body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/api/feedback", bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *FeedbackIntegrationTestSuite) TestSubmitFeedback_StoresEnrichedRecord() {
	s.completer.On("Complete", mock.Anything, mock.Anything).
		Return(`{"sentiment":"Positive","score":0.8}`, nil)
	s.kafkaProducer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rating := 5
	w := s.submitFeedback(entity.SubmitFeedbackRequest{
		Product:  "Phone X",
		Rating:   &rating,
		Feedback: "great product",
	})

	s.Equal(http.StatusCreated, w.Code)

	var response entity.SuccessResponse
	s.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	s.Equal("Feedback submitted successfully", response.Message)

	// Событие FEEDBACK_CREATED ушло после сохранения
	s.Len(s.kafkaProducer.Messages, 1)

	// Запись действительно лежит в MongoDB с сентиментом
	var stored entity.Feedback
	err := s.db.Collection("feedback").FindOne(context.Background(), map[string]interface{}{}).Decode(&stored)
	s.NoError(err)
	s.Equal(entity.SentimentPositive, stored.SentimentAnalysis.Sentiment)
	s.Equal(0.8, stored.SentimentAnalysis.Score)
	s.False(stored.CreatedAt.IsZero())
}

func (s *FeedbackIntegrationTestSuite) TestSubmitFeedback_MissingText() {
	w := s.submitFeedback(map[string]string{"product": "Phone X"})

	s.Equal(http.StatusBadRequest, w.Code)

	var response entity.ErrorResponse
	s.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	s.Equal("Feedback text is required", response.Error)

	count, err := s.db.Collection("feedback").CountDocuments(context.Background(), map[string]interface{}{})
	s.NoError(err)
	s.Equal(int64(0), count)
	s.completer.AssertNotCalled(s.T(), "Complete", mock.Anything, mock.Anything)
}

func (s *FeedbackIntegrationTestSuite) TestSubmitFeedback_SentimentServiceDownStillStores() {
	s.completer.On("Complete", mock.Anything, mock.Anything).
		Return("", errors.New("GenAI request failed: connection refused"))
	s.kafkaProducer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	w := s.submitFeedback(entity.SubmitFeedbackRequest{Feedback: "service is down"})

	s.Equal(http.StatusCreated, w.Code)

	var stored entity.Feedback
	err := s.db.Collection("feedback").FindOne(context.Background(), map[string]interface{}{}).Decode(&stored)
	s.NoError(err)
	s.Equal(entity.SentimentNeutral, stored.SentimentAnalysis.Sentiment)
	s.Equal(0.0, stored.SentimentAnalysis.Score)
	s.NotEmpty(stored.SentimentAnalysis.Error)
}

func (s *FeedbackIntegrationTestSuite) TestGetFeedback_MostRecentFirst() {
	s.completer.On("Complete", mock.Anything, mock.Anything).
		Return(`{"sentiment":"Neutral","score":0}`, nil)
	s.kafkaProducer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	for _, text := range []string{"first", "second", "third"} {
		w := s.submitFeedback(entity.SubmitFeedbackRequest{Feedback: text})
		s.Equal(http.StatusCreated, w.Code)
		time.Sleep(5 * time.Millisecond)
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/feedback", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)

	var feedbacks []entity.Feedback
	s.NoError(json.Unmarshal(w.Body.Bytes(), &feedbacks))
	s.Len(feedbacks, 3)
	s.Equal("third", feedbacks[0].Feedback)
	s.Equal("first", feedbacks[2].Feedback)
}

func (s *FeedbackIntegrationTestSuite) TestGetSummaries_GroupsAndIsolatesFailures() {
	s.kafkaProducer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// Сентимент для всех отзывов одинаковый
	s.completer.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return !isSummaryPrompt(p)
	})).Return(`{"sentiment":"Positive","score":0.5}`, nil)

	// Сводка по продукту B падает, по A успешна
	s.completer.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return isSummaryPrompt(p) && strings.Contains(p, `"B"`)
	})).Return("no json at all", nil)
	s.completer.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return isSummaryPrompt(p) && strings.Contains(p, `"A"`)
	})).Return(`{"summary":["a points"],"strengths":[],"improvements":[],"suggestions":[],"newFeatures":[]}`, nil)

	for _, product := range []string{"A", "A", "B"} {
		w := s.submitFeedback(entity.SubmitFeedbackRequest{Product: product, Feedback: "feedback for " + product})
		s.Equal(http.StatusCreated, w.Code)
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/feedback/summaries", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)

	var summaries []entity.ProductSummary
	s.NoError(json.Unmarshal(w.Body.Bytes(), &summaries))
	s.Len(summaries, 2)

	byProduct := make(map[string]entity.ProductSummary)
	for _, summary := range summaries {
		byProduct[summary.Product] = summary
	}

	s.Equal(2, byProduct["A"].FeedbackCount)
	s.NotNil(byProduct["A"].Summary)
	s.Equal(1, byProduct["B"].FeedbackCount)
	s.Contains(byProduct["B"].Error, "Failed to generate summary")
}

func isSummaryPrompt(prompt string) bool {
	return strings.Contains(prompt, "product feedback analyst")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
