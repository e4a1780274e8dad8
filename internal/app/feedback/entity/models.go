package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Значения сентимента, которые возвращает анализатор
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// Feedback - отзыв пользователя о продукте
// В API поля отдаются в camelCase, в MongoDB хранятся в snake_case
// Запись неизменяема после создания: сервис никогда не обновляет и не удаляет отзывы
type Feedback struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name              string             `json:"name,omitempty" bson:"name,omitempty"`
	Email             string             `json:"email,omitempty" bson:"email,omitempty"`
	Product           string             `json:"product,omitempty" bson:"product,omitempty"`
	Rating            *int               `json:"rating,omitempty" bson:"rating,omitempty"` // Оценка от 1 до 5, может отсутствовать
	Feedback          string             `json:"feedback" bson:"feedback"`                 // Текст отзыва
	SentimentAnalysis SentimentAnalysis  `json:"sentimentAnalysis" bson:"sentiment_analysis"`
	CreatedAt         time.Time          `json:"createdAt" bson:"created_at"`
}

// SentimentAnalysis - результат анализа тональности текста отзыва
// Заполняется всегда: при любой ошибке анализатор возвращает Neutral/0 с описанием в Error
type SentimentAnalysis struct {
	Sentiment string  `json:"sentiment" bson:"sentiment"`                   // Positive, Negative или Neutral
	Score     float64 `json:"score" bson:"score"`                           // Оценка от -1.0 до 1.0
	RawOutput string  `json:"rawOutput,omitempty" bson:"raw_output,omitempty"` // Сырой ответ модели для аудита
	Error     string  `json:"error,omitempty" bson:"error,omitempty"`       // Причина деградации к значению по умолчанию
}

// SummaryBundle - структурированная сводка по отзывам одного продукта
// Отсутствующие в ответе модели поля остаются пустыми массивами, это допустимо
type SummaryBundle struct {
	Summary      []string `json:"summary"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Suggestions  []string `json:"suggestions"`
	NewFeatures  []string `json:"newFeatures"`
}

// ProductSummary - сводка по продукту для выдачи в API
// Summary и Error взаимоисключающие: ошибка генерации одного продукта
// не прерывает формирование сводок остальных
type ProductSummary struct {
	Product       string         `json:"product"`
	FeedbackCount int            `json:"feedbackCount"`
	Summary       *SummaryBundle `json:"summary,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// FeedbackEvent - событие о новом отзыве для Kafka
type FeedbackEvent struct {
	EventType  string    `json:"event_type"` // FEEDBACK_CREATED
	FeedbackID string    `json:"feedback_id"`
	Product    string    `json:"product"`
	Rating     *int      `json:"rating"`
	Sentiment  string    `json:"sentiment"`
	Timestamp  time.Time `json:"timestamp"`
}
