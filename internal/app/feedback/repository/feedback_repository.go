package repository

import (
	"context"
	"fmt"
	"time"

	"smartfeedback/internal/app/feedback/entity"
	"smartfeedback/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serviceName = "feedback-service"

type feedbackRepository struct {
	collection *mongo.Collection
}

// NewFeedbackRepository создает новый репозиторий отзывов
// Автоматически создает индексы по created_at и product
func NewFeedbackRepository(db *mongo.Database) FeedbackRepository {
	collection := db.Collection("feedback")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Индекс по created_at для выборки в порядке убывания даты
	createdAtIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("created_at_idx"),
	}

	_, err := collection.Indexes().CreateOne(ctx, createdAtIndex)
	if err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		fmt.Printf("Warning: failed to create index on created_at: %v\n", err)
	}

	// Индекс по product для группировки сводок
	productIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "product", Value: 1},
		},
		Options: options.Index().SetName("product_idx"),
	}

	_, err = collection.Indexes().CreateOne(ctx, productIndex)
	if err != nil {
		fmt.Printf("Warning: failed to create index on product: %v\n", err)
	}

	return &feedbackRepository{
		collection: collection,
	}
}

// Insert сохраняет новый отзыв в MongoDB
// Единственная точка записи в системе, запись выполняется ровно один раз
func (r *feedbackRepository) Insert(ctx context.Context, feedback *entity.Feedback) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "feedback")
	defer timer.ObserveDuration()

	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to insert feedback: %w", err)
	}

	// Устанавливаем ID из результата вставки
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		feedback.ID = oid
	}

	return nil
}

// GetAll получает все отзывы, отсортированные от новых к старым
// Использует индекс created_at_idx
func (r *feedbackRepository) GetAll(ctx context.Context) ([]entity.Feedback, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "feedback")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to find feedback: %w", err)
	}
	defer cursor.Close(ctx)

	var feedbacks []entity.Feedback
	if err := cursor.All(ctx, &feedbacks); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}

	return feedbacks, nil
}
