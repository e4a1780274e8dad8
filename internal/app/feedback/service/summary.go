package service

import (
	"context"
	"encoding/json"
	"fmt"

	"smartfeedback/internal/app/feedback/entity"
	"smartfeedback/internal/app/feedback/infrastructure"
	"smartfeedback/pkg/metrics"
)

// maxSummaryFeedback ограничивает число отзывов в промпте,
// чтобы не выйти за лимит токенов. Вызывающий передает список от новых
// к старым, поэтому отсечение оставляет самые свежие отзывы
const maxSummaryFeedback = 10

// SummaryGenerator формирует сводку по отзывам одного продукта
// В отличие от анализатора тональности ошибки не поглощаются:
// вызывающий сам решает, как изолировать сбой по конкретному продукту
type SummaryGenerator struct {
	completer infrastructure.TextCompleter
}

// NewSummaryGenerator создает генератор сводок
func NewSummaryGenerator(completer infrastructure.TextCompleter) *SummaryGenerator {
	return &SummaryGenerator{
		completer: completer,
	}
}

// feedbackProjection проекция отзыва для промпта
// Rating число либо строка "N/A", как в исходной схеме данных
type feedbackProjection struct {
	Text      string      `json:"text"`
	Rating    interface{} `json:"rating"`
	Sentiment string      `json:"sentiment"`
}

// GenerateSummary строит структурированную сводку по отзывам продукта
func (g *SummaryGenerator) GenerateSummary(ctx context.Context, product string, feedbacks []entity.Feedback) (*entity.SummaryBundle, error) {
	projected := projectFeedback(feedbacks)
	if len(projected) > maxSummaryFeedback {
		projected = projected[:maxSummaryFeedback]
	}

	prompt, err := buildSummaryPrompt(product, projected)
	if err != nil {
		return nil, err
	}

	timer := metrics.NewCompletionTimer(serviceName, "summary")
	raw, err := g.completer.Complete(ctx, prompt)
	timer.ObserveDuration()

	if err != nil {
		metrics.RecordCompletionError(serviceName, "summary")
		return nil, fmt.Errorf("summary generation failed: %w", err)
	}

	return parseSummaryOutput(raw)
}

// projectFeedback проецирует отзывы в компактную форму для промпта
func projectFeedback(feedbacks []entity.Feedback) []feedbackProjection {
	projected := make([]feedbackProjection, 0, len(feedbacks))
	for _, fb := range feedbacks {
		var rating interface{} = "N/A"
		if fb.Rating != nil {
			rating = *fb.Rating
		}

		sentiment := fb.SentimentAnalysis.Sentiment
		if sentiment == "" {
			sentiment = "Unknown"
		}

		projected = append(projected, feedbackProjection{
			Text:      fb.Feedback,
			Rating:    rating,
			Sentiment: sentiment,
		})
	}
	return projected
}

// buildSummaryPrompt строит промпт аналитика отзывов для одного продукта
// Чистая функция от данных к строке, тестируется без сетевых вызовов
func buildSummaryPrompt(product string, feedbacks []feedbackProjection) (string, error) {
	data, err := json.MarshalIndent(feedbacks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal feedback for prompt: %w", err)
	}

	return fmt.Sprintf(`You are a product feedback analyst for a company that sells consumer electronics.
I want you to analyze user feedback for the product "%s" and provide:

1. A concise summary of the key points from user feedback (3-5 bullet points)
2. Major strengths of the product based on positive feedback
3. Major areas of improvement based on negative feedback
4. Specific actionable suggestions for product improvements
5. Suggestions for new features based on user needs

Format the response as a JSON object with these keys:
- "summary": array of summary bullet points
- "strengths": array of product strengths
- "improvements": array of areas needing improvement
- "suggestions": array of specific actionable suggestions
- "newFeatures": array of new feature ideas

Here is the feedback data:
%s

Only include suggestions that are directly supported by the feedback. If there's not enough data to make recommendations in any area, include an empty array for that field.`, product, data), nil
}

// parseSummaryOutput разбирает ответ модели в SummaryBundle
// Два яруса: строгий JSON, затем вложенный объект {...}
// Эвристики третьего яруса нет: неразборчивый ответ - жесткая ошибка
func parseSummaryOutput(raw string) (*entity.SummaryBundle, error) {
	var bundle entity.SummaryBundle
	if err := json.Unmarshal([]byte(raw), &bundle); err == nil {
		return &bundle, nil
	}

	if fragment, ok := extractJSONObject(raw); ok {
		var embedded entity.SummaryBundle
		if err := json.Unmarshal([]byte(fragment), &embedded); err == nil {
			return &embedded, nil
		}
	}

	return nil, fmt.Errorf("could not parse JSON from response")
}
