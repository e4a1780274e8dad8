package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"smartfeedback/internal/app/feedback/entity"
	"smartfeedback/internal/app/feedback/infrastructure"
	"smartfeedback/pkg/logger"
	"smartfeedback/pkg/metrics"
)

// scorePattern находит первое число со знаком в тексте ответа модели
var scorePattern = regexp.MustCompile(`-?\d+(\.\d+)?`)

// SentimentAnalyzer классифицирует тональность текста через генеративное API
// Контракт: AnalyzeSentiment никогда не возвращает ошибку наружу,
// любой сбой деградирует к результату Neutral/0 с описанием причины
type SentimentAnalyzer struct {
	completer infrastructure.TextCompleter
}

// NewSentimentAnalyzer создает анализатор тональности
func NewSentimentAnalyzer(completer infrastructure.TextCompleter) *SentimentAnalyzer {
	return &SentimentAnalyzer{
		completer: completer,
	}
}

// AnalyzeSentiment анализирует тональность текста отзыва
// Разбор ответа модели идет в три яруса: строгий JSON, вложенный объект {...},
// эвристика по ключевым словам. Первый успешный ярус побеждает
func (a *SentimentAnalyzer) AnalyzeSentiment(ctx context.Context, text string) entity.SentimentAnalysis {
	prompt := buildSentimentPrompt(text)

	timer := metrics.NewCompletionTimer(serviceName, "sentiment")
	raw, err := a.completer.Complete(ctx, prompt)
	timer.ObserveDuration()

	if err != nil {
		metrics.RecordCompletionError(serviceName, "sentiment")
		metrics.SentimentFallbacks.WithLabelValues("service_error").Inc()
		logger.Warn().Err(err).Msg("Sentiment analysis degraded to neutral default")

		return entity.SentimentAnalysis{
			Sentiment: entity.SentimentNeutral,
			Score:     0,
			Error:     err.Error(),
		}
	}

	return parseSentimentOutput(raw)
}

// buildSentimentPrompt строит промпт для классификации тональности
// Чистая функция: фиксированный шаблон плюс текст отзыва
func buildSentimentPrompt(text string) string {
	return fmt.Sprintf(`Analyze the sentiment of the following text and categorize it as "Positive", "Negative", or "Neutral".
Also provide a sentiment score between -1.0 (very negative) and 1.0 (very positive), where 0 is neutral.
Format the response as a JSON object with keys for "sentiment" and "score".

Text to analyze: "%s"`, text)
}

// sentimentPayload промежуточная структура для разбора JSON из ответа модели
// Score указатель, чтобы отличать отсутствие поля от нулевого значения
type sentimentPayload struct {
	Sentiment string   `json:"sentiment"`
	Score     *float64 `json:"score"`
}

func (p *sentimentPayload) valid() bool {
	return p.Sentiment != "" && p.Score != nil
}

// parseSentimentOutput разбирает сырой ответ модели в типизированный результат
func parseSentimentOutput(raw string) entity.SentimentAnalysis {
	// Ярус 1: весь ответ является валидным JSON-объектом
	var payload sentimentPayload
	if err := json.Unmarshal([]byte(raw), &payload); err == nil && payload.valid() {
		return entity.SentimentAnalysis{
			Sentiment: payload.Sentiment,
			Score:     clampScore(*payload.Score),
			RawOutput: raw,
		}
	}

	// Ярус 2: JSON-объект обернут в пояснительный текст или markdown
	if fragment, ok := extractJSONObject(raw); ok {
		var embedded sentimentPayload
		if err := json.Unmarshal([]byte(fragment), &embedded); err == nil && embedded.valid() {
			metrics.SentimentFallbacks.WithLabelValues("embedded_json").Inc()
			return entity.SentimentAnalysis{
				Sentiment: embedded.Sentiment,
				Score:     clampScore(*embedded.Score),
				RawOutput: raw,
			}
		}
	}

	// Ярус 3: эвристика по ключевым словам и первому числу в тексте
	metrics.SentimentFallbacks.WithLabelValues("heuristic").Inc()

	lower := strings.ToLower(raw)
	sentiment := entity.SentimentNeutral
	if strings.Contains(lower, "positive") {
		sentiment = entity.SentimentPositive
	} else if strings.Contains(lower, "negative") {
		sentiment = entity.SentimentNegative
	}

	var score float64
	if match := scorePattern.FindString(raw); match != "" {
		if parsed, err := strconv.ParseFloat(match, 64); err == nil {
			score = parsed
		}
	}

	return entity.SentimentAnalysis{
		Sentiment: sentiment,
		Score:     clampScore(score),
		RawOutput: raw,
	}
}

// extractJSONObject вырезает фрагмент от первой { до последней }
func extractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// clampScore ограничивает оценку диапазоном [-1, 1]
// Эвристика может выхватить постороннее число из текста ответа
func clampScore(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
