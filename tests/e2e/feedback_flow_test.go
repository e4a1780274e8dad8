//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"smartfeedback/internal/app/feedback/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// BaseURL адрес запущенного сервиса, переопределяется через E2E_BASE_URL
var BaseURL = getBaseURL()

func getBaseURL() string {
	if url := os.Getenv("E2E_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func TestFullFeedbackFlow(t *testing.T) {
	client := &http.Client{Timeout: 60 * time.Second}
	product := "e2e-product-" + time.Now().Format("150405.000")

	// Submit
	rating := 4
	submitReq := entity.SubmitFeedbackRequest{
		Name:     "E2E Tester",
		Product:  product,
		Rating:   &rating,
		Feedback: "The battery life is excellent but the screen is too dim outdoors.",
	}
	body, _ := json.Marshal(submitReq)

	resp, err := client.Post(BaseURL+"/api/feedback", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created entity.SuccessResponse
	json.NewDecoder(resp.Body).Decode(&created)
	assert.Equal(t, "Feedback submitted successfully", created.Message)

	// List
	resp, err = client.Get(BaseURL + "/api/feedback")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var feedbacks []entity.Feedback
	json.NewDecoder(resp.Body).Decode(&feedbacks)

	var found *entity.Feedback
	for i := range feedbacks {
		if feedbacks[i].Product == product {
			found = &feedbacks[i]
			break
		}
	}
	require.NotNil(t, found, "submitted feedback should appear in the list")
	assert.NotEmpty(t, found.SentimentAnalysis.Sentiment)
	assert.GreaterOrEqual(t, found.SentimentAnalysis.Score, -1.0)
	assert.LessOrEqual(t, found.SentimentAnalysis.Score, 1.0)

	// Summaries
	resp, err = client.Get(BaseURL + "/api/feedback/summaries")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summaries []entity.ProductSummary
	json.NewDecoder(resp.Body).Decode(&summaries)

	var productSummary *entity.ProductSummary
	for i := range summaries {
		if summaries[i].Product == product {
			productSummary = &summaries[i]
			break
		}
	}
	require.NotNil(t, productSummary, "summaries should include the submitted product")
	assert.GreaterOrEqual(t, productSummary.FeedbackCount, 1)
	// Либо сводка, либо изолированная ошибка генерации, но не оба сразу
	if productSummary.Error == "" {
		assert.NotNil(t, productSummary.Summary)
	} else {
		assert.Nil(t, productSummary.Summary)
	}
}

func TestSubmitValidation(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Post(BaseURL+"/api/feedback", "application/json",
		bytes.NewBufferString(`{"product":"no text"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var response entity.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&response)
	assert.Equal(t, "Feedback text is required", response.Error)
}

func TestHealthEndpoint(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(BaseURL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
