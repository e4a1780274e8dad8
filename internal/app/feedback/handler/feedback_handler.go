package handler

import (
	"context"
	"errors"
	"net/http"

	"smartfeedback/internal/app/feedback/entity"
	"smartfeedback/internal/app/feedback/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FeedbackServiceInterface interface {
	SubmitFeedback(ctx context.Context, req *entity.SubmitFeedbackRequest) (*entity.Feedback, error)
	GetAllFeedback(ctx context.Context) ([]entity.Feedback, error)
	GetProductSummaries(ctx context.Context) ([]entity.ProductSummary, error)
}

type FeedbackHandler struct {
	feedbackService FeedbackServiceInterface
	validator       *validator.Validate
}

func NewFeedbackHandler(feedbackService FeedbackServiceInterface) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		validator:       validator.New(),
	}
}

func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	feedbacks, err := h.feedbackService.GetAllFeedback(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Error retrieving feedback data"})
		return
	}

	if feedbacks == nil {
		feedbacks = []entity.Feedback{}
	}

	c.JSON(http.StatusOK, feedbacks)
}

func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req entity.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	feedback, err := h.feedbackService.SubmitFeedback(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrFeedbackRequired) {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Feedback text is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Error:   "Error storing feedback in database",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, entity.SuccessResponse{
		Message: "Feedback submitted successfully",
		Data:    feedback,
	})
}

func (h *FeedbackHandler) GetProductSummaries(c *gin.Context) {
	summaries, err := h.feedbackService.GetProductSummaries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Error generating feedback summaries"})
		return
	}

	if summaries == nil {
		summaries = []entity.ProductSummary{}
	}

	c.JSON(http.StatusOK, summaries)
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			// Точное сообщение про обязательный текст отзыва для фронтенда
			if fieldError.Field() == "Feedback" && fieldError.Tag() == "required" {
				return "Feedback text is required"
			}
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
