package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"storefront/models"
	"storefront/store"
)

type feedbackAuthor struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type feedbackData struct {
	ID        string         `json:"_id"`
	ProductID string         `json:"productId"`
	User      feedbackAuthor `json:"userId"`
	Feedback  string         `json:"feedback"`
	Rate      int            `json:"rate"`
	CreatedAt time.Time      `json:"createdAt"`
}

// AddFeedbackHandler must run behind CheckLoginMiddleware. The product id is only checked for
// format; feedback on a product that does not exist is still stored.
func AddFeedbackHandler(c *gin.Context, feedbacks *store.FeedbackStore) {
	const failed = "Failed to add feedback on product."

	userID := c.GetString("UserID")

	var feedbackReq struct {
		ProductID string `json:"productId"`
		Feedback  string `json:"feedback"`
		Rate      int    `json:"rate"`
	}
	if err := c.ShouldBindJSON(&feedbackReq); err != nil {
		zap.L().Info("bind feedback", zap.Error(err))
		c.String(http.StatusBadRequest, failed)
		return
	}

	feedbackReq.ProductID = strings.TrimSpace(feedbackReq.ProductID)
	if feedbackReq.ProductID == "" || strings.TrimSpace(feedbackReq.Feedback) == "" || feedbackReq.Rate == 0 {
		c.String(http.StatusBadRequest, "Missing required fields: productId, feedback, or rate.")
		return
	}

	feedback := models.Feedback{
		ProductID: feedbackReq.ProductID,
		UserID:    userID,
		Text:      feedbackReq.Feedback,
		Rate:      feedbackReq.Rate,
	}
	if err := feedbacks.Create(c, &feedback); err != nil {
		zap.L().Error("create feedback",
			zap.String("product_id", feedbackReq.ProductID),
			zap.String("user_id", userID),
			zap.Error(err))
		c.String(http.StatusBadRequest, failed)
		return
	}

	c.String(http.StatusOK, "Feedback on product added successfully.")
}

// GetFeedbacksHandler answers 404 when the product has no feedback at all.
func GetFeedbacksHandler(c *gin.Context, feedbacks *store.FeedbackStore) {
	productID := c.Param("productId")

	list, err := feedbacks.ListForProduct(c, productID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidID):
			c.String(http.StatusBadRequest, "Invalid productId format.")
		case errors.Is(err, store.ErrNotFound):
			c.String(http.StatusNotFound, "No feedback found for this product.")
		default:
			zap.L().Error("list feedback", zap.String("product_id", productID), zap.Error(err))
			c.String(http.StatusInternalServerError, "Error fetching feedbacks.")
		}
		return
	}

	feedbacksData := make([]feedbackData, len(list))
	for i, feedback := range list {
		feedbacksData[i] = feedbackData{
			ID:        feedback.ID,
			ProductID: feedback.ProductID,
			User: feedbackAuthor{
				ID:   feedback.User.ID,
				Name: feedback.User.Name,
			},
			Feedback:  feedback.Text,
			Rate:      feedback.Rate,
			CreatedAt: feedback.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, feedbacksData)
}
