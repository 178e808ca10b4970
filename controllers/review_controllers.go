package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-ordering/services"
	"github.com/yeremiapane/table-ordering/utils"
)

type ReviewController struct {
	Reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{Reviews: reviews}
}

func (rc *ReviewController) SubmitReview(c *gin.Context) {
	var req services.ReviewInput
	if !bindJSON(c, &req) {
		return
	}

	review, err := rc.Reviews.Submit(c.Request.Context(), req)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Thank you for your review!", review)
}

func (rc *ReviewController) ListReviews(c *gin.Context) {
	restaurant, ok := restaurantScope(c, true)
	if !ok {
		return
	}
	summary, err := rc.Reviews.List(c.Request.Context(), restaurant)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reviews", summary)
}

func (rc *ReviewController) DeleteReview(c *gin.Context) {
	restaurant, ok := restaurantScope(c, false)
	if !ok {
		return
	}
	id, err := parseID(c.Query("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := rc.Reviews.Delete(c.Request.Context(), restaurant, id); err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Review deleted", nil)
}
