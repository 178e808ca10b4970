package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/table-ordering/events"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/utils"
	"gorm.io/gorm"
)

type ReviewInput struct {
	RestaurantID string `json:"restaurantID"`
	Rating       *int   `json:"rating"`
	Comment      string `json:"comment"`
	SessionID    string `json:"sessionId"`
}

type ReviewStats struct {
	TotalReviews       int         `json:"totalReviews"`
	AverageRating      float64     `json:"averageRating"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

type ReviewSummary struct {
	Reviews []models.Review `json:"reviews"`
	Stats   ReviewStats     `json:"stats"`
}

type ReviewService struct {
	DB *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{DB: db}
}

func (s *ReviewService) Submit(ctx context.Context, in ReviewInput) (*models.Review, error) {
	if in.RestaurantID == "" || in.Rating == nil {
		return nil, utils.ValidationError("Restaurant ID and rating are required")
	}
	if *in.Rating < 1 || *in.Rating > 5 {
		return nil, ErrRatingRange
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("restaurant_id = ?", in.RestaurantID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrRestaurantNotFound
	}

	review := models.Review{
		RestaurantID: in.RestaurantID,
		Rating:       *in.Rating,
		Comment:      strings.TrimSpace(in.Comment),
	}
	if in.SessionID != "" {
		sid := in.SessionID
		review.SessionID = &sid
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return enqueueEvent(tx, events.ReviewSubmitted, review.RestaurantID, strconv.Itoa(int(review.ID)), events.ReviewPayload{
			ReviewID:  review.ID,
			Rating:    review.Rating,
			SessionID: in.SessionID,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}

	utils.Info().WithFields(logrus.Fields{"restaurant": review.RestaurantID, "session": in.SessionID, "rating": review.Rating}).Info("review submitted")
	return &review, nil
}

// Stats averages to one decimal place and always reports all five buckets.
func Stats(reviews []models.Review) ReviewStats {
	stats := ReviewStats{RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	if len(reviews) == 0 {
		return stats
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		stats.RatingDistribution[r.Rating]++
	}
	stats.TotalReviews = len(reviews)
	stats.AverageRating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	return stats
}

func (s *ReviewService) List(ctx context.Context, restaurant string) (*ReviewSummary, error) {
	var reviews []models.Review
	if err := s.DB.WithContext(ctx).
		Where("restaurant_id = ?", restaurant).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return &ReviewSummary{Reviews: reviews, Stats: Stats(reviews)}, nil
}

func (s *ReviewService) Delete(ctx context.Context, restaurant string, id uint) error {
	res := s.DB.WithContext(ctx).
		Where("restaurant_id = ? AND id = ?", restaurant, id).
		Delete(&models.Review{})
	if res.Error != nil {
		return fmt.Errorf("delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
