package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/utils"
)

func intPtr(v int) *int { return &v }

func TestSubmitReviewValidation(t *testing.T) {
	db := setupTestDB(t)
	seedRestaurant(t, db, "bistro", false)
	svc := NewReviewService(db)

	tests := []struct {
		name string
		in   ReviewInput
		kind utils.ErrorKind
	}{
		{"missing rating", ReviewInput{RestaurantID: "bistro"}, utils.KindValidation},
		{"missing restaurant", ReviewInput{Rating: intPtr(4)}, utils.KindValidation},
		{"rating zero", ReviewInput{RestaurantID: "bistro", Rating: intPtr(0)}, utils.KindValidation},
		{"rating six", ReviewInput{RestaurantID: "bistro", Rating: intPtr(6)}, utils.KindValidation},
		{"unknown restaurant", ReviewInput{RestaurantID: "nowhere", Rating: intPtr(5)}, utils.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.in)
			kind, ok := utils.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestReviewListStatsAndDelete(t *testing.T) {
	db := setupTestDB(t)
	seedRestaurant(t, db, "bistro", false)
	svc := NewReviewService(db)
	ctx := context.Background()

	var last *models.Review
	for _, r := range []int{5, 4, 4} {
		review, err := svc.Submit(ctx, ReviewInput{RestaurantID: "bistro", Rating: intPtr(r), Comment: " nice ", SessionID: "S1"})
		require.NoError(t, err)
		last = review
	}
	assert.Equal(t, "nice", last.Comment)
	require.NotNil(t, last.SessionID)

	summary, err := svc.List(ctx, "bistro")
	require.NoError(t, err)
	assert.Len(t, summary.Reviews, 3)
	assert.Equal(t, 3, summary.Stats.TotalReviews)
	assert.Equal(t, 4.3, summary.Stats.AverageRating)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 2, 5: 1}, summary.Stats.RatingDistribution)

	assert.ErrorIs(t, svc.Delete(ctx, "cafe", last.ID), ErrReviewNotFound)
	require.NoError(t, svc.Delete(ctx, "bistro", last.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "bistro", last.ID), ErrReviewNotFound)
}

func TestStatsEmpty(t *testing.T) {
	stats := Stats(nil)
	assert.Equal(t, 0, stats.TotalReviews)
	assert.Equal(t, 0.0, stats.AverageRating)
	assert.Len(t, stats.RatingDistribution, 5)
}
