package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-ordering/events"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/utils"
)

func TestStaffCallLifecycle(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, "bistro", "T1", false)
	tables := NewTableService(db, nil)
	svc := NewStaffCallService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, "bistro", "T1", "Water please", nil)
	assert.ErrorIs(t, err, ErrTableNotActive)

	_, err = tables.SetActive(ctx, "bistro", table.ID, true)
	require.NoError(t, err)
	_, err = tables.Claim(ctx, "bistro", "T1", "S1")
	require.NoError(t, err)

	customer := &utils.Principal{ID: 4, Role: models.RoleCustomer, RestaurantUsername: "bistro"}
	call, err := svc.Create(ctx, "bistro", "T1", "  ", customer)
	require.NoError(t, err)
	assert.Equal(t, models.StaffCallActive, call.Status)
	assert.Equal(t, models.DefaultStaffCallReason, call.Reason)
	require.NotNil(t, call.SessionID)
	assert.Equal(t, "S1", *call.SessionID)
	require.NotNil(t, call.CustomerID)
	assert.Equal(t, uint(4), *call.CustomerID)

	active, err := svc.ListActive(ctx, "bistro")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	resolved, err := svc.Resolve(ctx, "bistro", call.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StaffCallResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	again, err := svc.Resolve(ctx, "bistro", call.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StaffCallResolved, again.Status)

	active, err = svc.ListActive(ctx, "bistro")
	require.NoError(t, err)
	assert.Empty(t, active)

	var resolvedEvents int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Where("type = ?", events.StaffCallResolved).Count(&resolvedEvents).Error)
	assert.Equal(t, int64(1), resolvedEvents)
}

func TestStaffCallNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStaffCallService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, "bistro", "NOPE", "", nil)
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = svc.Resolve(ctx, "bistro", 404)
	assert.ErrorIs(t, err, ErrStaffCallNotFound)
}

func TestStaffCallOnUnclaimedActiveTable(t *testing.T) {
	db := setupTestDB(t)
	seedTable(t, db, "bistro", "T1", true)

	call, err := NewStaffCallService(db).Create(context.Background(), "bistro", "T1", "Menu", nil)
	require.NoError(t, err)
	assert.Nil(t, call.SessionID)
	assert.Nil(t, call.CustomerID)
}
