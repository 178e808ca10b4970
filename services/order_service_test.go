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

func TestPlaceOrderCapturesPrices(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedRestaurant(t, db, "bistro", false)
	seedTable(t, db, "bistro", "T1", true)
	steak := seedMenu(t, db, "bistro", "Steak", 10)
	tea := seedMenu(t, db, "bistro", "Tea", 5)

	_, err := NewTableService(db, nil).Claim(ctx, "bistro", "T1", "S1")
	require.NoError(t, err)

	svc := NewOrderService(db)
	order, err := svc.Place(ctx, PlaceOrderInput{
		RestaurantID: "bistro",
		Table:        "T1",
		SessionID:    "S1",
		Products: []OrderLine{
			{MenuID: steak.ID, Quantity: 2},
			{MenuID: tea.ID, Quantity: 1},
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStateActive, order.State)
	assert.Equal(t, 25.0, order.OrderTotal)
	assert.Equal(t, models.PhaseRequest, order.Phase())
	for _, p := range order.Products {
		assert.False(t, p.AdminApproved)
	}

	require.NoError(t, db.Model(steak).Update("price", 99).Error)
	stored, err := svc.load(ctx, db, "bistro", order.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, stored.OrderTotal)
	assert.Equal(t, 10.0, stored.Products[0].Price)
	assert.Equal(t, "Steak", stored.Products[0].Name)
}

func TestPlaceOrderRejections(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedRestaurant(t, db, "bistro", false)
	seedRestaurant(t, db, "members", true)
	seedTable(t, db, "bistro", "T1", true)
	seedTable(t, db, "bistro", "T2", true)
	seedTable(t, db, "members", "M1", true)
	soup := seedMenu(t, db, "bistro", "Soup", 4)
	hidden := models.Menu{RestaurantID: "bistro", Name: "Secret", Price: 1, Hidden: true}
	require.NoError(t, db.Create(&hidden).Error)
	club := seedMenu(t, db, "members", "Club", 8)

	tables := NewTableService(db, nil)
	_, err := tables.Claim(ctx, "bistro", "T1", "S1")
	require.NoError(t, err)
	_, err = tables.Claim(ctx, "members", "M1", "S9")
	require.NoError(t, err)

	line := []OrderLine{{MenuID: soup.ID, Quantity: 1}}
	tests := []struct {
		name      string
		in        PlaceOrderInput
		principal *utils.Principal
		kind      utils.ErrorKind
	}{
		{"no lines", PlaceOrderInput{RestaurantID: "bistro", Table: "T1", SessionID: "S1"}, nil, utils.KindValidation},
		{"zero quantity", PlaceOrderInput{RestaurantID: "bistro", Table: "T1", SessionID: "S1", Products: []OrderLine{{MenuID: soup.ID}}}, nil, utils.KindValidation},
		{"missing session", PlaceOrderInput{RestaurantID: "bistro", Table: "T1", Products: line}, nil, utils.KindValidation},
		{"unclaimed table", PlaceOrderInput{RestaurantID: "bistro", Table: "T2", SessionID: "S1", Products: line}, nil, utils.KindValidation},
		{"not the occupant", PlaceOrderInput{RestaurantID: "bistro", Table: "T1", SessionID: "S2", Products: line}, nil, utils.KindValidation},
		{"hidden item", PlaceOrderInput{RestaurantID: "bistro", Table: "T1", SessionID: "S1", Products: []OrderLine{{MenuID: hidden.ID, Quantity: 1}}}, nil, utils.KindValidation},
		{"unknown restaurant", PlaceOrderInput{RestaurantID: "nowhere", Table: "T1", SessionID: "S1", Products: line}, nil, utils.KindNotFound},
		{"login required", PlaceOrderInput{RestaurantID: "members", Table: "M1", SessionID: "S9", Products: []OrderLine{{MenuID: club.ID, Quantity: 1}}}, nil, utils.KindUnauthorized},
		{"customer of another restaurant", PlaceOrderInput{RestaurantID: "members", Table: "M1", SessionID: "S9", Products: []OrderLine{{MenuID: club.ID, Quantity: 1}}},
			&utils.Principal{ID: 3, Role: models.RoleCustomer, RestaurantUsername: "bistro"}, utils.KindUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrderService(db).Place(ctx, tt.in, tt.principal)
			require.Error(t, err)
			kind, ok := utils.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}

	order, err := NewOrderService(db).Place(ctx, PlaceOrderInput{
		RestaurantID: "members", Table: "M1", SessionID: "S9",
		Products: []OrderLine{{MenuID: club.ID, Quantity: 1}},
	}, &utils.Principal{ID: 3, Role: models.RoleCustomer, RestaurantUsername: "members"})
	require.NoError(t, err)
	require.NotNil(t, order.CustomerID)
	assert.Equal(t, uint(3), *order.CustomerID)
}

func TestOrderActionTransitions(t *testing.T) {
	tests := []struct {
		name    string
		prepare []string
		action  string
		want    error
		state   models.OrderState
	}{
		{"accept request", nil, ActionAccept, nil, models.OrderStateActive},
		{"reject request", nil, ActionReject, nil, models.OrderStateReject},
		{"complete request", nil, ActionComplete, ErrOrderNotAccepted, models.OrderStateActive},
		{"rejectOnActive request", nil, ActionRejectOnActive, ErrOrderNotAccepted, models.OrderStateActive},
		{"accept twice", []string{ActionAccept}, ActionAccept, ErrOrderNotRequest, models.OrderStateActive},
		{"reject accepted", []string{ActionAccept}, ActionReject, ErrOrderNotRequest, models.OrderStateActive},
		{"complete accepted", []string{ActionAccept}, ActionComplete, nil, models.OrderStateComplete},
		{"rejectOnActive accepted", []string{ActionAccept}, ActionRejectOnActive, nil, models.OrderStateReject},
		{"complete completed", []string{ActionAccept, ActionComplete}, ActionComplete, ErrOrderTerminal, models.OrderStateComplete},
		{"accept rejected", []string{ActionReject}, ActionAccept, ErrOrderTerminal, models.OrderStateReject},
		{"unknown action", nil, "refund", ErrInvalidOrderAction, models.OrderStateActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			order := claimedOrder(t, db)
			svc := NewOrderService(db)
			ctx := context.Background()

			for _, a := range tt.prepare {
				_, err := svc.Action(ctx, "bistro", order.ID, a)
				require.NoError(t, err)
			}
			before, err := svc.load(ctx, db, "bistro", order.ID)
			require.NoError(t, err)

			got, err := svc.Action(ctx, "bistro", order.ID, tt.action)
			after, lerr := svc.load(ctx, db, "bistro", order.ID)
			require.NoError(t, lerr)
			assert.Equal(t, tt.state, after.State)

			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.state, got.State)
		})
	}
}

func TestAcceptApprovesAllLines(t *testing.T) {
	db := setupTestDB(t)
	order := claimedOrder(t, db)
	svc := NewOrderService(db)

	got, err := svc.Action(context.Background(), "bistro", order.ID, ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseKitchen, got.Phase())
	for _, p := range got.Products {
		assert.True(t, p.AdminApproved)
	}
	assert.Equal(t, []string{events.TableClaimed, events.OrderCreated, events.OrderTransitioned}, outboxTypes(t, db))
}

func TestOrderActionScopedToRestaurant(t *testing.T) {
	db := setupTestDB(t)
	order := claimedOrder(t, db)

	_, err := NewOrderService(db).Action(context.Background(), "cafe", order.ID, ActionAccept)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancelOrder(t *testing.T) {
	db := setupTestDB(t)
	order := claimedOrder(t, db)
	svc := NewOrderService(db)
	ctx := context.Background()

	_, err := svc.Cancel(ctx, order.ID, "S2")
	assert.ErrorIs(t, err, ErrOrderForeignSession)

	got, err := svc.Cancel(ctx, order.ID, "S1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStateCancel, got.State)

	_, err = svc.Cancel(ctx, order.ID, "S1")
	assert.ErrorIs(t, err, ErrOrderTerminal)
	_, err = svc.Action(ctx, "bistro", order.ID, ActionAccept)
	assert.ErrorIs(t, err, ErrOrderTerminal)
}

func TestCancelRefusedOnceAccepted(t *testing.T) {
	db := setupTestDB(t)
	order := claimedOrder(t, db)
	svc := NewOrderService(db)
	ctx := context.Background()

	_, err := svc.Action(ctx, "bistro", order.ID, ActionAccept)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, order.ID, "S1")
	assert.ErrorIs(t, err, ErrOrderInKitchen)
}

func TestPartitionActive(t *testing.T) {
	orders := []models.Order{
		{ID: 1, State: models.OrderStateActive, Products: []models.OrderProduct{{AdminApproved: true}, {AdminApproved: false}}},
		{ID: 2, State: models.OrderStateActive, Products: []models.OrderProduct{{AdminApproved: true}}},
		{ID: 3, State: models.OrderStateComplete, Products: []models.OrderProduct{{AdminApproved: true}}},
	}
	requests, kitchen := PartitionActive(orders)
	require.Len(t, requests, 1)
	require.Len(t, kitchen, 1)
	assert.Equal(t, uint(1), requests[0].ID)
	assert.Equal(t, uint(2), kitchen[0].ID)
}
