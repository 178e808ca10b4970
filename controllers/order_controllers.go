package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-ordering/services"
	"github.com/yeremiapane/table-ordering/utils"
)

type OrderController struct {
	Orders  *services.OrderService
	History *services.HistoryService
}

func NewOrderController(orders *services.OrderService, history *services.HistoryService) *OrderController {
	return &OrderController{Orders: orders, History: history}
}

func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var req services.PlaceOrderInput
	if !bindJSON(c, &req) {
		return
	}

	order, err := oc.Orders.Place(c.Request.Context(), req, utils.PrincipalFrom(c))
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

func (oc *OrderController) CancelOrder(c *gin.Context) {
	var req struct {
		OrderID   uint   `json:"orderId"`
		SessionID string `json:"sessionId"`
	}
	if !bindJSON(c, &req) {
		return
	}

	order, err := oc.Orders.Cancel(c.Request.Context(), req.OrderID, req.SessionID)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// SessionOrders -> the customer's own orders for this visit
func (oc *OrderController) SessionOrders(c *gin.Context) {
	orders, err := oc.Orders.ListForSession(c.Request.Context(), c.Query("restaurantID"), c.Query("sessionId"))
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session orders", orders)
}

func (oc *OrderController) OrderAction(c *gin.Context) {
	restaurant, ok := restaurantScope(c, false)
	if !ok {
		return
	}
	var req struct {
		OrderID uint   `json:"orderID" binding:"required"`
		Action  string `json:"action" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	order, err := oc.Orders.Action(c.Request.Context(), restaurant, req.OrderID, req.Action)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// AdminFeed -> polled by the dashboard every few seconds
func (oc *OrderController) AdminFeed(c *gin.Context) {
	restaurant, ok := restaurantScope(c, true)
	if !ok {
		return
	}
	feed, err := oc.History.Feed(c.Request.Context(), restaurant)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders", feed)
}
