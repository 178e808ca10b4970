package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-ordering/services"
	"github.com/yeremiapane/table-ordering/utils"
)

var callStaffStatus = map[utils.ErrorKind]int{utils.KindInvalidState: http.StatusBadRequest}

type StaffCallController struct {
	Calls *services.StaffCallService
}

func NewStaffCallController(calls *services.StaffCallService) *StaffCallController {
	return &StaffCallController{Calls: calls}
}

func (sc *StaffCallController) CallStaff(c *gin.Context) {
	var req struct {
		Table        string `json:"table"`
		RestaurantID string `json:"restaurantID"`
		Reason       string `json:"reason"`
	}
	if !bindJSON(c, &req) {
		return
	}

	call, err := sc.Calls.Create(c.Request.Context(), req.RestaurantID, req.Table, req.Reason, utils.PrincipalFrom(c))
	if err != nil {
		utils.RespondServiceError(c, err, callStaffStatus)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Staff has been notified! Someone will be with you shortly.", call)
}

func (sc *StaffCallController) StaffCallAction(c *gin.Context) {
	restaurant, ok := restaurantScope(c, false)
	if !ok {
		return
	}
	var req struct {
		CallID uint   `json:"callId" binding:"required"`
		Action string `json:"action" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.Action != "resolve" {
		utils.RespondServiceError(c, utils.ValidationError("Invalid action"), nil)
		return
	}

	call, err := sc.Calls.Resolve(c.Request.Context(), restaurant, req.CallID)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Staff call resolved", call)
}
