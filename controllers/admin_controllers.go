package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-ordering/services"
	"github.com/yeremiapane/table-ordering/utils"
)

type AdminController struct {
	Restaurants *services.RestaurantService
	History     *services.HistoryService
}

func NewAdminController(restaurants *services.RestaurantService, history *services.HistoryService) *AdminController {
	return &AdminController{Restaurants: restaurants, History: history}
}

// GetDashboard -> profile, menu and tables for the admin home screen
func (ac *AdminController) GetDashboard(c *gin.Context) {
	restaurant, ok := restaurantScope(c, true)
	if !ok {
		return
	}
	dash, err := ac.Restaurants.Dashboard(c.Request.Context(), restaurant)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard", dash)
}

func (ac *AdminController) UpdateProfile(c *gin.Context) {
	restaurant, ok := restaurantScope(c, false)
	if !ok {
		return
	}
	var req services.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}

	profile, err := ac.Restaurants.UpdateProfile(c.Request.Context(), restaurant, req)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile updated", profile)
}

// GetHistory -> sessions grouped by table, ?date=YYYY-MM-DD&table=
func (ac *AdminController) GetHistory(c *gin.Context) {
	restaurant, ok := restaurantScope(c, true)
	if !ok {
		return
	}

	filter := services.HistoryFilter{Table: c.Query("table")}
	if raw := c.Query("date"); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			utils.RespondServiceError(c, utils.ValidationError("date must be YYYY-MM-DD"), nil)
			return
		}
		filter.Date = &day
	}

	history, err := ac.History.History(c.Request.Context(), restaurant, filter)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order history", history)
}
