package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-ordering/services"
	"github.com/yeremiapane/table-ordering/utils"
)

type SuperAdminController struct {
	Restaurants *services.RestaurantService
}

func NewSuperAdminController(restaurants *services.RestaurantService) *SuperAdminController {
	return &SuperAdminController{Restaurants: restaurants}
}

func (sc *SuperAdminController) ListRestaurants(c *gin.Context) {
	list, err := sc.Restaurants.ListRestaurants(c.Request.Context())
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurants", list)
}

func (sc *SuperAdminController) CreateRestaurant(c *gin.Context) {
	var req services.NewRestaurant
	if !bindJSON(c, &req) {
		return
	}
	created, err := sc.Restaurants.CreateRestaurant(c.Request.Context(), req)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", created)
}

// UpdateRestaurant -> {action: activate|deactivate}
func (sc *SuperAdminController) UpdateRestaurant(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Action string `json:"action" binding:"required,oneof=activate deactivate"`
	}
	if !bindJSON(c, &req) {
		return
	}

	account, err := sc.Restaurants.SetAccountActive(c.Request.Context(), id, req.Action == "activate")
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", account)
}

func (sc *SuperAdminController) DeleteRestaurant(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := sc.Restaurants.DeleteRestaurant(c.Request.Context(), id); err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", nil)
}
