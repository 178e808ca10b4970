package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-ordering/services"
	"github.com/yeremiapane/table-ordering/utils"
)

type CustomerController struct {
	Restaurants *services.RestaurantService
}

func NewCustomerController(restaurants *services.RestaurantService) *CustomerController {
	return &CustomerController{Restaurants: restaurants}
}

// GetRestaurantPage -> public menu page, readable even while the table is locked
func (cc *CustomerController) GetRestaurantPage(c *gin.Context) {
	page, err := cc.Restaurants.PublicPage(c.Request.Context(), c.Param("username"))
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant", page)
}
