package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-ordering/services"
	"github.com/yeremiapane/table-ordering/utils"
)

type MenuController struct {
	Menus *services.MenuService
}

func NewMenuController(menus *services.MenuService) *MenuController {
	return &MenuController{Menus: menus}
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	restaurant, ok := restaurantScope(c, false)
	if !ok {
		return
	}
	var req services.MenuInput
	if !bindJSON(c, &req) {
		return
	}

	menu, err := mc.Menus.Create(c.Request.Context(), restaurant, req)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu created successfully", menu)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	restaurant, ok := restaurantScope(c, false)
	if !ok {
		return
	}
	var req struct {
		ID uint `json:"id" binding:"required"`
		services.MenuInput
	}
	if !bindJSON(c, &req) {
		return
	}

	menu, err := mc.Menus.Update(c.Request.Context(), restaurant, req.ID, req.MenuInput)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

func (mc *MenuController) DeleteMenu(c *gin.Context) {
	restaurant, ok := restaurantScope(c, false)
	if !ok {
		return
	}
	id, err := parseID(c.Query("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := mc.Menus.Delete(c.Request.Context(), restaurant, id); err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", nil)
}
