package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-ordering/services"
	"github.com/yeremiapane/table-ordering/utils"
)

// claim conflicts surface as 403 so the second diner sees "table in use"
var claimStatus = map[utils.ErrorKind]int{utils.KindConflict: http.StatusForbidden}

// pending orders or calls block an admin lock with 400
var lockStatus = map[utils.ErrorKind]int{utils.KindConflict: http.StatusBadRequest}

type TableController struct {
	Tables        *services.TableService
	PublicBaseURL string
}

func NewTableController(tables *services.TableService, publicBaseURL string) *TableController {
	return &TableController{Tables: tables, PublicBaseURL: publicBaseURL}
}

type tableRequest struct {
	Table        string `json:"table"`
	RestaurantID string `json:"restaurantID"`
	SessionID    string `json:"sessionId"`
}

// ClaimTable -> binds the caller's session token to a table
func (tc *TableController) ClaimTable(c *gin.Context) {
	var req tableRequest
	if !bindJSON(c, &req) {
		return
	}

	table, err := tc.Tables.Claim(c.Request.Context(), req.RestaurantID, req.Table, req.SessionID)
	if err != nil {
		utils.RespondServiceError(c, err, claimStatus)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table claimed", table)
}

// LockTable -> customer logout, always closes the session
func (tc *TableController) LockTable(c *gin.Context) {
	var req tableRequest
	if !bindJSON(c, &req) {
		return
	}

	table, err := tc.Tables.ReleaseOnLogout(c.Request.Context(), req.RestaurantID, req.Table)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table locked", table)
}

func (tc *TableController) ListTables(c *gin.Context) {
	restaurant, ok := restaurantScope(c, true)
	if !ok {
		return
	}
	tables, err := tc.Tables.List(c.Request.Context(), restaurant)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) CreateTable(c *gin.Context) {
	restaurant, ok := restaurantScope(c, false)
	if !ok {
		return
	}
	var req struct {
		Name     string `json:"name" binding:"required"`
		Username string `json:"username" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	table, err := tc.Tables.Create(c.Request.Context(), restaurant, req.Name, req.Username)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// UpdateTable -> admin lock/unlock
func (tc *TableController) UpdateTable(c *gin.Context) {
	restaurant, ok := restaurantScope(c, false)
	if !ok {
		return
	}
	var req struct {
		ID       uint  `json:"id" binding:"required"`
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	table, err := tc.Tables.SetActive(c.Request.Context(), restaurant, req.ID, *req.IsActive)
	if err != nil {
		utils.RespondServiceError(c, err, lockStatus)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	restaurant, ok := restaurantScope(c, false)
	if !ok {
		return
	}
	id, err := parseID(c.Query("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := tc.Tables.Delete(c.Request.Context(), restaurant, id); err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", nil)
}

// TableQRCode -> PNG pointing customers at the table's menu page
func (tc *TableController) TableQRCode(c *gin.Context) {
	restaurant, ok := restaurantScope(c, false)
	if !ok {
		return
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Get(c.Request.Context(), restaurant, id)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	png, err := services.TableQRCode(tc.PublicBaseURL, restaurant, table.Username)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
