package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/utils"
)

var (
	ErrNoPermission = utils.NewError(utils.KindForbidden, "You don't have permission to perform this action")
	ErrNoRestaurant = utils.ValidationError("restaurant query parameter is required")
	errInvalidID    = errors.New("invalid id")
)

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

// restaurantScope resolves which tenant an admin request acts on. Admins are
// pinned to their own restaurant; a superadmin may name one with ?restaurant=
// when readOnly is set.
func restaurantScope(c *gin.Context, readOnly bool) (string, bool) {
	p := utils.PrincipalFrom(c)
	switch {
	case p.HasRole(models.RoleAdmin):
		return p.RestaurantUsername, true
	case p.HasRole(models.RoleSuperAdmin) && readOnly:
		if r := c.Query("restaurant"); r != "" {
			return r, true
		}
		utils.RespondServiceError(c, ErrNoRestaurant, nil)
		return "", false
	default:
		utils.RespondServiceError(c, ErrNoPermission, nil)
		return "", false
	}
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return false
	}
	return true
}
