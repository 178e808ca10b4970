package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-ordering/middlewares"
	"github.com/yeremiapane/table-ordering/services"
	"github.com/yeremiapane/table-ordering/utils"
)

type UserController struct {
	Accounts *services.AccountService
}

func NewUserController(accounts *services.AccountService) *UserController {
	return &UserController{Accounts: accounts}
}

func (uc *UserController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	token, account, err := uc.Accounts.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":   token,
		"account": account,
	})
}

// GuestLogin -> customer token for diners who do not register
func (uc *UserController) GuestLogin(c *gin.Context) {
	var req struct {
		RestaurantID string `json:"restaurantID"`
		Table        string `json:"table"`
		Name         string `json:"name"`
	}
	if !bindJSON(c, &req) {
		return
	}

	token, customer, err := uc.Accounts.GuestSignIn(c.Request.Context(), req.RestaurantID, req.Table, req.Name)
	if err != nil {
		utils.RespondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Signed in as guest", gin.H{
		"token":    token,
		"customer": customer,
	})
}

func (uc *UserController) Logout(c *gin.Context) {
	uc.Accounts.Logout(middlewares.BearerToken(c))
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}
