package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-ordering/cache"
	"github.com/yeremiapane/table-ordering/config"
	"github.com/yeremiapane/table-ordering/controllers"
	"github.com/yeremiapane/table-ordering/middlewares"
	"github.com/yeremiapane/table-ordering/models"
	"github.com/yeremiapane/table-ordering/services"
	"github.com/yeremiapane/table-ordering/utils"
	"gorm.io/gorm"
)

// Dependencies are built once in main and shared by every handler.
type Dependencies struct {
	DB     *gorm.DB
	Tokens *utils.TokenManager
	Cache  cache.PageCache
	Config config.Config
}

func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Cache == nil {
		deps.Cache = cache.NopCache{}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.Config.CORSOrigin))
	if deps.Config.RateLimitPerSecond > 0 {
		r.Use(middlewares.NewRateLimiter(float64(deps.Config.RateLimitPerSecond), deps.Config.RateLimitPerSecond).RateLimit())
	}

	tableSvc := services.NewTableService(deps.DB, deps.Cache)
	orderSvc := services.NewOrderService(deps.DB)
	callSvc := services.NewStaffCallService(deps.DB)
	reviewSvc := services.NewReviewService(deps.DB)
	historySvc := services.NewHistoryService(deps.DB)
	restaurantSvc := services.NewRestaurantService(deps.DB, deps.Cache)
	menuSvc := services.NewMenuService(deps.DB, deps.Cache)
	accountSvc := services.NewAccountService(deps.DB, deps.Tokens)

	tableCtrl := controllers.NewTableController(tableSvc, deps.Config.PublicBaseURL)
	orderCtrl := controllers.NewOrderController(orderSvc, historySvc)
	callCtrl := controllers.NewStaffCallController(callSvc)
	reviewCtrl := controllers.NewReviewController(reviewSvc)
	adminCtrl := controllers.NewAdminController(restaurantSvc, historySvc)
	menuCtrl := controllers.NewMenuController(menuSvc)
	userCtrl := controllers.NewUserController(accountSvc)
	customerCtrl := controllers.NewCustomerController(restaurantSvc)
	superCtrl := controllers.NewSuperAdminController(restaurantSvc)

	strict := middlewares.NewStrictRateLimiter()
	// diners at one restaurant often share an IP
	claimLimit := middlewares.NewRateLimiter(1, 10)
	auth := middlewares.AuthMiddleware(deps.Tokens)
	optional := middlewares.OptionalAuth(deps.Tokens)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/login", strict.RateLimit(), userCtrl.Login)
		authGroup.POST("/guest", userCtrl.GuestLogin)
		authGroup.POST("/logout", auth, userCtrl.Logout)

		api.GET("/restaurant/:username", customerCtrl.GetRestaurantPage)

		table := api.Group("/table", optional)
		table.POST("/claim", claimLimit.RateLimit(), tableCtrl.ClaimTable)
		table.POST("/lock", tableCtrl.LockTable)
		table.POST("/call-staff", callCtrl.CallStaff)

		order := api.Group("/order", optional)
		order.POST("/place", orderCtrl.PlaceOrder)
		order.POST("/cancel", orderCtrl.CancelOrder)
		order.GET("/session", orderCtrl.SessionOrders)

		api.POST("/review", reviewCtrl.SubmitReview)
	}

	admin := api.Group("/admin", auth, middlewares.RoleCheck(models.RoleAdmin, models.RoleSuperAdmin))
	{
		admin.GET("", adminCtrl.GetDashboard)
		admin.PUT("/profile", adminCtrl.UpdateProfile)
		admin.GET("/history", adminCtrl.GetHistory)

		admin.GET("/table", tableCtrl.ListTables)
		admin.POST("/table", tableCtrl.CreateTable)
		admin.PUT("/table", tableCtrl.UpdateTable)
		admin.DELETE("/table", tableCtrl.DeleteTable)
		admin.GET("/table/:id/qr", tableCtrl.TableQRCode)

		admin.GET("/order", orderCtrl.AdminFeed)
		admin.POST("/order/action", orderCtrl.OrderAction)
		admin.POST("/staff-calls/action", callCtrl.StaffCallAction)

		admin.GET("/review", reviewCtrl.ListReviews)
		admin.DELETE("/review", reviewCtrl.DeleteReview)

		admin.POST("/menu", menuCtrl.CreateMenu)
		admin.PUT("/menu", menuCtrl.UpdateMenu)
		admin.DELETE("/menu", menuCtrl.DeleteMenu)
	}

	super := api.Group("/superadmin", auth, middlewares.RoleCheck(models.RoleSuperAdmin))
	{
		super.GET("/restaurants", superCtrl.ListRestaurants)
		super.POST("/restaurants", superCtrl.CreateRestaurant)
		super.PATCH("/restaurants/:id", superCtrl.UpdateRestaurant)
		super.DELETE("/restaurants/:id", superCtrl.DeleteRestaurant)
	}

	return r
}
