package services

import "github.com/yeremiapane/table-ordering/utils"

var (
	ErrMissingTableInfo = utils.ValidationError("Missing table information")

	ErrTableNotFound  = utils.NewError(utils.KindNotFound, "Table not found")
	ErrTableLocked    = utils.NewError(utils.KindForbidden, "Table is locked by staff")
	ErrTableInUse     = utils.NewError(utils.KindConflict, "Table is already in use by another person.")
	ErrTableBusy      = utils.NewError(utils.KindConflict, "Cannot lock table while there are pending orders or staff calls.")
	ErrTableChanged   = utils.NewError(utils.KindConflict, "Table was claimed while it was being updated, please retry.")
	ErrTableHasGuests = utils.NewError(utils.KindConflict, "Cannot delete a table with an open session.")
	ErrTableExists    = utils.NewError(utils.KindConflict, "Table username already exists")
	ErrTableNotActive = utils.NewError(utils.KindInvalidState, "Table is not active")

	ErrOrderNotFound       = utils.NewError(utils.KindNotFound, "Order not found")
	ErrOrderTerminal       = utils.NewError(utils.KindInvalidState, "Order is already closed")
	ErrOrderNotRequest     = utils.NewError(utils.KindInvalidState, "Order was already accepted")
	ErrOrderNotAccepted    = utils.NewError(utils.KindInvalidState, "Order has not been accepted yet")
	ErrOrderInKitchen      = utils.NewError(utils.KindInvalidState, "Order is already being prepared")
	ErrInvalidOrderAction  = utils.ValidationError("Invalid action")
	ErrTableNotOrderable   = utils.ValidationError("Table is not available for ordering")
	ErrOrderForeignSession = utils.NewError(utils.KindForbidden, "Order does not belong to this session")
	ErrLoginRequired       = utils.NewError(utils.KindUnauthorized, "Please sign in to place an order")

	ErrStaffCallNotFound = utils.NewError(utils.KindNotFound, "Staff call not found")

	ErrReviewNotFound = utils.NewError(utils.KindNotFound, "Review not found")
	ErrRatingRange    = utils.ValidationError("Rating must be between 1 and 5")

	ErrRestaurantNotFound  = utils.NewError(utils.KindNotFound, "Restaurant not found")
	ErrRestaurantExists    = utils.ValidationError("Restaurant username or email already exists")
	ErrSuperAdminProtected = utils.NewError(utils.KindForbidden, "The superadmin account cannot be modified")
	ErrMenuNotFound        = utils.NewError(utils.KindNotFound, "Menu item not found")

	ErrInvalidCredentials = utils.NewError(utils.KindUnauthorized, "Invalid credentials")
	ErrAccountInactive    = utils.NewError(utils.KindForbidden, "Account is deactivated")
)
