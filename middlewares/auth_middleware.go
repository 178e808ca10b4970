package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-ordering/utils"
)

const tokenKey = "token"

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

func principalFromToken(tm *utils.TokenManager, token string) (*utils.Principal, error) {
	claims, err := tm.ParseToken(token)
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 || claims.Role == "" {
		return nil, errors.New("Invalid user ID in token")
	}
	return &utils.Principal{
		ID:                 claims.UserID,
		Role:               claims.Role,
		RestaurantUsername: claims.RestaurantUsername,
	}, nil
}

// AuthMiddleware requires a valid bearer token.
func AuthMiddleware(tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			c.Abort()
			return
		}

		p, err := principalFromToken(tm, token)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(tokenKey, token)
		utils.SetPrincipal(c, p)
		c.Next()
	}
}

// OptionalAuth attaches a principal when a valid token is presented and lets
// anonymous requests through. A bad token is treated as anonymous.
func OptionalAuth(tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if p, err := principalFromToken(tm, token); err == nil {
				c.Set(tokenKey, token)
				utils.SetPrincipal(c, p)
			}
		}
		c.Next()
	}
}

// BearerToken returns the token accepted by the auth middleware.
func BearerToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
