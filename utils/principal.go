package utils

import (
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Principal is the authenticated caller attached to a request.
type Principal struct {
	ID                 uint
	Role               string
	RestaurantUsername string
}

func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
	c.Set("user_id", p.ID)
	c.Set("role", p.Role)
}

// PrincipalFrom returns the request principal, or nil for anonymous callers.
func PrincipalFrom(c *gin.Context) *Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*Principal)
	return p
}

func (p *Principal) HasRole(roles ...string) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
