package api

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"store-service/internal/entity"
	"store-service/internal/service"
)

// NewAuthMiddleware returns the bearer-token middleware. Routes wrapped by
// it require a valid token; role checks layer on top.
func NewAuthMiddleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.AuthClaims)
		},
	})
}

func claimsFrom(c echo.Context) *service.AuthClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*service.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// currentUserID returns the authenticated caller's id; cart, wishlist and
// order handlers scope every query by it.
func currentUserID(c echo.Context) int {
	if claims := claimsFrom(c); claims != nil {
		return claims.UserID
	}
	return 0
}

func requireRole(roles ...string) echo.MiddlewareFunc {
	allowed := map[string]bool{}
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := claimsFrom(c)
			if claims == nil || !allowed[claims.Role] {
				return c.JSON(http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
			}
			return next(c)
		}
	}
}

// RequireManager gates catalog/promo/report/image mutations.
func RequireManager() echo.MiddlewareFunc {
	return requireRole(entity.RoleManager, entity.RoleAdmin)
}

// RequireAdmin gates manager-account creation.
func RequireAdmin() echo.MiddlewareFunc {
	return requireRole(entity.RoleAdmin)
}
