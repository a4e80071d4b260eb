package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"store-service/internal/service"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Register creates a customer account --> POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var in service.RegisterInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid request payload"})
	}

	user, err := h.userService.Register(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// CreateManager creates a manager account --> POST /auth/create-manager (admin only)
func (h *AuthHandler) CreateManager(c echo.Context) error {
	var in service.RegisterInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid request payload"})
	}

	user, err := h.userService.CreateManager(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login issues a bearer token --> POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid request payload"})
	}

	token, err := h.userService.Login(c.Request().Context(), in.Username, in.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"access": token})
}
