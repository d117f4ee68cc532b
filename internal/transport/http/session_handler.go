package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/misrentas/misrentas-backend/internal/service"
	"github.com/misrentas/misrentas-backend/internal/util"
)

type SessionHandler struct {
	sessions *service.SessionService
}

func RegisterSessions(e *echo.Echo, sessions *service.SessionService) {
	handler := &SessionHandler{sessions: sessions}

	group := e.Group("/api/v1/session")
	group.POST("", handler.createGuest)
	group.POST("/admin", handler.createAdmin)
}

// createGuest mints an anonymous session. No credentials are collected.
func (h *SessionHandler) createGuest(c echo.Context) error {
	session, err := h.sessions.NewGuestSession(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to establish session"))
	}
	return c.JSON(http.StatusCreated, util.Data("session", session))
}

func (h *SessionHandler) createAdmin(c echo.Context) error {
	var req struct {
		AccessCode string `json:"access_code"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	session, err := h.sessions.ElevateToAdmin(c.Request().Context(), req.AccessCode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAccessCode) {
			return c.JSON(http.StatusUnauthorized, util.Error("invalid access code"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to establish session"))
	}
	return c.JSON(http.StatusCreated, util.Data("session", session))
}
