package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/alexanderramin/incidentboard/internal/service"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, backend service.Backend, logger *log.Logger) {
	e.GET("/incidencias", listIncidents(backend))
	e.POST("/incidencias", createIncident(backend))
	e.GET("/incidencias/:id", getIncident(backend))
	e.PUT("/incidencias/:id/estado", updateStatus(backend, logger))
	e.GET("/usuarios", listUsers(backend))
	e.POST("/usuarios", createUser(backend))
	e.GET("/usuarios/:id", getUser(backend))
	e.GET("/notificaciones/usuario/:id", listNotifications(backend))
	e.PUT("/notificaciones/:id/leida", markRead(backend))
	e.GET("/healthz", healthz(backend))
}

type statusRequest struct {
	Status string `json:"estado"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func healthz(backend service.Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := backend.ListUsers(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "backend unavailable"})
		}
		return c.NoContent(http.StatusOK)
	}
}

func listIncidents(backend service.Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := backend.ListIncidents(c.Request().Context())
		if err != nil {
			return errorJSON(c, err)
		}
		if list == nil {
			list = []domain.Incident{}
		}
		return c.JSON(http.StatusOK, list)
	}
}

func getIncident(backend service.Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		inc, err := backend.GetIncident(c.Request().Context(), id)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, inc)
	}
}

func createIncident(backend service.Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		var inc domain.Incident
		if err := c.Bind(&inc); err != nil {
			return err
		}
		inc.ID = 0
		if err := backend.CreateIncident(c.Request().Context(), &inc); err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusCreated, inc)
	}
}

func updateStatus(backend service.Backend, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var req statusRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		status, ok := domain.ParseStatus(req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "estado no válido"})
		}

		ctx := c.Request().Context()
		if err := backend.UpdateStatus(ctx, id, status); err != nil {
			return errorJSON(c, err)
		}
		logger.WithFields(log.Fields{
			"incident_id": id,
			"status":      string(status),
			"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
		}).Info("incident status changed")

		// The write is committed; a failed re-read must not look like a
		// failed update to the caller.
		inc, err := backend.GetIncident(ctx, id)
		if err != nil {
			logger.WithError(err).WithField("incident_id", id).Warn("re-reading updated incident")
			return c.NoContent(http.StatusNoContent)
		}
		return c.JSON(http.StatusOK, inc)
	}
}

func listUsers(backend service.Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := backend.ListUsers(c.Request().Context())
		if err != nil {
			return errorJSON(c, err)
		}
		if users == nil {
			users = []domain.User{}
		}
		return c.JSON(http.StatusOK, users)
	}
}

func getUser(backend service.Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		u, err := backend.GetUser(c.Request().Context(), id)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, u)
	}
}

func createUser(backend service.Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		var u domain.User
		if err := c.Bind(&u); err != nil {
			return err
		}
		u.ID = 0
		if err := backend.CreateUser(c.Request().Context(), &u); err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusCreated, u)
	}
}

func listNotifications(backend service.Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := pathID(c)
		if err != nil {
			return err
		}
		list, err := backend.ListNotifications(c.Request().Context(), userID)
		if err != nil {
			return errorJSON(c, err)
		}
		if list == nil {
			list = []domain.Notification{}
		}
		return c.JSON(http.StatusOK, list)
	}
}

func markRead(backend service.Backend) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		if err := backend.MarkNotificationRead(c.Request().Context(), id); err != nil {
			return errorJSON(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// errorJSON maps service errors onto status codes.
func errorJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidUser):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}
