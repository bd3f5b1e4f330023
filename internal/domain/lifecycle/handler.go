package lifecycle

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
	"github.com/clinicdesk/clinicdesk/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients/:id/inactivate", h.SetInactive)
	api.POST("/patients/:id/reactivate", h.Reactivate)
	api.GET("/patients/:id/lifecycle-events", h.ListEvents)
}

type setInactiveRequest struct {
	InactiveAt           *time.Time `json:"inactive_at"`
	Reason               *string    `json:"reason"`
	CancelFutureSessions bool       `json:"cancel_future_sessions"`
	CloseOpenTasks       bool       `json:"close_open_tasks"`
}

func (h *Handler) SetInactive(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req setInactiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	inactiveAt := time.Now()
	if req.InactiveAt != nil {
		inactiveAt = *req.InactiveAt
	}

	result, err := h.svc.SetInactive(c.Request().Context(), SetInactiveParams{
		PatientID:            patientID,
		ActorID:              auth.ActorFromContext(c.Request().Context()),
		InactiveAt:           inactiveAt,
		Reason:               req.Reason,
		CancelFutureSessions: req.CancelFutureSessions,
		CloseOpenTasks:       req.CloseOpenTasks,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type reactivateRequest struct {
	ReactivatedAt *time.Time `json:"reactivated_at"`
	Reason        string     `json:"reason"`
}

func (h *Handler) Reactivate(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req reactivateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reactivatedAt := time.Now()
	if req.ReactivatedAt != nil {
		reactivatedAt = *req.ReactivatedAt
	}

	result, err := h.svc.Reactivate(c.Request().Context(), patientID,
		auth.ActorFromContext(c.Request().Context()), reactivatedAt, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) ListEvents(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListEvents(c.Request().Context(), patientID,
		auth.ActorFromContext(c.Request().Context()), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
