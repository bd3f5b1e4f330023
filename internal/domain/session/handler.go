package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/apperror"
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
	api.POST("/sessions", h.Create)
	api.GET("/sessions/:id", h.Get)
	api.PUT("/sessions/:id", h.Update)
	api.PUT("/sessions/:id/status", h.UpdateStatus)
	api.DELETE("/sessions/:id", h.Delete)
	api.GET("/patients/:id/sessions", h.ListByPatient)
	api.POST("/patients/:id/sessions/generate", h.Generate)
	api.POST("/patients/:id/sessions/merge-check", h.MergeCheck)
}

func (h *Handler) serviceErr(err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

func (h *Handler) Create(c echo.Context) error {
	var sess Session
	if err := c.Bind(&sess); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), auth.ActorFromContext(c.Request().Context()), &sess); err != nil {
		return h.serviceErr(err)
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sess, err := h.svc.Get(c.Request().Context(), id, auth.ActorFromContext(c.Request().Context()))
	if err != nil {
		if _, ok := apperror.As(err); ok {
			return err
		}
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, auth.ActorFromContext(c.Request().Context()), pg.Limit, pg.Offset)
	if err != nil {
		return h.serviceErr(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var sess Session
	if err := c.Bind(&sess); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess.ID = id
	if err := h.svc.Update(c.Request().Context(), auth.ActorFromContext(c.Request().Context()), &sess); err != nil {
		return h.serviceErr(err)
	}
	return c.JSON(http.StatusOK, sess)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateStatus(c.Request().Context(), id, auth.ActorFromContext(c.Request().Context()), req.Status); err != nil {
		return h.serviceErr(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id, auth.ActorFromContext(c.Request().Context())); err != nil {
		return h.serviceErr(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Generate(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	out, err := h.svc.GenerateForPatient(c.Request().Context(), patientID, auth.ActorFromContext(c.Request().Context()), time.Now())
	if err != nil {
		return h.serviceErr(err)
	}
	return c.JSON(http.StatusOK, out)
}

type mergeCheckRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (h *Handler) MergeCheck(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req mergeCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	check, err := h.svc.CheckMerge(c.Request().Context(), patientID, auth.ActorFromContext(c.Request().Context()), req.Date, req.Time)
	if err != nil {
		return h.serviceErr(err)
	}
	return c.JSON(http.StatusOK, check)
}
