package medhistory

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gouthelper/gouthelper/internal/platform/auth"
	"github.com/gouthelper/gouthelper/internal/platform/rules"
	"github.com/gouthelper/gouthelper/pkg/clinical"
	"github.com/gouthelper/gouthelper/pkg/validate"
)

// PatientDirectory resolves a patient into the ownership edges the
// permission rules evaluate. Returns nil when the patient does not exist.
type PatientDirectory interface {
	Ref(ctx context.Context, patientID uuid.UUID) (*rules.PatientRef, error)
}

type Handler struct {
	svc      *Service
	patients PatientDirectory
}

func NewHandler(svc *Service, patients PatientDirectory) *Handler {
	return &Handler{svc: svc, patients: patients}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/medical-history", h.ListHistory)
	api.PUT("/patients/:id/medical-history", h.SetHistory)
	api.DELETE("/patients/:id/medical-history/:type", h.RemoveHistory)
}

func (h *Handler) resolveTarget(c echo.Context) (uuid.UUID, rules.Target, error) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, rules.NoTarget(), echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	ref, err := h.patients.Ref(c.Request().Context(), patientID)
	if err != nil {
		return uuid.Nil, rules.NoTarget(), echo.NewHTTPError(http.StatusInternalServerError, "resolve patient")
	}
	if ref == nil {
		return patientID, rules.NoTarget(), nil
	}
	return patientID, rules.ForRecord(patientID, *ref), nil
}

func (h *Handler) ListHistory(c echo.Context) error {
	patientID, target, err := h.resolveTarget(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(c, rules.ActionView, target); err != nil {
		return err
	}
	entries, err := h.svc.List(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) SetHistory(c echo.Context) error {
	patientID, target, err := h.resolveTarget(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(c, rules.ActionChange, target); err != nil {
		return err
	}

	var edit Edit
	if err := c.Bind(&edit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor := auth.ActorFromContext(c.Request().Context())
	var actorID *uuid.UUID
	if !actor.Anonymous {
		id := actor.ID
		actorID = &id
	}
	mh, err := h.svc.Set(c.Request().Context(), actorID, patientID, edit)
	if err != nil {
		if errs, ok := validate.AsErrors(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": errs})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, mh)
}

func (h *Handler) RemoveHistory(c echo.Context) error {
	patientID, target, err := h.resolveTarget(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(c, rules.ActionDelete, target); err != nil {
		return err
	}
	t := clinical.MHType(c.Param("type"))
	if !t.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown condition type")
	}

	actor := auth.ActorFromContext(c.Request().Context())
	var actorID *uuid.UUID
	if !actor.Anonymous {
		id := actor.ID
		actorID = &id
	}
	if err := h.svc.Remove(c.Request().Context(), actorID, patientID, t); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such condition on file")
	}
	return c.NoContent(http.StatusNoContent)
}
