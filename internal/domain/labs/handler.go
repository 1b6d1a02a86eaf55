package labs

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gouthelper/gouthelper/internal/platform/auth"
	"github.com/gouthelper/gouthelper/internal/platform/rules"
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
	api.GET("/patients/:id/baseline-creatinine", h.GetBaseline)
	api.PUT("/patients/:id/baseline-creatinine", h.SetBaseline)
	api.DELETE("/patients/:id/baseline-creatinine", h.DeleteBaseline)
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

func (h *Handler) GetBaseline(c echo.Context) error {
	patientID, target, err := h.resolveTarget(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(c, rules.ActionView, target); err != nil {
		return err
	}
	bc, err := h.svc.GetBaseline(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no baseline creatinine on file")
	}
	return c.JSON(http.StatusOK, bc)
}

func (h *Handler) SetBaseline(c echo.Context) error {
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
	bc, err := h.svc.SetBaseline(c.Request().Context(), actorIDOf(actor), patientID, edit)
	if err != nil {
		if errs, ok := validate.AsErrors(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": errs})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, bc)
}

func (h *Handler) DeleteBaseline(c echo.Context) error {
	patientID, target, err := h.resolveTarget(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(c, rules.ActionDelete, target); err != nil {
		return err
	}
	actor := auth.ActorFromContext(c.Request().Context())
	if err := h.svc.DeleteBaseline(c.Request().Context(), actorIDOf(actor), patientID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no baseline creatinine on file")
	}
	return c.NoContent(http.StatusNoContent)
}

func actorIDOf(actor rules.Actor) *uuid.UUID {
	if actor.Anonymous {
		return nil
	}
	id := actor.ID
	return &id
}
