package gout

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
	api.GET("/patients/:id/gout-detail", h.GetDetail)
	api.PUT("/patients/:id/gout-detail", h.SetDetail)
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

func (h *Handler) GetDetail(c echo.Context) error {
	patientID, target, err := h.resolveTarget(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(c, rules.ActionView, target); err != nil {
		return err
	}
	gd, err := h.svc.Get(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no gout detail on file")
	}
	return c.JSON(http.StatusOK, gd)
}

func (h *Handler) SetDetail(c echo.Context) error {
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
	gd, err := h.svc.Set(c.Request().Context(), actorID, patientID, edit)
	if err != nil {
		if errs, ok := validate.AsErrors(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": errs})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, gd)
}
