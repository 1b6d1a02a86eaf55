package ckd

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/gouthelper/gouthelper/internal/platform/auth"
	"github.com/gouthelper/gouthelper/internal/platform/rules"
	"github.com/gouthelper/gouthelper/pkg/clinical"
	"github.com/gouthelper/gouthelper/pkg/validate"
)

// PatientDirectory resolves a patient into the ownership edges the
// permission rules evaluate, plus the facts the CKD validator needs.
// Ref returns nil when the patient does not exist.
type PatientDirectory interface {
	Ref(ctx context.Context, patientID uuid.UUID) (*rules.PatientRef, error)
	Facts(ctx context.Context, patientID uuid.UUID) (age *int, gender *clinical.Gender, err error)
}

// BaselineSource exposes the patient's baseline creatinine, when on file.
type BaselineSource interface {
	BaselineValue(ctx context.Context, patientID uuid.UUID) *decimal.Decimal
}

type Handler struct {
	svc      *Service
	patients PatientDirectory
	labs     BaselineSource
}

func NewHandler(svc *Service, patients PatientDirectory, labs BaselineSource) *Handler {
	return &Handler{svc: svc, patients: patients, labs: labs}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/ckd-detail", h.GetDetail)
	api.PUT("/patients/:id/ckd-detail", h.SetDetail)
	api.DELETE("/patients/:id/ckd-detail", h.DeleteDetail)
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
	cd, err := h.svc.Get(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no CKD detail on file")
	}
	return c.JSON(http.StatusOK, cd)
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

	ctx := c.Request().Context()
	age, gender, err := h.patients.Facts(ctx, patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "resolve patient facts")
	}
	pctx := Context{
		Age:        age,
		Gender:     gender,
		Creatinine: h.labs.BaselineValue(ctx, patientID),
	}

	actor := auth.ActorFromContext(ctx)
	var actorID *uuid.UUID
	if !actor.Anonymous {
		id := actor.ID
		actorID = &id
	}
	cd, err := h.svc.Set(ctx, actorID, patientID, edit, pctx)
	if err != nil {
		if errs, ok := validate.AsErrors(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": errs})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cd)
}

func (h *Handler) DeleteDetail(c echo.Context) error {
	patientID, target, err := h.resolveTarget(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(c, rules.ActionDelete, target); err != nil {
		return err
	}
	actor := auth.ActorFromContext(c.Request().Context())
	var actorID *uuid.UUID
	if !actor.Anonymous {
		id := actor.ID
		actorID = &id
	}
	if err := h.svc.Delete(c.Request().Context(), actorID, patientID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no CKD detail on file")
	}
	return c.NoContent(http.StatusNoContent)
}
