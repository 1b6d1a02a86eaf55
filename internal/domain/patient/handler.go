package patient

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gouthelper/gouthelper/internal/platform/auth"
	"github.com/gouthelper/gouthelper/internal/platform/rules"
	"github.com/gouthelper/gouthelper/pkg/clinical"
	"github.com/gouthelper/gouthelper/pkg/pagination"
	"github.com/gouthelper/gouthelper/pkg/validate"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)

	api.POST("/providers/:username/patients", h.CreateProviderPatient)
	api.GET("/providers/:username/patients", h.ListProviderPatients)
}

// CreateRequest wraps the edit payload with the optional provider binding
// an admin supplies when creating on a provider's behalf.
type CreateRequest struct {
	Edit
	ProviderID *uuid.UUID `json:"provider_id,omitempty"`
}

// CreatePatient creates an unbound pseudopatient. Anyone may do this,
// including anonymous visitors; the record stays world-editable until a
// provider or creator claims it.
func (h *Handler) CreatePatient(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor := auth.ActorFromContext(c.Request().Context())
	p, err := h.svc.Create(c.Request().Context(), actorIDOf(actor), clinical.RolePseudopatient, nil, req.Edit)
	if err != nil {
		if errs, ok := validate.AsErrors(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": errs})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

// CreateProviderPatient creates a pseudopatient bound to a provider. The
// provider creates for themself; an admin passes the provider's id in the
// body.
func (h *Handler) CreateProviderPatient(c echo.Context) error {
	username := c.Param("username")
	actor := auth.ActorFromContext(c.Request().Context())

	target := rules.ForUser(actor.ID, username, clinical.RoleProvider)
	if err := auth.Authorize(c, rules.ActionAddProviderPatient, target); err != nil {
		return err
	}

	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	providerID := req.ProviderID
	if actor.Role == clinical.RoleProvider {
		id := actor.ID
		providerID = &id
	}
	if providerID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "provider_id is required")
	}

	p, err := h.svc.Create(c.Request().Context(), actorIDOf(actor), clinical.RolePseudopatient, providerID, req.Edit)
	if err != nil {
		if errs, ok := validate.AsErrors(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": errs})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	target, err := h.resolveTarget(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(c, rules.ActionViewPatient, target); err != nil {
		return err
	}
	profile, err := h.svc.Profile(c.Request().Context(), target.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	target, err := h.resolveTarget(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(c, rules.ActionChangePatient, target); err != nil {
		return err
	}

	var edit Edit
	if err := c.Bind(&edit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor := auth.ActorFromContext(c.Request().Context())
	p, err := h.svc.Update(c.Request().Context(), actorIDOf(actor), target.ID, edit)
	if err != nil {
		if errs, ok := validate.AsErrors(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": errs})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	target, err := h.resolveTarget(c)
	if err != nil {
		return err
	}
	if err := auth.Authorize(c, rules.ActionDeletePatient, target); err != nil {
		return err
	}
	actor := auth.ActorFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), actorIDOf(actor), target.ID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListProviderPatients lists the patients bound to a provider, ordered by
// alias. Only the provider themself or an admin may list.
func (h *Handler) ListProviderPatients(c echo.Context) error {
	username := c.Param("username")
	actor := auth.ActorFromContext(c.Request().Context())

	target := rules.ForUser(actor.ID, username, clinical.RoleProvider)
	if actor.Username != username {
		target = rules.ForUser(uuid.Nil, username, clinical.RoleProvider)
	}
	if err := auth.Authorize(c, rules.ActionViewUser, target); err != nil {
		return err
	}

	providerID := actor.ID
	if pid := c.QueryParam("provider_id"); pid != "" {
		id, err := uuid.Parse(pid)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid provider_id")
		}
		providerID = id
	}

	pg := pagination.FromContext(c)
	patients, total, err := h.svc.ListByProvider(c.Request().Context(), providerID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, pg.Limit, pg.Offset))
}

func (h *Handler) resolveTarget(c echo.Context) (rules.Target, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return rules.NoTarget(), echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	ref, err := h.svc.Ref(c.Request().Context(), id)
	if err != nil {
		return rules.NoTarget(), echo.NewHTTPError(http.StatusInternalServerError, "resolve patient")
	}
	if ref == nil {
		return rules.NoTarget(), nil
	}
	return rules.ForPatient(*ref), nil
}

func actorIDOf(actor rules.Actor) *uuid.UUID {
	if actor.Anonymous {
		return nil
	}
	id := actor.ID
	return &id
}
