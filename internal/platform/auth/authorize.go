package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gouthelper/gouthelper/internal/platform/rules"
	"github.com/gouthelper/gouthelper/pkg/validate"
)

// Authorize checks the request's actor against an action and target, and
// converts a denial into the HTTP error the handler should return. Denials
// against targets the actor may not know exist surface as 404 rather
// than 403.
func Authorize(c echo.Context, action rules.Action, target rules.Target) error {
	actor := ActorFromContext(c.Request().Context())
	decision := rules.Decide(action, actor, target)
	if decision.Allowed {
		return nil
	}
	if decision.Code == validate.CodeNotFound {
		return echo.NewHTTPError(http.StatusNotFound, decision.Reason)
	}
	return echo.NewHTTPError(http.StatusForbidden, decision.Reason)
}
