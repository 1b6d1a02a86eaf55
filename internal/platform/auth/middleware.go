package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gouthelper/gouthelper/internal/platform/rules"
	"github.com/gouthelper/gouthelper/pkg/clinical"
)

type contextKey string

const actorKey contextKey = "actor"

// Claims carries the identity fields the server mints into its tokens.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     int    `json:"role"`
}

// Middleware resolves the Authorization header into a rules.Actor on the
// request context. Requests without a token proceed as the anonymous actor;
// some records are world-viewable, so authentication is resolved here and
// enforced per action by Authorize. A token that is present but invalid is
// rejected outright.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(withActor(c, rules.Anonymous()))
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			actorID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}
			role := clinical.Role(claims.Role)
			if !role.Valid() {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token role")
			}

			actor := rules.Actor{
				ID:       actorID,
				Username: claims.Username,
				Role:     role,
			}
			c.Set("actor_username", actor.Username)
			return next(withActor(c, actor))
		}
	}
}

func withActor(c echo.Context, actor rules.Actor) echo.Context {
	ctx := context.WithValue(c.Request().Context(), actorKey, actor)
	c.SetRequest(c.Request().WithContext(ctx))
	return c
}

// ActorFromContext returns the actor resolved by Middleware, or the
// anonymous actor when none was set.
func ActorFromContext(ctx context.Context) rules.Actor {
	if actor, ok := ctx.Value(actorKey).(rules.Actor); ok {
		return actor
	}
	return rules.Anonymous()
}

// MintToken signs an HS256 token for the given user, valid for ttl.
func MintToken(secret []byte, userID uuid.UUID, username string, role clinical.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: username,
		Role:     int(role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
