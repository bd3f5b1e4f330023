// Package auth resolves the acting account for a request. Full
// authentication and authorization live upstream; the domain services only
// need the actor id for ownership checks.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const actorKey contextKey = "actor_id"

// ActorFromContext returns the acting account id, or uuid.Nil when the
// request was not authenticated.
func ActorFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(actorKey).(uuid.UUID)
	return id
}

func withActor(c echo.Context, id uuid.UUID) {
	ctx := context.WithValue(c.Request().Context(), actorKey, id)
	c.SetRequest(c.Request().WithContext(ctx))
	c.Set("actor_id", id.String())
}

// JWTMiddleware validates a bearer token signed with the shared secret and
// places the account id from its subject claim into the request context.
func JWTMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, err := token.Claims.GetSubject()
			if err != nil || sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
			}
			actorID, err := uuid.Parse(sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "token subject is not an account id")
			}

			withActor(c, actorID)
			return next(c)
		}
	}
}

// DevAuthMiddleware trusts the X-Account-ID header, for local development
// only.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := c.Request().Header.Get("X-Account-ID"); raw != "" {
				if id, err := uuid.Parse(raw); err == nil {
					withActor(c, id)
				}
			}
			return next(c)
		}
	}
}
