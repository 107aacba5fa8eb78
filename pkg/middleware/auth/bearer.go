package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/zenirmoveis/assistant/pkg/logging"
	"github.com/zenirmoveis/assistant/pkg/tokens"
)

const SubjectKey = "subject"

type BearerAuth struct {
	JWTSecret []byte
}

func NewBearerAuth(secret []byte) *BearerAuth {
	return &BearerAuth{JWTSecret: secret}
}

func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "bearer_auth")

		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			l.Warn("auth_failed", "status", 401, "reason", "missing bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil {
			reason := "invalid access token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				reason = "access token expired"
			}
			l.Warn("auth_failed", "status", 401, "reason", reason, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, reason)
		}

		c.Set(SubjectKey, claims.Subject)
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
