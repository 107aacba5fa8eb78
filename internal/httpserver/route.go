package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zenirmoveis/assistant/pkg/logging"
	middleware "github.com/zenirmoveis/assistant/pkg/middleware/auth"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	AssistantHandler *AssistantHTTP
	JWTSecret        []byte
	DB               Pinger
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", ready(d.DB))

	authMW := middleware.NewBearerAuth(d.JWTSecret)

	api := e.Group("/api")
	api.Use(authMW.RequireAuth)

	api.POST("/sentiment", d.AssistantHandler.AnalyzeSentiment)
	api.POST("/cart-recovery", d.AssistantHandler.RecoverCart)
}

func ready(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logging.FromContext(ctx).Warn("ready_failed", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	}
}
