package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/zenirmoveis/assistant/pkg/middleware/logging"
)

// Request bodies are a handful of short strings.
const maxBodySize = "64K"

func Common(logger *slog.Logger) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		ecM.Recover(),
		ecM.RequestID(),
		loggingmw.RequestLogger(logger),
		ecM.Secure(),
		ecM.BodyLimit(maxBodySize),
	}
}
