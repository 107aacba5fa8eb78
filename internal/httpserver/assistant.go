package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zenirmoveis/assistant/internal/llm"
	"github.com/zenirmoveis/assistant/internal/service"
	"github.com/zenirmoveis/assistant/internal/transport"
	"github.com/zenirmoveis/assistant/pkg/logging"
)

const (
	detailUpstream  = "error calling the LLM API"
	detailIntegrity = "Database integrity error."
	detailStorage   = "Database error."
	detailInternal  = "Internal server error."
)

type AssistantHTTP struct {
	Sentiment *service.SentimentService
	Recovery  *service.RecoveryService
}

func (h *AssistantHTTP) AnalyzeSentiment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "assistant.sentiment")

	var req transport.SentimentRequest
	if resp, fe := decode(c, &req); resp != nil || fe != nil {
		l.Warn("sentiment_failed", "status", 400, "reason", "invalid body")
		return badRequest(c, resp, fe)
	}
	if fe := req.Validate(); fe != nil {
		l.Warn("sentiment_failed", "status", 400, "reason", "validation", "fields", fe)
		return c.JSON(http.StatusBadRequest, fe)
	}

	res, err := h.Sentiment.Analyze(ctx, req.Text.Value)
	if err != nil {
		if errors.Is(err, llm.ErrUpstream) {
			l.Error("sentiment_failed", "status", 502, "reason", "llm call failed", "error", err)
			return c.JSON(http.StatusBadGateway, transport.ErrorResponse{
				Detail: detailUpstream,
				Error:  llm.Describe(err),
			})
		}
		if errors.Is(err, service.ErrValidation) {
			l.Warn("sentiment_failed", "status", 400, "reason", "validation", "error", err)
			return c.JSON(http.StatusBadRequest, transport.FieldErrors{"text": {transport.MsgBlank}})
		}
		l.Error("sentiment_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Detail: detailInternal})
	}

	l.Info("sentiment_success", "sentiment", res.Sentiment, "model", res.Model)
	return c.JSON(http.StatusOK, transport.SentimentResponse{Sentiment: res.Sentiment})
}

func (h *AssistantHTTP) RecoverCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "assistant.cart_recovery")

	var req transport.CartRecoveryRequest
	if resp, fe := decode(c, &req); resp != nil || fe != nil {
		l.Warn("cart_recovery_failed", "status", 400, "reason", "invalid body")
		return badRequest(c, resp, fe)
	}
	if fe := req.Validate(); fe != nil {
		l.Warn("cart_recovery_failed", "status", 400, "reason", "validation", "fields", fe)
		return c.JSON(http.StatusBadRequest, fe)
	}

	res, err := h.Recovery.Recover(ctx, service.RecoveryInput{
		ClientID:           req.ClientID.Value,
		ClientName:         req.ClientName.Value,
		Email:              req.Email.Value,
		ProductDescription: req.ProductDescription.Value,
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrIntegrity):
		l.Warn("cart_recovery_failed", "status", 400, "reason", "integrity violation", "client_id", req.ClientID.Value, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Detail: detailIntegrity, Error: err.Error()})
	case errors.Is(err, llm.ErrUpstream) && res != nil:
		l.Error("cart_recovery_failed", "status", 502, "reason", "llm call failed",
			"client_id", res.ClientID, "product_id", res.ProductID, "error", err)
		return c.JSON(http.StatusBadGateway, transport.UpstreamErrorResponse{
			Detail:    detailUpstream,
			Error:     llm.Describe(err),
			ClientID:  res.ClientID,
			ProductID: res.ProductID,
		})
	case errors.Is(err, service.ErrValidation):
		l.Warn("cart_recovery_failed", "status", 400, "reason", "validation", "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Detail: err.Error()})
	case errors.Is(err, service.ErrStorage):
		l.Error("cart_recovery_failed", "status", 500, "reason", "storage", "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Detail: detailStorage, Error: err.Error()})
	default:
		l.Error("cart_recovery_failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Detail: detailInternal})
	}

	l.Info("cart_recovery_success", "client_id", res.ClientID, "product_id", res.ProductID, "client_created", res.ClientCreated)
	return c.JSON(http.StatusOK, transport.CartRecoveryResponse{
		CopyText:  res.CopyText,
		ClientID:  res.ClientID,
		ProductID: res.ProductID,
	})
}

// decode reads the request body into dst. It returns a ready error payload
// for unreadable or malformed bodies, or field errors for non-object JSON.
func decode(c echo.Context, dst any) (*transport.ErrorResponse, transport.FieldErrors) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return &transport.ErrorResponse{Detail: "could not read request body", Error: err.Error()}, nil
	}
	fe, err := transport.Decode(body, dst)
	if err != nil {
		return &transport.ErrorResponse{Detail: err.Error()}, nil
	}
	return nil, fe
}

func badRequest(c echo.Context, resp *transport.ErrorResponse, fe transport.FieldErrors) error {
	if resp != nil {
		return c.JSON(http.StatusBadRequest, resp)
	}
	return c.JSON(http.StatusBadRequest, fe)
}
