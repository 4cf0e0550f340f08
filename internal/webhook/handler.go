package webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Handler is the HTTP entry point for webhook deliveries: authenticate,
// then dispatch. The sender only ever sees 200, 401, or 500.
type Handler struct {
	verifier *Verifier
	router   *Router
}

// NewHandler creates a webhook Handler.
func NewHandler(verifier *Verifier, router *Router) *Handler {
	return &Handler{verifier: verifier, router: router}
}

// HandleGitHub handles POST /webhook/github.
func (h *Handler) HandleGitHub(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to read request body",
		})
	}

	deliveryID := c.Request().Header.Get("X-GitHub-Delivery")
	if deliveryID == "" {
		// Keep log correlation working even when the sender omits the header.
		deliveryID = uuid.NewString()
	}

	event := InboundEvent{
		Type:       c.Request().Header.Get("X-GitHub-Event"),
		DeliveryID: deliveryID,
		Signature:  c.Request().Header.Get("X-Hub-Signature-256"),
		RawBody:    body,
	}

	if err := h.verifier.Verify(event.RawBody, event.Signature, event.DeliveryID); err != nil {
		if errors.Is(err, ErrMissingSignature) || errors.Is(err, ErrInvalidSignature) {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":    err.Error(),
			"delivery": event.DeliveryID,
		})
	}

	if err := h.router.Dispatch(c.Request().Context(), event); err != nil {
		log.Error().
			Err(err).
			Str("delivery", event.DeliveryID).
			Str("event", event.Type).
			Msg("webhook processing failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":    "webhook processing failed",
			"delivery": event.DeliveryID,
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":  "webhook processed",
		"delivery": event.DeliveryID,
	})
}
