// AngelaMos | 2026
// handler.go

package payment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/servicesync/backend/internal/core"
)

type CreateCheckoutRequest struct {
	ServiceName string  `json:"service_name" validate:"required,min=1,max=200"`
	Price       float64 `json:"price"        validate:"required,gt=0"`
}

type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url,omitempty"`
}

type Handler struct {
	gateway   Gateway
	validator *validator.Validate
}

func NewHandler(gateway Gateway) *Handler {
	return &Handler{
		gateway:   gateway,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/checkout-sessions", h.CreateCheckoutSession)
	})
}

func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	session, err := h.gateway.CreateCheckoutSession(
		r.Context(),
		req.ServiceName,
		req.Price,
	)
	if err != nil {
		// Upstream detail stays in the logs; callers get a generic 502.
		if errors.Is(err, ErrNotConfigured) {
			core.JSONError(w, core.UpstreamError("payment"))
			return
		}
		var appErr *core.AppError
		if errors.As(err, &appErr) {
			core.JSONError(w, appErr)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, CheckoutResponse{SessionID: session.ID, URL: session.URL})
}
