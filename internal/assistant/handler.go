// AngelaMos | 2026
// handler.go

package assistant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/servicesync/backend/internal/core"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=4000"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type Handler struct {
	client    Client
	validator *validator.Validate
}

func NewHandler(client Client) *Handler {
	return &Handler{
		client:    client,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/chat", h.Chat)
	})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	reply, err := h.client.Reply(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			core.JSONError(w, core.UpstreamError("assistant"))
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

	core.OK(w, ChatResponse{Reply: reply})
}
