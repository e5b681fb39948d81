// AngelaMos | 2026
// handler.go

package listing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/servicesync/backend/internal/core"
	"github.com/servicesync/backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/services", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{listingID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/mine", h.ListMine)
			r.With(middleware.RequirePublisher).Post("/", h.Create)
			r.Put("/{listingID}", h.Update)
			r.Delete("/{listingID}", h.Delete)
			r.Post("/{listingID}/items", h.AddItem)
			r.Post("/{listingID}/reviews", h.AddReview)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Category: r.URL.Query().Get("category"),
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	listings, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToListingResponseList(listings),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "listingID")

	l, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "service")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListingResponse(l))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	if callerID == "" {
		core.Unauthorized(w, "")
		return
	}

	listings, err := h.service.ListMine(r.Context(), callerID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListingResponseList(listings))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	if callerID == "" {
		core.Unauthorized(w, "")
		return
	}
	callerRole := middleware.GetUserRole(r.Context())

	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	l, err := h.service.Create(r.Context(), callerID, callerRole, req)
	if err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "only business accounts can publish services")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToListingResponse(l))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	if callerID == "" {
		core.Unauthorized(w, "")
		return
	}
	callerRole := middleware.GetUserRole(r.Context())
	id := chi.URLParam(r, "listingID")

	var req UpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	l, err := h.service.Update(r.Context(), id, callerID, callerRole, req)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	core.OK(w, ToListingResponse(l))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	if callerID == "" {
		core.Unauthorized(w, "")
		return
	}
	callerRole := middleware.GetUserRole(r.Context())
	id := chi.URLParam(r, "listingID")

	if err := h.service.Delete(r.Context(), id, callerID, callerRole); err != nil {
		h.writeMutationError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	if callerID == "" {
		core.Unauthorized(w, "")
		return
	}
	callerRole := middleware.GetUserRole(r.Context())
	id := chi.URLParam(r, "listingID")

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	l, err := h.service.AddItem(r.Context(), id, callerID, callerRole, req)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	core.Created(w, ToListingResponse(l))
}

func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	if callerID == "" {
		core.Unauthorized(w, "")
		return
	}
	id := chi.URLParam(r, "listingID")

	var req AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	reviews, err := h.service.AddReview(r.Context(), id, callerID, req)
	if err != nil {
		var appErr *core.AppError
		if errors.As(err, &appErr) {
			core.JSONError(w, appErr)
			return
		}
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "service")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, reviews)
}

func (h *Handler) writeMutationError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "service")
		return
	}
	if errors.Is(err, core.ErrForbidden) {
		core.Forbidden(w, "not the owner of this service")
		return
	}
	core.InternalServerError(w, err)
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}
