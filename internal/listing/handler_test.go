// AngelaMos | 2026
// handler_test.go

package listing

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/servicesync/backend/internal/middleware"
	"github.com/servicesync/backend/internal/user"
)

// stubVerifier maps bearer tokens straight to claims so handler tests
// do not need signing keys.
type stubVerifier struct {
	tokens map[string]*middleware.AccessTokenClaims
}

func (s *stubVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	if claims, ok := s.tokens[token]; ok {
		return claims, nil
	}
	return nil, assert.AnError
}

func newTestRouter(repo Repository, names NameResolver) http.Handler {
	handler := NewHandler(NewService(repo, names))

	verifier := &stubVerifier{tokens: map[string]*middleware.AccessTokenClaims{
		"owner-token": {UserID: "owner-1", Role: user.RoleBusiness},
		"user-token":  {UserID: "consumer-1", Role: user.RoleUser},
		"dev-token":   {UserID: "dev-1", Role: user.RoleDeveloper},
	}}

	r := chi.NewRouter()
	handler.RegisterRoutes(r, middleware.Authenticator(verifier))
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_OwnershipScenario(t *testing.T) {
	repo := new(mockRepository)
	names := new(mockNameResolver)
	router := newTestRouter(repo, names)

	createBody := map[string]any{
		"name":     "Plumbing",
		"category": "Home",
		"price":    499,
		"contact":  "owner@business.com",
		"location": map[string]any{"address": "12 Main St", "lat": 12.9, "lng": 77.6},
	}

	t.Run("AnonymousCreateRejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/services", "", createBody)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("PlainUserCreateForbidden", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/services", "user-token", createBody)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("BusinessCreates", func(t *testing.T) {
		repo.On("Create", mock.Anything, mock.AnythingOfType("*listing.Listing")).
			Return(nil).Once()

		rec := doJSON(t, router, http.MethodPost, "/services", "owner-token", createBody)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Data ListingResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "owner-1", resp.Data.OwnerID)
		assert.False(t, resp.Data.Verified)
	})

	t.Run("NonOwnerDeleteForbidden", func(t *testing.T) {
		repo.On("GetByID", mock.Anything, "svc-1").
			Return(ownedListing(), nil)

		rec := doJSON(t, router, http.MethodDelete, "/services/svc-1", "user-token", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		repo.AssertNotCalled(t, "Delete")
	})

	t.Run("ConsumerReviewsSucceed", func(t *testing.T) {
		names.On("ResolveName", mock.Anything, "consumer-1").Return("Asha", nil)
		repo.On("AddReview", mock.Anything, mock.AnythingOfType("*listing.Review")).
			Return(nil).Once()

		rec := doJSON(t, router, http.MethodPost, "/services/svc-1/reviews",
			"user-token", map[string]any{"rating": 5, "comment": "great"})
		assert.Equal(t, http.StatusCreated, rec.Code)

		// The body is the listing's review list, not the single review.
		var resp struct {
			Data []Review `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotNil(t, resp.Data)
	})

	t.Run("OwnerAddsItemGetsUpdatedService", func(t *testing.T) {
		repo.On("AddItem", mock.Anything, mock.AnythingOfType("*listing.Item")).
			Return(nil).Once()

		rec := doJSON(t, router, http.MethodPost, "/services/svc-1/items",
			"owner-token", map[string]any{"name": "Drain cleaning", "price": 99})
		assert.Equal(t, http.StatusCreated, rec.Code)

		// The body is the whole service, reloaded after the insert.
		var resp struct {
			Data ListingResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "svc-1", resp.Data.ID)
		assert.NotNil(t, resp.Data.Items)
	})

	t.Run("ReviewRatingOutOfRange", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/services/svc-1/reviews",
			"user-token", map[string]any{"rating": 6})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("OwnerDeletes", func(t *testing.T) {
		repo.On("Delete", mock.Anything, "svc-1").Return(nil).Once()

		rec := doJSON(t, router, http.MethodDelete, "/services/svc-1", "owner-token", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("DeveloperDeletesAnyListing", func(t *testing.T) {
		repo.On("Delete", mock.Anything, "svc-1").Return(nil).Once()

		rec := doJSON(t, router, http.MethodDelete, "/services/svc-1", "dev-token", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestHandler_PublicBrowse(t *testing.T) {
	repo := new(mockRepository)
	router := newTestRouter(repo, new(mockNameResolver))

	repo.On("List", mock.Anything, ListParams{Category: "", Page: 1, PageSize: 20}).
		Return([]Listing{*ownedListing()}, 1, nil)

	rec := doJSON(t, router, http.MethodGet, "/services?category=all", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []ListingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}
