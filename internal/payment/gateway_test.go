// AngelaMos | 2026
// gateway_test.go

package payment

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicesync/backend/internal/config"
	"github.com/servicesync/backend/internal/core"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) (*http.Response, error)

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestGateway(transport http.RoundTripper) *stripeGateway {
	gw := NewStripeGateway(config.PaymentConfig{
		SecretKey:  "sk_test_123",
		Currency:   "inr",
		SuccessURL: "https://example.com/success",
		CancelURL:  "https://example.com/cancel",
	}, slog.New(slog.DiscardHandler)).(*stripeGateway)
	gw.httpClient.Transport = transport
	return gw
}

func TestStripeGateway_CreateCheckoutSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		gw := newTestGateway(MockRoundTripper(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "https://api.stripe.com/v1/checkout/sessions", req.URL.String())

			user, _, ok := req.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "sk_test_123", user)

			body, _ := io.ReadAll(req.Body)
			form := string(body)
			assert.Contains(t, form, "mode=payment")
			assert.Contains(t, form, "unit_amount%5D=49900")
			assert.Contains(t, form, "currency%5D=inr")

			return &http.Response{
				StatusCode: http.StatusOK,
				Body: io.NopCloser(bytes.NewBufferString(
					`{"id": "cs_test_abc", "url": "https://checkout.stripe.com/pay/cs_test_abc"}`,
				)),
				Header: make(http.Header),
			}, nil
		}))

		session, err := gw.CreateCheckoutSession(ctx, "Plumbing", 499)
		require.NoError(t, err)
		assert.Equal(t, "cs_test_abc", session.ID)
		assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_abc", session.URL)
	})

	t.Run("FractionalPriceRounds", func(t *testing.T) {
		// int64(4.99 * 100) truncates to 498; the gateway must round.
		gw := newTestGateway(MockRoundTripper(func(req *http.Request) (*http.Response, error) {
			body, _ := io.ReadAll(req.Body)
			assert.Contains(t, string(body), "unit_amount%5D=499&")

			return &http.Response{
				StatusCode: http.StatusOK,
				Body: io.NopCloser(bytes.NewBufferString(
					`{"id": "cs_test_def", "url": "https://checkout.stripe.com/pay/cs_test_def"}`,
				)),
				Header: make(http.Header),
			}, nil
		}))

		_, err := gw.CreateCheckoutSession(ctx, "Plumbing", 4.99)
		require.NoError(t, err)
	})

	t.Run("APIError", func(t *testing.T) {
		gw := newTestGateway(MockRoundTripper(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusBadRequest,
				Body:       io.NopCloser(bytes.NewBufferString(`{"error": {"type": "invalid_request_error"}}`)),
				Header:     make(http.Header),
			}, nil
		}))

		_, err := gw.CreateCheckoutSession(ctx, "Plumbing", 499)
		assert.ErrorIs(t, err, core.ErrUpstream)
		// Upstream detail must not leak into the caller-facing message.
		assert.NotContains(t, err.Error(), "invalid_request_error")
	})

	t.Run("NetworkError", func(t *testing.T) {
		gw := newTestGateway(MockRoundTripper(func(req *http.Request) (*http.Response, error) {
			return nil, assert.AnError
		}))

		_, err := gw.CreateCheckoutSession(ctx, "Plumbing", 499)
		assert.ErrorIs(t, err, core.ErrUpstream)
	})

	t.Run("InvalidJSONResponse", func(t *testing.T) {
		gw := newTestGateway(MockRoundTripper(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(`{invalid-json`)),
				Header:     make(http.Header),
			}, nil
		}))

		_, err := gw.CreateCheckoutSession(ctx, "Plumbing", 499)
		assert.ErrorIs(t, err, core.ErrUpstream)
	})

	t.Run("MissingSecretKey", func(t *testing.T) {
		gw := NewStripeGateway(config.PaymentConfig{},
			slog.New(slog.DiscardHandler))

		_, err := gw.CreateCheckoutSession(ctx, "Plumbing", 499)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
