// AngelaMos | 2026
// gateway.go

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/servicesync/backend/internal/config"
	"github.com/servicesync/backend/internal/core"
)

const stripeBaseURL = "https://api.stripe.com"

var ErrNotConfigured = errors.New("payment gateway not configured")

type CheckoutSession struct {
	ID  string
	URL string
}

type Gateway interface {
	CreateCheckoutSession(
		ctx context.Context,
		serviceName string,
		price float64,
	) (*CheckoutSession, error)
}

type stripeGateway struct {
	secretKey  string
	currency   string
	successURL string
	cancelURL  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewStripeGateway(
	cfg config.PaymentConfig,
	logger *slog.Logger,
) Gateway {
	if cfg.SecretKey == "" {
		logger.Warn("stripe secret key is empty, checkout is disabled")
	}

	return &stripeGateway{
		secretKey:  cfg.SecretKey,
		currency:   cfg.Currency,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		baseURL:    stripeBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

func (g *stripeGateway) CreateCheckoutSession(
	ctx context.Context,
	serviceName string,
	price float64,
) (*CheckoutSession, error) {
	if g.secretKey == "" {
		return nil, ErrNotConfigured
	}

	// Stripe takes amounts in the currency's smallest unit.
	amount := int64(math.Round(price * 100))

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", g.successURL)
	form.Set("cancel_url", g.cancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", g.currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(amount, 10))
	form.Set("line_items[0][price_data][product_data][name]", serviceName)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.baseURL+"/v1/checkout/sessions",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("build checkout request: %w", err)
	}

	req.SetBasicAuth(g.secretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Error("stripe request failed", "error", err)
		return nil, core.UpstreamError("payment")
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read checkout response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Error("stripe returned non-success status",
			"status", resp.StatusCode,
			"response", string(body),
		)
		return nil, core.UpstreamError("payment")
	}

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &session); err != nil {
		g.logger.Error("failed decoding stripe response", "error", err)
		return nil, core.UpstreamError("payment")
	}

	g.logger.Info("checkout session created", "session_id", session.ID)

	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}
