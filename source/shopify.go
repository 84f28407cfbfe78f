package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cart-recovery-service/models"
)

// ShopifySource implements CheckoutSource against the Shopify Admin REST
// abandoned-checkouts endpoint.
type ShopifySource struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewShopifySource creates a source for the given shop domain
// (e.g. "example.myshopify.com") and Admin API version.
func NewShopifySource(shopDomain, accessToken, apiVersion string) (*ShopifySource, error) {
	if shopDomain == "" {
		return nil, fmt.Errorf("shop domain is required")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}
	if apiVersion == "" {
		apiVersion = "2024-01"
	}
	return &ShopifySource{
		baseURL:     fmt.Sprintf("https://%s/admin/api/%s", shopDomain, apiVersion),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// NewShopifySourceWithBaseURL is used by tests to point the source at a
// local server.
func NewShopifySourceWithBaseURL(baseURL, accessToken string) *ShopifySource {
	return &ShopifySource{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ---- Shopify wire structs ----
//
// Shopify reports ids as JSON numbers; they are decoded as json.Number
// and emitted as canonical decimal strings so the correlation join never
// compares across representations.

type shopifyCustomer struct {
	ID        json.Number `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Phone     string      `json:"phone"`
}

type shopifyLineItem struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type shopifyCheckout struct {
	ID                   json.Number       `json:"id"`
	Customer             shopifyCustomer   `json:"customer"`
	LineItems            []shopifyLineItem `json:"line_items"`
	TotalPrice           string            `json:"total_price"`
	CreatedAt            time.Time         `json:"created_at"`
	AbandonedCheckoutURL string            `json:"abandoned_checkout_url"`
}

type checkoutsResponse struct {
	// Pointer distinguishes a structurally absent/null collection from a
	// valid empty one.
	Checkouts *[]shopifyCheckout `json:"checkouts"`
}

// FetchCandidates lists abandoned checkouts, optionally restricted to
// those created within the last opts.Days UTC calendar days. opts.Query
// is recognized but not applied upstream yet.
func (s *ShopifySource) FetchCandidates(ctx context.Context, opts models.ListOptions) ([]models.Checkout, error) {
	endpoint := s.baseURL + "/checkouts.json"

	params := url.Values{}
	if opts.Days > 0 {
		min := time.Now().UTC().AddDate(0, 0, -opts.Days)
		params.Set("created_at_min", min.Format(time.RFC3339))
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("X-Shopify-Access-Token", s.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %s: %s", ErrSourceUnavailable, resp.Status, string(body))
	}

	var payload checkoutsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrEmptyResult, err)
	}
	if payload.Checkouts == nil {
		return nil, fmt.Errorf("%w: checkouts missing from response", ErrEmptyResult)
	}

	checkouts := make([]models.Checkout, 0, len(*payload.Checkouts))
	for _, wc := range *payload.Checkouts {
		checkouts = append(checkouts, toCheckout(wc))
	}
	return checkouts, nil
}

func toCheckout(wc shopifyCheckout) models.Checkout {
	items := make([]models.LineItem, 0, len(wc.LineItems))
	for _, li := range wc.LineItems {
		items = append(items, models.LineItem{
			Title:    li.Title,
			Quantity: li.Quantity,
			Price:    li.Price,
		})
	}
	return models.Checkout{
		ID: canonicalID(wc.ID),
		Customer: models.Customer{
			ID:        canonicalID(wc.Customer.ID),
			FirstName: wc.Customer.FirstName,
			LastName:  wc.Customer.LastName,
			Phone:     wc.Customer.Phone,
		},
		LineItems:            items,
		TotalPrice:           wc.TotalPrice,
		CreatedAt:            wc.CreatedAt,
		AbandonedCheckoutURL: wc.AbandonedCheckoutURL,
	}
}

func canonicalID(n json.Number) string {
	return strings.TrimSpace(n.String())
}
