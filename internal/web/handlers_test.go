package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/shopstreamweb-sub000/internal/catalog"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/kv"
	"github.com/apper-canvas/shopstreamweb-sub000/internal/order"
)

func newTestServer(t *testing.T) *httptest.Server {
	blobs := kv.NewMemoryStore()
	orderService := order.NewService(blobs, nil, nil)
	sessions := NewSessions(blobs, orderService)
	provider := catalog.NewStaticProvider(catalog.DemoProducts())

	router := NewRouter(
		NewCartHandler(sessions, provider),
		NewCheckoutHandler(sessions),
		NewOrdersHandler(order.NewLookup(orderService), 5*time.Second),
		30*time.Second,
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t       *testing.T
	baseURL string
	session string
	email   string
}

func (c *client) do(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", c.session)
	if c.email != "" {
		req.Header.Set("X-Demo-Email", c.email)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	return &client{t: t, baseURL: srv.URL, session: fmt.Sprintf("sess-%d", time.Now().UnixNano())}
}

func TestCartEndpoints(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	// Product without variants adds straight away.
	resp, body := c.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": "prod-1003",
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["item_count"])

	// Variant product without a variant is a field error and leaves the
	// cart unchanged.
	resp, body = c.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": "prod-1001",
		"quantity":   1,
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	fields := body["fields"].(map[string]interface{})
	assert.Equal(t, "variant required", fields["variant"])

	resp, body = c.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["item_count"])

	// Zero quantity removes the line.
	resp, body = c.do(http.MethodPut, "/api/v1/cart/items", map[string]interface{}{
		"product_id": "prod-1003",
		"quantity":   0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["item_count"])
}

func TestCartUnknownProduct(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	resp, _ := c.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": "prod-9999",
		"quantity":   1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func submitValidCheckout(t *testing.T, c *client, email string) {
	resp, _ := c.do(http.MethodPost, "/api/v1/checkout/shipping", map[string]interface{}{
		"full_name": "Jordan Reyes",
		"email":     email,
		"address":   "12 Elm Street",
		"city":      "Portland",
		"state":     "OR",
		"zip_code":  "97205",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/api/v1/checkout/payment", map[string]interface{}{
		"cardholder_name": "Jordan Reyes",
		"card_number":     "4111 1111 1111 1234",
		"expiry_month":    "09",
		"expiry_year":     fmt.Sprint(time.Now().Year() + 2),
		"cvv":             "123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCheckoutFlow_PlaceAndLookup(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	c.email = "right@example.com"

	resp, _ := c.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{
		"product_id": "prod-1002",
		"quantity":   1,
		"variant":    "32",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	submitValidCheckout(t, c, "right@example.com")

	resp, body := c.do(http.MethodPost, "/api/v1/checkout/place", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orderID := body["order_id"].(string)
	require.NotEmpty(t, orderID)

	// Cart cleared atomically with order creation.
	resp, body = c.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["item_count"])

	// Owned lookup via the authenticated identity.
	resp, body = c.do(http.MethodGet, "/api/v1/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "PROCESSING", body["status"])
	payment := body["payment"].(map[string]interface{})
	assert.Equal(t, "1234", payment["last4"])

	// Tracking with the wrong email reads exactly like an unknown order.
	resp, body = c.do(http.MethodGet, "/api/v1/orders/"+orderID+"/track?email=wrong@example.com", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "we couldn't verify this order", body["error"])

	resp, _ = c.do(http.MethodGet, "/api/v1/orders/"+orderID+"/track?email=right@example.com", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCheckout_InvalidShipping(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	resp, body := c.do(http.MethodPost, "/api/v1/checkout/shipping", map[string]interface{}{
		"full_name": "Jordan Reyes",
		"email":     "not-an-email",
		"address":   "12 Elm Street",
		"city":      "Portland",
		"state":     "OR",
		"zip_code":  "123",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	fields := body["fields"].(map[string]interface{})
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "zip_code")
}

func TestCheckout_PlaceWithEmptyCart(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	submitValidCheckout(t, c, "right@example.com")

	resp, _ := c.do(http.MethodPost, "/api/v1/checkout/place", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestOrders_UnknownID(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	resp, body := c.do(http.MethodGet, "/api/v1/orders/ORD-NOPE/track?email=a@b.co", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "we couldn't verify this order", body["error"])
}
