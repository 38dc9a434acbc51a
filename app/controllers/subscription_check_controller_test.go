package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksab-hq/maksab-admin/internal/pkg/identity"
	"github.com/maksab-hq/maksab-admin/internal/pkg/subscription"
)

func setupSweepApp(t *testing.T, handler http.HandlerFunc) *fiber.App {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := &identity.Client{
		SecretKey:  "sk_test",
		APIBaseURL: server.URL,
		HTTPClient: server.Client(),
	}
	Setup(&Services{
		Identity:      client,
		Subscriptions: subscription.NewService(client),
		Sweeper:       subscription.NewSweeper(client),
	})

	app := fiber.New()
	app.Get("/api/subscription-check", HandleSubscriptionCheck)
	return app
}

func TestSubscriptionCheckSuccess(t *testing.T) {
	app := setupSweepApp(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(identity.OrganizationList{})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/subscription-check", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Subscription check completed successfully.", string(body))
}

func TestSubscriptionCheckFailure(t *testing.T) {
	app := setupSweepApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/subscription-check", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to check subscriptions.", string(body))
}
