package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/evdealer-wizard/internal/cli"
	"github.com/xenking/evdealer-wizard/internal/domain/auth"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	reply := func(pattern, body string) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		})
	}
	reply("GET /api/customers", `[{"customerId": 1, "name": "Nguyen Van An", "phone": "0901234567", "email": "an@example.com"}]`)
	reply("GET /api/dealers/7/vehicles", `[{"modelName": "VF 3", "variantName": "Base", "price": 300000000,
		"dealerPrices": [{"color": "Yellow", "price": 310000000, "stock": 2}]}]`)
	reply("GET /api/dealers/7/promotions", `[
		{"id": 1, "name": "Launch", "type": "FIXED_AMOUNT", "value": 10000000, "status": "ACTIVE"},
		{"id": 2, "name": "Retired", "type": "FIXED_AMOUNT", "value": 1, "status": "INACTIVE"}]`)
	reply("GET /api/orders/501/summary", `{"orderId": 501, "status": "PENDING_PAYMENT",
		"customer": {"name": "Nguyen Van An"}, "subtotal": 300000000, "total": 300000000}`)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	cmd := cli.NewRootCmd(cli.Options{In: strings.NewReader(in), Out: &out})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func backendFlags(srv *httptest.Server, token string) []string {
	return []string{"--backend-url", srv.URL, "--token", token, "--dealer-id", "7"}
}

func TestCustomersCommand(t *testing.T) {
	srv := newBackend(t)
	out, err := execute(t, "", append([]string{"customers"}, backendFlags(srv, "tok")...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Nguyen Van An")
	assert.Contains(t, out, "0901234567")
}

func TestCustomersCommand_JSON(t *testing.T) {
	srv := newBackend(t)
	out, err := execute(t, "", append([]string{"customers", "--json"}, backendFlags(srv, "tok")...)...)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows), "output should be valid JSON")
	require.Len(t, rows, 1)
	assert.Equal(t, "an@example.com", rows[0]["email"])
}

func TestCatalogCommand(t *testing.T) {
	srv := newBackend(t)
	out, err := execute(t, "", append([]string{"catalog"}, backendFlags(srv, "tok")...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "VF 3 Base")
	assert.Contains(t, out, "310.000.000 ₫")
	assert.Contains(t, out, "stock 2")
}

func TestCatalogCommand_JSON(t *testing.T) {
	srv := newBackend(t)
	out, err := execute(t, "", append([]string{"catalog", "--json"}, backendFlags(srv, "tok")...)...)
	require.NoError(t, err)

	var rows []struct {
		Model  string `json:"model"`
		Colors []struct {
			Color string `json:"color"`
			Price string `json:"price"`
			Stock *int   `json:"stock"`
		} `json:"colors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Colors, 1)
	assert.Equal(t, "310000000", rows[0].Colors[0].Price)
	require.NotNil(t, rows[0].Colors[0].Stock)
	assert.Equal(t, 2, *rows[0].Colors[0].Stock)
}

func TestPromotionsCommand(t *testing.T) {
	srv := newBackend(t)

	out, err := execute(t, "", append([]string{"promotions"}, backendFlags(srv, "tok")...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Launch")
	assert.NotContains(t, out, "Retired")

	out, err = execute(t, "", append([]string{"promotions", "--all"}, backendFlags(srv, "tok")...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Retired")
}

func TestSummaryCommand(t *testing.T) {
	srv := newBackend(t)
	out, err := execute(t, "", append([]string{"summary", "501"}, backendFlags(srv, "tok")...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Order #501")
	assert.Contains(t, out, "300.000.000 ₫")

	_, err = execute(t, "", append([]string{"summary", "abc"}, backendFlags(srv, "tok")...)...)
	require.Error(t, err)
}

func TestSessionExpired(t *testing.T) {
	srv := newBackend(t)
	_, err := execute(t, "", append([]string{"customers"}, backendFlags(srv, "stale")...)...)
	require.ErrorIs(t, err, auth.ErrSessionExpired)
}

func TestMissingToken(t *testing.T) {
	_, err := execute(t, "", "catalog", "--backend-url", "http://127.0.0.1:1", "--dealer-id", "7")
	require.ErrorIs(t, err, auth.ErrNoToken)
}

func TestWizardQuitsOnEOF(t *testing.T) {
	srv := newBackend(t)
	out, err := execute(t, "help\nquit\n", backendFlags(srv, "tok")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Customer information")
	assert.Contains(t, out, "phone <number>")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "order-wizard dev")
}
