package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	m := New("bank_ledger")

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/accounts/{account_number}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods("GET")

	req := httptest.NewRequest("GET", "/accounts/1001", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, scrape.Code)

	body, err := io.ReadAll(scrape.Body)
	require.NoError(t, err)
	// Routes are labeled with the mux template, not the raw path.
	assert.Contains(t, string(body), `bank_ledger_http_requests_total{method="GET",route="/accounts/{account_number}",status="404"} 1`)
	assert.Contains(t, string(body), "bank_ledger_http_request_duration_seconds")
}

func TestStatusDefaultsTo200(t *testing.T) {
	m := New("bank_ledger")

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "ok") // implicit 200, WriteHeader never called
	}).Methods("GET")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(scrape.Body)
	assert.Contains(t, string(body), `status="200"`)
}
