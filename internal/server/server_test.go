package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/runwayhq/runway/internal/clock"
	"github.com/runwayhq/runway/internal/config"
	goalsrepo "github.com/runwayhq/runway/internal/goals/repository"
	goalssvc "github.com/runwayhq/runway/internal/goals/service"
	goalsdomain "github.com/runwayhq/runway/internal/goals/domain"
	"github.com/runwayhq/runway/internal/ledger"
	metricsdomain "github.com/runwayhq/runway/internal/metrics/domain"
	metricsrepo "github.com/runwayhq/runway/internal/metrics/repository"
	metricssvc "github.com/runwayhq/runway/internal/metrics/service"
	"github.com/runwayhq/runway/internal/metricsync"
	"github.com/runwayhq/runway/internal/observability"
	overduesvc "github.com/runwayhq/runway/internal/overdue/service"
	"github.com/runwayhq/runway/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider is a minimal billing provider: two customers, one active and
// one inactive subscription, two received payments, one overdue payment.
func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/customers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			{"id": "cus_a", "name": "A", "dateCreated": "2024-02-05"},
			{"id": "cus_b", "name": "B", "dateCreated": "2024-01-10"},
		}})
	})
	mux.HandleFunc("/customers/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": "cus_b", "name": "B", "dateCreated": "2024-01-10",
		})
	})
	mux.HandleFunc("/subscriptions", func(w http.ResponseWriter, r *http.Request) {
		var data []map[string]any
		switch r.URL.Query().Get("status") {
		case "ACTIVE":
			data = append(data, map[string]any{
				"id": "sub_1", "customer": "cus_a", "status": "ACTIVE",
				"value": 100.0, "dateCreated": "2024-02-01",
			})
		case "INACTIVE":
			data = append(data, map[string]any{
				"id": "sub_2", "customer": "cus_b", "status": "INACTIVE",
				"value": 200.0, "dateCreated": "2024-01-01",
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	})
	mux.HandleFunc("/payments", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") == "OVERDUE" {
			json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
				{
					"id": "pay_3", "customer": "cus_b", "status": "OVERDUE",
					"value": 75.0, "dueDate": "2024-02-01", "dateCreated": "2024-01-20",
				},
			}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			{
				"id": "pay_1", "customer": "cus_a", "subscription": "sub_1",
				"status": "RECEIVED", "value": 100.0,
				"paymentDate": "2024-02-15", "dateCreated": "2024-02-01",
			},
			{
				"id": "pay_2", "customer": "cus_b",
				"status": "RECEIVED", "value": 50.0,
				"paymentDate": "2024-02-10", "dateCreated": "2024-02-01",
			},
		}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, token string) (*Server, snowflake.ID) {
	t.Helper()

	provider := fakeProvider(t)

	gdb, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&metricsdomain.MonthlyMetric{}, &goalsdomain.Goals{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Config{
		HTTPAddr: ":0",
		Ledger:   config.LedgerConfig{BaseURL: provider.URL, AccessToken: token, HorizonMonths: 12},
	}
	log := zap.NewNop()
	fixed := clock.NewFakeClock(time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC))
	client := ledger.NewClient(ledger.Params{Cfg: cfg, Log: log})
	thresholds := config.NewStaticRiskThresholds(config.DefaultRiskThresholds())

	metricsRepo := metricsrepo.Provide()
	metricsSvc := metricssvc.New(metricssvc.Params{DB: gdb, Repo: metricsRepo, Node: node, Clock: fixed, Log: log})
	goalsSvc := goalssvc.New(goalssvc.Params{DB: gdb, Repo: goalsrepo.Provide(), Clock: fixed, Log: log})
	overdueSvc := overduesvc.New(overduesvc.Params{Client: client, Thresholds: thresholds, Clock: fixed, Log: log})
	syncSvc := metricsync.New(metricsync.Params{
		DB: gdb, Repo: metricsRepo, Client: client, Overdue: overdueSvc,
		Cfg: cfg, Node: node, Clock: fixed, Log: log,
	})

	engine := NewEngine(observability.Config{Environment: "test"}, log)
	srv := NewServer(ServerParams{
		Gin: engine, Cfg: cfg,
		MetricsSvc: metricsSvc, GoalsSvc: goalsSvc,
		OverdueSvc: overdueSvc, SyncSvc: syncSvc, LedgerCli: client,
	})
	return srv, node.Generate()
}

func doRequest(t *testing.T, srv *Server, accountID snowflake.ID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if accountID != 0 {
		req.Header.Set(HeaderAccount, accountID.String())
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestMissingAccountHeader(t *testing.T) {
	srv, _ := newTestServer(t, "test-token")

	rec := doRequest(t, srv, 0, http.MethodGet, "/v1/metrics", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthUnauthenticated(t *testing.T) {
	srv, _ := newTestServer(t, "test-token")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSyncEndpoint(t *testing.T) {
	srv, accountID := newTestServer(t, "test-token")

	rec := doRequest(t, srv, accountID, http.MethodPost, "/v1/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data metricsync.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 12, resp.Data.MonthsWritten)
	require.Equal(t, 75.0, resp.Data.OverdueValue)
	require.Equal(t, 1, resp.Data.OverdueCustomers)

	rec = doRequest(t, srv, accountID, http.MethodGet, "/v1/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Data []metricsdomain.MonthlyMetric `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 12)
	require.Equal(t, "2024-02", list.Data[11].Month)
	require.Equal(t, 100.0, list.Data[11].MRR)
}

func TestSyncMissingTokenReturns503(t *testing.T) {
	srv, accountID := newTestServer(t, "")

	rec := doRequest(t, srv, accountID, http.MethodPost, "/v1/sync", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricCRUDOverHTTP(t *testing.T) {
	srv, accountID := newTestServer(t, "test-token")

	body := map[string]any{
		"month": "2024-03",
		"mrr":   500,
		"burnRate": map[string]any{
			"salaries":  300,
			"marketing": 100,
		},
	}
	rec := doRequest(t, srv, accountID, http.MethodPost, "/v1/metrics", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, srv, accountID, http.MethodPost, "/v1/metrics", body)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, srv, accountID, http.MethodGet, "/v1/metrics/2024-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Data metricsdomain.MonthlyMetric `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 400.0, got.Data.BurnRateTotal)

	rec = doRequest(t, srv, accountID, http.MethodDelete, "/v1/metrics/2024-03", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, accountID, http.MethodGet, "/v1/metrics/2024-03", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGoalsEndpoints(t *testing.T) {
	srv, accountID := newTestServer(t, "test-token")

	rec := doRequest(t, srv, accountID, http.MethodGet, "/v1/goals", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var goals struct {
		Data goalsdomain.Goals `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &goals))
	require.Equal(t, 20.0, goals.Data.MRRGrowthTarget)

	rec = doRequest(t, srv, accountID, http.MethodPut, "/v1/goals", map[string]any{
		"mrrGrowthTarget":          30,
		"newCustomersGrowthTarget": 10,
		"maxChurnRate":             4,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, accountID, http.MethodGet, "/v1/goals", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &goals))
	require.Equal(t, 30.0, goals.Data.MRRGrowthTarget)
}

func TestPredictionsAfterSync(t *testing.T) {
	srv, accountID := newTestServer(t, "test-token")

	rec := doRequest(t, srv, accountID, http.MethodPost, "/v1/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, accountID, http.MethodGet, "/v1/predictions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			ExpectedMRR float64 `json:"expectedMrr"`
			Alerts      []struct {
				ID string `json:"id"`
			} `json:"alerts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// february MRR 100 with the default 20% growth target
	require.Equal(t, 120.0, resp.Data.ExpectedMRR)
	require.NotEmpty(t, resp.Data.Alerts)
}

func TestOverdueEndpoint(t *testing.T) {
	srv, accountID := newTestServer(t, "test-token")

	rec := doRequest(t, srv, accountID, http.MethodGet, "/v1/overdue", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			TotalValue     float64 `json:"totalValue"`
			TotalCustomers int     `json:"totalCustomers"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 75.0, resp.Data.TotalValue)
	require.Equal(t, 1, resp.Data.TotalCustomers)
}

func TestLedgerStatus(t *testing.T) {
	srv, accountID := newTestServer(t, "test-token")

	rec := doRequest(t, srv, accountID, http.MethodGet, "/v1/ledger/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	srv, accountID := newTestServer(t, "test-token")

	rec := doRequest(t, srv, accountID, http.MethodPost, "/v1/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, accountID, http.MethodGet, "/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Metrics []metricsdomain.MonthlyMetric `json:"metrics"`
			Overdue struct {
				TotalValue float64 `json:"totalValue"`
			} `json:"overdue"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Metrics, 12)
	require.Equal(t, 75.0, resp.Data.Overdue.TotalValue)
}
