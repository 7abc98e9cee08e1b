package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmbook/internal/config"
	"github.com/mamadbah2/farmbook/internal/domain/models"
	"github.com/mamadbah2/farmbook/internal/observability"
	"github.com/mamadbah2/farmbook/internal/repository/sqlstore"
	"github.com/mamadbah2/farmbook/internal/server/handlers"
	"github.com/mamadbah2/farmbook/internal/service/entries"
	"github.com/mamadbah2/farmbook/internal/service/metrics"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	store, err := sqlstore.Open(config.DatabaseConfig{Driver: config.DriverSQLite, URL: dsn}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Seed(ctx, models.DateOf(time.Now().UTC())))

	engine := metrics.NewEngine(store, metrics.NewStoreSettings(store), metrics.Options{Location: time.UTC}, nil)
	obs := observability.NewMetrics()

	r := New(
		handlers.NewMetricsHandler(obs.Instrument(engine), engine, nil),
		handlers.NewEntriesHandler(entries.NewService(store, time.UTC, nil), nil),
		obs.Handler(),
		zap.NewNop(),
	)
	gin.SetMode(gin.TestMode)
	return r
}

func do(t *testing.T, r http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doJSON(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEntriesFeedTheDashboard(t *testing.T) {
	r := newTestRouter(t)
	today := time.Now().UTC().Format("2006-01-02")

	rec := do(t, r, http.MethodPost, "/api/flocks/1", url.Values{"initial_count": {"500"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/api/flocks/1/logs", url.Values{
		"date": {today}, "eggs_count": {"450"}, "dead_count": {"2"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/api/transactions", url.Values{
		"date": {today}, "direction": {"IN"}, "product_id": {"1"}, "qty": {"5"}, "unit_price": {"50000"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/api/ponds/1/events", url.Values{"event_type": {"STOCK"}, "count": {"530"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var d metrics.Dashboard
	decode(t, rec, &d)
	assert.Equal(t, 250000.0, d.Financial.Income)
	assert.Equal(t, int64(150), d.Eggs.EggsSold)
	assert.Equal(t, int64(300), d.Eggs.EggsStock)
	assert.Equal(t, int64(498), d.Chickens.Current)
	assert.Equal(t, int64(450), d.Production.EggsToday)
	require.Len(t, d.Ponds, 6)
	assert.Equal(t, 50.0, d.Ponds[0].UsagePct)

	rec = do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "farmbook_egg_stock_eggs 300")
}

func TestSummaryRange(t *testing.T) {
	r := newTestRouter(t)

	for _, form := range []url.Values{
		{"date": {"2024-05-01"}, "product_id": {"2"}, "qty": {"10"}, "unit_price": {"30000"}},
		{"date": {"2024-05-20"}, "direction": {"OUT"}, "product_id": {"3"}, "qty": {"1"}, "unit_price": {"100000"}},
	} {
		require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/transactions", form).Code)
	}

	var s metrics.FinancialSummary
	rec := do(t, r, http.MethodGet, "/api/summary", nil)
	decode(t, rec, &s)
	assert.Equal(t, 200000.0, s.Profit)

	rec = do(t, r, http.MethodGet, "/api/summary?from=2024-05-01&to=2024-05-10", nil)
	decode(t, rec, &s)
	assert.Equal(t, 300000.0, s.Income)
	assert.Equal(t, 0.0, s.Expense)

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/summary?from=May", nil).Code)
}

func TestSettingsValidation(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/settings", url.Values{"eggs_per_rack": {"150"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/settings", url.Values{"eggs_per_rack": {"24"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/settings", nil)
	assert.JSONEq(t, `{"eggs_per_rack":24}`, rec.Body.String())
}

func TestJSONBody(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/ponds/2", `{"diameter_m":"4","water_depth_m":1.5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		DiameterM   float64 `json:"diameter_m"`
		WaterDepthM float64 `json:"water_depth_m"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 4.0, body.DiameterM)
	assert.Equal(t, 1.5, body.WaterDepthM)
}

func TestJSONNumbers(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/transactions", `{"product_id":1,"qty":2,"unit_price":50000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tx struct {
		ProductID uint    `json:"product_id"`
		Quantity  float64 `json:"quantity"`
		Total     float64 `json:"total"`
	}
	decode(t, rec, &tx)
	assert.Equal(t, uint(1), tx.ProductID)
	assert.Equal(t, 2.0, tx.Quantity)
	assert.Equal(t, 100000.0, tx.Total)

	rec = doJSON(t, r, http.MethodPost, "/api/flocks/1/logs", `{"eggs_count":450,"dead_count":0}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var log struct {
		EggsCount int `json:"eggs_count"`
		DeadCount int `json:"dead_count"`
	}
	decode(t, rec, &log)
	assert.Equal(t, 450, log.EggsCount)
	assert.Equal(t, 0, log.DeadCount)

	rec = doJSON(t, r, http.MethodPost, "/api/settings", `{"eggs_per_rack":24}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"eggs_per_rack":24}`, rec.Body.String())

	rec = doJSON(t, r, http.MethodPost, "/api/flocks/1", `{"initial_count":500}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"initial_count":500`)
}

func TestJSONCoercesBadValues(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/transactions", `{"product_id":"1","qty":"abc","unit_price":true,"description":null}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tx struct {
		Quantity  float64 `json:"quantity"`
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}
	decode(t, rec, &tx)
	assert.Equal(t, 0.0, tx.Quantity)
	assert.Equal(t, 0.0, tx.UnitPrice)
	assert.Equal(t, 0.0, tx.Total)

	rec = doJSON(t, r, http.MethodPost, "/api/ponds/1/events", `{"count":12.7,"weight_kg":false}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"count":12`)
	assert.Contains(t, rec.Body.String(), `"weight_kg":0`)
}

func TestErrorStatuses(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/ponds/99", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/flocks/abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/api/transactions", url.Values{"qty": {"1"}}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/api/ponds/1/events", url.Values{"event_type": {"ESCAPE"}}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPost, "/api/flocks/5/logs", url.Values{"eggs_count": {"1"}}).Code)
}

func TestListings(t *testing.T) {
	r := newTestRouter(t)

	var products []map[string]any
	decode(t, do(t, r, http.MethodGet, "/api/products", nil), &products)
	assert.Len(t, products, 3)

	var occupancy []metrics.PondSummary
	decode(t, do(t, r, http.MethodGet, "/api/ponds/occupancy", nil), &occupancy)
	require.Len(t, occupancy, 6)
	assert.Equal(t, 1060, occupancy[0].CapacityFish)

	var flocks []metrics.ChickenSummary
	decode(t, do(t, r, http.MethodGet, "/api/flocks/summary", nil), &flocks)
	require.Len(t, flocks, 1)
	assert.True(t, flocks[0].Tracked)

	var detail struct {
		Pond   map[string]any   `json:"pond"`
		Events []map[string]any `json:"events"`
	}
	decode(t, do(t, r, http.MethodGet, "/api/ponds/1", nil), &detail)
	assert.Equal(t, "Kolam 1", detail.Pond["name"])
	assert.Empty(t, detail.Events)

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/eggs", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/chickens", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/transactions?direction=IN", nil).Code)
}
