package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/config"
	"github.com/mamadbah2/layerfarm/internal/domain/models"
	"github.com/mamadbah2/layerfarm/internal/repository/gormdb"
	"github.com/mamadbah2/layerfarm/internal/server/handlers"
	"github.com/mamadbah2/layerfarm/internal/service/analysis"
	"github.com/mamadbah2/layerfarm/internal/service/farm"
	"github.com/mamadbah2/layerfarm/internal/service/finance"
	"github.com/mamadbah2/layerfarm/internal/service/inventory"
	"github.com/mamadbah2/layerfarm/internal/service/notify"
	"github.com/mamadbah2/layerfarm/internal/service/permissions"
	"github.com/mamadbah2/layerfarm/internal/service/reporting"
	"github.com/mamadbah2/layerfarm/internal/service/sales"
	"github.com/mamadbah2/layerfarm/internal/service/sequence"
	"github.com/mamadbah2/layerfarm/pkg/clients/completion"
	"github.com/mamadbah2/layerfarm/pkg/metrics"
)

const testSecret = "test-secret"

type testServer struct {
	engine *gin.Engine
	store  *gormdb.Store
	token  string
}

func newTestServer(t *testing.T, secret string, client completion.Client) *testServer {
	t.Helper()
	ctx := context.Background()

	store, err := gormdb.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	perms := permissions.NewService(store, nil)
	require.NoError(t, perms.EnsureDefaults(ctx))

	m := metrics.New()
	analysisSvc := analysis.NewService(store, store, client, analysis.Options{Provider: "fake"}, m, nil)

	h := Handlers{
		Farm:          handlers.NewFarmHandler(farm.NewService(store, nil, nil), nil),
		Inventory:     handlers.NewInventoryHandler(inventory.NewService(store), nil),
		Sales:         handlers.NewSalesHandler(sales.NewService(store, sequence.NewService(store), nil), nil),
		Finance:       handlers.NewFinanceHandler(finance.NewService(store, nil), nil),
		Analysis:      handlers.NewAnalysisHandler(analysisSvc, nil),
		Reports:       handlers.NewReportHandler(reporting.NewService(store, nil), nil),
		Permissions:   handlers.NewPermissionHandler(perms, nil),
		Notifications: handlers.NewNotificationHandler(notify.NewLogNotifier(nil), nil),
	}
	engine := New(h, Options{JWTSecret: secret, Authorizer: perms, Metrics: m, Ready: func() error { return store.Ping(ctx) }}, nil)

	srv := &testServer{engine: engine, store: store}
	if secret != "" {
		srv.token = signToken(t, models.RoleSuperUser)
	}
	return srv
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": "tester", "role": role})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return s.doAs(t, s.token, method, path, body)
}

func (s *testServer) doAs(t *testing.T, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func createShed(t *testing.T, s *testServer, name string, capacity, birds int) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/kandang", map[string]any{
		"name": name, "type": "BATERAI", "capacity": capacity, "birdCount": birds,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Kandang berhasil dibuat", body["message"])
	return body["kandang"].(map[string]any)["id"].(string)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, "", nil)

	rec := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.do(t, http.MethodGet, "/api/kandang", nil)
	rec = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `layerfarm_http_requests_total{method="GET",route="/api/kandang",status="200"} 1`)
}

func TestDailyLogDecrementsBirdCount(t *testing.T) {
	s := newTestServer(t, "", nil)
	shedID := createShed(t, s, "Kandang A", 100, 80)

	rec := s.do(t, http.MethodPost, "/api/data-harian", map[string]any{
		"shedId": shedID, "recordedBy": "budi", "date": "2024-06-10", "goodEggs": 70, "deaths": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Data harian berhasil disimpan", decode(t, rec)["message"])

	rec = s.do(t, http.MethodGet, "/api/kandang/"+shedID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 75, decode(t, rec)["kandang"].(map[string]any)["birdCount"])

	rec = s.do(t, http.MethodGet, "/api/data-harian?shedId="+shedID+"&startDate=2024-06-10&endDate=2024-06-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["dataHarian"], 1)

	rec = s.do(t, http.MethodPost, "/api/data-harian", map[string]any{"shedId": "missing", "recordedBy": "budi", "deaths": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Kandang tidak ditemukan", decode(t, rec)["error"])
}

func TestSalesTotalsAndDuplicateInvoice(t *testing.T) {
	s := newTestServer(t, "", nil)
	invoice := map[string]any{
		"invoiceNumber": "INV-001", "date": "2024-06-01", "customer": "Toko Makmur",
		"eggKg": 10, "pricePerKg": 5000, "paid": 30000,
	}

	rec := s.do(t, http.MethodPost, "/api/penjualan", invoice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)["penjualan"].(map[string]any)
	assert.EqualValues(t, 50000, created["total"])
	assert.EqualValues(t, 20000, created["remainder"])

	rec = s.do(t, http.MethodPost, "/api/penjualan", invoice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Nomor invoice sudah ada", decode(t, rec)["error"])

	rec = s.do(t, http.MethodGet, "/api/penjualan", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["penjualan"], 1)
	assert.EqualValues(t, 1, body["summary"].(map[string]any)["totalTransaksi"])

	rec = s.do(t, http.MethodGet, "/api/penjualan/next-number", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Regexp(t, `^INV\d{6}0001$`, decode(t, rec)["invoiceNumber"])
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t, "", nil)

	rec := s.do(t, http.MethodPost, "/api/kandang", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Data tidak valid", decode(t, rec)["error"])
}

func TestGate(t *testing.T) {
	s := newTestServer(t, testSecret, nil)
	operator := signToken(t, models.RoleOperator)

	rec := s.doAs(t, "", http.MethodGet, "/api/penjualan", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.doAs(t, "not-a-jwt", http.MethodGet, "/api/penjualan", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.doAs(t, operator, http.MethodGet, "/api/penjualan", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Akses ditolak", decode(t, rec)["error"])

	rec = s.doAs(t, operator, http.MethodGet, "/api/data-harian", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/penjualan", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Granting the cell opens the route for the role.
	rec = s.do(t, http.MethodPost, "/api/role-permissions", map[string]any{
		"role": models.RoleOperator, "feature": models.FeatureSales, "allowed": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.doAs(t, operator, http.MethodGet, "/api/penjualan", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health endpoints sit outside the gate.
	rec = s.doAs(t, "", http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateUsernameFillsRecordedBy(t *testing.T) {
	s := newTestServer(t, testSecret, nil)
	shedID := createShed(t, s, "Kandang C", 100, 50)
	operator := signToken(t, models.RoleOperator)

	rec := s.doAs(t, operator, http.MethodPost, "/api/data-harian", map[string]any{"shedId": shedID, "goodEggs": 40})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "tester", decode(t, rec)["dataHarian"].(map[string]any)["recordedBy"])

	rec = s.doAs(t, operator, http.MethodPost, "/api/data-harian", map[string]any{"shedId": shedID, "recordedBy": "budi"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "budi", decode(t, rec)["dataHarian"].(map[string]any)["recordedBy"])

	// Without a gate there is no username to fall back on.
	ungated := newTestServer(t, "", nil)
	openShed := createShed(t, ungated, "Kandang D", 100, 50)
	rec = ungated.do(t, http.MethodPost, "/api/data-harian", map[string]any{"shedId": openShed})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRolePermissions(t *testing.T) {
	s := newTestServer(t, "", nil)

	rec := s.do(t, http.MethodPost, "/api/role-permissions", map[string]any{"role": "ADMIN", "feature": "pengaturan", "allowed": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Permission berhasil disimpan", decode(t, rec)["message"])

	rec = s.do(t, http.MethodPut, "/api/role-permissions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Default permissions berhasil diinisialisasi", decode(t, rec)["message"])

	rec = s.do(t, http.MethodGet, "/api/role-permissions?role=ADMIN", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, p := range decode(t, rec)["permissions"].([]any) {
		cell := p.(map[string]any)
		assert.Equal(t, cell["feature"] != "pengaturan", cell["allowed"], cell["feature"])
	}

	rec = s.do(t, http.MethodPost, "/api/role-permissions", map[string]any{"role": "ADMIN"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysisEndpoints(t *testing.T) {
	s := newTestServer(t, "", nil)
	rec := s.do(t, http.MethodPost, "/api/ai/analysis", map[string]any{"analysisType": "COST_ANALYSIS"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Layanan AI tidak tersedia", decode(t, rec)["error"])

	model := completion.Func(func(context.Context, completion.Request) (string, error) {
		return `{"ringkasan":"Biaya efisien","rekomendasi":["Beli jagung grosir"]}`, nil
	})
	s = newTestServer(t, "", model)

	rec = s.do(t, http.MethodPost, "/api/ai/analysis", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Jenis analisis wajib dipilih", decode(t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/api/ai/analysis", map[string]any{"analysisType": "COST_ANALYSIS"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Analisis Biaya Produksi", body["title"])
	assert.Equal(t, "Biaya efisien", body["analysis"].(map[string]any)["ringkasan"])
	assert.NotEmpty(t, body["analysisId"])

	shedID := createShed(t, s, "Kandang B", 500, 450)
	rec = s.do(t, http.MethodPost, "/api/ai/feed-optimization", map[string]any{"shedId": shedID, "birdCount": 450})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decode(t, rec)
	assert.Equal(t, "2.20", body["summary"].(map[string]any)["fcr"])
	assert.Equal(t, "Kandang B", body["kandang"].(map[string]any)["name"])

	rec = s.do(t, http.MethodGet, "/api/ai/analyses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["analyses"], 2)
}

func TestFinanceAndReports(t *testing.T) {
	s := newTestServer(t, "", nil)

	rec := s.do(t, http.MethodPost, "/api/keuangan/piutang", map[string]any{
		"customer": "Toko Makmur", "amount": 100000, "dueDate": "2024-07-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode(t, rec)["piutang"].(map[string]any)["id"].(string)

	rec = s.do(t, http.MethodPost, "/api/keuangan/piutang/"+id+"/pembayaran", map[string]any{"amount": 100000})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "LUNAS", decode(t, rec)["piutang"].(map[string]any)["status"])

	rec = s.do(t, http.MethodPost, "/api/keuangan/pengeluaran", map[string]any{
		"voucherNumber": "BK-1", "category": "pakan", "amount": 250000, "recordedBy": "sari",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Pengeluaran berhasil ditambahkan", decode(t, rec)["message"])

	rec = s.do(t, http.MethodGet, "/api/keuangan/pengeluaran", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["pengeluaran"], 1)

	rec = s.do(t, http.MethodGet, "/api/reports/export?startDate=2024-01-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "laporan_20240101_akhir.xlsx")

	rec = s.do(t, http.MethodGet, "/api/reports/export?startDate=kemarin", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotifications(t *testing.T) {
	s := newTestServer(t, "", nil)

	rec := s.do(t, http.MethodPost, "/api/notifications", map[string]any{"to": "62812", "message": "Pakan tiba"})
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/notifications", map[string]any{"to": "62812"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
