package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/config"
	"github.com/mamadbah2/layerfarm/internal/domain/models"
	"github.com/mamadbah2/layerfarm/internal/repository/gormdb"
	"github.com/mamadbah2/layerfarm/pkg/clients/completion"
	"github.com/mamadbah2/layerfarm/pkg/metrics"
)

var fixedNow = time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

type fakeModel struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []completion.Request
}

func (f *fakeModel) Complete(_ context.Context, req completion.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func (f *fakeModel) last() completion.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func openStore(t *testing.T) *gormdb.Store {
	t.Helper()

	store, err := gormdb.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func newTestService(t *testing.T, store *gormdb.Store, client completion.Client) *Service {
	t.Helper()
	svc := NewService(store, store, client, Options{Provider: "fake", Timeout: time.Second}, metrics.New(), zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func seedFarm(t *testing.T, store *gormdb.Store) models.Shed {
	t.Helper()
	ctx := context.Background()

	shed := models.Shed{Name: "Kandang A", Type: models.ShedBattery, Capacity: 1000, BirdCount: 900, IsActive: true}
	require.NoError(t, store.CreateShed(ctx, &shed))

	for i, eggs := range []int{800, 820, 780} {
		log := models.DailyLog{
			ShedID:         shed.ID,
			Date:           fixedNow.AddDate(0, 0, -(i + 1)).Truncate(24 * time.Hour),
			RecordedBy:     "budi",
			GoodEggs:       eggs,
			FinishedFeedKg: 100,
		}
		require.NoError(t, store.CreateDailyLog(ctx, &log))
	}

	// Outside the default 30 day window.
	old := models.DailyLog{ShedID: shed.ID, Date: fixedNow.AddDate(0, 0, -90), GoodEggs: 5}
	require.NoError(t, store.CreateDailyLog(ctx, &old))

	corn := models.StockItem{Category: models.StockFeedRawMaterial, Name: "Jagung", Quantity: 500, Unit: "kg", UnitPrice: ptr(5500.0)}
	require.NoError(t, store.CreateStock(ctx, &corn))
	meds := models.StockItem{Category: models.StockMedicine, Name: "Vitamin", Quantity: 3, Unit: "botol"}
	require.NoError(t, store.CreateStock(ctx, &meds))

	return shed
}

func TestRunStoresAuditRecord(t *testing.T) {
	store := openStore(t)
	seedFarm(t, store)

	model := &fakeModel{reply: "```json\n{\"skor_performa\": 82, \"kategori_performa\": \"baik\", \"rekomendasi\": [\"Cek ventilasi\", \"Tambah kalsium\"], \"ringkasan\": \"Performa baik\"}\n```"}
	svc := newTestService(t, store, model)

	resp, err := svc.Run(context.Background(), Request{Type: PerformanceAnalysis})
	require.NoError(t, err)

	assert.Equal(t, "Analisis berhasil", resp.Message)
	assert.Equal(t, "Analisis Performa Peternakan", resp.Title)
	require.NotEmpty(t, resp.AnalysisID)

	perf, ok := resp.Analysis.(*Performance)
	require.True(t, ok)
	assert.Equal(t, "82", perf.Score.String())

	req := model.last()
	assert.Equal(t, analysisSystemPrompt, req.System)
	assert.Contains(t, req.Prompt, "- Kandang A: 900/1000 ekor (90.0% utilisasi)")
	assert.NotContains(t, req.Prompt, ": 5 butir")

	records, err := svc.ListAnalyses(context.Background(), string(PerformanceAnalysis), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, resp.AnalysisID, records[0].ID)
	assert.Equal(t, "Cek ventilasi; Tambah kalsium", records[0].Recommendation)
	assert.True(t, json.Valid([]byte(records[0].Result)))
}

func TestRunKeepsModelAdviceWithNestedMetrics(t *testing.T) {
	store := openStore(t)
	model := &fakeModel{reply: `{"skor_performa":82,"metrik_utama":{"produktivitas":{"nilai":"88%","penilaian":"baik"}},"rekomendasi":["Tambah vitamin"]}`}
	svc := newTestService(t, store, model)

	resp, err := svc.Run(context.Background(), Request{Type: PerformanceAnalysis})
	require.NoError(t, err)
	assert.Empty(t, resp.Analysis.(*Performance).RawResponse)

	records, err := svc.ListAnalyses(context.Background(), string(PerformanceAnalysis), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Tambah vitamin", records[0].Recommendation)
	assert.Contains(t, records[0].Result, `"penilaian":"baik"`)
}

func TestRunWindowAndShedScope(t *testing.T) {
	store := openStore(t)
	shed := seedFarm(t, store)
	model := &fakeModel{reply: `{"ringkasan":"ok"}`}
	svc := newTestService(t, store, model)

	_, err := svc.Run(context.Background(), Request{Type: ProductionPrediction, ShedID: shed.ID, WindowDays: 1000})
	require.NoError(t, err)

	prompt := model.last().Prompt
	assert.Contains(t, prompt, "- Periode data: 365 hari terakhir (4 catatan)")
	assert.Contains(t, prompt, "- Kandang: Kandang A (BATERAI)")

	_, err = svc.Run(context.Background(), Request{Type: ProductionPrediction, ShedID: "missing"})
	var modelErr *models.Error
	require.ErrorAs(t, err, &modelErr)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRunFallbackOnUnparsableOutput(t *testing.T) {
	store := openStore(t)
	svc := newTestService(t, store, &fakeModel{reply: "Maaf, data belum cukup untuk analisis."})

	resp, err := svc.Run(context.Background(), Request{Type: HealthAnalysis})
	require.NoError(t, err)

	health := resp.Analysis.(*Health)
	assert.Equal(t, "Maaf, data belum cukup untuk analisis.", health.RawResponse)
	assert.Equal(t, defaultRecommendations, health.Recommendations.Strings())

	records, err := svc.ListAnalyses(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, string(HealthAnalysis), records[0].Type)
}

func TestRunValidation(t *testing.T) {
	store := openStore(t)
	model := &fakeModel{reply: `{}`}
	svc := newTestService(t, store, model)
	ctx := context.Background()

	cases := []struct {
		req  Request
		want string
	}{
		{req: Request{}, want: "Jenis analisis wajib dipilih"},
		{req: Request{Type: "MAGIC"}, want: "Jenis analisis tidak valid"},
		{req: Request{Type: FeedOptimization}, want: "Jenis analisis tidak valid"},
		{req: Request{Type: CostAnalysis, WindowDays: -1}, want: "Periode analisis tidak valid"},
	}
	for _, tc := range cases {
		_, err := svc.Run(ctx, tc.req)
		var modelErr *models.Error
		require.ErrorAs(t, err, &modelErr)
		assert.Equal(t, tc.want, modelErr.Message)
		assert.ErrorIs(t, err, models.ErrValidation)
	}
	assert.Empty(t, model.requests)
}

func TestRunUnavailableAndProviderErrors(t *testing.T) {
	store := openStore(t)

	svc := newTestService(t, store, nil)
	assert.False(t, svc.Available())
	_, err := svc.Run(context.Background(), Request{Type: CostAnalysis})
	assert.True(t, IsUnavailable(err))
	_, err = svc.OptimizeFeed(context.Background(), FeedRequest{ShedID: "x", BirdCount: 10})
	assert.True(t, IsUnavailable(err))

	boom := errors.New("rate limited")
	svc = newTestService(t, store, &fakeModel{err: boom})
	_, err = svc.Run(context.Background(), Request{Type: CostAnalysis})
	assert.ErrorIs(t, err, ErrCompletion)
	assert.ErrorIs(t, err, boom)

	records, err := svc.ListAnalyses(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunHonoursTimeout(t *testing.T) {
	store := openStore(t)
	slow := completion.Func(func(ctx context.Context, _ completion.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	svc := NewService(store, store, slow, Options{Timeout: 20 * time.Millisecond}, nil, nil)

	_, err := svc.Run(context.Background(), Request{Type: CostAnalysis})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOptimizeFeed(t *testing.T) {
	store := openStore(t)
	shed := seedFarm(t, store)
	model := &fakeModel{reply: `{"formulasi_pakan":[{"bahan":"Jagung","persentase":50,"jumlah_kg":52.5,"alasan":"energi"}],"rekomendasi":["Campur merata"],"manfaat":["Cangkang kuat"]}`}
	svc := newTestService(t, store, model)

	resp, err := svc.OptimizeFeed(context.Background(), FeedRequest{ShedID: shed.ID, BirdCount: 900})
	require.NoError(t, err)

	assert.Equal(t, "Optimasi pakan berhasil", resp.Message)
	assert.Equal(t, ShedRef{ID: shed.ID, Name: "Kandang A", Type: models.ShedBattery}, resp.Shed)
	assert.Equal(t, FeedSummary{BirdCount: 900, FCR: "0.12", AvgProduction: "601", AvgFeed: "75.0"}, resp.Summary)
	require.NotEmpty(t, resp.AnalysisID)

	feed := resp.Analysis.(*Feed)
	require.Len(t, feed.Ingredients, 1)
	assert.Equal(t, "Jagung", feed.Ingredients[0].Material.String())

	req := model.last()
	assert.Equal(t, feedSystemPrompt, req.System)
	assert.Contains(t, req.Prompt, "- Jagung: 500 kg (Rp 5.500/kg)")
	assert.NotContains(t, req.Prompt, "Vitamin")

	records, err := svc.ListAnalyses(context.Background(), string(FeedOptimization), 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Campur merata", records[0].Recommendation)
}

func TestOptimizeFeedValidation(t *testing.T) {
	store := openStore(t)
	svc := newTestService(t, store, &fakeModel{reply: `{}`})

	_, err := svc.OptimizeFeed(context.Background(), FeedRequest{ShedID: "x"})
	var modelErr *models.Error
	require.ErrorAs(t, err, &modelErr)
	assert.Equal(t, "Kandang dan jumlah ayam wajib diisi", modelErr.Message)

	_, err = svc.OptimizeFeed(context.Background(), FeedRequest{ShedID: "missing", BirdCount: 10})
	require.ErrorAs(t, err, &modelErr)
	assert.Equal(t, "Kandang tidak ditemukan", modelErr.Message)
}
