package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

func ptr[T any](v T) *T { return &v }

func sampleSnapshot() Snapshot {
	day := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	shed := models.Shed{Name: "Kandang A", Type: models.ShedBattery, Capacity: 1000, BirdCount: 800}
	shed.ID = "shed-a"
	return Snapshot{
		Sheds: []models.Shed{shed},
		Logs: []models.DailyLog{
			{Date: day, GoodEggs: 90, CrackedEggs: 10, RawFeedKg: 10, FinishedFeedKg: 2, Deaths: 2, Culls: 1, Vaccination: ptr("ND-IB")},
			{Date: day.AddDate(0, 0, -1), GoodEggs: 120, RawFeedKg: 14},
		},
		Stock: []models.StockItem{
			{Name: "Jagung", Quantity: 500, Unit: "kg", UnitPrice: ptr(5500.0)},
			{Name: "Vitamin", Quantity: 2.5, Unit: "liter"},
		},
		Sales: []models.SalesInvoice{
			{Date: day, Total: 1250000, Remainder: 250000},
			{Date: day.AddDate(0, 0, -2), Total: 750000},
		},
		WindowDays: 30,
		Now:        day,
	}
}

func TestProductionPrompt(t *testing.T) {
	prompt, err := BuildPrompt(ProductionPrediction, sampleSnapshot())
	require.NoError(t, err)

	assert.Contains(t, prompt, "- Jumlah kandang: 1")
	assert.Contains(t, prompt, "- Total ayam: 800 ekor")
	assert.Contains(t, prompt, "- Kandang: Semua kandang")
	assert.Contains(t, prompt, "- Rata-rata produksi: 110 butir/hari")
	assert.Contains(t, prompt, "- Rata-rata pakan: 13.0 kg/hari")
	assert.Contains(t, prompt, "- Rata-rata mortalitas: 1.00 ekor/hari")
	assert.Contains(t, prompt, "- FCR (Feed Conversion Ratio): 0.12")
	assert.Contains(t, prompt, "- Hari ke-1: 100 butir, 12 kg pakan")
	assert.Contains(t, prompt, `"prediksi_produksi"`)
}

func TestPromptsWithoutHistory(t *testing.T) {
	snap := Snapshot{WindowDays: 30}

	prompt, err := BuildPrompt(ProductionPrediction, snap)
	require.NoError(t, err)
	assert.Contains(t, prompt, "- Rata-rata produksi: 0 butir/hari")
	assert.Contains(t, prompt, "- FCR (Feed Conversion Ratio): N/A")

	prompt, err = BuildPrompt(PerformanceAnalysis, snap)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Tidak ada data")
}

func TestCostPrompt(t *testing.T) {
	prompt, err := BuildPrompt(CostAnalysis, sampleSnapshot())
	require.NoError(t, err)

	assert.Contains(t, prompt, "- Jagung: 500 kg @ Rp 5.500/kg")
	assert.Contains(t, prompt, "- Vitamin: 2.5 liter @ Rp N/A/liter")
	assert.Contains(t, prompt, "- 14/06/2024: Rp 1.250.000")
}

func TestPerformancePrompt(t *testing.T) {
	snap := sampleSnapshot()
	snap.Sheds = append(snap.Sheds, models.Shed{Name: "Kandang Kosong"})

	prompt, err := BuildPrompt(PerformanceAnalysis, snap)
	require.NoError(t, err)
	assert.Contains(t, prompt, "- Kandang A: 800/1000 ekor (80.0% utilisasi)")
	assert.Contains(t, prompt, "- Kandang Kosong: 0/0 ekor (0.0% utilisasi)")
}

func TestHealthPrompt(t *testing.T) {
	prompt, err := BuildPrompt(HealthAnalysis, sampleSnapshot())
	require.NoError(t, err)

	assert.Contains(t, prompt, "- 14/06/2024: 2 kematian, 1 afkir, vaksin: ND-IB")
	assert.Contains(t, prompt, "- 13/06/2024: 0 kematian, 0 afkir\n")
	assert.Contains(t, prompt, "TOTAL KEMATIAN: 2 ekor")
	assert.Contains(t, prompt, "JUMLAH VAKSINASI: 1 kali")
}

func TestProfitabilityPrompt(t *testing.T) {
	prompt, err := BuildPrompt(ProfitabilityAnalysis, sampleSnapshot())
	require.NoError(t, err)

	assert.Contains(t, prompt, "- Total Transaksi: 2")
	assert.Contains(t, prompt, "- Total Pendapatan: Rp 2.000.000")
	assert.Contains(t, prompt, "- Piutang Belum Lunas: Rp 250.000")
	assert.Contains(t, prompt, "- Total Telur: 220 butir")
	assert.Contains(t, prompt, "- Total Pakan: 26.0 kg")
}

func TestBuildPromptUnknownType(t *testing.T) {
	_, err := BuildPrompt(FeedOptimization, Snapshot{})
	var modelErr *models.Error
	require.ErrorAs(t, err, &modelErr)
	assert.Equal(t, "Jenis analisis tidak valid", modelErr.Message)
}

func TestFeedPrompt(t *testing.T) {
	snap := sampleSnapshot()
	fc := FeedContext{
		Shed:         snap.Sheds[0],
		BirdCount:    750,
		Logs:         snap.Logs,
		RawMaterials: snap.Stock[:1],
	}

	prompt := BuildFeedPrompt(fc)
	assert.Contains(t, prompt, "- Jenis kandang: BATERAI")
	assert.Contains(t, prompt, "- Jumlah ayam: 750 ekor")
	assert.Contains(t, prompt, "- Target produksi: 110 butir/hari (rata-rata saat ini)")
	assert.Contains(t, prompt, "- FCR: 0.12")
	assert.Contains(t, prompt, "- Jagung: 500 kg (Rp 5.500/kg)")

	fc.Logs = nil
	fc.TargetOutput = ptr(700.0)
	prompt = BuildFeedPrompt(fc)
	assert.Contains(t, prompt, "- Target produksi: 700 butir/hari")
	assert.Contains(t, prompt, "- FCR: 2.20")
}
