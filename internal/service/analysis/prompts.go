package analysis

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

const (
	analysisSystemPrompt = "Anda adalah ahli analisis peternakan ayam petelur. Berikan analisis mendalam dengan rekomendasi yang dapat ditindaklanjuti. Selalu berikan respons dalam format JSON yang valid."
	feedSystemPrompt     = "Anda adalah ahli nutrisi ayam petelur dengan pengalaman luas dalam formulasi pakan yang efisien dan ekonomis. Selalu berikan respons dalam format JSON yang valid."

	salesDateLayout = "02/01/2006"
)

// BuildPrompt renders the user prompt for analysis type t.
func BuildPrompt(t Type, snap Snapshot) (string, error) {
	switch t {
	case ProductionPrediction:
		return productionPrompt(snap), nil
	case CostAnalysis:
		return costPrompt(snap), nil
	case PerformanceAnalysis:
		return performancePrompt(snap), nil
	case HealthAnalysis:
		return healthPrompt(snap), nil
	case ProfitabilityAnalysis:
		return profitabilityPrompt(snap), nil
	}
	return "", models.Invalid("Jenis analisis tidak valid")
}

func totalBirds(sheds []models.Shed) int {
	total := 0
	for _, s := range sheds {
		total += s.BirdCount
	}
	return total
}

func shedLabel(shed *models.Shed) string {
	if shed == nil {
		return "Semua kandang"
	}
	return fmt.Sprintf("%s (%s)", shed.Name, shed.Type)
}

func firstLogs(logs []models.DailyLog, n int) []models.DailyLog {
	if len(logs) > n {
		return logs[:n]
	}
	return logs
}

func productionPrompt(snap Snapshot) string {
	stats := summarizeLogs(snap.Logs)

	var b strings.Builder
	b.WriteString("Lakukan prediksi produksi telur untuk peternakan dengan data berikut:\n\n")
	b.WriteString("DATA PETERNAKAN:\n")
	fmt.Fprintf(&b, "- Jumlah kandang: %d\n", len(snap.Sheds))
	fmt.Fprintf(&b, "- Total ayam: %d ekor\n", totalBirds(snap.Sheds))
	fmt.Fprintf(&b, "- Periode data: %d hari terakhir (%d catatan)\n", snap.WindowDays, stats.count)
	fmt.Fprintf(&b, "- Kandang: %s\n\n", shedLabel(snap.Shed))

	b.WriteString("RIWAYAT PRODUKSI:\n")
	fmt.Fprintf(&b, "- Rata-rata produksi: %s butir/hari\n", fixed(stats.avgEggs(), 0))
	fmt.Fprintf(&b, "- Rata-rata pakan: %s kg/hari\n", fixed(stats.avgFeedKg(), 1))
	fmt.Fprintf(&b, "- Rata-rata mortalitas: %s ekor/hari\n", fixed(stats.avgDeaths(), 2))
	fmt.Fprintf(&b, "- FCR (Feed Conversion Ratio): %s\n\n", stats.fcrText())

	b.WriteString("DETAIL PRODUKSI TERAKHIR:\n")
	for i, l := range firstLogs(snap.Logs, 7) {
		fmt.Fprintf(&b, "- Hari ke-%d: %d butir, %s kg pakan\n", i+1, l.TotalEggs(), plain(l.TotalFeedKg()))
	}

	b.WriteString(`
Berikan analisis dalam format JSON dengan struktur berikut:
{
  "prediksi_produksi": {
    "besok": "jumlah butir",
    "7_hari": "jumlah butir",
    "30_hari": "jumlah butir"
  },
  "trend": "naik/turun/stabil",
  "faktor_pengaruh": ["faktor 1", "faktor 2"],
  "rekomendasi": ["rekomendasi 1", "rekomendasi 2"],
  "potensi_masalah": ["masalah 1", "masalah 2"],
  "ringkasan": "ringkasan analisis"
}`)
	return b.String()
}

func costPrompt(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("Lakukan analisis biaya produksi peternakan ayam petelur dengan data berikut:\n\n")

	b.WriteString("STOK DAN HARGA:\n")
	for _, item := range snap.Stock {
		price := "N/A"
		if item.UnitPrice != nil {
			price = rupiah(*item.UnitPrice)
		}
		fmt.Fprintf(&b, "- %s: %s %s @ Rp %s/%s\n", item.Name, plain(item.Quantity), item.Unit, price, item.Unit)
	}

	b.WriteString("\nPENJUALAN TERAKHIR:\n")
	for _, sale := range firstSales(snap.Sales, 10) {
		fmt.Fprintf(&b, "- %s: Rp %s\n", sale.Date.Format(salesDateLayout), rupiah(sale.Total))
	}

	b.WriteString(`
Berikan analisis dalam format JSON dengan struktur berikut:
{
  "struktur_biaya": {
    "pakan": "persentase dan nominal",
    "obat": "persentase dan nominal",
    "tenaga_kerja": "persentase dan nominal",
    "lainnya": "persentase dan nominal"
  },
  "total_biaya": "nominal",
  "biaya_per_butir": "nominal",
  "biaya_per_kg": "nominal",
  "efisiensi": "tinggi/sedang/rendah",
  "area_penghematan": ["area 1", "area 2"],
  "rekomendasi": ["rekomendasi 1", "rekomendasi 2"],
  "ringkasan": "ringkasan analisis"
}`)
	return b.String()
}

func firstSales(sales []models.SalesInvoice, n int) []models.SalesInvoice {
	if len(sales) > n {
		return sales[:n]
	}
	return sales
}

func performancePrompt(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("Lakukan analisis performa peternakan ayam petelur dengan data berikut:\n\n")

	b.WriteString("DATA KANDANG:\n")
	for _, shed := range snap.Sheds {
		fmt.Fprintf(&b, "- %s: %d/%d ekor (%s%% utilisasi)\n", shed.Name, shed.BirdCount, shed.Capacity, fixed(shed.Utilization(), 1))
	}

	b.WriteString("\nRIWAYAT PRODUKSI:\n")
	if len(snap.Logs) == 0 {
		b.WriteString("Tidak ada data\n")
	}
	for _, l := range firstLogs(snap.Logs, 7) {
		fmt.Fprintf(&b, "- %s: %d butir, %d kematian\n", l.Date.Format(salesDateLayout), l.TotalEggs(), l.Deaths)
	}

	b.WriteString(`
Berikan analisis dalam format JSON dengan struktur berikut:
{
  "skor_performa": "0-100",
  "kategori_performa": "sangat baik/baik/cukup/kurang",
  "metrik_utama": {
    "produktivitas": "nilai dan penilaian",
    "efisiensi_pakan": "nilai dan penilaian",
    "kesehatan": "nilai dan penilaian",
    "kualitas_telur": "nilai dan penilaian"
  },
  "kekuatan": ["kekuatan 1", "kekuatan 2"],
  "kelemahan": ["kelemahan 1", "kelemahan 2"],
  "rekomendasi": ["rekomendasi 1", "rekomendasi 2"],
  "ringkasan": "ringkasan analisis"
}`)
	return b.String()
}

func healthPrompt(snap Snapshot) string {
	stats := summarizeLogs(snap.Logs)

	var b strings.Builder
	b.WriteString("Lakukan analisis kesehatan ayam petelur dengan data berikut:\n\n")

	b.WriteString("DATA KESEHATAN HARIAN:\n")
	for _, l := range firstLogs(snap.Logs, 14) {
		fmt.Fprintf(&b, "- %s: %d kematian, %d afkir", l.Date.Format(salesDateLayout), l.Deaths, l.Culls)
		if l.Vaccination != nil && *l.Vaccination != "" {
			fmt.Fprintf(&b, ", vaksin: %s", *l.Vaccination)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nTOTAL KEMATIAN: %d ekor\n", stats.totalDeaths)
	fmt.Fprintf(&b, "TOTAL AFKIR: %d ekor\n", stats.totalCulls)
	fmt.Fprintf(&b, "JUMLAH VAKSINASI: %d kali\n", stats.vaccinations)

	b.WriteString(`
Berikan analisis dalam format JSON dengan struktur berikut:
{
  "status_kesehatan": "sangat baik/baik/perlu perhatian/kritis",
  "tingkat_mortalitas": "persentase dan penilaian",
  "tingkat_afkir": "persentase dan penilaian",
  "risiko_kesehatan": ["risiko 1", "risiko 2"],
  "rekomendasi_kesehatan": ["rekomendasi 1", "rekomendasi 2"],
  "jadwal_vaksin": ["vaksin yang disarankan"],
  "ringkasan": "ringkasan analisis"
}`)
	return b.String()
}

func profitabilityPrompt(snap Snapshot) string {
	stats := summarizeLogs(snap.Logs)
	sales := models.SummarizeSales(snap.Sales)

	var b strings.Builder
	b.WriteString("Lakukan analisis profitabilitas peternakan ayam petelur dengan data berikut:\n\n")

	b.WriteString("PENJUALAN:\n")
	fmt.Fprintf(&b, "- Total Transaksi: %d\n", sales.Transactions)
	fmt.Fprintf(&b, "- Total Pendapatan: Rp %s\n", rupiah(sales.Total))
	fmt.Fprintf(&b, "- Piutang Belum Lunas: Rp %s\n\n", rupiah(sales.Outstanding))

	b.WriteString("PRODUKSI:\n")
	fmt.Fprintf(&b, "- Total Telur: %d butir\n", stats.totalEggs)
	fmt.Fprintf(&b, "- Total Pakan: %s kg\n", fixed(stats.totalFeedKg, 1))

	b.WriteString(`
Berikan analisis dalam format JSON dengan struktur berikut:
{
  "profit_margin": "persentase",
  "kategori_profit": "sangat menguntungkan/menguntungkan/impas/rugi",
  "rasio_keuangan": {
    "pendapatan": "nominal",
    "pengeluaran_estimasi": "nominal",
    "profit_bersih": "nominal",
    "roi": "persentase"
  },
  "area_optimasi": ["area 1", "area 2"],
  "rekomendasi": ["rekomendasi 1", "rekomendasi 2"],
  "ringkasan": "ringkasan analisis"
}`)
	return b.String()
}

// BuildFeedPrompt renders the feed formulation prompt.
func BuildFeedPrompt(fc FeedContext) string {
	stats := summarizeLogs(fc.Logs)
	avgEggs := stats.avgEggs()

	var b strings.Builder
	b.WriteString("Sebagai ahli nutrisi ayam petelur, berikan rekomendasi formulasi pakan optimal dengan data berikut:\n\n")

	b.WriteString("KONTEKS PETERNAKAN:\n")
	fmt.Fprintf(&b, "- Jenis kandang: %s\n", fc.Shed.Type)
	fmt.Fprintf(&b, "- Jumlah ayam: %d ekor\n", fc.BirdCount)
	fmt.Fprintf(&b, "- Kapasitas kandang: %d ekor\n", fc.Shed.Capacity)
	if fc.TargetOutput != nil {
		fmt.Fprintf(&b, "- Target produksi: %s butir/hari\n\n", plain(*fc.TargetOutput))
	} else {
		fmt.Fprintf(&b, "- Target produksi: %s butir/hari (rata-rata saat ini)\n\n", fixed(avgEggs, 0))
	}

	b.WriteString("RIWAYAT PRODUKSI:\n")
	fmt.Fprintf(&b, "- Rata-rata produksi: %s butir/hari\n", fixed(avgEggs, 0))
	fmt.Fprintf(&b, "- Rata-rata pakan: %s kg/hari\n", fixed(stats.avgFeedKg(), 1))
	fmt.Fprintf(&b, "- FCR: %s\n\n", fixed(feedFCR(stats), 2))

	b.WriteString("STOK BAHAN BAKU TERSEDIA:\n")
	if len(fc.RawMaterials) == 0 {
		b.WriteString("Tidak ada data\n")
	}
	for _, item := range fc.RawMaterials {
		price := "N/A"
		if item.UnitPrice != nil {
			price = rupiah(*item.UnitPrice)
		}
		fmt.Fprintf(&b, "- %s: %s %s (Rp %s/%s)\n", item.Name, plain(item.Quantity), item.Unit, price, item.Unit)
	}

	b.WriteString(`
Berikan rekomendasi dalam format JSON dengan struktur berikut:
{
  "formulasi_pakan": [
    {
      "bahan": "nama bahan",
      "persentase": "persentase dalam formula",
      "jumlah_kg": "jumlah per hari dalam kg",
      "alasan": "alasan penggunaan"
    }
  ],
  "kebutuhan_nutrisi": {
    "protein": "persentase",
    "energi": "kcal/kg",
    "kalsium": "persentase",
    "fosfor": "persentase"
  },
  "biaya_estimasi": {
    "per_kg": "Rp",
    "per_hari": "Rp",
    "per_ayam": "Rp"
  },
  "rekomendasi": ["rekomendasi 1", "rekomendasi 2"],
  "manfaat": ["manfaat 1", "manfaat 2"]
}

Pastikan formulasi pakan memenuhi standar nutrisi ayam petelur dan memaksimalkan efisiensi biaya.`)
	return b.String()
}

// feedFCR falls back to a typical layer FCR when there is no egg output.
func feedFCR(stats logStats) float64 {
	if v, ok := stats.fcr(); ok {
		return v
	}
	return defaultFCR
}
