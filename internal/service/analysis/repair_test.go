package analysis

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "bare object", raw: `{"ringkasan":"ok"}`, want: `{"ringkasan":"ok"}`},
		{name: "fenced", raw: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "prose around", raw: "Berikut hasilnya:\n{\"a\": {\"b\": 2}}\nSemoga membantu.", want: `{"a": {"b": 2}}`},
		{name: "brace inside string", raw: `note {"ringkasan": "pakai {x} dan }"} end`, want: `{"ringkasan": "pakai {x} dan }"}`},
		{name: "invalid candidate skipped", raw: `gunakan {x} lalu {"a": true}`, want: `{"a": true}`},
		{name: "escaped quote", raw: `{"a": "kata \"kunci\" {"}`, want: `{"a": "kata \"kunci\" {"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSON(tc.raw)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	_, ok := ExtractJSON("tidak ada JSON di sini")
	assert.False(t, ok)
	_, ok = ExtractJSON(`{"a": `)
	assert.False(t, ok)

	// A trailing comma spoils the outer object; its nested part is not a result.
	_, ok = ExtractJSON(`{"rekomendasi":["a"], "detail": {"ringkasan":"inner only"},}`)
	assert.False(t, ok)
}

func TestInterpretInvalidOuterObjectFallsBack(t *testing.T) {
	raw := `{"rekomendasi":["a"], "detail": {"ringkasan":"inner only"},}`

	result, ok := Interpret(ProductionPrediction, raw)
	assert.False(t, ok)
	assert.Equal(t, raw, result.(*Production).RawResponse)
	assert.Equal(t, strings.Join(defaultRecommendations, "; "), result.Recommendation())
}

func TestRepairKeepsObjectUnchanged(t *testing.T) {
	obj := `{"ringkasan":"stabil","rekomendasi":["a","b"],"extra":{"n":1.5}}`
	payload, ok := Repair("Jawaban:\n" + obj + "\n")
	require.True(t, ok)

	want := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(obj), &want))
	assert.Equal(t, want, payload)
}

func TestInterpretFallback(t *testing.T) {
	raw := strings.Repeat("é", 600)

	result, ok := Interpret(CostAnalysis, raw)
	assert.False(t, ok)

	cost, isCost := result.(*Cost)
	require.True(t, isCost)
	assert.Len(t, []rune(cost.Summary.String()), summaryLimit)
	assert.Equal(t, defaultRecommendations, cost.Recommendations.Strings())
	assert.Equal(t, raw, cost.RawResponse)
	assert.Equal(t, strings.Join(defaultRecommendations, "; "), result.Recommendation())
}

func TestInterpretDropsMisshapenKeys(t *testing.T) {
	// prediksi_produksi must be an object; only that key is lost.
	result, ok := Interpret(ProductionPrediction, `{"prediksi_produksi":"naik terus","trend":"naik","rekomendasi":["Tambah pakan"]}`)
	require.True(t, ok)
	prod := result.(*Production)
	assert.Nil(t, prod.Forecast)
	assert.Equal(t, "naik", prod.Trend.String())
	assert.Equal(t, "Tambah pakan", prod.Recommendation())

	// No known keys at all.
	raw := `{"foo":"bar"}`
	result, ok = Interpret(PerformanceAnalysis, raw)
	assert.False(t, ok)
	assert.Equal(t, raw, result.(*Performance).RawResponse)

	// Known keys that all have the wrong structure count as none.
	_, ok = Interpret(CostAnalysis, `{"struktur_biaya":"mahal"}`)
	assert.False(t, ok)
}

func TestInterpretKeepsNestedValues(t *testing.T) {
	raw := `{"skor_performa":82,"kategori_performa":"Baik",` +
		`"metrik_utama":{"produktivitas":{"nilai":"88%","penilaian":"baik"},"kesehatan":"stabil"},` +
		`"rekomendasi":["Tambah vitamin",{"aksi":"Cek ventilasi"}],"ringkasan":"Performa baik"}`

	result, ok := Interpret(PerformanceAnalysis, raw)
	require.True(t, ok)

	perf := result.(*Performance)
	assert.Equal(t, "82", perf.Score.String())
	assert.Equal(t, `{"nilai":"88%","penilaian":"baik"}`, perf.Metrics.Productivity.String())
	assert.Equal(t, "stabil", perf.Metrics.Health.String())
	assert.Equal(t, `Tambah vitamin; {"aksi":"Cek ventilasi"}`, result.Recommendation())
	assert.Empty(t, perf.RawResponse)

	encoded, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(encoded))
}

func TestInterpretTypedResult(t *testing.T) {
	raw := `Hasil: {"prediksi_produksi":{"besok":950,"7_hari":"6650 butir","30_hari":28500},` +
		`"trend":"naik","rekomendasi":"Tambah pakan","ringkasan":"Produksi baik"}`

	result, ok := Interpret(ProductionPrediction, raw)
	require.True(t, ok)

	prod := result.(*Production)
	assert.Equal(t, "950", prod.Forecast.Tomorrow.String())
	assert.Equal(t, "6650 butir", prod.Forecast.Week.String())
	assert.Equal(t, "Tambah pakan", prod.Recommendation())
	assert.Empty(t, prod.RawResponse)

	encoded, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"prediksi_produksi":{"besok":950,"7_hari":"6650 butir","30_hari":28500},`+
		`"trend":"naik","rekomendasi":["Tambah pakan"],"ringkasan":"Produksi baik"}`, string(encoded))
}

func TestHealthRecommendationFallsBackToHealthAdvice(t *testing.T) {
	result, ok := Interpret(HealthAnalysis, `{"status_kesehatan":"baik","rekomendasi_kesehatan":["Vaksin ND","Biosekuriti"]}`)
	require.True(t, ok)
	assert.Equal(t, "Vaksin ND; Biosekuriti", result.Recommendation())
}

func TestFeedFallback(t *testing.T) {
	result, ok := Interpret(FeedOptimization, "maaf, saya tidak bisa")
	assert.False(t, ok)

	encoded, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"formulasi_pakan": [],
		"kebutuhan_nutrisi": {"protein": "16-18%", "energi": "2800-3000 kcal/kg", "kalsium": "3.5-4.0%", "fosfor": "0.4-0.45%"},
		"biaya_estimasi": {"per_kg": "Rp 0", "per_hari": "Rp 0", "per_ayam": "Rp 0"},
		"manfaat": ["Meningkatkan kualitas telur", "Mengoptimalkan biaya produksi"],
		"rekomendasi": ["Gunakan formulasi pakan seimbang dengan protein 16-18%", "Pastikan kalsium cukup untuk kualitas cangkang telur"],
		"raw_response": "maaf, saya tidak bisa"
	}`, string(encoded))
}
