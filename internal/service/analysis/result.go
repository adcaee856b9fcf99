package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errEmptyValue = errors.New("empty JSON value")

// Scalar is a leaf value of an analysis. Strings, numbers and booleans are
// the usual case; nested objects or arrays the model adds are kept verbatim.
type Scalar struct {
	raw json.RawMessage
}

func text(s string) *Scalar {
	raw, _ := json.Marshal(s)
	return &Scalar{raw: raw}
}

func textList(values ...string) ScalarList {
	list := make(ScalarList, 0, len(values))
	for _, v := range values {
		list = append(list, *text(v))
	}
	return list
}

// UnmarshalJSON keeps any JSON value.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errEmptyValue
	}
	s.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON writes the value back unchanged.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// String renders the value as plain text. Objects and arrays render as
// compact JSON.
func (s Scalar) String() string {
	if len(s.raw) == 0 || string(s.raw) == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(s.raw, &str); err == nil {
		return str
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, s.raw); err == nil {
		return compact.String()
	}
	return string(s.raw)
}

// ScalarList is a list of scalars. A lone value decodes as a one-element list.
type ScalarList []Scalar

// UnmarshalJSON accepts an array or a single value.
func (l *ScalarList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []Scalar
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	if string(b) == "null" {
		*l = nil
		return nil
	}
	var one Scalar
	if err := one.UnmarshalJSON(b); err != nil {
		return err
	}
	*l = ScalarList{one}
	return nil
}

// Strings returns the non-empty entries as text.
func (l ScalarList) Strings() []string {
	out := make([]string, 0, len(l))
	for _, s := range l {
		if v := s.String(); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Result is the typed payload of one analysis.
type Result interface {
	Kind() Type
	Overview() string
	// Recommendation joins the actionable advice into one line for the audit record.
	Recommendation() string
}

// Common holds the keys every analysis shares.
type Common struct {
	Summary         *Scalar    `json:"ringkasan,omitempty"`
	Recommendations ScalarList `json:"rekomendasi,omitempty"`
	RawResponse     string     `json:"raw_response,omitempty"`
}

// Overview returns the summary text, empty when the model gave none.
func (c Common) Overview() string {
	if c.Summary == nil {
		return ""
	}
	return c.Summary.String()
}

func (c Common) joined() string {
	return strings.Join(c.Recommendations.Strings(), "; ")
}

type Forecast struct {
	Tomorrow *Scalar `json:"besok,omitempty"`
	Week     *Scalar `json:"7_hari,omitempty"`
	Month    *Scalar `json:"30_hari,omitempty"`
}

type Production struct {
	Forecast        *Forecast  `json:"prediksi_produksi,omitempty"`
	Trend           *Scalar    `json:"trend,omitempty"`
	Factors         ScalarList `json:"faktor_pengaruh,omitempty"`
	PotentialIssues ScalarList `json:"potensi_masalah,omitempty"`
	Common
}

func (*Production) Kind() Type               { return ProductionPrediction }
func (p *Production) Recommendation() string { return p.joined() }

type CostStructure struct {
	Feed     *Scalar `json:"pakan,omitempty"`
	Medicine *Scalar `json:"obat,omitempty"`
	Labor    *Scalar `json:"tenaga_kerja,omitempty"`
	Other    *Scalar `json:"lainnya,omitempty"`
}

type Cost struct {
	Structure  *CostStructure `json:"struktur_biaya,omitempty"`
	Total      *Scalar        `json:"total_biaya,omitempty"`
	PerEgg     *Scalar        `json:"biaya_per_butir,omitempty"`
	PerKg      *Scalar        `json:"biaya_per_kg,omitempty"`
	Efficiency *Scalar        `json:"efisiensi,omitempty"`
	Savings    ScalarList     `json:"area_penghematan,omitempty"`
	Common
}

func (*Cost) Kind() Type               { return CostAnalysis }
func (c *Cost) Recommendation() string { return c.joined() }

type KeyMetrics struct {
	Productivity   *Scalar `json:"produktivitas,omitempty"`
	FeedEfficiency *Scalar `json:"efisiensi_pakan,omitempty"`
	Health         *Scalar `json:"kesehatan,omitempty"`
	EggQuality     *Scalar `json:"kualitas_telur,omitempty"`
}

type Performance struct {
	Score      *Scalar     `json:"skor_performa,omitempty"`
	Category   *Scalar     `json:"kategori_performa,omitempty"`
	Metrics    *KeyMetrics `json:"metrik_utama,omitempty"`
	Strengths  ScalarList  `json:"kekuatan,omitempty"`
	Weaknesses ScalarList  `json:"kelemahan,omitempty"`
	Common
}

func (*Performance) Kind() Type               { return PerformanceAnalysis }
func (p *Performance) Recommendation() string { return p.joined() }

type Health struct {
	Status          *Scalar    `json:"status_kesehatan,omitempty"`
	MortalityRate   *Scalar    `json:"tingkat_mortalitas,omitempty"`
	CullRate        *Scalar    `json:"tingkat_afkir,omitempty"`
	Risks           ScalarList `json:"risiko_kesehatan,omitempty"`
	HealthAdvice    ScalarList `json:"rekomendasi_kesehatan,omitempty"`
	VaccineSchedule ScalarList `json:"jadwal_vaksin,omitempty"`
	Common
}

func (*Health) Kind() Type { return HealthAnalysis }

// Recommendation prefers the general advice and falls back to the health advice.
func (h *Health) Recommendation() string {
	if joined := h.joined(); joined != "" {
		return joined
	}
	return strings.Join(h.HealthAdvice.Strings(), "; ")
}

type FinancialRatios struct {
	Revenue          *Scalar `json:"pendapatan,omitempty"`
	EstimatedExpense *Scalar `json:"pengeluaran_estimasi,omitempty"`
	NetProfit        *Scalar `json:"profit_bersih,omitempty"`
	ROI              *Scalar `json:"roi,omitempty"`
}

type Profitability struct {
	Margin       *Scalar          `json:"profit_margin,omitempty"`
	Category     *Scalar          `json:"kategori_profit,omitempty"`
	Ratios       *FinancialRatios `json:"rasio_keuangan,omitempty"`
	Optimization ScalarList       `json:"area_optimasi,omitempty"`
	Common
}

func (*Profitability) Kind() Type               { return ProfitabilityAnalysis }
func (p *Profitability) Recommendation() string { return p.joined() }

type FeedIngredient struct {
	Material *Scalar `json:"bahan,omitempty"`
	Percent  *Scalar `json:"persentase,omitempty"`
	Kg       *Scalar `json:"jumlah_kg,omitempty"`
	Reason   *Scalar `json:"alasan,omitempty"`
}

type Nutrition struct {
	Protein    *Scalar `json:"protein,omitempty"`
	Energy     *Scalar `json:"energi,omitempty"`
	Calcium    *Scalar `json:"kalsium,omitempty"`
	Phosphorus *Scalar `json:"fosfor,omitempty"`
}

type FeedCost struct {
	PerKg   *Scalar `json:"per_kg,omitempty"`
	PerDay  *Scalar `json:"per_hari,omitempty"`
	PerBird *Scalar `json:"per_ayam,omitempty"`
}

type Feed struct {
	Ingredients []FeedIngredient `json:"formulasi_pakan"`
	Nutrition   *Nutrition       `json:"kebutuhan_nutrisi,omitempty"`
	Cost        *FeedCost        `json:"biaya_estimasi,omitempty"`
	Benefits    ScalarList       `json:"manfaat,omitempty"`
	Common
}

func (*Feed) Kind() Type               { return FeedOptimization }
func (f *Feed) Recommendation() string { return f.joined() }

func newResult(t Type) (Result, error) {
	switch t {
	case ProductionPrediction:
		return &Production{}, nil
	case CostAnalysis:
		return &Cost{}, nil
	case PerformanceAnalysis:
		return &Performance{}, nil
	case HealthAnalysis:
		return &Health{}, nil
	case ProfitabilityAnalysis:
		return &Profitability{}, nil
	case FeedOptimization:
		return &Feed{}, nil
	}
	return nil, fmt.Errorf("unknown analysis type %q", t)
}

// Decode fits payload into the shape of t. Keys outside the shape are
// dropped, and so is a known key whose value has the wrong structure, for
// example text where an object is expected. A payload left with none of the
// known keys is rejected.
func Decode(t Type, payload map[string]any) (Result, error) {
	result, err := newResult(t)
	if err != nil {
		return nil, err
	}
	for key, value := range payload {
		field, err := json.Marshal(map[string]any{key: value})
		if err != nil {
			continue
		}
		// Try on a scratch value first so a failing key leaves no partial data.
		scratch, _ := newResult(t)
		if err := json.Unmarshal(field, scratch); err != nil {
			continue
		}
		if err := json.Unmarshal(field, result); err != nil {
			return nil, fmt.Errorf("decode %s: %w", t, err)
		}
	}

	if feed, ok := result.(*Feed); ok && feed.Ingredients == nil {
		feed.Ingredients = []FeedIngredient{}
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	if isEmptyShape(encoded) {
		return nil, fmt.Errorf("decode %s: no recognised keys", t)
	}
	return result, nil
}

func isEmptyShape(encoded []byte) bool {
	switch string(encoded) {
	case "{}", `{"formulasi_pakan":[]}`:
		return true
	}
	return false
}
