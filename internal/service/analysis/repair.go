package analysis

import (
	"encoding/json"
	"strings"

	"github.com/mamadbah2/layerfarm/pkg/clients/completion"
)

const summaryLimit = 500

var defaultRecommendations = []string{
	"Lakukan monitoring rutin terhadap produksi telur",
	"Optimalkan formulasi pakan untuk efisiensi biaya",
	"Perhatikan kesehatan ayam untuk mengurangi mortalitas",
}

// ExtractJSON returns the first balanced, valid JSON object embedded in raw.
// A balanced span that is not valid JSON is skipped as a whole, so objects
// nested inside it are never returned on their own.
func ExtractJSON(raw string) (string, bool) {
	body := completion.StripFences(raw)
	for start := 0; start < len(body); {
		open := strings.IndexByte(body[start:], '{')
		if open < 0 {
			break
		}
		open += start

		end, ok := matchBrace(body, open)
		if !ok {
			start = open + 1
			continue
		}
		if candidate := body[open : end+1]; json.Valid([]byte(candidate)) {
			return candidate, true
		}
		start = end + 1
	}
	return "", false
}

// matchBrace finds the '}' closing the '{' at start, skipping string literals.
func matchBrace(body string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(body); i++ {
		c := body[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// Repair parses the JSON object embedded in raw. ok is false when none parses.
func Repair(raw string) (map[string]any, bool) {
	candidate, ok := ExtractJSON(raw)
	if !ok {
		return nil, false
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// Fallback wraps unusable model output into a result of type t.
func Fallback(t Type, raw string) Result {
	common := Common{
		Summary:         text(truncateRunes(raw, summaryLimit)),
		Recommendations: textList(defaultRecommendations...),
		RawResponse:     raw,
	}
	switch t {
	case ProductionPrediction:
		return &Production{Common: common}
	case CostAnalysis:
		return &Cost{Common: common}
	case PerformanceAnalysis:
		return &Performance{Common: common}
	case HealthAnalysis:
		return &Health{Common: common}
	case ProfitabilityAnalysis:
		return &Profitability{Common: common}
	case FeedOptimization:
		return FeedFallback(raw)
	}
	return &Production{Common: common}
}

// FeedFallback is a conservative layer ration used when the model output is unusable.
func FeedFallback(raw string) *Feed {
	return &Feed{
		Ingredients: []FeedIngredient{},
		Nutrition: &Nutrition{
			Protein:    text("16-18%"),
			Energy:     text("2800-3000 kcal/kg"),
			Calcium:    text("3.5-4.0%"),
			Phosphorus: text("0.4-0.45%"),
		},
		Cost: &FeedCost{
			PerKg:   text("Rp 0"),
			PerDay:  text("Rp 0"),
			PerBird: text("Rp 0"),
		},
		Common: Common{
			Recommendations: textList(
				"Gunakan formulasi pakan seimbang dengan protein 16-18%",
				"Pastikan kalsium cukup untuk kualitas cangkang telur",
			),
			RawResponse: raw,
		},
		Benefits: textList(
			"Meningkatkan kualitas telur",
			"Mengoptimalkan biaya produksi",
		),
	}
}

// Interpret turns raw model output into a typed result. ok is false when the
// fallback was used.
func Interpret(t Type, raw string) (Result, bool) {
	payload, ok := Repair(raw)
	if !ok {
		return Fallback(t, raw), false
	}
	result, err := Decode(t, payload)
	if err != nil {
		return Fallback(t, raw), false
	}
	return result, true
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
