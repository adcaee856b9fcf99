package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/mamadbah2/layerfarm/internal/config"
	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

func TestAppendDailyLog(t *testing.T) {
	var (
		gotPath string
		gotBody struct {
			Values [][]interface{} `json:"values"`
		}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	}))
	defer srv.Close()

	cfg := config.SheetsConfig{SpreadsheetID: "sheet-1", DailyLogRange: "DataHarian!A:L"}
	mirror, err := newDailyLogMirror(context.Background(), cfg, nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	log := models.DailyLog{
		Date:       time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		RecordedBy: "Budi",
		GoodEggs:   100,
		CreamEggs:  4,
		RawFeedKg:  12.5,
		Deaths:     2,
		Shed:       &models.Shed{Name: "Kandang A", BirdCount: 78},
	}
	require.NoError(t, mirror.AppendDailyLog(context.Background(), log))

	assert.True(t, strings.HasSuffix(gotPath, ":append"), gotPath)
	assert.Contains(t, gotPath, "/spreadsheets/sheet-1/")
	require.Len(t, gotBody.Values, 1)
	row := gotBody.Values[0]
	require.Len(t, row, 12)
	assert.Equal(t, "2024-03-05", row[0])
	assert.Equal(t, "Kandang A", row[1])
	assert.EqualValues(t, 104, row[6])
	assert.Equal(t, "78", row[11])
}

func TestNewDailyLogMirrorRequiresRange(t *testing.T) {
	_, err := newDailyLogMirror(context.Background(), config.SheetsConfig{SpreadsheetID: "x"}, nil, option.WithoutAuthentication())
	assert.Error(t, err)
}
