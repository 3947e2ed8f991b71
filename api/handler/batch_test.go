package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/matchpull/matchpull/config"
	"github.com/matchpull/matchpull/models"
)

const matchReportPage = `<html><head><title>Arsenal vs Chelsea Match Report</title></head><body>
<div class="scorebox">
	<div><div class="score">2</div></div>
	<div><div class="score">0</div></div>
	<div class="scorebox_meta"><div>Referee: Anthony Taylor</div></div>
</div>
<table id="team_stats">
	<thead><tr><th>Arsenal</th><th>Chelsea</th></tr></thead>
	<tbody>
		<tr><th>Possession</th></tr>
		<tr><td>61%</td><td>39%</td></tr>
		<tr><th>Fouls</th></tr>
		<tr><td>8</td><td>14</td></tr>
	</tbody>
</table>
</body></html>`

type fakePageFetcher struct {
	html string
}

func (f *fakePageFetcher) Fetch(_ context.Context, _ string) (string, error) {
	return f.html, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Output: config.OutputConfig{Dir: t.TempDir(), Season: "2024-25"},
		Batch:  config.BatchConfig{MaxMatches: 10, RecentErrorLimit: 5},
	}
}

// awaitJob polls the job store until the batch result is published.
func awaitJob(t *testing.T, id string) *batchJob {
	t.Helper()
	val, ok := batchStore.Load(id)
	if !ok {
		t.Fatalf("job %s not stored", id)
	}
	job := val.(*batchJob)

	deadline := time.Now().Add(10 * time.Second)
	for job.result.Load() == nil {
		if time.Now().After(deadline) {
			t.Fatal("batch did not finish in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return job
}

func TestPostBatch_AppendsRunSummaryToWorkbook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/batch/scrape", PostBatch(&fakePageFetcher{html: matchReportPage}, testConfig(t)))

	body := `{"urls":["https://example.com/en/matches/x/Arsenal-Chelsea-August-17-2024-Premier-League"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/batch/scrape", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp models.BatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	job := awaitJob(t, resp.ID)
	result := job.result.Load()
	if result.Succeeded != 1 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}

	f, err := excelize.OpenFile(job.excelPath)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("read summary sheet: %v", err)
	}

	var sawBlock, sawAttempted bool
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		switch row[0] {
		case "RUN SUMMARY":
			sawBlock = true
		case "Matches_Attempted":
			sawAttempted = true
			if len(row) < 2 || row[1] != "1" {
				t.Errorf("Matches_Attempted row = %v", row)
			}
		}
	}
	if !sawBlock || !sawAttempted {
		t.Errorf("run-summary block missing from Summary sheet: %v", rows)
	}
}
