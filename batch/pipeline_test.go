package batch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/matchpull/matchpull/models"
	"github.com/matchpull/matchpull/sink"
)

const reportPage = `<html><head><title>Manchester United vs Fulham Match Report</title></head><body>
<div class="scorebox">
	<div><div class="score">1</div></div>
	<div><div class="score">0</div></div>
	<div class="scorebox_meta"><div>Referee: Robert Jones</div></div>
</div>
<table id="team_stats">
	<thead><tr><th>Manchester United</th><th>Fulham</th></tr></thead>
	<tbody>
		<tr><th>Possession</th></tr>
		<tr><td>54%</td><td>46%</td></tr>
		<tr><th>Fouls</th></tr>
		<tr><td>9</td><td>12</td></tr>
	</tbody>
</table>
<table id="stats_abc_summary">
	<thead><tr><th data-stat="player">Player</th><th data-stat="goals">Gls</th></tr></thead>
	<tbody>
		<tr><td data-stat="player">Joelinton</td><td data-stat="goals">1</td><td data-stat="team">Manchester United</td></tr>
	</tbody>
</table>
</body></html>`

type fakeFetcher struct {
	pages map[string]string
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.pages[url], nil
}

func newTestPipeline(t *testing.T, fetcher PageFetcher) (*Pipeline, *sink.CSVSink) {
	t.Helper()
	dir := t.TempDir()
	csv := sink.NewCSV(filepath.Join(dir, "results.csv"))
	excel := sink.NewExcel(filepath.Join(dir, "matches.xlsx"), "2024-25")
	return NewPipeline(fetcher, csv, excel, "2024-25"), csv
}

func TestPipeline_ProcessSuccess(t *testing.T) {
	url := "https://example.com/en/matches/cc5b4244/Manchester-United-Fulham-August-16-2024-Premier-League"
	p, _ := newTestPipeline(t, &fakeFetcher{pages: map[string]string{url: reportPage}})

	refs, err := p.Prepare([]string{url})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if refs[0].HomeTeam != "Manchester United" || refs[0].AwayTeam != "Fulham" {
		t.Fatalf("refs[0] = %+v", refs[0])
	}

	result := p.Process(context.Background(), 0, url)
	if result.Err != nil {
		t.Fatalf("Process failed: %v", result.Err)
	}

	rec := result.Record
	if rec == nil {
		t.Fatal("success result carries no record")
	}
	if rec.Info.FinalScore != "1-0" {
		t.Errorf("FinalScore = %q", rec.Info.FinalScore)
	}
	if len(rec.TeamSummary) != 2 || rec.TeamSummary[0].Stats["possession"] != "54" {
		t.Errorf("team summary = %+v", rec.TeamSummary)
	}
	if len(rec.PlayerStats) != 1 || rec.PlayerStats[0].Name() != "Joelinton" {
		t.Errorf("players = %+v", rec.PlayerStats)
	}
}

func TestPipeline_FetchFailureRecordedPerItem(t *testing.T) {
	url := "https://example.com/en/matches/x/Some-Match-August-16-2024-Premier-League"
	navErr := models.NewScrapeError(models.ErrCodeNavigation, "page failed to load after retries", nil)
	p, csv := newTestPipeline(t, &fakeFetcher{err: navErr})

	if _, err := p.Prepare([]string{url}); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	result := p.Process(context.Background(), 0, url)
	if result.Err == nil || result.Err.Code != models.ErrCodeNavigation {
		t.Fatalf("want per-item NAVIGATION_FAILED, got %+v", result)
	}
	if result.Record != nil {
		t.Error("failed result must not carry a record")
	}

	// The failure lands on the match's CSV row.
	if err := csv.UpdateMatch(url, nil, ""); err != nil {
		t.Fatalf("row for the failed match is missing: %v", err)
	}
}

func TestPipeline_UnpreparedSinkEscalatesToSinkError(t *testing.T) {
	url := "https://example.com/en/matches/x/Some-Match-August-16-2024-Premier-League"
	p, _ := newTestPipeline(t, &fakeFetcher{pages: map[string]string{url: reportPage}})

	// No Prepare: the results file does not exist, so the write fails.
	result := p.Process(context.Background(), 0, url)
	if result.Err == nil || result.Err.Code != models.ErrCodeSinkIO {
		t.Fatalf("want SINK_IO_FAILED, got %+v", result.Err)
	}
}
