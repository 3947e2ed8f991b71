package sink

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/matchpull/matchpull/models"
)

// playerStatKeys maps each player-table column to the data-stat keys
// that may carry it, in preference order.
var playerStatKeys = [][]string{
	{"player"},
	{"team", "squad"},
	{"position"},
	{"minutes"},
	{"goals"},
	{"assists"},
	{"shots", "shots_total"},
	{"passes", "passes_completed"},
	{"tackles"},
	{"cards_yellow", "cards"},
}

// ExcelSink populates the template workbook produced by BuildTemplate.
// Each call opens, mutates and saves the file, so a crash mid-batch
// loses at most the in-flight match.
type ExcelSink struct {
	path   string
	season string
}

// NewExcel creates a sink over the workbook at path.
func NewExcel(path, season string) *ExcelSink {
	return &ExcelSink{path: path, season: season}
}

// Path returns the sink's file path.
func (s *ExcelSink) Path() string { return s.path }

// PopulateMatch writes one normalized record into its match sheet at
// the fixed offsets, clearing the player block first so a shorter run
// never leaves stale player rows behind, and appends the match's row
// to the Summary sheet.
func (s *ExcelSink) PopulateMatch(rec *models.MatchStatisticsRecord) error {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "open workbook", err)
	}
	defer f.Close()

	sheet := rec.Ref.SheetName()
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return models.NewScrapeError(models.ErrCodeSinkIO,
			fmt.Sprintf("workbook has no sheet %s", sheet), err)
	}

	if err := s.writeMetadata(f, sheet, rec); err != nil {
		return err
	}
	if err := s.writeMatchStats(f, sheet, rec); err != nil {
		return err
	}
	if err := s.writeTeamStats(f, sheet, rec); err != nil {
		return err
	}
	if err := s.writePlayers(f, sheet, rec.PlayerStats); err != nil {
		return err
	}
	if err := s.appendSummaryRow(f, rec); err != nil {
		return err
	}

	if err := f.Save(); err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "save workbook", err)
	}
	return nil
}

func (s *ExcelSink) writeMetadata(f *excelize.File, sheet string, rec *models.MatchStatisticsRecord) error {
	values := []any{
		s.season, rec.Ref.Number, rec.Ref.URL, rec.Ref.HomeTeam,
		rec.Ref.AwayTeam, rec.Ref.Date, rec.Ref.Competition, rec.Ref.URL,
	}
	for i, v := range values {
		if err := setCell(f, sheet, 2, metaFirstRow+i, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExcelSink) writeMatchStats(f *excelize.File, sheet string, rec *models.MatchStatisticsRecord) error {
	values := []any{
		rec.Info.HomeGoals, rec.Info.AwayGoals, rec.Info.FinalScore,
		rec.Info.Attendance, rec.Info.Referee, rec.Info.Stadium,
	}
	for i, v := range values {
		if err := setCell(f, sheet, 2, statsFirstRow+i, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExcelSink) writeTeamStats(f *excelize.File, sheet string, rec *models.MatchStatisticsRecord) error {
	if len(rec.TeamSummary) != 2 {
		return nil
	}
	blocks := []struct {
		firstRow int
		stats    map[string]string
	}{
		{homeFirstRow, rec.TeamSummary[0].Stats},
		{awayFirstRow, rec.TeamSummary[1].Stats},
	}
	for _, b := range blocks {
		for i, sc := range statColumns {
			if v := firstStat(b.stats, sc.keys); v != "" {
				if err := setCell(f, sheet, 2, b.firstRow+i, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// writePlayers clears the whole player block, then writes one row per
// player from the block's first row.
func (s *ExcelSink) writePlayers(f *excelize.File, sheet string, players []models.PlayerStats) error {
	for row := playerFirstRow; row < playerFirstRow+playerMaxRows; row++ {
		for col := 1; col <= len(playerColumns); col++ {
			if err := setCell(f, sheet, col, row, ""); err != nil {
				return err
			}
		}
	}

	for i, p := range players {
		if i >= playerMaxRows {
			break
		}
		for col, keys := range playerStatKeys {
			if v := firstStat(p, keys); v != "" {
				if err := setCell(f, sheet, col+1, playerFirstRow+i, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// appendSummaryRow upserts the match's row on the Summary sheet, keyed
// by the report URL so re-runs do not duplicate rows.
func (s *ExcelSink) appendSummaryRow(f *excelize.File, rec *models.MatchStatisticsRecord) error {
	rows, err := f.GetRows("Summary")
	if err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "read summary sheet", err)
	}

	target := len(rows) + 1
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) >= 2 && row[1] == rec.Ref.URL {
			target = i + 1
			break
		}
	}

	values := []any{
		s.season, rec.Ref.URL, rec.Ref.Number, rec.Ref.HomeTeam, rec.Ref.AwayTeam,
		rec.Ref.Date, rec.Info.FinalScore, rec.Info.HomeGoals, rec.Info.AwayGoals,
		rec.Ref.Competition, rec.Info.Stadium, rec.Ref.SheetName(),
	}
	for i, v := range values {
		if err := setCell(f, "Summary", i+1, target, v); err != nil {
			return err
		}
	}
	return nil
}

// WriteRunSummary appends the trailing totals block under the Summary
// sheet's match rows.
func (s *ExcelSink) WriteRunSummary(result *models.BatchResult) error {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "open workbook", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Summary")
	if err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "read summary sheet", err)
	}

	start := len(rows) + 2
	lines := []struct {
		label string
		value any
	}{
		{"RUN SUMMARY", ""},
		{"Matches_Attempted", result.Attempted},
		{"Matches_Succeeded", result.Succeeded},
		{"Matches_Failed", result.Failed},
		{"Success_Rate", successRate(result)},
	}
	for i, line := range lines {
		if err := setCell(f, "Summary", 1, start+i, line.label); err != nil {
			return err
		}
		if err := setCell(f, "Summary", 2, start+i, line.value); err != nil {
			return err
		}
	}

	if err := f.Save(); err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "save workbook", err)
	}
	return nil
}

func successRate(result *models.BatchResult) string {
	if result.Attempted == 0 {
		return "0%"
	}
	pct := float64(result.Succeeded) / float64(result.Attempted) * 100
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}
