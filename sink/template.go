package sink

import (
	"github.com/xuri/excelize/v2"

	"github.com/matchpull/matchpull/models"
)

// summaryHeader is the Summary sheet's header row. Like the CSV
// columns, the names and ordering are a downstream contract.
var summaryHeader = []string{
	"Season", "Match_Report_URL", "Match_Number", "Home_Team", "Away_Team",
	"Date", "Score", "Home_Goals", "Away_Goals", "Competition", "Venue", "Sheet_Name",
}

// Fixed row offsets within each match sheet. Everything that writes or
// clears cells goes through these, so the template and the populator
// cannot drift apart.
const (
	metaFirstRow = 1 // metadata block, rows 1-8

	statsLabelRow = 11
	statsFirstRow = 12 // match statistics, rows 12-17

	homeLabelRow = 21
	homeFirstRow = 22 // home team stats, rows 22-28

	awayLabelRow = 31
	awayFirstRow = 32 // away team stats, rows 32-38

	playerHeaderRow = 41
	playerFirstRow  = 42
	playerMaxRows   = 200
)

var (
	metaLabels = []string{
		"Season", "Match_Number", "Match_URL", "Home_Team",
		"Away_Team", "Date", "Competition", "Source_URL",
	}
	statsLabels = []string{
		"Home_Goals", "Away_Goals", "Final_Score", "Attendance", "Referee", "Stadium",
	}
	teamStatLabels = []string{
		"Possession", "Total_Shots", "Shots_On_Target", "Corners",
		"Fouls", "Yellow_Cards", "Red_Cards",
	}
	playerColumns = []string{
		"Player_Name", "Team", "Position", "Minutes", "Goals",
		"Assists", "Shots", "Passes", "Tackles", "Cards",
	}
)

// BuildTemplate creates the workbook the Excel sink populates: a
// Summary sheet plus one pre-labeled sheet per match. An existing file
// at path is replaced.
func BuildTemplate(path, season string, refs []models.MatchReference) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "rename summary sheet", err)
	}
	for i, h := range summaryHeader {
		if err := setCell(f, "Summary", i+1, 1, h); err != nil {
			return err
		}
	}

	for _, ref := range refs {
		sheet := ref.SheetName()
		if _, err := f.NewSheet(sheet); err != nil {
			return models.NewScrapeError(models.ErrCodeSinkIO, "create match sheet "+sheet, err)
		}
		if err := labelMatchSheet(f, sheet, season, ref); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "save template workbook", err)
	}
	return nil
}

func labelMatchSheet(f *excelize.File, sheet, season string, ref models.MatchReference) error {
	for i, label := range metaLabels {
		if err := setCell(f, sheet, 1, metaFirstRow+i, label); err != nil {
			return err
		}
	}
	// Seed the metadata values the match list already knows.
	seed := []any{season, ref.Number, ref.URL, ref.HomeTeam, ref.AwayTeam, ref.Date, ref.Competition, ref.URL}
	for i, v := range seed {
		if err := setCell(f, sheet, 2, metaFirstRow+i, v); err != nil {
			return err
		}
	}

	if err := setCell(f, sheet, 1, statsLabelRow, "MATCH STATISTICS"); err != nil {
		return err
	}
	for i, label := range statsLabels {
		if err := setCell(f, sheet, 1, statsFirstRow+i, label); err != nil {
			return err
		}
	}

	if err := setCell(f, sheet, 1, homeLabelRow, "HOME TEAM STATS"); err != nil {
		return err
	}
	if err := setCell(f, sheet, 1, awayLabelRow, "AWAY TEAM STATS"); err != nil {
		return err
	}
	for i, label := range teamStatLabels {
		if err := setCell(f, sheet, 1, homeFirstRow+i, label); err != nil {
			return err
		}
		if err := setCell(f, sheet, 1, awayFirstRow+i, label); err != nil {
			return err
		}
	}

	for i, col := range playerColumns {
		if err := setCell(f, sheet, i+1, playerHeaderRow, col); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "invalid cell coordinates", err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "write cell "+sheet+"!"+cell, err)
	}
	return nil
}
