// Package sink writes batch artifacts: the flat CSV results file and
// the per-match Excel workbook. All write failures surface as
// SINK_IO_FAILED, which the orchestrator treats as batch-fatal.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matchpull/matchpull/models"
	"github.com/matchpull/matchpull/normalizer"
)

// Columns is the CSV schema, in order. The file is consumed by
// downstream spreadsheets, so the names and ordering are a contract.
var Columns = []string{
	"Match_Number", "Match_URL", "Home_Team", "Away_Team", "Date", "Competition",
	"Home_Possession", "Away_Possession",
	"Home_Shots", "Away_Shots",
	"Home_Shots_On_Target", "Away_Shots_On_Target",
	"Home_Fouls", "Away_Fouls",
	"Home_Yellow_Cards", "Away_Yellow_Cards",
	"Home_Red_Cards", "Away_Red_Cards",
	"Home_Corners", "Away_Corners",
	"Final_Score", "Referee", "Stadium", "Attendance",
	"Top_Scorer_Name", "Top_Scorer_Team", "Top_Scorer_Goals",
	"Top_Assists_Name", "Top_Assists_Team", "Top_Assists_Count",
	"Scraped", "Scrape_Timestamp", "Scrape_Error",
}

// statColumns maps the per-team column stems to the stat keys the
// normalizer may have produced for them, in preference order.
var statColumns = []struct {
	column string
	keys   []string
}{
	{"Possession", []string{"possession"}},
	{"Shots", []string{"total_shots", "shots", "shots_total"}},
	{"Shots_On_Target", []string{"shots_on_target"}},
	{"Fouls", []string{"fouls"}},
	{"Yellow_Cards", []string{"yellow_cards"}},
	{"Red_Cards", []string{"red_cards"}},
	{"Corners", []string{"corners", "corner_kicks"}},
}

// CSVSink owns one results file and supports the two operations the
// pipeline needs: seed the file from the match list, then patch one
// row per scraped match.
type CSVSink struct {
	path string
	now  func() time.Time
}

// NewCSV creates a sink for the given file path.
func NewCSV(path string) *CSVSink {
	return &CSVSink{path: path, now: time.Now}
}

// Path returns the sink's file path.
func (s *CSVSink) Path() string { return s.path }

// WriteInitial creates the results file with one row per match, all
// statistic columns empty and Scraped set to "No". An existing file is
// replaced.
func (s *CSVSink) WriteInitial(refs []models.MatchReference) error {
	rows := make([][]string, 0, len(refs)+1)
	rows = append(rows, Columns)
	for _, ref := range refs {
		row := make([]string, len(Columns))
		row[colIndex("Match_Number")] = fmt.Sprintf("%d", ref.Number)
		row[colIndex("Match_URL")] = ref.URL
		row[colIndex("Home_Team")] = ref.HomeTeam
		row[colIndex("Away_Team")] = ref.AwayTeam
		row[colIndex("Date")] = ref.Date
		row[colIndex("Competition")] = ref.Competition
		row[colIndex("Scraped")] = "No"
		rows = append(rows, row)
	}
	return s.writeAll(rows)
}

// UpdateMatch locates the unique row whose Match_URL equals url and
// overwrites only the fields named in patch, then stamps Scraped,
// Scrape_Timestamp and Scrape_Error. Every other row and column is
// preserved byte for byte.
func (s *CSVSink) UpdateMatch(url string, patch map[string]string, scrapeErr string) error {
	rows, err := s.readAll()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return models.NewScrapeError(models.ErrCodeSinkIO, "results file is empty", nil)
	}

	urlIdx := colIndex("Match_URL")
	found := false
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) <= urlIdx || rows[i][urlIdx] != url {
			continue
		}
		found = true
		for field, value := range patch {
			if idx := colIndex(field); idx >= 0 && idx < len(rows[i]) {
				rows[i][idx] = value
			}
		}
		if scrapeErr == "" {
			rows[i][colIndex("Scraped")] = "Yes"
		} else {
			rows[i][colIndex("Scraped")] = "No"
		}
		rows[i][colIndex("Scrape_Timestamp")] = s.now().Format(time.RFC3339)
		rows[i][colIndex("Scrape_Error")] = scrapeErr
		break
	}
	if !found {
		return models.NewScrapeError(models.ErrCodeSinkIO,
			fmt.Sprintf("no row for match URL %s", url), nil)
	}
	return s.writeAll(rows)
}

// RecordPatch flattens a normalized record into the column patch for
// UpdateMatch. Absent stats simply stay out of the patch, leaving the
// seeded defaults untouched.
func RecordPatch(rec *models.MatchStatisticsRecord) map[string]string {
	patch := map[string]string{}

	if rec.Info.FinalScore != "" {
		patch["Final_Score"] = rec.Info.FinalScore
	}
	if rec.Info.Referee != "" {
		patch["Referee"] = rec.Info.Referee
	}
	if rec.Info.Stadium != "" {
		patch["Stadium"] = rec.Info.Stadium
	}
	if rec.Info.Attendance != "" {
		patch["Attendance"] = rec.Info.Attendance
	}

	if len(rec.TeamSummary) == 2 {
		for _, sc := range statColumns {
			if v := firstStat(rec.TeamSummary[0].Stats, sc.keys); v != "" {
				patch["Home_"+sc.column] = v
			}
			if v := firstStat(rec.TeamSummary[1].Stats, sc.keys); v != "" {
				patch["Away_"+sc.column] = v
			}
		}
	}

	if name, goals := normalizer.TopScorer(rec.PlayerStats); name != "" {
		patch["Top_Scorer_Name"] = name
		patch["Top_Scorer_Goals"] = fmt.Sprintf("%d", goals)
		patch["Top_Scorer_Team"] = playerTeam(rec.PlayerStats, name)
	}
	if name, assists := normalizer.TopAssists(rec.PlayerStats); name != "" {
		patch["Top_Assists_Name"] = name
		patch["Top_Assists_Count"] = fmt.Sprintf("%d", assists)
		patch["Top_Assists_Team"] = playerTeam(rec.PlayerStats, name)
	}

	return patch
}

func firstStat(stats map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := stats[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

func playerTeam(players []models.PlayerStats, name string) string {
	for _, p := range players {
		if p.Name() == name {
			return p["team"]
		}
	}
	return ""
}

func colIndex(name string) int {
	for i, c := range Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (s *CSVSink) readAll() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeSinkIO, "open results file", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeSinkIO, "read results file", err)
	}
	return rows, nil
}

// writeAll replaces the file atomically: full write to a sibling temp
// file, then rename.
func (s *CSVSink) writeAll(rows [][]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "create output directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".results-*.csv")
	if err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "create temp results file", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return models.NewScrapeError(models.ErrCodeSinkIO, "write results file", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return models.NewScrapeError(models.ErrCodeSinkIO, "flush results file", err)
	}
	if err := tmp.Close(); err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "close temp results file", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return models.NewScrapeError(models.ErrCodeSinkIO, "replace results file", err)
	}
	return nil
}
