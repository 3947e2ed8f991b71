package normalizer

import (
	"regexp"
	"strings"

	"github.com/matchpull/matchpull/models"
)

var (
	rePercent = regexp.MustCompile(`^(\d+)%`)
	reXofY    = regexp.MustCompile(`(\d+)\s+of\s+\d+`)
	reInteger = regexp.MustCompile(`\d+`)
)

// CleanStatValue reduces a raw cell value to a bare number where one is
// embedded, and returns the input unchanged otherwise. The function is
// idempotent: an already-clean value maps to itself.
//
//	"54%"          → "54"
//	"12 of 18"     → "12"
//	"Fouls 9"      → "9"
//	"54"           → "54"
//	"n/a"          → "n/a"
func CleanStatValue(raw string) string {
	s := strings.TrimSpace(raw)
	if m := rePercent.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := reXofY.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := reInteger.FindString(s); m != "" {
		return m
	}
	return s
}

// slugStat canonicalizes a displayed metric label into a stat key:
// "Shots on Target" → "shots_on_target".
func slugStat(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), "_")
}

// teamComparison decodes the vertical team-comparison layout: the two
// header cells name the teams, a single-cell body row names the current
// metric, and the following two-cell row carries the two values in
// column order (home first, away second). Returns nil when the table
// does not carry two team headers.
func teamComparison(t *models.RawTable) []models.TeamStats {
	if len(t.Headers) < 2 {
		return nil
	}

	home := models.TeamStats{Team: strings.TrimSpace(t.Headers[0].Text), Stats: map[string]string{}}
	away := models.TeamStats{Team: strings.TrimSpace(t.Headers[1].Text), Stats: map[string]string{}}
	if home.Team == "" || away.Team == "" {
		return nil
	}

	current := ""
	for _, row := range t.Rows {
		switch len(row.Cells) {
		case 1:
			current = slugStat(row.Cells[0].Text)
		case 2:
			if current == "" {
				continue
			}
			home.Stats[current] = CleanStatValue(row.Cells[0].Text)
			away.Stats[current] = CleanStatValue(row.Cells[1].Text)
			current = ""
		}
	}

	if len(home.Stats) == 0 {
		return nil
	}
	return []models.TeamStats{home, away}
}

// teamBlocks decodes a horizontal team table (one team per body row,
// metrics as columns) into per-team stat blocks. Used for the passing
// and defensive aggregates, which carry a "team"/"squad" column rather
// than the vertical layout.
func teamBlocks(t *models.RawTable) []models.TeamStats {
	var out []models.TeamStats
	for _, row := range t.Rows {
		name := row.Values.First("team")
		if name == "" {
			name = row.Values.First("squad")
		}
		if name == "" {
			continue
		}
		stats := make(map[string]string, len(row.Values))
		for key, vals := range row.Values {
			if key == "team" || key == "squad" || len(vals) == 0 {
				continue
			}
			stats[key] = CleanStatValue(vals[0])
		}
		out = append(out, models.TeamStats{Team: strings.TrimSpace(name), Stats: stats})
	}
	return out
}
