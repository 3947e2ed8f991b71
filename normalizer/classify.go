package normalizer

import (
	"strings"

	"github.com/matchpull/matchpull/models"
)

// Category is the closed classification tag set for raw tables.
type Category string

const (
	CategoryTeamSummary Category = "team_summary"
	CategoryPassing     Category = "passing"
	CategoryDefensive   Category = "defensive"
	CategoryPlayer      Category = "player"
	CategoryUnknown     Category = "unknown"
)

// teamIndicators are the metric tokens whose presence in headers marks
// a team-comparison table. Matched against both header text and
// data-stat names.
var teamIndicators = []string{"possession", "poss", "shots", "fouls", "cards"}

// Classify tags a raw table with exactly one category. It is a pure
// function over the table's headers, body rows, and id, decoupled from
// the parse library:
//
//  1. A "player" data-stat column → Player. Checked first: per-player
//     summary tables carry shots/fouls/cards headers too, and their
//     rows are lost entirely if the team-indicator rule claims them.
//  2. ≥2 distinct team-indicator tokens in the headers, with no
//     player/lineup marker in the table id → TeamSummary.
//  3. "passing" / "defense" substring in the table id → the matching
//     category.
//  4. Anything else → Unknown.
func Classify(t *models.RawTable) Category {
	id := strings.ToLower(t.ID)

	if hasPlayerColumn(t) {
		return CategoryPlayer
	}

	if countTeamIndicators(t) >= 2 &&
		!strings.Contains(id, "player") && !strings.Contains(id, "lineup") {
		return CategoryTeamSummary
	}

	if strings.Contains(id, "passing") {
		return CategoryPassing
	}
	if strings.Contains(id, "defense") || strings.Contains(id, "defensive") {
		return CategoryDefensive
	}

	return CategoryUnknown
}

func countTeamIndicators(t *models.RawTable) int {
	var haystack strings.Builder
	for _, h := range t.Headers {
		haystack.WriteString(strings.ToLower(h.Text))
		haystack.WriteByte(' ')
		haystack.WriteString(strings.ToLower(h.DataStat))
		haystack.WriteByte(' ')
	}
	// The vertical comparison layout carries its metric names in
	// single-cell body rows rather than headers.
	for _, row := range t.Rows {
		if len(row.Cells) == 1 {
			haystack.WriteString(strings.ToLower(row.Cells[0].Text))
			haystack.WriteByte(' ')
		}
	}

	text := haystack.String()
	count := 0
	seen := map[string]bool{}
	for _, tok := range teamIndicators {
		if seen[tok] {
			continue
		}
		if strings.Contains(text, tok) {
			// "poss" is a prefix of "possession"; count them once.
			if tok == "poss" && seen["possession"] {
				continue
			}
			if tok == "possession" {
				seen["poss"] = true
			}
			seen[tok] = true
			count++
		}
	}
	return count
}

func hasPlayerColumn(t *models.RawTable) bool {
	for _, h := range t.Headers {
		if h.DataStat == "player" {
			return true
		}
	}
	for _, row := range t.Rows {
		if row.Values.Has("player") {
			return true
		}
	}
	return false
}
