// Package normalizer interprets generic extracted tables into the
// canonical match-statistics record. It is the single place that
// assigns site meaning to raw rows; everything upstream is structural.
package normalizer

import (
	"log/slog"
	"strconv"

	"github.com/matchpull/matchpull/models"
)

// Normalize assembles the canonical record for one match from the
// scorebox info and the extracted tables. Missing blocks degrade to
// defaults and mark the record partial; the only hard failure is a
// page where no core field was extracted at all.
func Normalize(ref models.MatchReference, info models.MatchInfo, tables []models.RawTable) (*models.MatchStatisticsRecord, error) {
	if len(tables) == 0 && infoEmpty(info) {
		return nil, models.NewScrapeError(models.ErrCodeParse,
			"no core fields extracted from page", nil)
	}

	rec := &models.MatchStatisticsRecord{
		Ref:    ref,
		Info:   info,
		Tables: tables,
	}

	for i := range tables {
		t := &tables[i]

		// Events are harvested independently of the category: a goals
		// timeline may also carry a player column.
		if isEventTable(t) {
			rec.Events = append(rec.Events, eventRows(t)...)
		}

		switch Classify(t) {
		case CategoryTeamSummary:
			if len(rec.TeamSummary) > 0 {
				continue
			}
			summary := teamComparison(t)
			if summary == nil {
				mapErr := models.NewScrapeError(models.ErrCodeMapping,
					"team summary table could not be assigned to two teams", nil)
				slog.Warn("stats block mapping failed",
					"url", ref.URL, "table_id", t.ID, "error", mapErr)
				rec.Partial = true
				continue
			}
			rec.TeamSummary = summary
		case CategoryPassing:
			rec.PassingStats = append(rec.PassingStats, teamBlocks(t)...)
		case CategoryDefensive:
			rec.DefensiveStats = append(rec.DefensiveStats, teamBlocks(t)...)
		case CategoryPlayer:
			rec.PlayerStats = mergePlayers(rec.PlayerStats, playerRecords(t))
		}
	}

	if len(rec.TeamSummary) == 0 {
		rec.Partial = true
	}
	return rec, nil
}

func infoEmpty(info models.MatchInfo) bool {
	return info.FinalScore == "" && info.Referee == "" &&
		info.Stadium == "" && info.Attendance == ""
}

// TopScorer returns the player with the highest goals value and that
// value, or ("", 0) when nobody scored. Ties keep the earlier player.
func TopScorer(players []models.PlayerStats) (string, int) {
	return argMax(players, "goals")
}

// TopAssists returns the player with the highest assists value.
func TopAssists(players []models.PlayerStats) (string, int) {
	return argMax(players, "assists")
}

func argMax(players []models.PlayerStats, stat string) (string, int) {
	name, best := "", 0
	for _, p := range players {
		n, err := strconv.Atoi(p[stat])
		if err != nil || n <= 0 {
			continue
		}
		if n > best {
			name, best = p.Name(), n
		}
	}
	return name, best
}
