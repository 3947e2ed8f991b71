package normalizer

import (
	"strconv"
	"strings"

	"github.com/matchpull/matchpull/models"
)

// playerRecords yields one record per body row carrying a non-empty
// "player" value. Aggregate rows ("Team Total", "16 Players") are
// dropped; every other data-stat column is copied verbatim, first
// value winning for repeated keys.
func playerRecords(t *models.RawTable) []models.PlayerStats {
	var out []models.PlayerStats
	for _, row := range t.Rows {
		name := strings.TrimSpace(row.Values.First("player"))
		if name == "" || isAggregateRow(name) {
			continue
		}
		rec := make(models.PlayerStats, len(row.Values))
		rec["player"] = name
		for key, vals := range row.Values {
			if key == "player" || len(vals) == 0 {
				continue
			}
			rec[key] = vals[0]
		}
		out = append(out, rec)
	}
	return out
}

func isAggregateRow(name string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "total") {
		return true
	}
	// Summary rows like "16 Players".
	fields := strings.Fields(lower)
	if len(fields) == 2 && fields[1] == "players" {
		if _, err := strconv.Atoi(fields[0]); err == nil {
			return true
		}
	}
	return false
}

// mergePlayers folds overlay records into base, keyed by player name
// and preserving first-appearance order. A later table's value for a
// field overwrites the earlier one; fields absent from the overlay are
// never erased.
func mergePlayers(base []models.PlayerStats, overlay []models.PlayerStats) []models.PlayerStats {
	index := make(map[string]int, len(base))
	for i, p := range base {
		index[p.Name()] = i
	}
	for _, p := range overlay {
		i, ok := index[p.Name()]
		if !ok {
			index[p.Name()] = len(base)
			base = append(base, p)
			continue
		}
		for key, val := range p {
			base[i][key] = val
		}
	}
	return base
}
