package normalizer

import (
	"strings"

	"github.com/matchpull/matchpull/models"
)

// eventTableKeywords mark the timeline-style tables (goals, cards,
// substitutions) by table-id substring.
var eventTableKeywords = []string{"events", "timeline", "goals", "cards"}

func isEventTable(t *models.RawTable) bool {
	id := strings.ToLower(t.ID)
	for _, kw := range eventTableKeywords {
		if strings.Contains(id, kw) {
			return true
		}
	}
	return false
}

// eventRows turns every body row carrying data-stat values into a
// MatchEvent, keeping the raw stat map and the source table id. Events
// stay untyped here; what counts as a goal vs a card varies per
// competition layout, so consumers filter on the map.
func eventRows(t *models.RawTable) []models.MatchEvent {
	var out []models.MatchEvent
	for _, row := range t.Rows {
		if len(row.Values) == 0 {
			continue
		}
		data := make(map[string]string, len(row.Values))
		for key, vals := range row.Values {
			if len(vals) > 0 {
				data[key] = vals[0]
			}
		}
		out = append(out, models.MatchEvent{Source: t.ID, Data: data})
	}
	return out
}
