package models

import (
	"fmt"
	"strconv"
	"strings"
)

// MatchReference identifies one match, derived from its report URL.
// Missing or ambiguous parts default to "Unknown", never empty.
type MatchReference struct {
	Number      int    `json:"match_number"`
	URL         string `json:"url"`
	Season      string `json:"season"`
	HomeTeam    string `json:"home_team"`
	AwayTeam    string `json:"away_team"`
	Date        string `json:"date"`
	Competition string `json:"competition"`
}

const unknown = "Unknown"

// ParseMatchReference derives a MatchReference from a match-report URL
// whose final path segment looks like
// "Manchester-United-Fulham-August-16-2024-Premier-League".
// The 4-digit year token anchors the parse: the three tokens ending at
// the year form the date, tokens after it the competition, tokens
// before the date the two team names.
func ParseMatchReference(url, season string) MatchReference {
	ref := MatchReference{
		URL:         url,
		Season:      season,
		HomeTeam:    unknown,
		AwayTeam:    unknown,
		Date:        unknown,
		Competition: unknown,
	}

	slug := url
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		slug = slug[i+1:]
	}
	tokens := strings.Split(slug, "-")

	yearIdx := -1
	for i, tok := range tokens {
		if isYearToken(tok) {
			yearIdx = i
			break
		}
	}
	if yearIdx < 2 {
		return ref
	}

	// Date: month-day-year, e.g. "August-16-2024".
	ref.Date = strings.Join(tokens[yearIdx-2:yearIdx+1], "-")

	if yearIdx+1 < len(tokens) {
		ref.Competition = strings.Join(tokens[yearIdx+1:], " ")
	}

	teamTokens := tokens[:yearIdx-2]
	if len(teamTokens) >= 2 {
		home, away := splitTeams(teamTokens)
		if home != "" {
			ref.HomeTeam = home
		}
		if away != "" {
			ref.AwayTeam = away
		}
	}

	return ref
}

// SheetName returns the workbook sheet name for this match, e.g.
// "Match_001_Manchester_vs_Fulham".
func (r MatchReference) SheetName() string {
	return fmt.Sprintf("Match_%03d_%s_vs_%s", r.Number, firstWord(r.HomeTeam), firstWord(r.AwayTeam))
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i > 0 {
		return s[:i]
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isYearToken accepts any plausible season year; the site hosts
// historical seasons well before 2000.
func isYearToken(tok string) bool {
	if len(tok) != 4 || !isDigits(tok) {
		return false
	}
	year, err := strconv.Atoi(tok)
	if err != nil {
		return false
	}
	return year >= 1850 && year <= 2099
}
