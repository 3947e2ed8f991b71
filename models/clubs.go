package models

import "strings"

// knownClubs lists club names as slug-token sequences, longest first,
// so the greedy prefix match prefers "West Ham United" over "West".
// This is a heuristic against the source site's URL slugs; unknown
// fixtures fall back to a midpoint split.
var knownClubs = [][]string{
	{"Brighton", "and", "Hove", "Albion"},
	{"Wolverhampton", "Wanderers"},
	{"West", "Ham", "United"},
	{"Sheffield", "United"},
	{"Manchester", "United"},
	{"Newcastle", "United"},
	{"Nottingham", "Forest"},
	{"Tottenham", "Hotspur"},
	{"Manchester", "City"},
	{"Leicester", "City"},
	{"Crystal", "Palace"},
	{"Leeds", "United"},
	{"Aston", "Villa"},
	{"Ipswich", "Town"},
	{"Luton", "Town"},
	{"AFC", "Bournemouth"},
	{"Bournemouth"},
	{"Southampton"},
	{"Liverpool"},
	{"Brentford"},
	{"Arsenal"},
	{"Chelsea"},
	{"Everton"},
	{"Burnley"},
	{"Fulham"},
	{"Wolves"},
	{"Sunderland"},
	{"Watford"},
}

// splitTeams divides the slug's team tokens into home and away names.
// It greedily matches a known club at the front (home side), then
// takes the remainder as the away side; when nothing matches it falls
// back to splitting the tokens down the middle.
func splitTeams(tokens []string) (home, away string) {
	if n := matchClubPrefix(tokens); n > 0 && n < len(tokens) {
		return strings.Join(tokens[:n], " "), strings.Join(tokens[n:], " ")
	}

	// Symmetric attempt: a known club at the tail pins the away side.
	if n := matchClubSuffix(tokens); n > 0 && n < len(tokens) {
		return strings.Join(tokens[:len(tokens)-n], " "), strings.Join(tokens[len(tokens)-n:], " ")
	}

	mid := len(tokens) / 2
	if mid == 0 {
		return strings.Join(tokens, " "), ""
	}
	return strings.Join(tokens[:mid], " "), strings.Join(tokens[mid:], " ")
}

func matchClubPrefix(tokens []string) int {
	for _, club := range knownClubs {
		if len(club) >= len(tokens) {
			continue
		}
		if tokensEqual(tokens[:len(club)], club) {
			return len(club)
		}
	}
	return 0
}

func matchClubSuffix(tokens []string) int {
	for _, club := range knownClubs {
		if len(club) >= len(tokens) {
			continue
		}
		if tokensEqual(tokens[len(tokens)-len(club):], club) {
			return len(club)
		}
	}
	return 0
}

func tokensEqual(a, b []string) bool {
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
