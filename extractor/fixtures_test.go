package extractor

import "testing"

const fixturesPage = `<html><body>
<table id="sched_2024-2025_9_1">
	<thead><tr>
		<th data-stat="gameweek">Wk</th>
		<th data-stat="home_team">Home</th>
		<th data-stat="score">Score</th>
		<th data-stat="away_team">Away</th>
	</tr></thead>
	<tbody>
		<tr>
			<td data-stat="gameweek">1</td>
			<td data-stat="home_team">Manchester United</td>
			<td data-stat="score"><a href="/en/matches/cc5b4244/Manchester-United-Fulham-August-16-2024-Premier-League">1&#8211;0</a></td>
			<td data-stat="away_team">Fulham</td>
		</tr>
		<tr>
			<td data-stat="gameweek">1</td>
			<td data-stat="home_team">Arsenal</td>
			<td data-stat="score"><a href="/en/matches/8b1e4321/Arsenal-Wolverhampton-Wanderers-August-17-2024-Premier-League">2&#8211;0</a></td>
			<td data-stat="away_team">Wolves</td>
		</tr>
		<tr>
			<td data-stat="gameweek">1</td>
			<td data-stat="home_team">Postponed FC</td>
			<td data-stat="score"></td>
			<td data-stat="away_team">No Link Town</td>
		</tr>
		<tr>
			<td data-stat="gameweek">1</td>
			<td data-stat="home_team">Manchester United</td>
			<td data-stat="score"><a href="/en/matches/cc5b4244/Manchester-United-Fulham-August-16-2024-Premier-League">1&#8211;0</a></td>
			<td data-stat="away_team">Fulham</td>
		</tr>
	</tbody>
</table>
</body></html>`

func TestFixtureURLs(t *testing.T) {
	urls, err := FixtureURLs(fixturesPage, "https://fbref.com/en/comps/9/schedule/Premier-League-Scores-and-Fixtures")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"https://fbref.com/en/matches/cc5b4244/Manchester-United-Fulham-August-16-2024-Premier-League",
		"https://fbref.com/en/matches/8b1e4321/Arsenal-Wolverhampton-Wanderers-August-17-2024-Premier-League",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls (%v), want %d", len(urls), urls, len(want))
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestFixtureURLs_HeaderTextFallback(t *testing.T) {
	page := `<table><thead><tr><th>Home</th><th>Score</th></tr></thead><tbody>
		<tr><td>Chelsea</td><td><a href="/en/matches/abc/Chelsea-Everton-May-1-2025-Premier-League">3-1</a></td></tr>
	</tbody></table>`

	urls, err := FixtureURLs(page, "https://fbref.com/en/comps/9/schedule")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("got %d urls, want 1", len(urls))
	}
	if urls[0] != "https://fbref.com/en/matches/abc/Chelsea-Everton-May-1-2025-Premier-League" {
		t.Errorf("urls[0] = %q", urls[0])
	}
}

func TestFixtureURLs_NoScoreColumn(t *testing.T) {
	_, err := FixtureURLs(`<table><thead><tr><th>Home</th></tr></thead><tbody><tr><td>x</td></tr></tbody></table>`, "https://fbref.com/x")
	if err == nil {
		t.Fatal("expected ParseError for page without a Score column")
	}
}
