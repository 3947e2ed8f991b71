package models

import "testing"

func TestParseMatchReference(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		homeTeam    string
		awayTeam    string
		date        string
		competition string
	}{
		{
			name:        "multi word home team",
			url:         "https://fbref.com/en/matches/cc5b4244/Manchester-United-Fulham-August-16-2024-Premier-League",
			homeTeam:    "Manchester United",
			awayTeam:    "Fulham",
			date:        "August-16-2024",
			competition: "Premier League",
		},
		{
			name:        "multi word both teams",
			url:         "https://fbref.com/en/matches/eac7c00b/West-Ham-United-Aston-Villa-August-17-2024-Premier-League",
			homeTeam:    "West Ham United",
			awayTeam:    "Aston Villa",
			date:        "August-17-2024",
			competition: "Premier League",
		},
		{
			name:        "known club at tail only",
			url:         "https://fbref.com/en/matches/9c2f5432/Fulham-Manchester-United-December-1-2024-Premier-League",
			homeTeam:    "Fulham",
			awayTeam:    "Manchester United",
			date:        "December-1-2024",
			competition: "Premier League",
		},
		{
			name:        "single word teams",
			url:         "https://fbref.com/en/matches/8b1e4321/Arsenal-Chelsea-August-17-2024-Premier-League",
			homeTeam:    "Arsenal",
			awayTeam:    "Chelsea",
			date:        "August-17-2024",
			competition: "Premier League",
		},
		{
			name:        "historical pre-2000 season",
			url:         "https://fbref.com/en/matches/0df12c56/Arsenal-Chelsea-May-1-1998-Premier-League",
			homeTeam:    "Arsenal",
			awayTeam:    "Chelsea",
			date:        "May-1-1998",
			competition: "Premier League",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := ParseMatchReference(tt.url, "2024-25")
			if ref.HomeTeam != tt.homeTeam {
				t.Errorf("HomeTeam = %q, want %q", ref.HomeTeam, tt.homeTeam)
			}
			if ref.AwayTeam != tt.awayTeam {
				t.Errorf("AwayTeam = %q, want %q", ref.AwayTeam, tt.awayTeam)
			}
			if ref.Date != tt.date {
				t.Errorf("Date = %q, want %q", ref.Date, tt.date)
			}
			if ref.Competition != tt.competition {
				t.Errorf("Competition = %q, want %q", ref.Competition, tt.competition)
			}
			if ref.Season != "2024-25" {
				t.Errorf("Season = %q, want %q", ref.Season, "2024-25")
			}
		})
	}
}

func TestParseMatchReference_Malformed(t *testing.T) {
	urls := []string{
		"https://fbref.com/en/matches/abc123/no-year-here-at-all",
		"https://fbref.com/en/matches/abc123/2024",
		"https://fbref.com/en/matches/abc123/",
		"not-even-a-url",
	}

	for _, u := range urls {
		ref := ParseMatchReference(u, "2024-25")
		if ref.HomeTeam == "" || ref.AwayTeam == "" || ref.Date == "" || ref.Competition == "" {
			t.Errorf("ParseMatchReference(%q) produced empty field: %+v", u, ref)
		}
		if ref.URL != u {
			t.Errorf("URL = %q, want %q", ref.URL, u)
		}
	}
}

func TestParseMatchReference_UnknownDefaults(t *testing.T) {
	ref := ParseMatchReference("https://example.com/x/y/garbage", "2024-25")
	for field, got := range map[string]string{
		"HomeTeam":    ref.HomeTeam,
		"AwayTeam":    ref.AwayTeam,
		"Date":        ref.Date,
		"Competition": ref.Competition,
	} {
		if got != "Unknown" {
			t.Errorf("%s = %q, want %q", field, got, "Unknown")
		}
	}
}

func TestSheetName(t *testing.T) {
	ref := MatchReference{Number: 1, HomeTeam: "Manchester United", AwayTeam: "Fulham"}
	if got := ref.SheetName(); got != "Match_001_Manchester_vs_Fulham" {
		t.Errorf("SheetName() = %q, want %q", got, "Match_001_Manchester_vs_Fulham")
	}

	ref = MatchReference{Number: 42, HomeTeam: "Arsenal", AwayTeam: "Aston Villa"}
	if got := ref.SheetName(); got != "Match_042_Arsenal_vs_Aston" {
		t.Errorf("SheetName() = %q, want %q", got, "Match_042_Arsenal_vs_Aston")
	}
}

func TestStatValues_Coalescing(t *testing.T) {
	v := StatValues{}
	v.Add("cards", "1")
	if got := v.First("cards"); got != "1" {
		t.Errorf("First after one add = %q, want %q", got, "1")
	}

	v.Add("cards", "2")
	if len(v["cards"]) != 2 {
		t.Fatalf("repeated key should hold 2 values, got %d", len(v["cards"]))
	}
	if v["cards"][0] != "1" || v["cards"][1] != "2" {
		t.Errorf("values out of order: %v", v["cards"])
	}

	if v.Has("missing") {
		t.Error("Has should be false for absent key")
	}
	if got := v.First("missing"); got != "" {
		t.Errorf("First for absent key = %q, want empty", got)
	}
}
