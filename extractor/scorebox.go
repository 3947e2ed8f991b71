package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/matchpull/matchpull/models"
)

var (
	reReferee    = regexp.MustCompile(`Referee:\s*([^,\n(]+)`)
	reVenue      = regexp.MustCompile(`Venue:\s*([^,\n]+)`)
	reAttendance = regexp.MustCompile(`Attendance:\s*([0-9,]+)`)
)

// matchInfo pulls the scorebox summary (score, referee, stadium,
// attendance) out of the page. Every field is best effort; absent
// anchors leave zero values for the normalizer's defaults to cover.
func matchInfo(doc *goquery.Document) models.MatchInfo {
	var info models.MatchInfo

	scorebox := doc.FindMatcher(selScorebox).First()
	if scorebox.Length() > 0 {
		scores := scorebox.FindMatcher(selScore)
		if scores.Length() >= 2 {
			home := strings.TrimSpace(scores.Eq(0).Text())
			away := strings.TrimSpace(scores.Eq(1).Text())
			if home != "" && away != "" {
				info.FinalScore = fmt.Sprintf("%s-%s", home, away)
				info.HomeGoals, _ = strconv.Atoi(home)
				info.AwayGoals, _ = strconv.Atoi(away)
			}
		}
	}

	doc.FindMatcher(selMetaBlocks).Each(func(_ int, block *goquery.Selection) {
		text := block.Text()
		if info.Referee == "" {
			if m := reReferee.FindStringSubmatch(text); m != nil {
				info.Referee = strings.TrimSpace(m[1])
			}
		}
		if info.Stadium == "" {
			if m := reVenue.FindStringSubmatch(text); m != nil {
				info.Stadium = strings.TrimSpace(m[1])
			}
		}
		if info.Attendance == "" {
			if m := reAttendance.FindStringSubmatch(text); m != nil {
				info.Attendance = strings.TrimSpace(m[1])
			}
		}
	})

	return info
}
