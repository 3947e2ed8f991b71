package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/matchpull/matchpull/models"
)

// FixtureURLs extracts the match-report links from a season
// fixtures/results page. Each fixture row links its report from the
// Score column; the column is located by data-stat "score" first, by
// header text "Score" second. The schedule table being absent is a
// ParseError (the page is not a fixtures page).
func FixtureURLs(rawHTML, pageURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeParse, "unparseable fixtures markup", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "invalid fixtures URL", err)
	}

	scoreHeader := findScoreHeader(doc)
	if scoreHeader == nil {
		return nil, models.NewScrapeError(models.ErrCodeParse, "fixtures page has no Score column", nil)
	}

	table := scoreHeader.Closest("table")
	if table.Length() == 0 {
		return nil, models.NewScrapeError(models.ErrCodeParse, "Score column outside any table", nil)
	}

	scoreIdx := columnIndex(scoreHeader)
	if scoreIdx < 0 {
		return nil, models.NewScrapeError(models.ErrCodeParse, "could not determine Score column position", nil)
	}

	var links []string
	seen := make(map[string]struct{})

	table.FindMatcher(selBodyRows).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.FindMatcher(selRowCells)
		if cells.Length() <= scoreIdx {
			return
		}
		cells.Eq(scoreIdx).FindMatcher(selAnchors).Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if !strings.Contains(href, "/matches/") {
				return
			}
			resolved, err := base.Parse(href)
			if err != nil {
				return
			}
			abs := resolved.String()
			if _, dup := seen[abs]; dup {
				return
			}
			seen[abs] = struct{}{}
			links = append(links, abs)
		})
	})

	return links, nil
}

func findScoreHeader(doc *goquery.Document) *goquery.Selection {
	if th := doc.Find(`th[data-stat="score"]`).First(); th.Length() > 0 {
		return th
	}
	var found *goquery.Selection
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(th.Text()), "score") {
			found = th
			return false
		}
		return true
	})
	return found
}

// columnIndex locates the header cell's position within its row.
func columnIndex(header *goquery.Selection) int {
	row := header.Closest("tr")
	idx := -1
	row.FindMatcher(selHeaderCells).Each(func(i int, c *goquery.Selection) {
		if idx >= 0 {
			return
		}
		if stat, _ := c.Attr("data-stat"); stat == "score" {
			idx = i
			return
		}
		if strings.EqualFold(strings.TrimSpace(c.Text()), "score") {
			idx = i
		}
	})
	return idx
}
