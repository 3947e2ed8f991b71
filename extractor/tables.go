package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/matchpull/matchpull/models"
)

// Precompiled selectors; these run once per table on pages carrying
// dozens of tables.
var (
	selTable       = cascadia.MustCompile("table")
	selHeadCells   = cascadia.MustCompile("thead tr th, thead tr td")
	selBodyRows    = cascadia.MustCompile("tbody tr")
	selFirstRowTH  = cascadia.MustCompile("tbody tr:first-child th")
	selRowCells    = cascadia.MustCompile("td, th")
	selScorebox    = cascadia.MustCompile("div.scorebox")
	selScore       = cascadia.MustCompile("div.score")
	selMetaBlocks  = cascadia.MustCompile("div.scorebox_meta, div.meta, div#meta, div.info, div#info")
	selAnchors     = cascadia.MustCompile("a[href]")
	selHeaderCells = cascadia.MustCompile("th, td")
)

// Page is the parsed form of one match-report page.
type Page struct {
	Title  string
	Info   models.MatchInfo
	Tables []models.RawTable
}

// Parse extracts every statistics table plus the scorebox summary from
// raw markup. Markup that cannot be parsed at all yields a ParseError;
// a page parsing fine but containing neither tables nor a scorebox is
// left to the caller to judge (it may be a partial page).
func Parse(rawHTML string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeParse, "unparseable page markup", err)
	}

	page := &Page{
		Title:  strings.TrimSpace(doc.Find("title").First().Text()),
		Tables: Tables(doc),
	}
	page.Info = matchInfo(doc)
	page.Info.PageTitle = page.Title
	return page, nil
}

// Tables extracts every <table> in document order into a RawTable.
// Tables with no body rows are skipped entirely.
func Tables(doc *goquery.Document) []models.RawTable {
	var tables []models.RawTable

	doc.FindMatcher(selTable).Each(func(i int, sel *goquery.Selection) {
		rows := bodyRows(sel)
		if len(rows) == 0 {
			return
		}

		id, _ := sel.Attr("id")
		class, _ := sel.Attr("class")
		tables = append(tables, models.RawTable{
			Index:   len(tables),
			ID:      id,
			Class:   class,
			Headers: headerCells(sel),
			Rows:    rows,
		})
	})

	return tables
}

// headerCells captures the table's header: thead cells when present,
// else the th cells of the first body row.
func headerCells(table *goquery.Selection) []models.HeaderCell {
	cells := table.FindMatcher(selHeadCells)
	if cells.Length() == 0 {
		cells = table.FindMatcher(selFirstRowTH)
	}

	headers := make([]models.HeaderCell, 0, cells.Length())
	cells.Each(func(_ int, c *goquery.Selection) {
		stat, _ := c.Attr("data-stat")
		title, _ := c.Attr("title")
		headers = append(headers, models.HeaderCell{
			Text:     strings.TrimSpace(c.Text()),
			DataStat: stat,
			Title:    title,
		})
	})
	return headers
}

// bodyRows captures every tbody row: the ordered cell list plus the
// coalesced data-stat map. Empty-text cells stay in the cell list so
// positional structure survives, but are omitted from the map; a
// repeated data-stat key accumulates values instead of overwriting.
func bodyRows(table *goquery.Selection) []models.Row {
	var rows []models.Row

	table.FindMatcher(selBodyRows).Each(func(_ int, tr *goquery.Selection) {
		row := models.Row{Values: models.StatValues{}}

		tr.FindMatcher(selRowCells).Each(func(_ int, c *goquery.Selection) {
			stat, _ := c.Attr("data-stat")
			text := strings.TrimSpace(c.Text())
			row.Cells = append(row.Cells, models.Cell{Text: text, DataStat: stat})
			if stat != "" && text != "" {
				row.Values.Add(stat, text)
			}
		})

		rows = append(rows, row)
	})

	return rows
}
