package batch

import (
	"context"
	"log/slog"

	"github.com/matchpull/matchpull/extractor"
	"github.com/matchpull/matchpull/models"
	"github.com/matchpull/matchpull/normalizer"
	"github.com/matchpull/matchpull/sink"
)

// PageFetcher is the fetch surface the pipeline needs; *fetcher.Fetcher
// satisfies it, tests substitute canned markup.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Pipeline handles one match end to end: fetch the report page, parse
// its tables, normalize them into the canonical record, then update
// both output artifacts.
type Pipeline struct {
	fetcher PageFetcher
	csv     *sink.CSVSink
	excel   *sink.ExcelSink
	season  string
}

// NewPipeline wires the pipeline over its collaborators.
func NewPipeline(fetcher PageFetcher, csv *sink.CSVSink, excel *sink.ExcelSink, season string) *Pipeline {
	return &Pipeline{fetcher: fetcher, csv: csv, excel: excel, season: season}
}

// Prepare parses the match references and seeds both artifacts: the
// CSV with one unscraped row per match, the workbook with one labeled
// sheet per match.
func (p *Pipeline) Prepare(urls []string) ([]models.MatchReference, error) {
	refs := make([]models.MatchReference, 0, len(urls))
	for i, url := range urls {
		ref := models.ParseMatchReference(url, p.season)
		ref.Number = i + 1
		refs = append(refs, ref)
	}

	if err := p.csv.WriteInitial(refs); err != nil {
		return nil, err
	}
	if err := sink.BuildTemplate(p.excel.Path(), p.season, refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// Process implements ProcessFunc for one URL. Fetch, parse and
// normalize failures are recorded against the match's CSV row and
// reported as per-item errors; only an artifact write failure escalates
// to SINK_IO_FAILED.
func (p *Pipeline) Process(ctx context.Context, index int, url string) models.ScrapeResult {
	ref := models.ParseMatchReference(url, p.season)
	ref.Number = index + 1

	html, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return p.fail(url, err)
	}

	page, err := extractor.Parse(html)
	if err != nil {
		return p.fail(url, err)
	}

	rec, err := normalizer.Normalize(ref, page.Info, page.Tables)
	if err != nil {
		return p.fail(url, err)
	}
	if rec.Partial {
		slog.Warn("record is partial, some blocks fell back to defaults", "url", url)
	}

	if err := p.csv.UpdateMatch(url, sink.RecordPatch(rec), ""); err != nil {
		return failure(url, err)
	}
	if err := p.excel.PopulateMatch(rec); err != nil {
		return failure(url, err)
	}

	return models.ScrapeResult{URL: url, Record: rec}
}

// fail records a per-item failure on the match's CSV row. A write
// failure while recording it outranks the original error, since the
// shared artifact itself is now suspect.
func (p *Pipeline) fail(url string, cause error) models.ScrapeResult {
	se := models.AsScrapeError(cause)
	if err := p.csv.UpdateMatch(url, nil, se.Error()); err != nil {
		return failure(url, err)
	}
	return failure(url, se)
}

func failure(url string, err error) models.ScrapeResult {
	se := models.AsScrapeError(err)
	return models.ScrapeResult{URL: url, Err: se, Error: se.ToDetail()}
}
