package models

// HeaderCell is one header cell of an extracted table.
type HeaderCell struct {
	Text     string `json:"text"`
	DataStat string `json:"data_stat"`
	Title    string `json:"title,omitempty"`
}

// Cell is one body cell of an extracted table, in document order.
type Cell struct {
	Text     string `json:"text"`
	DataStat string `json:"data_stat"`
}

// StatValues is a row's coalesced data-stat → values map. A key that
// appears once holds a single-element list; a repeated key accumulates
// its values in document order instead of overwriting.
type StatValues map[string][]string

// Add appends a value for key, preserving encounter order.
func (v StatValues) Add(key, value string) {
	v[key] = append(v[key], value)
}

// First returns the first value recorded for key, or "" if absent.
func (v StatValues) First(key string) string {
	if vals, ok := v[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Has reports whether key has at least one value.
func (v StatValues) Has(key string) bool {
	vals, ok := v[key]
	return ok && len(vals) > 0
}

// Row is one body row: the ordered cell list plus the coalesced map.
// Cells with empty text stay in Cells (positional structure is
// preserved) but are omitted from Values.
type Row struct {
	Cells  []Cell     `json:"cells"`
	Values StatValues `json:"values"`
}

// RawTable is a generic extracted <table>: identity, ordered headers,
// and ordered body rows. It carries no site-specific meaning; the
// normalizer is the single place that interprets it.
type RawTable struct {
	Index   int          `json:"index"`
	ID      string       `json:"id"`
	Class   string       `json:"class"`
	Headers []HeaderCell `json:"headers"`
	Rows    []Row        `json:"rows"`
}

// HeaderStats returns the set of data-stat keys present in the headers.
func (t *RawTable) HeaderStats() map[string]struct{} {
	set := make(map[string]struct{}, len(t.Headers))
	for _, h := range t.Headers {
		if h.DataStat != "" {
			set[h.DataStat] = struct{}{}
		}
	}
	return set
}
