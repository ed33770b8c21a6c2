// Package response turns retrieval results into the answer payload
// returned to callers. Every number in the payload is recomputed from
// the retrieved records; nothing is estimated or filled in.
package response

import (
	"fmt"
	"strings"
	"time"

	"github.com/ahermangesh/floatchat/internal/application/retrieval"
	"github.com/ahermangesh/floatchat/internal/domain/entity"
)

// tableExcerptRows caps the inline table so responses stay readable.
const tableExcerptRows = 10

// Audience selects formatting only. It never changes which facts are
// reported.
type Audience string

const (
	AudienceGeneral    Audience = "general"
	AudienceResearcher Audience = "researcher"
)

// RangeStat is a min/max/mean triple over one measured field.
type RangeStat struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// GeoExtent is the bounding box of the retrieved positions.
type GeoExtent struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Statistics aggregates the retrieved records.
type Statistics struct {
	Count       int        `json:"count"`
	Temperature *RangeStat `json:"temperature,omitempty"`
	Salinity    *RangeStat `json:"salinity,omitempty"`
	MaxPressure *float64   `json:"max_pressure,omitempty"`
	Earliest    *time.Time `json:"earliest,omitempty"`
	Latest      *time.Time `json:"latest,omitempty"`
	Extent      *GeoExtent `json:"extent,omitempty"`
}

// Table is a bounded excerpt of the retrieved records.
type Table struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
}

// Visualization describes a chart the caller may render. Kind is "map",
// "timeseries", or "none".
type Visualization struct {
	Kind  string `json:"kind"`
	Title string `json:"title,omitempty"`
}

// Source is the provenance entry for one retrieved record.
type Source struct {
	ID         string  `json:"id"`
	Backend    string  `json:"backend"`
	Similarity float64 `json:"similarity,omitempty"`
}

// Answer is the assembled response payload.
type Answer struct {
	Summary       string        `json:"summary"`
	Statistics    Statistics    `json:"statistics"`
	Table         Table         `json:"table"`
	Visualization Visualization `json:"visualization"`
	Sources       []Source      `json:"sources"`
	QueryType     string        `json:"query_type"`
	Confidence    string        `json:"confidence"`
	Notes         []string      `json:"notes,omitempty"`
}

// Assembler builds answers from retrieval results.
type Assembler struct{}

// NewAssembler builds an assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble produces the answer for a retrieval result. An empty result
// yields an explicit no-data answer, never an invented one.
func (a *Assembler) Assemble(res *retrieval.Result, audience Audience) *Answer {
	if audience == "" {
		audience = AudienceGeneral
	}

	ans := &Answer{
		QueryType:  string(res.Classification.Type),
		Confidence: string(res.Band),
		Sources:    make([]Source, 0, res.Count()),
	}

	if res.WidenedToYear {
		ans.Notes = append(ans.Notes, "The requested month had no data; results cover the whole year.")
	}
	if res.PartialFailure != "" {
		ans.Notes = append(ans.Notes, fmt.Sprintf("The %s backend was unavailable; results may be incomplete.", res.PartialFailure))
	}

	if res.Count() == 0 {
		ans.Summary = a.emptySummary(res)
		ans.Table = Table{Columns: tableColumns}
		ans.Visualization = Visualization{Kind: "none"}
		return ans
	}

	records := make([]*entity.ProfileRecord, 0, res.Count())
	for _, sr := range res.Records {
		records = append(records, sr.Record)
		ans.Sources = append(ans.Sources, Source{
			ID:         sr.Record.SourceID(),
			Backend:    string(sr.Origin),
			Similarity: sr.Similarity,
		})
	}

	ans.Statistics = computeStatistics(records)
	ans.Table = buildTable(records, audience)
	ans.Visualization = chooseVisualization(res, ans.Statistics)
	ans.Summary = a.summarize(ans.Statistics, res, audience)
	return ans
}

var tableColumns = []string{"wmo_id", "cycle", "date", "latitude", "longitude", "min_temp_c", "max_temp_c", "min_sal_psu", "max_sal_psu"}

func buildTable(records []*entity.ProfileRecord, audience Audience) Table {
	n := len(records)
	if n > tableExcerptRows {
		n = tableExcerptRows
	}
	rows := make([][]string, 0, n)
	for _, r := range records[:n] {
		rows = append(rows, []string{
			r.WMOID,
			fmt.Sprintf("%d", r.CycleNumber),
			r.ProfileDate.UTC().Format("2006-01-02"),
			formatFloat(r.Latitude, audience),
			formatFloat(r.Longitude, audience),
			formatOptional(r.MinTemperature, audience),
			formatOptional(r.MaxTemperature, audience),
			formatOptional(r.MinSalinity, audience),
			formatOptional(r.MaxSalinity, audience),
		})
	}
	return Table{Columns: tableColumns, Rows: rows, TotalRows: len(records)}
}

func computeStatistics(records []*entity.ProfileRecord) Statistics {
	stats := Statistics{Count: len(records)}

	var (
		tempAgg, salAgg aggregator
		maxPressure     *float64
		extent          *GeoExtent
	)
	for _, r := range records {
		tempAgg.add(r.MinTemperature)
		tempAgg.add(r.MaxTemperature)
		salAgg.add(r.MinSalinity)
		salAgg.add(r.MaxSalinity)
		if r.MaxPressure != nil && (maxPressure == nil || *r.MaxPressure > *maxPressure) {
			v := *r.MaxPressure
			maxPressure = &v
		}
		if extent == nil {
			extent = &GeoExtent{MinLat: r.Latitude, MaxLat: r.Latitude, MinLon: r.Longitude, MaxLon: r.Longitude}
		} else {
			extent.MinLat = min(extent.MinLat, r.Latitude)
			extent.MaxLat = max(extent.MaxLat, r.Latitude)
			extent.MinLon = min(extent.MinLon, r.Longitude)
			extent.MaxLon = max(extent.MaxLon, r.Longitude)
		}
		d := r.ProfileDate.UTC()
		if stats.Earliest == nil || d.Before(*stats.Earliest) {
			e := d
			stats.Earliest = &e
		}
		if stats.Latest == nil || d.After(*stats.Latest) {
			l := d
			stats.Latest = &l
		}
	}

	stats.Temperature = tempAgg.stat()
	stats.Salinity = salAgg.stat()
	stats.MaxPressure = maxPressure
	stats.Extent = extent
	return stats
}

// aggregator folds optional measurements into a range stat.
type aggregator struct {
	n        int
	sum      float64
	min, max float64
}

func (a *aggregator) add(v *float64) {
	if v == nil {
		return
	}
	if a.n == 0 {
		a.min, a.max = *v, *v
	} else {
		a.min = min(a.min, *v)
		a.max = max(a.max, *v)
	}
	a.sum += *v
	a.n++
}

func (a *aggregator) stat() *RangeStat {
	if a.n == 0 {
		return nil
	}
	return &RangeStat{Min: a.min, Max: a.max, Mean: a.sum / float64(a.n)}
}

func chooseVisualization(res *retrieval.Result, stats Statistics) Visualization {
	if stats.Extent != nil && (stats.Extent.MaxLat > stats.Extent.MinLat || stats.Extent.MaxLon > stats.Extent.MinLon) {
		return Visualization{Kind: "map", Title: "Profile positions"}
	}
	if stats.Earliest != nil && stats.Latest != nil && stats.Latest.After(*stats.Earliest) {
		return Visualization{Kind: "timeseries", Title: "Measurements over time"}
	}
	return Visualization{Kind: "none"}
}

func (a *Assembler) summarize(stats Statistics, res *retrieval.Result, audience Audience) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching profile", stats.Count)
	if stats.Count != 1 {
		b.WriteString("s")
	}
	if stats.Earliest != nil && stats.Latest != nil {
		if stats.Earliest.Equal(*stats.Latest) {
			fmt.Fprintf(&b, " on %s", stats.Earliest.Format("2006-01-02"))
		} else {
			fmt.Fprintf(&b, " between %s and %s", stats.Earliest.Format("2006-01-02"), stats.Latest.Format("2006-01-02"))
		}
	}
	b.WriteString(".")
	if stats.Temperature != nil {
		fmt.Fprintf(&b, " Temperature ranged from %s to %s °C (mean %s).",
			formatFloat(stats.Temperature.Min, audience),
			formatFloat(stats.Temperature.Max, audience),
			formatFloat(stats.Temperature.Mean, audience))
	}
	if stats.Salinity != nil {
		fmt.Fprintf(&b, " Salinity ranged from %s to %s PSU (mean %s).",
			formatFloat(stats.Salinity.Min, audience),
			formatFloat(stats.Salinity.Max, audience),
			formatFloat(stats.Salinity.Mean, audience))
	}
	if name := res.Classification.RegionName; name != "" {
		fmt.Fprintf(&b, " Region: %s.", name)
	}
	return b.String()
}

func (a *Assembler) emptySummary(res *retrieval.Result) string {
	if res.PartialFailure != "" {
		return "The data is temporarily unavailable; please try again shortly."
	}
	var b strings.Builder
	b.WriteString("No matching records were found")
	if s := res.Classification.Scope; s != nil && s.Year != 0 {
		if s.Month != 0 {
			fmt.Fprintf(&b, " for %s %d", s.Month.String(), s.Year)
		} else {
			fmt.Fprintf(&b, " for %d", s.Year)
		}
	}
	b.WriteString(".")
	if alt := res.Alternative; alt != nil {
		if alt.Month != 0 {
			fmt.Fprintf(&b, " The nearest available period is %s %d (%d profiles).", alt.Month.String(), alt.Year, alt.Count)
		} else {
			fmt.Fprintf(&b, " The nearest available period is %d (%d profiles).", alt.Year, alt.Count)
		}
	}
	return b.String()
}

// formatFloat renders a value at the audience's precision. Researcher
// output keeps three decimals, general output one.
func formatFloat(v float64, audience Audience) string {
	if audience == AudienceResearcher {
		return fmt.Sprintf("%.3f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func formatOptional(v *float64, audience Audience) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v, audience)
}
