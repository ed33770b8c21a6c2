package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	yearPattern      = regexp.MustCompile(`\b(20\d{2})\b`)
	numericYMPattern = regexp.MustCompile(`\b(20\d{2})[-/](0?[1-9]|1[0-2])\b`)
	monthYearPattern = regexp.MustCompile(`\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b[\s,]*(20\d{2})?`)
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var recentWords = []string{"recent", "latest", "current", "right now", "nowadays", "these days"}

// TemporalExtractor resolves explicit and relative time references in a
// question. Years outside [MinYear, MaxYear] are ignored so that float
// serial numbers and similar tokens do not masquerade as dates.
type TemporalExtractor struct {
	MinYear int
	MaxYear int
}

// NewTemporalExtractor builds an extractor for the corpus coverage window.
func NewTemporalExtractor(minYear, maxYear int) *TemporalExtractor {
	return &TemporalExtractor{MinYear: minYear, MaxYear: maxYear}
}

// Extract returns the time scope mentioned in text, or nil when the
// question carries no usable temporal reference. A month name without a
// year is not a usable reference.
func (e *TemporalExtractor) Extract(text string) *TimeScope {
	lower := strings.ToLower(text)

	// Concrete references win over relative words, so "latest March 2023
	// profiles" keeps its explicit scope.

	// "2024-10" / "2024/3" style first, it is the most specific.
	if m := numericYMPattern.FindStringSubmatch(lower); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if e.yearInRange(year) {
			return &TimeScope{Year: year, Month: time.Month(month)}
		}
	}

	if m := monthYearPattern.FindStringSubmatch(lower); m != nil {
		if m[2] != "" {
			year, _ := strconv.Atoi(m[2])
			if e.yearInRange(year) {
				return &TimeScope{Year: year, Month: monthsByName[m[1]]}
			}
		}
		// "October of 2024", "in 2024, during March" and similar forms
		// where the year precedes or trails the month at a distance. A
		// bare month with no year anywhere is ambiguous and falls through.
		if y := e.findYear(lower); y != 0 {
			return &TimeScope{Year: y, Month: monthsByName[m[1]]}
		}
	} else if y := e.findYear(lower); y != 0 {
		return &TimeScope{Year: y}
	}

	for _, w := range recentWords {
		if strings.Contains(lower, w) {
			return &TimeScope{MostRecent: true}
		}
	}

	return nil
}

func (e *TemporalExtractor) findYear(lower string) int {
	for _, m := range yearPattern.FindAllStringSubmatch(lower, -1) {
		year, _ := strconv.Atoi(m[1])
		if e.yearInRange(year) {
			return year
		}
	}
	return 0
}

func (e *TemporalExtractor) yearInRange(year int) bool {
	return year >= e.MinYear && year <= e.MaxYear
}
