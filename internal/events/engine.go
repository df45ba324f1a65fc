package events

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MatchMode controls how the region, city and type filters compare.
type MatchMode int

const (
	// MatchExact requires the field to equal the filter value.
	MatchExact MatchMode = iota
	// MatchSubstring is a case-insensitive contains test.
	MatchSubstring
)

// Engine filters and orders event lists. It holds no per-viewer state and is
// safe for concurrent use.
type Engine struct {
	mode MatchMode
	lang language.Tag
}

func NewEngine(mode MatchMode, lang language.Tag) *Engine {
	return &Engine{mode: mode, lang: lang}
}

// Apply returns the events matching f in the requested order. The input is
// not modified.
func (e *Engine) Apply(events []Event, f Filters, order SortOrder) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if e.Match(ev, f) {
			out = append(out, ev)
		}
	}
	e.Sort(out, order)
	return out
}

// Match reports whether ev satisfies every non-empty clause of f.
func (e *Engine) Match(ev Event, f Filters) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !containsFold(ev.Name, q) && !containsFold(ev.Type, q) && !containsFold(ev.City, q) {
			return false
		}
	}
	if !e.matchField(ev.Region, f.Region) || !e.matchField(ev.City, f.City) || !e.matchField(ev.Type, f.Type) {
		return false
	}
	if f.DateRange.Active() && !f.DateRange.Contains(ev.Date) {
		return false
	}
	return true
}

func (e *Engine) matchField(value, filter string) bool {
	if filter == "" {
		return true
	}
	if e.mode == MatchSubstring {
		return containsFold(value, strings.ToLower(filter))
	}
	return value == filter
}

func containsFold(s, lowerSubstr string) bool {
	return strings.Contains(strings.ToLower(s), lowerSubstr)
}

// Sort orders events in place. Equal keys keep their relative order.
func (e *Engine) Sort(events []Event, order SortOrder) {
	switch order {
	case SortDateDesc:
		slices.SortStableFunc(events, func(a, b Event) int { return b.Date.Compare(a.Date) })
	case SortNameAsc, SortNameDesc:
		// Collators keep internal buffers and must not be shared.
		c := collate.New(e.lang)
		sign := 1
		if order == SortNameDesc {
			sign = -1
		}
		slices.SortStableFunc(events, func(a, b Event) int { return sign * c.CompareString(a.Name, b.Name) })
	default:
		slices.SortStableFunc(events, func(a, b Event) int { return a.Date.Compare(b.Date) })
	}
}
