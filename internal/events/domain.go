package events

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownFilter = errors.New("unknown filter")
	ErrUnknownSort   = errors.New("unknown sort order")
)

const dayLayout = "2006-01-02"

// Day is a calendar date without a time of day. The zero Day means unset.
type Day struct {
	t time.Time
}

func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay accepts YYYY-MM-DD; the empty string yields the zero Day.
func ParseDay(s string) (Day, error) {
	if s == "" {
		return Day{}, nil
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return Day{t: t}, nil
}

func (d Day) IsZero() bool { return d.t.IsZero() }

// Compare returns -1, 0 or +1.
func (d Day) Compare(o Day) int { return d.t.Compare(o.t) }

func (d Day) Equal(o Day) bool { return d.t.Equal(o.t) }

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dayLayout)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Event is a photography job listed on the marketplace.
type Event struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Date        Day    `json:"date"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Region      string `json:"region"`
	ContactName string `json:"contactName"`
}

// DateRange bounds are inclusive. The range only filters when both are set.
type DateRange struct {
	From Day `json:"from"`
	To   Day `json:"to"`
}

func (r DateRange) Active() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

func (r DateRange) Contains(d Day) bool {
	return d.Compare(r.From) >= 0 && d.Compare(r.To) <= 0
}

// Filters holds the browse criteria. Empty fields match everything.
type Filters struct {
	Search    string    `json:"search"`
	Region    string    `json:"region"`
	City      string    `json:"city"`
	Type      string    `json:"type"`
	DateRange DateRange `json:"dateRange"`
}

func (f Filters) Equal(o Filters) bool {
	return f.Search == o.Search &&
		f.Region == o.Region &&
		f.City == o.City &&
		f.Type == o.Type &&
		f.DateRange.From.Equal(o.DateRange.From) &&
		f.DateRange.To.Equal(o.DateRange.To)
}

// FilterKey names one field of Filters.
type FilterKey string

const (
	FilterSearch    FilterKey = "search"
	FilterRegion    FilterKey = "region"
	FilterCity      FilterKey = "city"
	FilterType      FilterKey = "type"
	FilterDateRange FilterKey = "dateRange"
)

var filterLabels = map[FilterKey]string{
	FilterSearch:    "Search",
	FilterRegion:    "Region",
	FilterCity:      "City",
	FilterType:      "Event Type",
	FilterDateRange: "Date Range",
}

func ParseFilterKey(s string) (FilterKey, error) {
	k := FilterKey(s)
	if _, ok := filterLabels[k]; !ok {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownFilter)
	}
	return k, nil
}

// Label is the human-readable badge caption for k.
func (k FilterKey) Label() string { return filterLabels[k] }

// SortOrder selects the ordering of the filtered list.
type SortOrder string

const (
	SortDateAsc  SortOrder = "date-asc"
	SortDateDesc SortOrder = "date-desc"
	SortNameAsc  SortOrder = "name-asc"
	SortNameDesc SortOrder = "name-desc"
)

// DefaultSort is used until the viewer picks another order.
const DefaultSort = SortDateAsc

var SortOrders = []SortOrder{SortDateAsc, SortDateDesc, SortNameAsc, SortNameDesc}

func ParseSortOrder(s string) (SortOrder, error) {
	for _, o := range SortOrders {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownSort)
}
