package events

import (
	"fmt"
	"slices"
	"sync"
)

// Badge describes one active filter that the viewer can remove.
type Badge struct {
	Key   FilterKey `json:"key"`
	Label string    `json:"label"`
	Value string    `json:"value"`
}

// View is what a viewer sees after applying their current state.
type View struct {
	Page
	Filters Filters   `json:"filters"`
	Sort    SortOrder `json:"sort"`
	Badges  []Badge   `json:"badges"`
}

// Browser is one viewer's filter, sort and page state over a shared Store.
// The filtered list is recomputed only when the filters, the sort order or
// the store generation change.
type Browser struct {
	store  *Store
	engine *Engine

	mu      sync.Mutex
	filters Filters
	sort    SortOrder
	page    int
	active  []FilterKey

	memo struct {
		valid      bool
		filters    Filters
		sort       SortOrder
		generation uint64
		result     []Event
	}
	recomputes int
}

func NewBrowser(store *Store, engine *Engine) *Browser {
	return &Browser{
		store:  store,
		engine: engine,
		sort:   DefaultSort,
		page:   1,
	}
}

// SetText sets one of the text filters and returns to page 1.
func (b *Browser) SetText(key FilterKey, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch key {
	case FilterSearch:
		b.filters.Search = value
	case FilterRegion:
		b.filters.Region = value
	case FilterCity:
		b.filters.City = value
	case FilterType:
		b.filters.Type = value
	default:
		return fmt.Errorf("set %q: %w", key, ErrUnknownFilter)
	}
	b.page = 1
	b.markActive(key, value != "")
	return nil
}

// SetDateRange sets the date filter and returns to page 1. The badge appears
// only once both bounds are set.
func (b *Browser) SetDateRange(r DateRange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.filters.DateRange = r
	b.page = 1
	b.markActive(FilterDateRange, r.Active())
}

// RemoveFilter clears a single filter, leaving the others in place.
func (b *Browser) RemoveFilter(key FilterKey) error {
	if key == FilterDateRange {
		b.SetDateRange(DateRange{})
		return nil
	}
	return b.SetText(key, "")
}

// ClearFilters drops every filter and badge and returns to page 1. The sort
// order is kept.
func (b *Browser) ClearFilters() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.filters = Filters{}
	b.active = nil
	b.page = 1
}

func (b *Browser) SetSort(order SortOrder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sort = order
}

// SetPage moves to page n; values below 1 mean the first page.
func (b *Browser) SetPage(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.page = max(n, 1)
}

// markActive keeps badges in the order their filters were first switched on.
func (b *Browser) markActive(key FilterKey, on bool) {
	i := slices.Index(b.active, key)
	switch {
	case on && i < 0:
		b.active = append(b.active, key)
	case !on && i >= 0:
		b.active = slices.Delete(b.active, i, i+1)
	}
}

// Filtered returns the full filtered and sorted list.
func (b *Browser) Filtered() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.filteredLocked())
}

func (b *Browser) filteredLocked() []Event {
	events, gen := b.store.Snapshot()
	m := &b.memo
	if m.valid && m.generation == gen && m.sort == b.sort && m.filters.Equal(b.filters) {
		return m.result
	}
	m.result = b.engine.Apply(events, b.filters, b.sort)
	m.filters = b.filters
	m.sort = b.sort
	m.generation = gen
	m.valid = true
	b.recomputes++
	return m.result
}

// View returns the current page together with the state that produced it.
func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	return View{
		Page:    Paginate(b.filteredLocked(), b.page, PageSize),
		Filters: b.filters,
		Sort:    b.sort,
		Badges:  b.badgesLocked(),
	}
}

func (b *Browser) badgesLocked() []Badge {
	badges := make([]Badge, 0, len(b.active))
	for _, key := range b.active {
		badges = append(badges, Badge{Key: key, Label: key.Label(), Value: b.valueOf(key)})
	}
	return badges
}

func (b *Browser) valueOf(key FilterKey) string {
	switch key {
	case FilterSearch:
		return b.filters.Search
	case FilterRegion:
		return b.filters.Region
	case FilterCity:
		return b.filters.City
	case FilterType:
		return b.filters.Type
	case FilterDateRange:
		return b.filters.DateRange.From.String() + " - " + b.filters.DateRange.To.String()
	}
	return ""
}
