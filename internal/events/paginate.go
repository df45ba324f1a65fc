package events

// PageSize is the number of events shown per page.
const PageSize = 12

// Page is one slice of a filtered list.
type Page struct {
	Events     []Event `json:"events"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	Total      int     `json:"total"`
}

// Paginate returns page (1-based) of events. Pages below 1 are treated as 1
// and pages past the end come back empty.
func Paginate(events []Event, page, size int) Page {
	if size <= 0 {
		size = PageSize
	}
	if page < 1 {
		page = 1
	}
	p := Page{
		Events:     []Event{},
		Page:       page,
		TotalPages: (len(events) + size - 1) / size,
		Total:      len(events),
	}

	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * size
	end := min(start+size, len(events))
	p.Events = append(p.Events, events[start:end]...)
	return p
}
