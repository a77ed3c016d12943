package domain

// DefaultPageSize matches the results list of the search page.
const DefaultPageSize = 10

// Page is one slice of a result list.
type Page struct {
	Items      []Flight `json:"items"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
	TotalItems int      `json:"totalItems"`
}

// Paginate returns the 1-based page of flights. The page number is clamped
// into [1, TotalPages]; a non-positive size falls back to DefaultPageSize.
func Paginate(flights []Flight, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(flights)
	totalPages := (total + size - 1) / size

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	end := min(start+size, total)
	items := []Flight{}
	if start < total {
		items = flights[start:end]
	}

	return Page{
		Items:      items,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		TotalItems: total,
	}
}
