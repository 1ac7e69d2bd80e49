package analytics

// Window is one resolved page of a list.
type Window struct {
	Page       int // 1-based, clamped into range
	PerPage    int
	TotalPages int
	Start      int // slice bounds into the full list
	End        int
}

// Paginate resolves a requested page against a list of total items.
// PerPage is forced to at least 1, pages run from 1 to TotalPages, and
// out-of-range requests clamp to the nearest valid page. An empty list
// yields a single empty page.
func Paginate(total, page, perPage int) Window {
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Window{
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Start:      start,
		End:        end,
	}
}
