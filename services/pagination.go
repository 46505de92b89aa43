package services

// Pagination mirrors the list-response envelope used by every paginated
// endpoint.
type Pagination struct {
	Current int   `json:"current"`
	Total   int   `json:"total"` // page count
	Count   int64 `json:"count"` // total rows
}

func paginate(page, limit int, total int64) Pagination {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return Pagination{Current: page, Total: pages, Count: total}
}

func clampPageLimit(page, limit, defLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
