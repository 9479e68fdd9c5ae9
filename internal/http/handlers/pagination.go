package handlers

// TotalPages is ceil(count / perPage); zero items means zero pages, so an
// empty collection has no valid page at all.
func TotalPages(count, perPage int) int {
	if perPage <= 0 {
		return 0
	}

	return (count + perPage - 1) / perPage
}

func NextPage(page, totalPages int) *int {
	if page >= totalPages {
		return nil
	}

	n := page + 1
	return &n
}

func PrevPage(page int) *int {
	if page <= 1 {
		return nil
	}

	p := page - 1
	return &p
}
