package repo

func paginate[T any](items []T, offset, limit *int) []T {
	start := 0
	if offset != nil {
		start = clamp(*offset, 0, len(items))
	}

	end := len(items)
	if limit != nil && *limit > 0 {
		end = clamp(start+*limit, start, len(items))
	}

	return items[start:end]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
