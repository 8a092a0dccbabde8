// Package pagination holds the page-window arithmetic shared by flat result
// listings and nested collection listings. Both surfaces must paginate
// identically, so the math lives here and nowhere else.
package pagination

// Window describes one visible page over an ordered result list.
type Window struct {
	Start      int // inclusive offset of the first visible item
	End        int // exclusive offset past the last visible item
	Page       int // 1-based page number
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevStart  int // start offset encoded on the prev control
	NextStart  int // start offset encoded on the next control
}

// Paginate computes the window for a list of n items at the given start
// offset. Out-of-range offsets are clamped to the nearest valid page start.
func Paginate(n, pageSize, start int) Window {
	if pageSize <= 0 {
		pageSize = 1
	}
	if n < 0 {
		n = 0
	}
	if start < 0 {
		start = 0
	}
	if start >= n && n > 0 {
		start = ((n - 1) / pageSize) * pageSize
	}
	// Align to a page boundary so nav controls always land on whole pages.
	start = (start / pageSize) * pageSize

	end := start + pageSize
	if end > n {
		end = n
	}

	totalPages := (n + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	return Window{
		Start:      start,
		End:        end,
		Page:       start/pageSize + 1,
		TotalPages: totalPages,
		HasPrev:    start > 0,
		HasNext:    end < n,
		PrevStart:  start - pageSize,
		NextStart:  end,
	}
}
