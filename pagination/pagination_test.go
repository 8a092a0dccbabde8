package pagination

import "testing"

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		pageSize int
		start    int
		want     Window
	}{
		{
			name: "first page of many",
			n:    25, pageSize: 10, start: 0,
			want: Window{Start: 0, End: 10, Page: 1, TotalPages: 3, HasPrev: false, HasNext: true, PrevStart: -10, NextStart: 10},
		},
		{
			name: "middle page",
			n:    25, pageSize: 10, start: 10,
			want: Window{Start: 10, End: 20, Page: 2, TotalPages: 3, HasPrev: true, HasNext: true, PrevStart: 0, NextStart: 20},
		},
		{
			name: "short last page",
			n:    25, pageSize: 10, start: 20,
			want: Window{Start: 20, End: 25, Page: 3, TotalPages: 3, HasPrev: true, HasNext: false, PrevStart: 10, NextStart: 25},
		},
		{
			name: "exact fit",
			n:    20, pageSize: 10, start: 10,
			want: Window{Start: 10, End: 20, Page: 2, TotalPages: 2, HasPrev: true, HasNext: false, PrevStart: 0, NextStart: 20},
		},
		{
			name: "single partial page",
			n:    3, pageSize: 10, start: 0,
			want: Window{Start: 0, End: 3, Page: 1, TotalPages: 1, HasPrev: false, HasNext: false, PrevStart: -10, NextStart: 3},
		},
		{
			name: "empty list",
			n:    0, pageSize: 10, start: 0,
			want: Window{Start: 0, End: 0, Page: 1, TotalPages: 1, HasPrev: false, HasNext: false, PrevStart: -10, NextStart: 0},
		},
		{
			name: "start past the end clamps to last page",
			n:    25, pageSize: 10, start: 90,
			want: Window{Start: 20, End: 25, Page: 3, TotalPages: 3, HasPrev: true, HasNext: false, PrevStart: 10, NextStart: 25},
		},
		{
			name: "negative start clamps to zero",
			n:    25, pageSize: 10, start: -5,
			want: Window{Start: 0, End: 10, Page: 1, TotalPages: 3, HasPrev: false, HasNext: true, PrevStart: -10, NextStart: 10},
		},
		{
			name: "unaligned start snaps to page boundary",
			n:    25, pageSize: 10, start: 13,
			want: Window{Start: 10, End: 20, Page: 2, TotalPages: 3, HasPrev: true, HasNext: true, PrevStart: 0, NextStart: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(tt.n, tt.pageSize, tt.start)
			if got != tt.want {
				t.Errorf("Paginate(%d, %d, %d) = %+v, want %+v", tt.n, tt.pageSize, tt.start, got, tt.want)
			}
		})
	}
}

// Walking next from the first page must partition [0, n) without overlap or gap.
func TestPaginateWalkPartitions(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 25, 100, 101} {
		const pageSize = 10

		covered := 0
		w := Paginate(n, pageSize, 0)
		for {
			if w.Start != covered {
				t.Fatalf("n=%d: window starts at %d, expected %d (gap or overlap)", n, w.Start, covered)
			}
			covered = w.End
			if !w.HasNext {
				break
			}
			w = Paginate(n, pageSize, w.NextStart)
		}
		if covered != n {
			t.Errorf("n=%d: walk covered [0, %d), want [0, %d)", n, covered, n)
		}
	}
}
