package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name     string
		page     int
		size     int
		want     []int
		wantNum  int
		wantPrev bool
		wantNext bool
	}{
		{name: "first", page: 0, size: 3, want: []int{1, 2, 3}, wantNum: 0, wantNext: true},
		{name: "last partial", page: 2, size: 3, want: []int{7}, wantNum: 2, wantPrev: true},
		{name: "clamped high", page: 10, size: 3, want: []int{7}, wantNum: 2, wantPrev: true},
		{name: "clamped low", page: -1, size: 3, want: []int{1, 2, 3}, wantNum: 0, wantNext: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.page, tt.size)
			assert.Equal(t, tt.want, p.Items)
			assert.Equal(t, tt.wantNum, p.Number)
			assert.Equal(t, 3, p.Total)
			assert.Equal(t, tt.wantPrev, p.HasPrev())
			assert.Equal(t, tt.wantNext, p.HasNext())
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate([]string{}, 0, 5)
	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.Total)
	assert.False(t, p.HasNext())
}
