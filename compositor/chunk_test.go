package compositor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		items []int
		size  int
		want  [][]int
	}{
		{"empty", nil, 6, nil},
		{"exact", []int{1, 2, 3, 4}, 2, [][]int{{1, 2}, {3, 4}}},
		{"remainder", []int{1, 2, 3, 4, 5}, 2, [][]int{{1, 2}, {3, 4}, {5}}},
		{"single group", []int{1, 2, 3}, 6, [][]int{{1, 2, 3}}},
		{"zero size", []int{1, 2}, 0, [][]int{{1}, {2}}},
		{"negative size", []int{7}, -3, [][]int{{7}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Chunk(tt.items, tt.size))
		})
	}
}

func TestChunk_CoversEveryItemOnce(t *testing.T) {
	items := make([]int, 29)
	for i := range items {
		items[i] = i
	}

	var flat []int
	for _, g := range Chunk(items, 6) {
		assert.LessOrEqual(t, len(g), 6)
		flat = append(flat, g...)
	}
	assert.Equal(t, items, flat)
}

func TestChunk_GroupsDoNotAlias(t *testing.T) {
	groups := Chunk([]int{1, 2, 3, 4}, 2)
	groups[0] = append(groups[0], 99)
	assert.Equal(t, []int{3, 4}, groups[1])
}
