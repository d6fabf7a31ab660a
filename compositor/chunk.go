package compositor

// Chunk splits items into consecutive groups of at most size elements, preserving order.
// The last group may be smaller. An empty input yields no groups; size < 1 is treated as 1.
func Chunk[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	if len(items) == 0 {
		return nil
	}

	groups := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		// full slice expression so appending to one group never clobbers the next
		groups = append(groups, items[i:end:end])
	}
	return groups
}
