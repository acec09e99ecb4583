package chunk

// Chunk partitions items into consecutive groups of at most size elements.
// Order and element identity are preserved, an empty input yields no groups and
// a non-positive size yields a single group. The last group may be shorter; no
// group is ever empty, so callers that need a fixed number of groups pad themselves.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items[:len(items):len(items)]}
	}

	groups := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		groups = append(groups, items[start:end:end])
	}
	return groups
}

// Split partitions items into exactly parts groups of balanced size, earlier groups
// taking the extra element. Asking for more parts than items yields empty trailing
// groups; filtering them is up to the caller. A non-positive parts yields a single
// group, or no groups for an empty input.
func Split[T any](items []T, parts int) [][]T {
	if parts <= 0 {
		if len(items) == 0 {
			return nil
		}
		return [][]T{items[:len(items):len(items)]}
	}

	groups := make([][]T, 0, parts)
	rest := items
	for i := parts; i > 0; i-- {
		n := (len(rest) + i - 1) / i
		groups = append(groups, rest[:n:n])
		rest = rest[n:]
	}
	return groups
}
