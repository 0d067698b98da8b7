// Package aggregate merges paginated result sets.
package aggregate

// Keyed is anything with a stable identity.
type Keyed interface {
	Key() string
}

// Merge appends the items of incoming whose identity is not already in existing.
// existing is kept as the prefix, unchanged; incoming order is preserved. Items
// repeated inside incoming are kept once.
func Merge[T Keyed](existing, incoming []T) []T {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]T, 0, len(existing)+len(incoming))
	for _, item := range existing {
		seen[item.Key()] = struct{}{}
		out = append(out, item)
	}
	for _, item := range incoming {
		if _, ok := seen[item.Key()]; ok {
			continue
		}
		seen[item.Key()] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Added counts how many items Merge would append.
func Added[T Keyed](existing, incoming []T) int {
	return len(Merge(existing, incoming)) - len(existing)
}
