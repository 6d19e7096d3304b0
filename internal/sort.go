package internal

import (
	"slices"
	"strings"
)

// InsertionSortLimit is the length up to which SortByKey uses insertion
// sort. Objects rarely carry more keys than this, and insertion sort is the
// faster choice below it.
const InsertionSortLimit = 200

// SortByKey sorts s in place by the string key of each element. Keys are
// expected to be unique, so stability does not matter.
func SortByKey[E any](s []E, key func(E) string) {
	if len(s) > InsertionSortLimit {
		slices.SortFunc(s, func(a, b E) int {
			return strings.Compare(key(a), key(b))
		})
		return
	}
	for i := 1; i < len(s); i++ {
		current := s[i]
		currentKey := key(current)
		pos := i
		for pos > 0 && key(s[pos-1]) > currentKey {
			s[pos] = s[pos-1]
			pos--
		}
		s[pos] = current
	}
}
