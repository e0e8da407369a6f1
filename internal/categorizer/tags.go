// Package categorizer files catalog items under the categories of a classification tree
// and answers navigation queries over that tree. All functions are pure: inputs are never
// modified and nothing is retained between calls.
package categorizer

// tagSet is the set of tags of a single item
type tagSet map[string]struct{}

func newTagSet(tags []string) tagSet {
	set := make(tagSet, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}

// intersects reports whether at least one of tags is in the set
func (s tagSet) intersects(tags []string) bool {
	if len(s) == 0 {
		return false
	}
	for _, tag := range tags {
		if _, ok := s[tag]; ok {
			return true
		}
	}
	return false
}

// MatchTags reports whether a node's tags and an item's tags share at least one tag.
// Either side being empty never matches.
func MatchTags(nodeTags, itemTags []string) bool {
	if len(nodeTags) == 0 || len(itemTags) == 0 {
		return false
	}
	return newTagSet(itemTags).intersects(nodeTags)
}
