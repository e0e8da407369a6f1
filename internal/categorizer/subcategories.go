package categorizer

import "catalog/indexer/internal/domain"

// MatchSubcategories returns every node under node that matches item, in pre-order.
//
// A leaf node is tested against its own tags. For a node with subcategories only the
// descendants are tested: each child is included when its tags intersect the item's,
// and its own subtree is searched whether or not it matched.
func MatchSubcategories(node *domain.Category, item domain.Item) []*domain.Category {
	return matchSubcategories(node, newTagSet(item.Tags))
}

func matchSubcategories(node *domain.Category, tags tagSet) []*domain.Category {
	if node.IsLeaf() {
		if tags.intersects(node.Tags) {
			return []*domain.Category{node}
		}
		return nil
	}

	var matched []*domain.Category
	for i := range node.Subcategories {
		child := &node.Subcategories[i]
		if tags.intersects(child.Tags) {
			matched = append(matched, child)
		}
		if !child.IsLeaf() {
			matched = append(matched, matchSubcategories(child, tags)...)
		}
	}

	return matched
}
