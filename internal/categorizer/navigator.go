package categorizer

import "catalog/indexer/internal/domain"

// FindActiveCategory returns the first node with the given id in pre-order over the tree.
// The boolean is false when no node carries the id.
//
// Ids are expected to be unique across the tree. When they are not, the first node
// encountered wins; use FindAllCategories to see every candidate.
func FindActiveCategory(id string, categories []domain.Category) (*domain.Category, bool) {
	for i := range categories {
		category := &categories[i]
		if category.ID == id {
			return category, true
		}
		if found, ok := FindActiveCategory(id, category.Subcategories); ok {
			return found, true
		}
	}
	return nil, false
}

// FindAllCategories returns every node with the given id, in pre-order
func FindAllCategories(id string, categories []domain.Category) []*domain.Category {
	var found []*domain.Category
	walk(categories, func(c *domain.Category) {
		if c.ID == id {
			found = append(found, c)
		}
	})
	return found
}

// DuplicateIDs lists node ids that occur more than once in the tree, in first-seen order
func DuplicateIDs(categories []domain.Category) []string {
	counts := make(map[string]int)
	var order []string
	walk(categories, func(c *domain.Category) {
		counts[c.ID]++
		if counts[c.ID] == 2 {
			order = append(order, c.ID)
		}
	})
	return order
}

// PathTo returns the chain of nodes from a top-level category down to the first node
// with the given id, both ends included. It is empty when the id is not in the tree.
func PathTo(id string, categories []domain.Category) []*domain.Category {
	for i := range categories {
		category := &categories[i]
		if category.ID == id {
			return []*domain.Category{category}
		}
		if rest := PathTo(id, category.Subcategories); len(rest) > 0 {
			return append([]*domain.Category{category}, rest...)
		}
	}
	return nil
}

// HasActiveDescendant reports whether any subcategory of category, at any depth, has the id.
func HasActiveDescendant(id string, category *domain.Category) bool {
	if IsActiveTab(id, category) {
		return true
	}
	for i := range category.Subcategories {
		if HasActiveDescendant(id, &category.Subcategories[i]) {
			return true
		}
	}
	return false
}

// IsActiveTab reports whether id is the id of a direct subcategory of category
func IsActiveTab(id string, category *domain.Category) bool {
	for _, sub := range category.Subcategories {
		if sub.ID == id {
			return true
		}
	}
	return false
}

// walk visits every node in pre-order
func walk(categories []domain.Category, visit func(c *domain.Category)) {
	for i := range categories {
		visit(&categories[i])
		walk(categories[i].Subcategories, visit)
	}
}
