package categorizer

import "catalog/indexer/internal/domain"

// indexBuilder accumulates a CategorizedIDs for a single Categorize call.
type indexBuilder struct {
	index domain.CategorizedIDs
	seen  map[string]map[string]struct{}
}

func newIndexBuilder() *indexBuilder {
	return &indexBuilder{
		index: make(domain.CategorizedIDs),
		seen:  make(map[string]map[string]struct{}),
	}
}

// add files itemID under categoryID. Adding an id already in the bucket is a no-op.
func (b *indexBuilder) add(categoryID, itemID string) {
	bucket, ok := b.seen[categoryID]
	if !ok {
		bucket = make(map[string]struct{})
		b.seen[categoryID] = bucket
	}
	if _, exists := bucket[itemID]; exists {
		return
	}
	bucket[itemID] = struct{}{}
	b.index[categoryID] = append(b.index[categoryID], itemID)
}

// Categorize builds the categorized-id index for items against the category tree.
//
// Every item is filed under domain.AllCategory. An item matched by a node anywhere under a
// top-level category is filed under that top-level category and under the matched node;
// intermediate ancestors are not credited. Items matched by nothing go to domain.OtherCategory.
func Categorize(items []domain.Item, categories []domain.Category) domain.CategorizedIDs {
	b := newIndexBuilder()

	for _, item := range items {
		b.add(domain.AllCategory, item.UID)

		tags := newTagSet(item.Tags)
		categorized := false

		for i := range categories {
			category := &categories[i]
			for _, node := range matchSubcategories(category, tags) {
				b.add(category.ID, item.UID)
				b.add(node.ID, item.UID)
				categorized = true
			}
		}

		if !categorized {
			b.add(domain.OtherCategory, item.UID)
		}
	}

	return b.index
}
