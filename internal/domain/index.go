package domain

import "time"

const (
	AllCategory   = "all"   // every item
	OtherCategory = "other" // items no category matched
	NoGrouping    = "none"  // selector value for an ungrouped catalog view
)

// CategorizedIDs maps a category/subcategory id (or one of the reserved ids) to the
// ids of the items filed under it, in first-seen order and without duplicates.
type CategorizedIDs map[string][]string

// Bucket returns the item ids recorded under categoryID, nil if none
func (c CategorizedIDs) Bucket(categoryID string) []string {
	return c[categoryID]
}

// Has reports whether uid is recorded under categoryID
func (c CategorizedIDs) Has(categoryID, uid string) bool {
	for _, id := range c[categoryID] {
		if id == uid {
			return true
		}
	}
	return false
}

// CatalogIndex is a computed index for one catalog source, as persisted by the repository.
type CatalogIndex struct {
	Source      string         `json:"source"`
	Fingerprint string         `json:"fingerprint"`
	Categories  CategorizedIDs `json:"categories"`
	ItemCount   int            `json:"item_count"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
