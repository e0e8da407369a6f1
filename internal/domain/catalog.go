package domain

// Item is a single catalog entry (template, application, ...) as supplied by the catalog source.
type Item struct {
	UID  string   `json:"uid"`
	Name string   `json:"name,omitempty"`
	Tags []string `json:"tags,omitempty"`
}

// Category is a node of the classification tree. Top-level entries are categories,
// nested entries are subcategories. Node ids are expected to be unique across the whole tree.
type Category struct {
	ID            string     `json:"id"`
	Label         string     `json:"label,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// IsLeaf reports whether the node has no subcategories
func (c *Category) IsLeaf() bool {
	return len(c.Subcategories) == 0
}

// DisplayName returns the label, falling back to the id
func (c *Category) DisplayName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}
