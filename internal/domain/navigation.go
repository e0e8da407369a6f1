package domain

// Breadcrumb is one entry of the path from the catalog root to the active category
type Breadcrumb struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	IsActive bool   `json:"is_active"` // only the last crumb
}

// Tab describes the highlight state of a top-level category for a given active id
type Tab struct {
	CategoryID       string `json:"category_id"`
	Name             string `json:"name"`
	Selected         bool   `json:"selected"`          // the category itself is active
	HasActiveTab     bool   `json:"has_active_tab"`    // a direct subcategory is active
	ActiveDescendant bool   `json:"active_descendant"` // any nested subcategory is active
}

// Navigation is everything the UI needs to render the category selector for one active id
type Navigation struct {
	Source      string       `json:"source"`
	ActiveID    string       `json:"active_id"`
	Active      *Category    `json:"active,omitempty"`
	Found       bool         `json:"found"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
	Tabs        []Tab        `json:"tabs"`
	ItemIDs     []string     `json:"item_ids"`
}

// ApplicationsInfo reports whether any application exists in a namespace
type ApplicationsInfo struct {
	Namespace string `json:"namespace"`
	Loaded    bool   `json:"loaded"`
	AppExists bool   `json:"app_exists"`
}
