package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/indexer/internal/domain"
)

func TestMatchSubcategories(t *testing.T) {
	tree := catalogTree()

	tests := []struct {
		name     string
		category *domain.Category
		tags     []string
		want     []string
	}{
		{
			name:     "leaf category matches itself",
			category: &tree[2],
			tags:     []string{"tekton"},
			want:     []string{"cicd"},
		},
		{
			name:     "leaf category without intersection",
			category: &tree[2],
			tags:     []string{"golang"},
			want:     []string{},
		},
		{
			name:     "direct subcategory",
			category: &tree[0],
			tags:     []string{"jdk"},
			want:     []string{"java"},
		},
		{
			name:     "subcategory and its matching child in pre-order",
			category: &tree[1],
			tags:     []string{"postgresql"},
			want:     []string{"sql", "postgres"},
		},
		{
			name:     "grandchild matches although its parent does not",
			category: &tree[0],
			tags:     []string{"gin"},
			want:     []string{"gin"},
		},
		{
			name:     "sibling branches",
			category: &tree[1],
			tags:     []string{"sql", "mongodb"},
			want:     []string{"sql", "nosql"},
		},
		{
			name:     "own tags ignored when subcategories exist",
			category: &tree[1],
			tags:     []string{"database"},
			want:     []string{},
		},
		{
			name:     "item without tags",
			category: &tree[1],
			tags:     nil,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchSubcategories(tt.category, domain.Item{UID: "i", Tags: tt.tags})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestMatchSubcategoriesReturnsTreeNodes(t *testing.T) {
	tree := catalogTree()

	got := MatchSubcategories(&tree[0], domain.Item{UID: "i", Tags: []string{"java"}})
	require.Len(t, got, 1)
	assert.Same(t, &tree[0].Subcategories[0], got[0])
}

func TestMatchSubcategoriesNodeWithoutTagsOrChildren(t *testing.T) {
	empty := &domain.Category{ID: "empty"}

	assert.Empty(t, MatchSubcategories(empty, domain.Item{UID: "i", Tags: []string{"anything"}}))
}
