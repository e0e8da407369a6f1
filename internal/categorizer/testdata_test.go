package categorizer

import "catalog/indexer/internal/domain"

// catalogTree is a small developer-catalog tree shared by the tests:
//
//	languages
//	  java      [java, jdk]
//	  go        [golang]
//	    gin     [gin]
//	databases   [database]
//	  sql       [sql, postgresql]
//	    postgres [postgresql]
//	  nosql     [nosql, mongodb]
//	cicd        [pipeline, tekton]
func catalogTree() []domain.Category {
	return []domain.Category{
		{
			ID:    "languages",
			Label: "Languages",
			Subcategories: []domain.Category{
				{ID: "java", Label: "Java", Tags: []string{"java", "jdk"}},
				{ID: "go", Label: "Go", Tags: []string{"golang"}, Subcategories: []domain.Category{
					{ID: "gin", Label: "Gin", Tags: []string{"gin"}},
				}},
			},
		},
		{
			ID:    "databases",
			Label: "Databases",
			Tags:  []string{"database"},
			Subcategories: []domain.Category{
				{ID: "sql", Label: "SQL", Tags: []string{"sql", "postgresql"}, Subcategories: []domain.Category{
					{ID: "postgres", Label: "PostgreSQL", Tags: []string{"postgresql"}},
				}},
				{ID: "nosql", Label: "NoSQL", Tags: []string{"nosql", "mongodb"}},
			},
		},
		{ID: "cicd", Label: "CI/CD", Tags: []string{"pipeline", "tekton"}},
	}
}

func ids(nodes []*domain.Category) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}
