package builder

// FallbackCategorySlug is used when the enrichment category is unknown.
const FallbackCategorySlug = "productivity"

// categoryIDs maps enrichment category slugs to catalog category document
// ids. The ten slugs are fixed; unknown slugs fall back to productivity.
var categoryIDs = map[string]string{
	"productivity":     "category-productivity",
	"coding":           "category-coding",
	"research":         "category-research",
	"content-creation": "category-content-creation",
	"data-analysis":    "category-data-analysis",
	"automation":       "category-automation",
	"communication":    "category-communication",
	"devops":           "category-devops",
	"marketing":        "category-marketing",
	"education":        "category-education",
}

// lookupCategory resolves a category slug to its catalog id. The second
// return value reports whether the slug was known.
func lookupCategory(slug string) (string, bool) {
	if id, ok := categoryIDs[slug]; ok {
		return id, true
	}
	return categoryIDs[FallbackCategorySlug], false
}
