package models

import "strings"

// CategoryLabels maps category slugs to their display labels.
var CategoryLabels = map[string]string{
	"philosophy_ethics":          "Philosophy & Ethics",
	"politics_governance":        "Politics & Governance",
	"economics_finance":          "Economics & Finance",
	"science_technology":         "Science & Technology",
	"society_culture":            "Society & Culture",
	"law_justice":                "Law & Justice",
	"health_medicine_bioethics":  "Health, Medicine & Bioethics",
	"environment_sustainability": "Environment & Sustainability",
	"religion_theology":          "Religion, Theology & Spirituality",
	"miscellaneous":              "Miscellaneous",
}

// ValidCategory reports whether slug names a known category.
func ValidCategory(slug string) bool {
	_, ok := CategoryLabels[strings.ToLower(slug)]
	return ok
}

// CategoryLabel returns the display label for a slug, title-casing unknown
// slugs instead of failing so old rows still render.
func CategoryLabel(slug string) string {
	if slug == "" {
		return "Uncategorized"
	}
	lowered := strings.ToLower(slug)
	if label, ok := CategoryLabels[lowered]; ok {
		return label
	}
	parts := strings.Split(lowered, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
